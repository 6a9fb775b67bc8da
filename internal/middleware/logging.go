package middleware

import (
	"net/http"
	"time"

	"github.com/2beens/fitnesstracker/internal/auth"
	"github.com/2beens/fitnesstracker/pkg"

	log "github.com/sirupsen/logrus"
)

// LogRequest has to run after the auth middleware to see the user of the request.
func LogRequest() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			next.ServeHTTP(w, r)
			log.WithFields(log.Fields{
				"method":   r.Method,
				"path":     r.URL.Path,
				"user":     auth.SessionFromContext(r.Context()).UserID(),
				"addr":     pkg.ClientAddr(r),
				"ua":       r.Header.Get("User-Agent"),
				"duration": time.Since(start).String(),
			}).Trace("request served")
		})
	}
}
