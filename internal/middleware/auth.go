package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/2beens/fitnesstracker/internal/auth"
	"github.com/2beens/fitnesstracker/internal/telemetry/tracing"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/codes"
)

//go:generate mockgen -source=$GOFILE -destination=auth_mocks_test.go -package=middleware_test

type sessionResolver interface {
	Resolve(ctx context.Context, r *http.Request) *auth.Session
}

type AuthMiddlewareHandler struct {
	sessions sessionResolver
	// where unauthenticated dashboard visitors are sent, 401 if empty
	loginURL               string
	protectedPaths         map[string]bool
	protectedPathsPrefixes []string
}

func NewAuthMiddlewareHandler(
	sessions sessionResolver,
	loginURL string,
) *AuthMiddlewareHandler {
	return &AuthMiddlewareHandler{
		sessions: sessions,
		loginURL: loginURL,
		protectedPaths: map[string]bool{
			"/dashboard": true,
		},
		protectedPathsPrefixes: []string{
			"/dashboard/",
			"/api/fitness/",
		},
	}
}

func (h *AuthMiddlewareHandler) pathIsProtected(path string) bool {
	if h.protectedPaths[path] {
		return true
	}
	for _, prefix := range h.protectedPathsPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

func isDashboardPath(path string) bool {
	return path == "/dashboard" || strings.HasPrefix(path, "/dashboard/")
}

// AuthCheck resolves the session of every request and stores it in the request
// context. Unauthenticated requests to protected paths are rejected.
func (h *AuthMiddlewareHandler) AuthCheck() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, span := tracing.GlobalTracer.Start(r.Context(), "middleware.auth")
			defer span.End()

			if r.Method == http.MethodOptions {
				w.Header().Add("Allow", "GET, POST, OPTIONS")
				w.WriteHeader(http.StatusOK)
				span.SetStatus(codes.Ok, "options-ok")
				return
			}

			session := h.sessions.Resolve(ctx, r)
			r = r.WithContext(auth.WithSession(r.Context(), session))

			if session.IsUserAuthenticated || !h.pathIsProtected(r.URL.Path) {
				span.SetStatus(codes.Ok, "ok")
				next.ServeHTTP(w, r)
				return
			}

			if isDashboardPath(r.URL.Path) && h.loginURL != "" {
				log.Tracef("[unauthenticated] [auth middleware] redirect to login => %s", r.URL.Path)
				span.SetStatus(codes.Error, "login-redirect")
				http.Redirect(w, r, h.loginURL, http.StatusFound)
				return
			}

			log.Tracef("[unauthenticated] [auth middleware] unauthorized => %s", r.URL.Path)
			http.Error(w, "no can do", http.StatusUnauthorized)
			span.SetStatus(codes.Error, "not-authenticated")
		})
	}
}
