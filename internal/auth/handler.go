package auth

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/2beens/fitnesstracker/internal/telemetry/tracing"
	"github.com/2beens/fitnesstracker/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

type Handler struct {
	sessions    *SessionService
	revocations *RevocationStore
	// nil outside of dev environments
	devIssuer *DevIssuer
	now       func() time.Time
}

func NewHandler(
	sessions *SessionService,
	revocations *RevocationStore,
	devIssuer *DevIssuer,
) *Handler {
	return &Handler{
		sessions:    sessions,
		revocations: revocations,
		devIssuer:   devIssuer,
		now:         time.Now,
	}
}

func (handler *Handler) SetupRoutes(router *mux.Router) {
	router.HandleFunc("/session", handler.handleGetSession).Methods("GET").Name("auth-session")
	router.HandleFunc("/logout", handler.handleLogout).Methods("POST", "OPTIONS").Name("auth-logout")
	if handler.devIssuer != nil {
		router.HandleFunc("/dev/login", handler.handleDevLogin).Methods("POST", "OPTIONS").Name("auth-dev-login")
	}
}

func (handler *Handler) handleGetSession(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "authHandler.session")
	defer span.End()

	session, found := LookupSession(ctx)
	if !found {
		session = handler.sessions.Resolve(ctx, r)
	}

	pkg.WriteJSON(w, session, http.StatusOK)
}

func (handler *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "authHandler.logout")
	defer span.End()

	if r.Method == http.MethodOptions {
		w.Header().Add("Allow", "POST, OPTIONS")
		w.WriteHeader(http.StatusOK)
		return
	}

	token, claims, err := handler.sessions.Claims(ctx, r)
	if err != nil {
		log.Tracef("[failed logout] => %s: %s", r.URL.Path, err)
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	if claims.ExpiresAt != nil {
		if err := handler.revocations.Revoke(ctx, revocationKey(token, claims), claims.ExpiresAt.Time, handler.now()); err != nil {
			log.Errorf("logout for [%s] failed: %s", claims.Subject, err)
			span.RecordError(err)
			http.Error(w, "logout failed", http.StatusInternalServerError)
			return
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     TokenCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	log.Printf("logout for [%s] success", claims.Subject)
	pkg.WriteTextResponseOK(w, "logged-out")
}

func (handler *Handler) handleDevLogin(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "authHandler.devLogin")
	defer span.End()

	if r.Method == http.MethodOptions {
		w.Header().Add("Allow", "POST, OPTIONS")
		w.WriteHeader(http.StatusOK)
		return
	}

	type loginRequest struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}

	var loginReq loginRequest
	if r.Header.Get("Content-Type") == "application/json" {
		if err := json.NewDecoder(r.Body).Decode(&loginReq); err != nil {
			log.Errorf("dev login, unmarshal json params: %s", err)
			http.Error(w, "login failed", http.StatusBadRequest)
			return
		}
	} else {
		if err := r.ParseForm(); err != nil {
			log.Errorf("dev login failed, parse form error: %s", err)
			http.Error(w, "parse form error", http.StatusBadRequest)
			return
		}
		loginReq = loginRequest{
			Username: r.Form.Get("username"),
			Password: r.Form.Get("password"),
		}
	}

	if loginReq.Username == "" {
		http.Error(w, "error, username empty", http.StatusBadRequest)
		return
	}
	if loginReq.Password == "" {
		http.Error(w, "error, password empty", http.StatusBadRequest)
		return
	}

	token, expiresAt, err := handler.devIssuer.Login(loginReq.Username, loginReq.Password, handler.now())
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			log.Tracef("failed dev login attempt for user: %s", loginReq.Username)
			http.Error(w, "error, wrong credentials", http.StatusUnauthorized)
			return
		}
		log.Errorf("dev login failed, generate token error: %s", err)
		http.Error(w, "generate token error", http.StatusInternalServerError)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     TokenCookieName,
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	log.Trace("new dev login success")
	pkg.WriteJSON(w, map[string]any{
		"token":     token,
		"expiresAt": expiresAt,
	}, http.StatusOK)
}
