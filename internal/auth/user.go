package auth

import "context"

type User struct {
	ID         string `json:"id"`
	GivenName  string `json:"given_name"`
	FamilyName string `json:"family_name"`
	Email      string `json:"email"`
	Picture    string `json:"picture"`
}

type Session struct {
	IsUserAuthenticated bool  `json:"isUserAuthenticated"`
	User                *User `json:"user"`
}

func Anonymous() *Session {
	return &Session{
		IsUserAuthenticated: false,
		User:                nil,
	}
}

func Authenticated(user *User) *Session {
	return &Session{
		IsUserAuthenticated: true,
		User:                user,
	}
}

// UserID returns an empty string for anonymous sessions.
func (s *Session) UserID() string {
	if s == nil || !s.IsUserAuthenticated || s.User == nil {
		return ""
	}
	return s.User.ID
}

type sessionCtxKey struct{}

func WithSession(ctx context.Context, session *Session) context.Context {
	return context.WithValue(ctx, sessionCtxKey{}, session)
}

// SessionFromContext returns the session stored by WithSession, or an anonymous one.
func SessionFromContext(ctx context.Context) *Session {
	if session, found := LookupSession(ctx); found {
		return session
	}
	return Anonymous()
}

// LookupSession reports whether a session was stored in the context.
func LookupSession(ctx context.Context) (*Session, bool) {
	session, ok := ctx.Value(sessionCtxKey{}).(*Session)
	return session, ok && session != nil
}
