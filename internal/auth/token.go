package auth

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	TokenCookieName = "id_token"
	tokenLeeway     = 30 * time.Second
)

var ErrUnauthenticated = errors.New("unauthenticated")

// Claims of an identity token. Profile claims are optional, the provider may
// only carry them in the user profile endpoint.
type Claims struct {
	GivenName  string `json:"given_name,omitempty"`
	FamilyName string `json:"family_name,omitempty"`
	Email      string `json:"email,omitempty"`
	Picture    string `json:"picture,omitempty"`
	jwt.RegisteredClaims
}

func (c *Claims) HasProfile() bool {
	return c.GivenName != "" || c.FamilyName != "" || c.Email != ""
}

func (c *Claims) User() *User {
	return &User{
		ID:         c.Subject,
		GivenName:  c.GivenName,
		FamilyName: c.FamilyName,
		Email:      c.Email,
		Picture:    c.Picture,
	}
}

type TokenVerifier struct {
	secret   []byte
	issuer   string
	audience string
	now      func() time.Time
}

func NewTokenVerifier(secret, issuer, audience string) *TokenVerifier {
	return &TokenVerifier{
		secret:   []byte(secret),
		issuer:   issuer,
		audience: audience,
		now:      time.Now,
	}
}

func (v *TokenVerifier) Verify(token string) (*Claims, error) {
	if token == "" {
		return nil, ErrUnauthenticated
	}

	claims := &Claims{}
	_, err := jwt.ParseWithClaims(
		token,
		claims,
		func(t *jwt.Token) (any, error) {
			return v.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(v.issuer),
		jwt.WithAudience(v.audience),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(tokenLeeway),
		jwt.WithTimeFunc(v.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnauthenticated, err)
	}

	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: token without subject", ErrUnauthenticated)
	}

	return claims, nil
}

// TokenFromRequest takes the bearer token from the Authorization header,
// falling back to the identity token cookie.
func TokenFromRequest(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if token, found := strings.CutPrefix(authHeader, "Bearer "); found {
		return strings.TrimSpace(token)
	}
	if cookie, err := r.Cookie(TokenCookieName); err == nil {
		return cookie.Value
	}
	return ""
}
