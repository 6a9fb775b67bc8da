package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/2beens/fitnesstracker/pkg"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const DefaultDevTokenTTL = 12 * time.Hour

var ErrInvalidCredentials = errors.New("wrong credentials")

type Admin struct {
	Username     string
	PasswordHash string
}

// DevIssuer mints identity tokens for a single admin account, so the service
// can be used locally without the identity provider.
type DevIssuer struct {
	admin    *Admin
	secret   []byte
	issuer   string
	audience string
	ttl      time.Duration
}

func NewDevIssuer(admin *Admin, secret, issuer, audience string, ttl time.Duration) *DevIssuer {
	if ttl <= 0 {
		ttl = DefaultDevTokenTTL
	}
	return &DevIssuer{
		admin:    admin,
		secret:   []byte(secret),
		issuer:   issuer,
		audience: audience,
		ttl:      ttl,
	}
}

func (d *DevIssuer) Login(username, password string, now time.Time) (string, time.Time, error) {
	if username != d.admin.Username || !pkg.CheckPasswordHash(password, d.admin.PasswordHash) {
		return "", time.Time{}, ErrInvalidCredentials
	}

	expiresAt := now.Add(d.ttl)
	claims := &Claims{
		GivenName: username,
		Email:     username + "@localhost",
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    d.issuer,
			Subject:   "dev-" + username,
			Audience:  jwt.ClaimStrings{d.audience},
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(d.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}

	return token, expiresAt, nil
}
