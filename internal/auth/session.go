package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/2beens/fitnesstracker/internal/telemetry/metrics"
	"github.com/2beens/fitnesstracker/internal/telemetry/tracing"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

const (
	failureInvalidToken    = "invalid_token"
	failureRevoked         = "revoked"
	failureRevocationCheck = "revocation_check"
)

var errTokenRevoked = errors.New("token revoked")

type profileFetcher interface {
	Fetch(ctx context.Context, token string, claims *Claims) *User
}

type revocationChecker interface {
	IsRevoked(ctx context.Context, tokenKey string) (bool, error)
}

// SessionService resolves the identity behind a request.
type SessionService struct {
	verifier       *TokenVerifier
	profiles       profileFetcher
	revocations    revocationChecker
	metricsManager *metrics.Manager
}

func NewSessionService(
	verifier *TokenVerifier,
	profiles profileFetcher,
	revocations revocationChecker,
	metricsManager *metrics.Manager,
) *SessionService {
	return &SessionService{
		verifier:       verifier,
		profiles:       profiles,
		revocations:    revocations,
		metricsManager: metricsManager,
	}
}

// Claims returns the raw token of the request with its verified claims.
// A revoked token is reported as unauthenticated.
func (s *SessionService) Claims(ctx context.Context, r *http.Request) (string, *Claims, error) {
	token := TokenFromRequest(r)
	if token == "" {
		return "", nil, ErrUnauthenticated
	}

	claims, err := s.verifier.Verify(token)
	if err != nil {
		s.countFailure(failureInvalidToken)
		return "", nil, err
	}

	revoked, err := s.revocations.IsRevoked(ctx, revocationKey(token, claims))
	if err != nil {
		s.countFailure(failureRevocationCheck)
		return "", nil, fmt.Errorf("%w: revocation check: %w", ErrUnauthenticated, err)
	}
	if revoked {
		s.countFailure(failureRevoked)
		return "", nil, fmt.Errorf("%w: %w", ErrUnauthenticated, errTokenRevoked)
	}

	return token, claims, nil
}

// Resolve never fails: any problem with the request identity yields an anonymous session.
func (s *SessionService) Resolve(ctx context.Context, r *http.Request) *Session {
	ctx, span := tracing.GlobalTracer.Start(ctx, "auth.session.resolve")
	defer span.End()

	token, claims, err := s.Claims(ctx, r)
	if err != nil {
		if TokenFromRequest(r) != "" {
			log.Debugf("resolve session [%s]: %s", r.URL.Path, err)
		}
		span.SetAttributes(attribute.Bool("auth.authenticated", false))
		return Anonymous()
	}

	user := s.profiles.Fetch(ctx, token, claims)
	span.SetAttributes(
		attribute.Bool("auth.authenticated", true),
		attribute.String("auth.user_id", user.ID),
	)

	return Authenticated(user)
}

func (s *SessionService) countFailure(reason string) {
	if s.metricsManager == nil {
		return
	}
	s.metricsManager.CounterAuthFailures.WithLabelValues(reason).Inc()
}
