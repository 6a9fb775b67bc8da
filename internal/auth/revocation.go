package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/go-redis/redis/v8"
)

const revokedKeyPrefix = "fitness-revoked-token||"

// RevocationStore keeps logged out tokens until they would expire anyway.
type RevocationStore struct {
	redisClient *redis.Client
}

func NewRevocationStore(redisClient *redis.Client) *RevocationStore {
	return &RevocationStore{
		redisClient: redisClient,
	}
}

func (s *RevocationStore) Revoke(ctx context.Context, tokenKey string, expiresAt, now time.Time) error {
	ttl := expiresAt.Sub(now)
	if ttl <= 0 {
		// expired already
		return nil
	}
	return s.redisClient.Set(ctx, revokedKeyPrefix+tokenKey, now.Unix(), ttl).Err()
}

func (s *RevocationStore) IsRevoked(ctx context.Context, tokenKey string) (bool, error) {
	count, err := s.redisClient.Exists(ctx, revokedKeyPrefix+tokenKey).Result()
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// revocationKey identifies a token by its ID claim, or by its hash if it has none.
func revocationKey(token string, claims *Claims) string {
	if claims.ID != "" {
		return claims.ID
	}
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
