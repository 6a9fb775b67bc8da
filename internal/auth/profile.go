package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/2beens/fitnesstracker/internal/telemetry/tracing"

	"github.com/coocood/freecache"
	log "github.com/sirupsen/logrus"
)

const (
	profilePath        = "/oauth2/v2/user_profile"
	profileCacheExpire = 10 * 60 // seconds
)

// ProfileFetcher gets the user profile from the identity provider.
type ProfileFetcher struct {
	cache      *freecache.Cache
	profileURL string
	httpClient *http.Client
}

func NewProfileFetcher(issuer string, httpClient *http.Client) *ProfileFetcher {
	megabyte := 1024 * 1024
	return &ProfileFetcher{
		cache:      freecache.NewCache(5 * megabyte),
		profileURL: strings.TrimSuffix(issuer, "/") + profilePath,
		httpClient: httpClient,
	}
}

// Fetch never fails: if the token already carries the profile, or the provider
// cannot be reached, the user is built from the token claims.
func (p *ProfileFetcher) Fetch(ctx context.Context, token string, claims *Claims) *User {
	ctx, span := tracing.GlobalTracer.Start(ctx, "auth.profile.fetch")
	defer span.End()

	if claims.HasProfile() {
		return claims.User()
	}

	cacheKey := []byte("profile::" + claims.Subject)
	if profileBytes, err := p.cache.Get(cacheKey); err == nil {
		user := &User{}
		if err := json.Unmarshal(profileBytes, user); err == nil {
			return user
		} else {
			log.Errorf("unmarshal cached profile of %s: %s", claims.Subject, err)
		}
	}

	user, err := p.fetch(ctx, token)
	if err != nil {
		log.Errorf("fetch profile of %s: %s", claims.Subject, err)
		span.RecordError(err)
		return claims.User()
	}
	user.ID = claims.Subject

	if profileBytes, err := json.Marshal(user); err != nil {
		log.Errorf("marshal profile of %s: %s", claims.Subject, err)
	} else if err := p.cache.Set(cacheKey, profileBytes, profileCacheExpire); err != nil {
		log.Errorf("cache profile of %s: %s", claims.Subject, err)
	}

	return user
}

func (p *ProfileFetcher) fetch(ctx context.Context, token string) (*User, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.profileURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http client do: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("profile endpoint returned status %d", resp.StatusCode)
	}

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read profile response: %w", err)
	}

	user := &User{}
	if err := json.Unmarshal(respBytes, user); err != nil {
		return nil, fmt.Errorf("unmarshal profile response: %w", err)
	}

	return user, nil
}
