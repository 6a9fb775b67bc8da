package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestProfileFetcher_Fetch(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.Equal(t, "/oauth2/v2/user_profile", r.URL.Path)
		assert.Equal(t, "Bearer tkn", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"provider-id","given_name":"Ana","family_name":"Kovač","email":"ana@example.com","picture":"https://img/ana.png"}`))
	}))
	defer server.Close()

	fetcher := NewProfileFetcher(server.URL, server.Client())
	claims := newTestClaims("user-1", time.Now())

	expected := &User{
		ID:         "user-1",
		GivenName:  "Ana",
		FamilyName: "Kovač",
		Email:      "ana@example.com",
		Picture:    "https://img/ana.png",
	}
	assert.Equal(t, expected, fetcher.Fetch(context.Background(), "tkn", claims))
	assert.Equal(t, expected, fetcher.Fetch(context.Background(), "tkn", claims))
	assert.Equal(t, int32(1), calls.Load(), "second fetch served from cache")
}

func TestProfileFetcher_Fetch_ProfileInClaims(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer server.Close()

	fetcher := NewProfileFetcher(server.URL, server.Client())
	claims := newTestClaims("user-1", time.Now())
	claims.GivenName = "Ana"

	user := fetcher.Fetch(context.Background(), "tkn", claims)
	assert.Equal(t, &User{ID: "user-1", GivenName: "Ana"}, user)
	assert.Zero(t, calls.Load())
}

func TestProfileFetcher_Fetch_ProviderDown(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusBadGateway)
	}))
	defer server.Close()

	fetcher := NewProfileFetcher(server.URL, server.Client())
	user := fetcher.Fetch(context.Background(), "tkn", newTestClaims("user-1", time.Now()))
	assert.Equal(t, &User{ID: "user-1"}, user)
}
