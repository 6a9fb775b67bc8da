package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/2beens/fitnesstracker/internal/auth"
	"github.com/2beens/fitnesstracker/internal/middleware"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestAuthMiddlewareHandler_AuthCheck(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockSessions := NewMocksessionResolver(ctrl)
	authMiddleware := middleware.NewAuthMiddlewareHandler(mockSessions, "https://id.example.com/login")

	user := &auth.User{ID: "user-1"}

	testCases := []struct {
		name               string
		path               string
		method             string
		session            *auth.Session
		expectedStatusCode int
		expectedLocation   string
		expectNextCalled   bool
	}{
		{
			name:               "PublicPathAnonymous",
			path:               "/api/auth/session",
			method:             "GET",
			session:            auth.Anonymous(),
			expectedStatusCode: http.StatusOK,
			expectNextCalled:   true,
		},
		{
			name:               "FitnessApiAnonymous",
			path:               "/api/fitness/track",
			method:             "POST",
			session:            auth.Anonymous(),
			expectedStatusCode: http.StatusUnauthorized,
		},
		{
			name:               "FitnessApiAuthenticated",
			path:               "/api/fitness/track",
			method:             "POST",
			session:            auth.Authenticated(user),
			expectedStatusCode: http.StatusOK,
			expectNextCalled:   true,
		},
		{
			name:               "DashboardAnonymous",
			path:               "/dashboard",
			method:             "GET",
			session:            auth.Anonymous(),
			expectedStatusCode: http.StatusFound,
			expectedLocation:   "https://id.example.com/login",
		},
		{
			name:               "DashboardSubpathAnonymous",
			path:               "/dashboard/summary",
			method:             "GET",
			session:            auth.Anonymous(),
			expectedStatusCode: http.StatusFound,
			expectedLocation:   "https://id.example.com/login",
		},
		{
			name:               "DashboardAuthenticated",
			path:               "/dashboard/summary",
			method:             "GET",
			session:            auth.Authenticated(user),
			expectedStatusCode: http.StatusOK,
			expectNextCalled:   true,
		},
		{
			name:               "DashboardLookalikeIsPublic",
			path:               "/dashboards",
			method:             "GET",
			session:            auth.Anonymous(),
			expectedStatusCode: http.StatusOK,
			expectNextCalled:   true,
		},
		{
			name:               "Options",
			path:               "/api/fitness/track",
			method:             "OPTIONS",
			expectedStatusCode: http.StatusOK,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req, err := http.NewRequest(tc.method, tc.path, nil)
			require.NoError(t, err)

			if tc.session != nil {
				mockSessions.EXPECT().
					Resolve(gomock.Any(), gomock.Any()).
					Return(tc.session).Times(1)
			}

			nextCalled := false
			var nextSession *auth.Session
			handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				nextCalled = true
				nextSession = auth.SessionFromContext(r.Context())
			})

			rr := httptest.NewRecorder()
			authMiddleware.AuthCheck()(handler).ServeHTTP(rr, req)

			assert.Equal(t, tc.expectedStatusCode, rr.Code)
			assert.Equal(t, tc.expectNextCalled, nextCalled)
			if tc.expectedLocation != "" {
				assert.Equal(t, tc.expectedLocation, rr.Header().Get("Location"))
			}
			if tc.expectNextCalled {
				assert.Same(t, tc.session, nextSession)
			}
		})
	}
}

func TestAuthMiddlewareHandler_AuthCheck_NoLoginURL(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockSessions := NewMocksessionResolver(ctrl)
	authMiddleware := middleware.NewAuthMiddlewareHandler(mockSessions, "")

	mockSessions.EXPECT().Resolve(gomock.Any(), gomock.Any()).Return(auth.Anonymous())

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	rr := httptest.NewRecorder()
	authMiddleware.AuthCheck()(http.NotFoundHandler()).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, "no can do\n", rr.Body.String())
}
