package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"eventhub/internal/delivery/http/controllers"
	"eventhub/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubVerifier struct {
	userID string
	role   string
	err    error
}

func (s stubVerifier) Verify(token string) (string, string, error) {
	return s.userID, s.role, s.err
}

func newTestRouter(verifier domain.TokenVerifier) *http.ServeMux {
	// Controllers are constructed with nil services; these tests only cover
	// routes where middleware rejects the request before any handler runs.
	return NewRouter(
		verifier,
		controllers.NewAuthController(nil, nil),
		controllers.NewEventController(nil, nil),
		controllers.NewRegistrationController(nil, nil),
	)
}

func TestRouter_Health(t *testing.T) {
	mux := newTestRouter(stubVerifier{})
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rr := httptest.NewRecorder()

	mux.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rr.Body.String())
}

func TestRouter_AuthGating(t *testing.T) {
	tests := []struct {
		name       string
		method     string
		path       string
		token      string
		role       string
		wantStatus int
	}{
		{
			name:       "create event without token",
			method:     http.MethodPost,
			path:       "/events/create",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "create event as plain user",
			method:     http.MethodPost,
			path:       "/events/create",
			token:      "tok",
			role:       domain.RoleUser,
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "hosted listing without token",
			method:     http.MethodGet,
			path:       "/events/hosted",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "update event without token",
			method:     http.MethodPut,
			path:       "/events/ev-1",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "delete event without token",
			method:     http.MethodDelete,
			path:       "/events/ev-1",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "event roster without token",
			method:     http.MethodGet,
			path:       "/register/event/ev-1",
			wantStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mux := newTestRouter(stubVerifier{userID: "u-1", role: tt.role})
			req := httptest.NewRequest(tt.method, tt.path, nil)
			if tt.token != "" {
				req.Header.Set("Authorization", "Bearer "+tt.token)
			}
			rr := httptest.NewRecorder()

			mux.ServeHTTP(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code, rr.Body.String())
		})
	}
}
