package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"flightfinder/pkg/token"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGuard(t *testing.T) (*Guard, *token.Issuer) {
	t.Helper()
	issuer := token.NewIssuer("guard-test-secret", time.Hour)
	return NewGuard(issuer), issuer
}

func noopHandle(captured *Identity) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		if identity, ok := IdentityFromContext(r.Context()); ok && captured != nil {
			*captured = identity
		}
		w.WriteHeader(http.StatusOK)
	}
}

func TestAuthenticatedMissingToken(t *testing.T) {
	guard, _ := newTestGuard(t)

	handle := guard.Authenticated(noopHandle(nil))

	for _, header := range []string{"", "Token abc", "Bearer"} {
		r := httptest.NewRequest(http.MethodGet, "/api/bookings", nil)
		if header != "" {
			r.Header.Set("Authorization", header)
		}
		w := httptest.NewRecorder()
		handle(w, r, nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, "header=%q", header)
	}
}

func TestAuthenticatedInvalidToken(t *testing.T) {
	guard, _ := newTestGuard(t)

	handle := guard.Authenticated(noopHandle(nil))

	r := httptest.NewRequest(http.MethodGet, "/api/bookings", nil)
	r.Header.Set("Authorization", "Bearer not.a.token")
	w := httptest.NewRecorder()
	handle(w, r, nil)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthenticatedAttachesIdentity(t *testing.T) {
	guard, issuer := newTestGuard(t)

	signed, _, err := issuer.Issue("64f1b0c2e4a5d6b7c8d9e0f1", "traveler")
	require.NoError(t, err)

	var identity Identity
	handle := guard.Authenticated(noopHandle(&identity))

	r := httptest.NewRequest(http.MethodGet, "/api/bookings", nil)
	r.Header.Set("Authorization", "Bearer "+signed)
	w := httptest.NewRecorder()
	handle(w, r, nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "64f1b0c2e4a5d6b7c8d9e0f1", identity.UserID)
	assert.Equal(t, "traveler", identity.Role)
}

func TestRequireRole(t *testing.T) {
	guard, issuer := newTestGuard(t)

	operatorToken, _, err := issuer.Issue("64f1b0c2e4a5d6b7c8d9e0f1", "operator")
	require.NoError(t, err)
	travelerToken, _, err := issuer.Issue("64f1b0c2e4a5d6b7c8d9e0f2", "traveler")
	require.NoError(t, err)

	handle := guard.RequireRole(noopHandle(nil), "operator")

	tests := []struct {
		name   string
		token  string
		status int
	}{
		{"operator allowed", operatorToken, http.StatusOK},
		{"traveler forbidden", travelerToken, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodPost, "/api/flights", nil)
			r.Header.Set("Authorization", "Bearer "+tt.token)
			w := httptest.NewRecorder()
			handle(w, r, nil)
			assert.Equal(t, tt.status, w.Code)
		})
	}
}

func TestRequireRoleUnauthenticated(t *testing.T) {
	guard, _ := newTestGuard(t)

	handle := guard.RequireRole(noopHandle(nil), "admin")

	r := httptest.NewRequest(http.MethodGet, "/api/admin/bookings", nil)
	w := httptest.NewRecorder()
	handle(w, r, nil)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
