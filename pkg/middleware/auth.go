package middleware

import (
	"context"
	"net/http"
	"strings"

	apperrors "flightfinder/pkg/errors"
	httputil "flightfinder/pkg/http"
	"flightfinder/pkg/token"

	"github.com/julienschmidt/httprouter"
)

const identityKey contextKey = "identity"

// Identity is the verified {userId, role} pair a bearer token resolves to.
type Identity struct {
	UserID string
	Role   string
}

// Guard wraps protected routes. Authentication resolves identity once;
// role requirements are declared per route instead of re-checked inline in
// every handler.
type Guard struct {
	verifier *token.Issuer
}

func NewGuard(verifier *token.Issuer) *Guard {
	return &Guard{verifier: verifier}
}

// Authenticated verifies the bearer token and attaches the identity to the
// request context. Missing, malformed, invalid and expired tokens all yield
// the same 401.
func (g *Guard) Authenticated(next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		identity, err := g.resolve(r)
		if err != nil {
			_ = httputil.WriteError(w, err)
			return
		}

		ctx := context.WithValue(r.Context(), identityKey, identity)
		next(w, r.WithContext(ctx), ps)
	}
}

// RequireRole is Authenticated plus a role-set check; 403 on mismatch.
func (g *Guard) RequireRole(next httprouter.Handle, roles ...string) httprouter.Handle {
	allowed := make(map[string]bool, len(roles))
	for _, role := range roles {
		allowed[role] = true
	}

	return g.Authenticated(func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		identity, _ := IdentityFromContext(r.Context())
		if !allowed[identity.Role] {
			_ = httputil.WriteError(w, apperrors.Forbidden("Access denied. Insufficient role."))
			return
		}
		next(w, r, ps)
	})
}

func (g *Guard) resolve(r *http.Request) (Identity, error) {
	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return Identity{}, apperrors.Unauthorized("Missing bearer token")
	}

	claims, err := g.verifier.Verify(strings.TrimPrefix(header, "Bearer "))
	if err != nil {
		return Identity{}, err
	}

	return Identity{UserID: claims.UserID, Role: claims.Role}, nil
}

func IdentityFromContext(ctx context.Context) (Identity, bool) {
	identity, ok := ctx.Value(identityKey).(Identity)
	return identity, ok
}
