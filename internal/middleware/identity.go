package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/cinechat/backend/internal/service/auth"
	"github.com/cinechat/backend/pkg/utils"
)

// AuthCookie is the cookie carrying the signed identity token.
const AuthCookie = "auth"

type identityKey struct{}

// Verifier validates a raw token into an identity. *auth.Service
// satisfies it.
type Verifier interface {
	VerifyToken(raw string) (*auth.Identity, error)
}

// TokenFromRequest extracts the raw token from the auth cookie or a
// Bearer authorization header, cookie first.
func TokenFromRequest(r *http.Request) string {
	if c, err := r.Cookie(AuthCookie); err == nil && c.Value != "" {
		return c.Value
	}
	h := r.Header.Get("Authorization")
	if strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	return ""
}

// RequireAuth rejects requests without a valid identity and stores the
// verified identity in the request context for downstream handlers.
func RequireAuth(verifier Verifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := TokenFromRequest(r)
			if raw == "" {
				utils.RespondFail(w, http.StatusUnauthorized, "UNAUTHORIZED", "Not authorized, no token")
				return
			}

			id, err := verifier.VerifyToken(raw)
			if err != nil {
				msg := "Not authorized, token failed"
				if errors.Is(err, auth.ErrTokenExpired) {
					msg = "Token expired"
				}
				utils.RespondFail(w, http.StatusUnauthorized, "UNAUTHORIZED", msg)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
		})
	}
}

// WithIdentity returns a context carrying the identity.
func WithIdentity(ctx context.Context, id *auth.Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// IdentityFrom retrieves the authenticated identity, if any.
func IdentityFrom(ctx context.Context) (*auth.Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(*auth.Identity)
	return id, ok && id != nil
}
