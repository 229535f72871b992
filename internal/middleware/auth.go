package middleware

import (
	"context"
	"net/http"
	"strings"

	"message-api/internal/auth"
	"message-api/internal/response"
)

type principalKey struct{}

// TokenVerifier checks a bearer token and returns the principal it names.
type TokenVerifier interface {
	Verify(token string) (*auth.Principal, error)
}

// Authenticate rejects requests without a valid bearer token and stores the
// verified principal in the request context.
func Authenticate(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				response.RespondError(w, http.StatusUnauthorized, "missing bearer token")
				return
			}

			principal, err := verifier.Verify(token)
			if err != nil {
				response.RespondError(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}

			ctx := context.WithValue(r.Context(), principalKey{}, principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// PrincipalFrom returns the principal stored by Authenticate, or nil on
// unauthenticated routes.
func PrincipalFrom(ctx context.Context) *auth.Principal {
	p, _ := ctx.Value(principalKey{}).(*auth.Principal)
	return p
}
