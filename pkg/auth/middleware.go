package auth

import (
	"net/http"
	"strings"

	apperrors "github.com/chainsafe/ethgas/pkg/app/errors"
	apphttp "github.com/chainsafe/ethgas/pkg/app/http"
)

// RequireAuth returns a middleware enforcing a valid bearer token on
// every request it wraps. A nil validator disables the check, so
// routes can be registered unconditionally.
func RequireAuth(validator *Validator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if validator == nil {
				next.ServeHTTP(w, r)
				return
			}

			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				apphttp.DefaultErrorHandler(w, apperrors.UnAuthorizedError(nil, "missing bearer token"))
				return
			}

			principal, err := validator.ValidateToken(token)
			if err != nil {
				apphttp.DefaultErrorHandler(w, apperrors.UnAuthorizedError(err, "invalid token"))
				return
			}

			next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), principal)))
		})
	}
}
