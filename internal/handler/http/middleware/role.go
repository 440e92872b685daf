package middleware

import (
	"net/http"

	"github.com/cmlabs-hris/resto-settlement-go/internal/domain/auth"
	"github.com/cmlabs-hris/resto-settlement-go/internal/handler/http/response"
	"github.com/go-chi/jwtauth/v5"
)

// RequireManager requires manager role
func RequireManager(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, claims, err := jwtauth.FromContext(r.Context())
		if err != nil {
			response.HandleError(w, auth.ErrManagerAccessRequired)
			return
		}

		roleStr, ok := claims[auth.ClaimRole].(string)
		if !ok {
			response.HandleError(w, auth.ErrManagerAccessRequired)
			return
		}

		if auth.Role(roleStr) != auth.RoleManager {
			response.HandleError(w, auth.ErrManagerAccessRequired)
			return
		}

		next.ServeHTTP(w, r)
	})
}
