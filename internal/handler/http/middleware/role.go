package middleware

import (
	"net/http"

	"github.com/aurelhr/payroll-backend-go/internal/domain/user"
	"github.com/aurelhr/payroll-backend-go/internal/handler/http/response"
	"github.com/go-chi/jwtauth/v5"
)

// RequireHR restricts a route to HR accounts.
func RequireHR(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, claims, err := jwtauth.FromContext(r.Context())
		if err != nil {
			response.HandleError(w, user.ErrHRPrivilegeNeeded)
			return
		}

		role, ok := claims["role"].(string)
		if !ok {
			response.HandleError(w, user.ErrHRPrivilegeNeeded)
			return
		}

		if role != string(user.RoleHR) {
			response.HandleError(w, user.ErrHRPrivilegeNeeded)
			return
		}

		next.ServeHTTP(w, r)
	})
}
