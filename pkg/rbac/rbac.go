// Package rbac provides role-based access control middleware.
package rbac

import (
	"net/http"

	"github.com/bazinga/storefront/pkg/middleware"
	"github.com/bazinga/storefront/pkg/response"
)

// HasRole allows only identities whose role is one of roles. It must run
// after middleware.Auth.
func HasRole(roles ...string) func(http.Handler) http.Handler {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := middleware.IdentityFrom(r.Context())
			if !ok {
				response.Unauthorized(w)
				return
			}
			if !allowed[id.RoleName()] {
				response.Forbidden(w)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
