package controllers

import (
	"net/http"

	"github.com/bazinga/storefront/app/models"
	"github.com/bazinga/storefront/pkg/ctx"
	"github.com/bazinga/storefront/pkg/middleware"
)

// currentUser returns the identity placed on the request by the auth
// middleware. A route mounted without it gets a 401.
func currentUser(c *ctx.Context) (*models.User, bool) {
	id, ok := middleware.IdentityFrom(c.Context())
	if !ok {
		c.Error(http.StatusUnauthorized, "Unauthorized")
		return nil, false
	}
	user, ok := id.(*models.User)
	if !ok {
		c.Error(http.StatusUnauthorized, "Unauthorized")
		return nil, false
	}
	return user, true
}
