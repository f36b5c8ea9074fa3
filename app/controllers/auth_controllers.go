package controllers

import (
	"net/http"

	"github.com/bazinga/storefront/app/services"
	"github.com/bazinga/storefront/pkg/ctx"
)

type AuthController struct {
	service *services.AuthService
}

func NewAuthController(service *services.AuthService) *AuthController {
	return &AuthController{service: service}
}

func (a *AuthController) Register(c *ctx.Context) {
	var in services.RegisterInput
	if !c.BindJSON(&in) {
		return
	}

	res, err := a.service.Register(c.Context(), in)
	if err != nil {
		c.Fail(err)
		return
	}
	c.JSON(http.StatusOK, authResponse(res.Token, res.User))
}

func (a *AuthController) Login(c *ctx.Context) {
	var in services.LoginInput
	if !c.BindJSON(&in) {
		return
	}

	res, err := a.service.Login(c.Context(), in)
	if err != nil {
		c.Fail(err)
		return
	}
	c.JSON(http.StatusOK, authResponse(res.Token, res.User))
}

// Me returns the caller's profile.
func (a *AuthController) Me(c *ctx.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, userResponse(user))
}
