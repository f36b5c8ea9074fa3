package controllers

import (
	"net/http"

	"github.com/bazinga/storefront/app/services"
	"github.com/bazinga/storefront/pkg/ctx"
)

type UserController struct {
	service *services.UserService
}

func NewUserController(service *services.UserService) *UserController {
	return &UserController{service: service}
}

// Index lists users, optionally filtered by ?query=.
func (u *UserController) Index(c *ctx.Context) {
	users, err := u.service.List(c.Context(), c.Query("query"))
	if err != nil {
		c.Fail(err)
		return
	}
	c.JSON(http.StatusOK, userList(users))
}

func (u *UserController) Store(c *ctx.Context) {
	var in services.AdminUserInput
	if !c.BindJSON(&in) {
		return
	}
	user, err := u.service.Create(c.Context(), in)
	if err != nil {
		c.Fail(err)
		return
	}
	c.JSON(http.StatusCreated, userResponse(user))
}

func (u *UserController) Update(c *ctx.Context) {
	id, ok := c.ParamUint("id")
	if !ok {
		return
	}
	var in services.AdminUserInput
	if !c.BindJSON(&in) {
		return
	}
	user, err := u.service.Update(c.Context(), id, in)
	if err != nil {
		c.Fail(err)
		return
	}
	c.JSON(http.StatusOK, userResponse(user))
}
