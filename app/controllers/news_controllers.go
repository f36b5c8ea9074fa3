package controllers

import (
	"net/http"

	"github.com/bazinga/storefront/app/services"
	"github.com/bazinga/storefront/pkg/ctx"
)

type NewsController struct {
	service *services.NewsService
}

func NewNewsController(service *services.NewsService) *NewsController {
	return &NewsController{service: service}
}

func (n *NewsController) Index(c *ctx.Context) {
	posts, err := n.service.List(c.Context())
	if err != nil {
		c.Fail(err)
		return
	}
	c.JSON(http.StatusOK, newsList(posts))
}

func (n *NewsController) Store(c *ctx.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	var in services.NewsInput
	if !c.BindJSON(&in) {
		return
	}
	post, err := n.service.Create(c.Context(), user, in)
	if err != nil {
		c.Fail(err)
		return
	}
	c.JSON(http.StatusCreated, newsResponse(post))
}
