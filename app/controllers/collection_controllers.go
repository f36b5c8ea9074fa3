package controllers

import (
	"net/http"

	"github.com/bazinga/storefront/app/models"
	"github.com/bazinga/storefront/app/services"
	"github.com/bazinga/storefront/pkg/ctx"
)

// CartController answers every cart mutation with the whole cart.
type CartController struct {
	service *services.CartService
}

func NewCartController(service *services.CartService) *CartController {
	return &CartController{service: service}
}

func (cc *CartController) Index(c *ctx.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	cc.reply(c)(cc.service.List(c.Context(), user))
}

func (cc *CartController) Add(c *ctx.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	var in services.CartAddInput
	if !c.BindJSON(&in) {
		return
	}
	cc.reply(c)(cc.service.Add(c.Context(), user, in))
}

func (cc *CartController) Update(c *ctx.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	var in services.CartUpdateInput
	if !c.BindJSON(&in) {
		return
	}
	cc.reply(c)(cc.service.Update(c.Context(), user, in))
}

func (cc *CartController) Remove(c *ctx.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := c.ParamUint("cartItemId")
	if !ok {
		return
	}
	cc.reply(c)(cc.service.Remove(c.Context(), user, id))
}

func (cc *CartController) Clear(c *ctx.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	cc.reply(c)(cc.service.Clear(c.Context(), user))
}

func (cc *CartController) reply(c *ctx.Context) func([]models.LineItem, error) {
	return func(items []models.LineItem, err error) {
		if err != nil {
			c.Fail(err)
			return
		}
		c.JSON(http.StatusOK, cartLines(items))
	}
}

type WishlistController struct {
	service *services.WishlistService
}

func NewWishlistController(service *services.WishlistService) *WishlistController {
	return &WishlistController{service: service}
}

func (w *WishlistController) Index(c *ctx.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	replyCollection(c)(w.service.List(c.Context(), user))
}

func (w *WishlistController) Add(c *ctx.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	var in services.ComicRef
	if !c.BindJSON(&in) {
		return
	}
	replyCollection(c)(w.service.Add(c.Context(), user, in.ComicID))
}

func (w *WishlistController) Remove(c *ctx.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	comicID, ok := c.ParamUint("comicId")
	if !ok {
		return
	}
	replyCollection(c)(w.service.Remove(c.Context(), user, comicID))
}

type LibraryController struct {
	service *services.LibraryService
}

func NewLibraryController(service *services.LibraryService) *LibraryController {
	return &LibraryController{service: service}
}

func (l *LibraryController) Index(c *ctx.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	replyCollection(c)(l.service.List(c.Context(), user))
}

func (l *LibraryController) Add(c *ctx.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	var in services.ComicRef
	if !c.BindJSON(&in) {
		return
	}
	replyCollection(c)(l.service.Add(c.Context(), user, in.ComicID))
}

func replyCollection(c *ctx.Context) func([]models.LineItem, error) {
	return func(items []models.LineItem, err error) {
		if err != nil {
			c.Fail(err)
			return
		}
		c.JSON(http.StatusOK, collectionLines(items))
	}
}
