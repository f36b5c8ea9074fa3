package routes

import (
	"github.com/bazinga/storefront/app/controllers"
	"github.com/bazinga/storefront/app/models"
	"github.com/bazinga/storefront/pkg/ctx"
	"github.com/bazinga/storefront/pkg/rbac"
	"github.com/bazinga/storefront/pkg/router"
)

// Controllers groups every API controller the routes dispatch to.
type Controllers struct {
	Auth         *controllers.AuthController
	Subscription *controllers.SubscriptionController
	Cart         *controllers.CartController
	Wishlist     *controllers.WishlistController
	Library      *controllers.LibraryController
	Catalog      *controllers.CatalogController
	News         *controllers.NewsController
	Users        *controllers.UserController
}

// RegisterAPI mounts the /api routes. authn must place a *models.User
// identity on the request.
func RegisterAPI(r *router.Router, c Controllers, authn router.Middleware) {
	admin := rbac.HasRole(string(models.RoleAdmin))
	staff := rbac.HasRole(string(models.RoleAdmin), string(models.RoleEditor))

	api := r.Group("/api")

	api.Post("/auth/register", "auth.register", ctx.Wrap(c.Auth.Register))
	api.Post("/auth/login", "auth.login", ctx.Wrap(c.Auth.Login))

	api.Get("/comics", "comics.index", ctx.Wrap(c.Catalog.Index))
	api.Get("/comics/{id}", "comics.show", ctx.Wrap(c.Catalog.Show))
	api.Get("/categories", "categories.index", ctx.Wrap(c.Catalog.Categories))
	api.Get("/conditions", "conditions.index", ctx.Wrap(c.Catalog.Conditions))
	api.Get("/news", "news.index", ctx.Wrap(c.News.Index))

	protected := api.Group("", authn)
	protected.Get("/auth/me", "auth.me", ctx.Wrap(c.Auth.Me))
	protected.Post("/subscriptions/subscribe", "subscriptions.subscribe", ctx.Wrap(c.Subscription.Subscribe))

	cart := protected.Group("/cart")
	cart.Get("", "cart.index", ctx.Wrap(c.Cart.Index))
	cart.Post("", "cart.add", ctx.Wrap(c.Cart.Add))
	cart.Put("", "cart.update", ctx.Wrap(c.Cart.Update))
	cart.Delete("", "cart.clear", ctx.Wrap(c.Cart.Clear))
	cart.Delete("/{cartItemId}", "cart.remove", ctx.Wrap(c.Cart.Remove))

	wishlist := protected.Group("/wishlist")
	wishlist.Get("", "wishlist.index", ctx.Wrap(c.Wishlist.Index))
	wishlist.Post("", "wishlist.add", ctx.Wrap(c.Wishlist.Add))
	wishlist.Delete("/{comicId}", "wishlist.remove", ctx.Wrap(c.Wishlist.Remove))

	library := protected.Group("/library")
	library.Get("", "library.index", ctx.Wrap(c.Library.Index))
	library.Post("", "library.add", ctx.Wrap(c.Library.Add))

	protected.Post("/comics", "comics.store", ctx.Wrap(c.Catalog.Store), admin)
	protected.Post("/news", "news.store", ctx.Wrap(c.News.Store), staff)

	adm := protected.Group("/admin", admin)
	adm.Get("/comics", "admin.comics.index", ctx.Wrap(c.Catalog.AdminIndex))
	adm.Put("/comics/{id}", "admin.comics.update", ctx.Wrap(c.Catalog.Update))
	adm.Put("/comics/{id}/redaction", "admin.comics.redact", ctx.Wrap(c.Catalog.Redact))
	adm.Put("/comics/{id}/cover", "admin.comics.cover", ctx.Wrap(c.Catalog.UploadCover))
	adm.Delete("/comics/{id}", "admin.comics.destroy", ctx.Wrap(c.Catalog.Destroy))
	adm.Get("/users", "admin.users.index", ctx.Wrap(c.Users.Index))
	adm.Post("/users", "admin.users.store", ctx.Wrap(c.Users.Store))
	adm.Put("/users/{id}", "admin.users.update", ctx.Wrap(c.Users.Update))
}
