// Package kernel assembles the storefront HTTP handler: repositories,
// services and controllers over one database, the global middleware stack
// and the route table.
package kernel

import (
	"context"
	"net/http"
	"time"

	"gorm.io/gorm"

	"github.com/bazinga/storefront/app/controllers"
	"github.com/bazinga/storefront/app/models"
	"github.com/bazinga/storefront/app/repositories"
	"github.com/bazinga/storefront/app/routes"
	"github.com/bazinga/storefront/app/services"
	"github.com/bazinga/storefront/config"
	"github.com/bazinga/storefront/pkg/auth"
	"github.com/bazinga/storefront/pkg/cache"
	"github.com/bazinga/storefront/pkg/metrics"
	"github.com/bazinga/storefront/pkg/middleware"
	"github.com/bazinga/storefront/pkg/reqid"
	"github.com/bazinga/storefront/pkg/response"
	"github.com/bazinga/storefront/pkg/router"
	"github.com/bazinga/storefront/pkg/storage"
)

// Deps are the process-wide resources the kernel is built from. Cache may
// be nil. Now defaults to time.Now.
type Deps struct {
	DB     *gorm.DB
	Tokens *auth.TokenService
	Cache  *cache.Cache
	Disk   storage.Disk
	Now    func() time.Time
}

type Kernel struct {
	router  *router.Router
	limiter *middleware.RateLimiter
	db      *gorm.DB
	catalog *services.CatalogService
}

// New wires the application. Nothing touches the database until a request
// is served, so route listing can build a Kernel from zero Deps.
func New(d Deps) *Kernel {
	if d.Now == nil {
		d.Now = time.Now
	}

	users := repositories.NewUserRepository(d.DB)
	lines := repositories.NewCollectionRepository(d.DB)
	comics := repositories.NewComicRepository(d.DB, lines)
	news := repositories.NewNewsRepository(d.DB)

	authService := services.NewAuthService(users, d.Tokens)

	rps, burst := config.RateLimit()
	k := &Kernel{
		router:  router.New(),
		limiter: middleware.NewRateLimiter(rps, burst),
		db:      d.DB,
		catalog: services.NewCatalogService(comics, d.Cache, d.Disk, config.CatalogCacheTTL()),
	}

	r := k.router
	// Outermost first: metrics see total latency, the request id exists
	// before anything logs, and recovery wraps the rest.
	r.Use(metrics.Middleware())
	r.Use(reqid.Middleware())
	r.Use(middleware.Recovery)
	r.Use(middleware.Logger)
	r.Use(middleware.CORS(config.CORSOrigins()))
	r.Use(k.limiter.Middleware)

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) { response.NotFound(w) })
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		response.Error(w, http.StatusMethodNotAllowed, "Method Not Allowed")
	})

	r.Get("/metrics", "metrics", metrics.Handler())
	r.Get("/healthz", "healthz", k.health)
	if local, ok := d.Disk.(*storage.Local); ok {
		r.Mount("/storage", "storage", http.StripPrefix("/storage", http.FileServer(http.Dir(local.Root()))))
	}

	routes.RegisterAPI(r, routes.Controllers{
		Auth:         controllers.NewAuthController(authService),
		Subscription: controllers.NewSubscriptionController(services.NewSubscriptionService(users, d.Now)),
		Cart:         controllers.NewCartController(services.NewCartService(lines, comics)),
		Wishlist:     controllers.NewWishlistController(services.NewWishlistService(lines, comics)),
		Library:      controllers.NewLibraryController(services.NewLibraryService(lines, comics)),
		Catalog:      controllers.NewCatalogController(k.catalog),
		News:         controllers.NewNewsController(services.NewNewsService(news, config.NewsTTL(), d.Now)),
		Users:        controllers.NewUserController(services.NewUserService(users)),
	}, middleware.Auth[*models.User](d.Tokens, authService.Resolve))

	return k
}

func (k *Kernel) Handler() http.Handler { return k.router.Handler() }

func (k *Kernel) Routes() []router.Route { return k.router.Routes() }

// Catalog is the catalog service behind the comic routes, shared with
// background jobs so they write through the same cache.
func (k *Kernel) Catalog() *services.CatalogService { return k.catalog }

// Close stops background work owned by the kernel.
func (k *Kernel) Close() { k.limiter.Stop() }

func (k *Kernel) health(w http.ResponseWriter, r *http.Request) {
	if k.db == nil {
		response.Error(w, http.StatusServiceUnavailable, "database not configured")
		return
	}
	sqlDB, err := k.db.DB()
	if err == nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		err = sqlDB.PingContext(ctx)
	}
	if err != nil {
		response.Error(w, http.StatusServiceUnavailable, "database unavailable")
		return
	}
	response.Success(w, map[string]string{"status": "ok"})
}
