package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/storefront/api/controllers"
	"github.com/angelmondragon/storefront/api/middleware"
	"github.com/angelmondragon/storefront/api/responses"
	"github.com/angelmondragon/storefront/api/views"
	"github.com/angelmondragon/storefront/internal/address"
	"github.com/angelmondragon/storefront/internal/auth"
	"github.com/angelmondragon/storefront/internal/cart"
	"github.com/angelmondragon/storefront/internal/catalog"
	"github.com/angelmondragon/storefront/internal/checkout"
	"github.com/angelmondragon/storefront/internal/orders"
	"github.com/angelmondragon/storefront/internal/wishlist"
	"github.com/angelmondragon/storefront/pkg/config"
	"github.com/angelmondragon/storefront/pkg/logger"
	"github.com/angelmondragon/storefront/pkg/metrics"
	"github.com/angelmondragon/storefront/pkg/storage"
)

type rateStore interface {
	IncrWithTTL(context.Context, string, time.Duration) (int64, error)
}

// Deps are the services and infrastructure the router wires into handlers.
type Deps struct {
	Views     views.Renderer
	Images    storage.ImageStore
	RateStore rateStore
	Gatherer  prometheus.Gatherer
	Metrics   *metrics.HTTPMetrics
	Pingers   map[string]controllers.Pinger

	Auth      auth.Service
	Catalog   catalog.Service
	Cart      cart.Service
	Wishlist  wishlist.Service
	Addresses address.Service
	Checkout  checkout.Service
	Orders    orders.Service
}

func NewRouter(cfg *config.Config, logg *logger.Logger, deps Deps) http.Handler {
	r := chi.NewRouter()
	flash := responses.NewFlasher(cfg.Session, logg)
	pages := &controllers.Pages{
		Views:  deps.Views,
		Flash:  flash,
		Cart:   deps.Cart,
		Logger: logg,
	}

	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(deps.Metrics),
	)

	r.NotFound(pages.NotFound)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.Pingers))
	})
	if deps.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{}))
	}
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.Dir(cfg.App.StaticDir))))

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)
	setupLimiter := middleware.NewIPLimiter(cfg.Admin.SetupRatePerMinute, cfg.Admin.SetupBurst)

	r.Group(func(r chi.Router) {
		r.Use(middleware.Session(cfg.Session, deps.Auth, logg))

		r.Get("/", controllers.Home(pages, deps.Catalog))
		r.Get("/search", controllers.Search(pages, deps.Catalog))
		r.Get("/collection", controllers.Collection(pages, deps.Catalog))
		r.Get("/products/{title}", controllers.ProductDetail(pages, deps.Catalog, deps.Wishlist))
		r.Get("/about", controllers.About(pages))
		r.Get("/contact", controllers.Contact(pages))
		r.Post("/contact", controllers.ContactSubmit(pages))

		r.Route("/register", func(r chi.Router) {
			r.Use(middleware.AuthRateLimit(registerPolicy, deps.RateStore, flash, logg))
			r.Get("/", controllers.RegisterPage(pages))
			r.Post("/", controllers.RegisterSubmit(pages, deps.Auth, deps.Images))
		})
		r.Route("/signin", func(r chi.Router) {
			r.Use(middleware.AuthRateLimit(loginPolicy, deps.RateStore, flash, logg))
			r.Get("/", controllers.SignInPage(pages))
			r.Post("/", controllers.SignInSubmit(pages, deps.Auth, cfg.Session))
		})
		r.Post("/signout", controllers.SignOut(pages, deps.Auth, cfg.Session))
		r.Route("/setup/admin", func(r chi.Router) {
			r.Use(middleware.SetupLimiter(setupLimiter, flash, logg))
			r.Get("/", controllers.SetupAdminPage(pages, deps.Auth))
			r.Post("/", controllers.SetupAdminSubmit(pages, deps.Auth))
		})

		// Script endpoints answer 401 JSON instead of redirecting.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAccountJSON(logg))
			r.Post("/cart/items/{productID}", controllers.CartAddItem(deps.Cart, logg))
			r.Post("/wishlist/items/{productID}", controllers.WishlistAddItem(deps.Wishlist, logg))
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAccount(flash))

			r.Get("/profile", controllers.ProfilePage(pages, controllers.ProfileDeps{
				Addresses: deps.Addresses,
				Wishlist:  deps.Wishlist,
				Orders:    deps.Orders,
			}))
			r.Post("/profile", controllers.ProfileUpdate(pages, deps.Auth, deps.Images))
			r.Post("/addresses", controllers.AddressCreate(pages, deps.Addresses))
			r.Post("/addresses/{id}/delete", controllers.AddressDelete(pages, deps.Addresses))

			r.Get("/cart", controllers.CartPage(pages, deps.Cart))
			r.Post("/cart/lines/{id}", controllers.CartSetQuantity(pages, deps.Cart))
			r.Post("/cart/lines/{id}/delete", controllers.CartRemove(pages, deps.Cart))

			r.Get("/wishlist", controllers.WishlistPage(pages, deps.Wishlist))
			r.Post("/wishlist/entries/{id}/delete", controllers.WishlistRemove(pages, deps.Wishlist))

			r.Get("/checkout", controllers.CheckoutPage(pages, deps.Checkout))
			r.Post("/orders", controllers.OrderCreate(pages, deps.Orders))
			r.Get("/orders", controllers.OrdersPage(pages, deps.Orders))
			r.Get("/orders/{id}", controllers.OrderDetail(pages, deps.Orders))
		})

		r.Route("/admin/products", func(r chi.Router) {
			r.Use(middleware.RequireAdmin(flash))
			r.Get("/", controllers.AdminProducts(pages, deps.Catalog))
			r.Get("/new", controllers.AdminProductNew(pages))
			r.Post("/new", controllers.AdminProductCreate(pages, deps.Catalog, deps.Images))
			r.Get("/{id}/edit", controllers.AdminProductEdit(pages, deps.Catalog))
			r.Post("/{id}/edit", controllers.AdminProductUpdate(pages, deps.Catalog, deps.Images))
			r.Post("/{id}/delete", controllers.AdminProductDelete(pages, deps.Catalog))
		})
	})

	return r
}
