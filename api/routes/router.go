package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/glowmart/storefront-backend/api/controllers"
	"github.com/glowmart/storefront-backend/api/middleware"
	cartsvc "github.com/glowmart/storefront-backend/internal/cart"
	checkoutsvc "github.com/glowmart/storefront-backend/internal/checkout"
	"github.com/glowmart/storefront-backend/internal/orders"
	"github.com/glowmart/storefront-backend/internal/products"
	"github.com/glowmart/storefront-backend/pkg/auth/session"
	"github.com/glowmart/storefront-backend/pkg/config"
	"github.com/glowmart/storefront-backend/pkg/logger"
	"github.com/glowmart/storefront-backend/pkg/metrics"
)

// Deps carries everything the router wires into handlers.
type Deps struct {
	Config   *config.Config
	Logger   *logger.Logger
	Metrics  *metrics.HTTPMetrics
	Registry *prometheus.Registry

	// ReadyChecks maps a dependency name to its health probe.
	ReadyChecks map[string]func() error

	Sessions  session.AccessSessionChecker
	CartStore cartsvc.Store
	CartView  *cartsvc.Controller
	Catalog   products.Service
	Checkout  checkoutsvc.Service
	Orders    orders.Service
}

func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(d.Logger),
		middleware.RequestID(d.Logger),
		middleware.Logging(d.Logger),
		middleware.Metrics(d.Metrics),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(d.Config))
		r.Get("/ready", controllers.HealthReady(d.Config, d.Logger, d.ReadyChecks))
	})

	if d.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(d.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ProductsList(d.Catalog, d.Logger))
			r.Get("/{productId}", controllers.ProductDetail(d.Catalog, d.Logger))

			// Catalog writes are admin-only.
			r.Group(func(r chi.Router) {
				r.Use(middleware.Auth(d.Config.JWT, d.Sessions, d.Logger))
				r.Post("/", controllers.ProductCreate(d.Catalog, d.Logger))
				r.Patch("/{productId}", controllers.ProductUpdate(d.Catalog, d.Logger))
				r.Delete("/{productId}", controllers.ProductDelete(d.Catalog, d.Logger))
			})
		})

		r.Route("/categories", func(r chi.Router) {
			r.Get("/", controllers.CategoriesList(d.Catalog, d.Logger))
			r.With(middleware.Auth(d.Config.JWT, d.Sessions, d.Logger)).
				Post("/", controllers.CategoryCreate(d.Catalog, d.Logger))
		})

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.CartFetch(d.CartView, d.Logger))
			r.Get("/count", controllers.CartCount(d.CartView, d.Logger))
			r.Post("/items", controllers.CartAdd(d.CartStore, d.Catalog, d.Logger))
			r.Patch("/items/{productId}", controllers.CartSetQuantity(d.CartView, d.Logger))
			r.Delete("/items/{productId}", controllers.CartRemove(d.CartView, d.Logger))
			r.Delete("/", controllers.CartClear(d.CartView, d.Logger))
		})

		r.Route("/checkout", func(r chi.Router) {
			r.Post("/buy-now", controllers.CheckoutBuyNow(d.Checkout, d.Logger))
			r.Get("/intent", controllers.CheckoutIntent(d.Checkout, d.Logger))
			r.Delete("/direct", controllers.CheckoutCancelDirect(d.Checkout, d.Logger))
			r.With(middleware.Auth(d.Config.JWT, d.Sessions, d.Logger)).
				Post("/", controllers.CheckoutPlaceOrder(d.Checkout, d.Logger))
		})

		r.Route("/orders", func(r chi.Router) {
			r.Use(middleware.Auth(d.Config.JWT, d.Sessions, d.Logger))
			r.Get("/", controllers.OrdersList(d.Orders, d.Logger))
			r.Get("/{reference}", controllers.OrderDetail(d.Orders, d.Logger))
		})
	})

	return r
}
