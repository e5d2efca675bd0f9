package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/aurelis-storefront/api/controllers"
	"github.com/angelmondragon/aurelis-storefront/api/middleware"
	"github.com/angelmondragon/aurelis-storefront/internal/catalog"
	"github.com/angelmondragon/aurelis-storefront/internal/session"
	"github.com/angelmondragon/aurelis-storefront/pkg/config"
	"github.com/angelmondragon/aurelis-storefront/pkg/logger"
	"github.com/angelmondragon/aurelis-storefront/pkg/metrics"
	"github.com/angelmondragon/aurelis-storefront/pkg/pricing"
	pkgredis "github.com/angelmondragon/aurelis-storefront/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	sessions *session.Manager,
	catalogService catalog.Service,
	idempotencyStore pkgredis.IdempotencyStore,
	redisPinger pkgredis.Pinger,
	httpMetrics *metrics.HTTPMetrics,
	gatherer prometheus.Gatherer,
) http.Handler {
	policy := pricing.Policy{
		TaxRateBasisPoints:    cfg.Policy.TaxRateBasisPoints,
		FreeShippingThreshold: cfg.Policy.FreeShippingThreshold,
		FlatShippingFee:       cfg.Policy.FlatShippingFee,
	}
	symbol := cfg.Policy.CurrencySymbol

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)
	if httpMetrics != nil {
		r.Use(middleware.Metrics(httpMetrics))
	}
	r.Use(middleware.CORS())

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, redisPinger, logg))
	})

	if gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ProductsList(catalogService, logg))
			r.Get("/featured", controllers.ProductsFeatured(catalogService, logg))
			r.Get("/{productID}", controllers.ProductDetail(catalogService, logg))
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.Session(sessions, logg))
			if idempotencyStore != nil {
				r.Use(middleware.Idempotency(idempotencyStore, cfg.Idempotency, logg))
			}

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", controllers.CartGet(policy, symbol, logg))
				r.Post("/items", controllers.CartAddItem(policy, symbol, logg))
				r.Patch("/items/{itemID}", controllers.CartUpdateItem(policy, symbol, logg))
				r.Delete("/items/{itemID}", controllers.CartRemoveItem(policy, symbol, logg))
				r.Post("/clear", controllers.CartClear(policy, symbol, logg))
			})

			r.Route("/checkout", func(r chi.Router) {
				r.Get("/", controllers.CheckoutState(symbol, logg))
				r.Post("/shipping", controllers.CheckoutSubmitShipping(symbol, logg))
				r.Post("/payment", controllers.CheckoutConfirmPayment(symbol, logg))
				r.Post("/recover", controllers.CheckoutRecover(symbol, logg))
				r.Post("/reset", controllers.CheckoutReset(symbol, logg))
			})

			r.Route("/orders", func(r chi.Router) {
				r.Get("/", controllers.OrdersList(logg))
				r.Get("/{orderID}", controllers.OrderDetail(logg))
			})
		})
	})

	return r
}
