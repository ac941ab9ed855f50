package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rmagtibay/tindera-backend/api/controllers"
	"github.com/rmagtibay/tindera-backend/api/middleware"
	cartsvc "github.com/rmagtibay/tindera-backend/internal/cart"
	"github.com/rmagtibay/tindera-backend/internal/catalog"
	inventorysvc "github.com/rmagtibay/tindera-backend/internal/inventory"
	salessvc "github.com/rmagtibay/tindera-backend/internal/sales"
	"github.com/rmagtibay/tindera-backend/pkg/config"
	"github.com/rmagtibay/tindera-backend/pkg/db"
	"github.com/rmagtibay/tindera-backend/pkg/logger"
	"github.com/rmagtibay/tindera-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisP redis.Pinger,
	registry *prometheus.Registry,
	catalogRepo catalog.Repository,
	cartService cartsvc.Service,
	salesService salessvc.Service,
	inventoryService inventorysvc.Service,
) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Identity(logg),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisP))
	})

	if registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/ping", controllers.Ping())
		r.Get("/products", controllers.ProductsList(catalogRepo, logg))

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.CartGet(cartService, logg))
			r.Delete("/", controllers.CartClear(cartService, logg))
			r.Post("/items", controllers.CartAddItem(cartService, logg))
			r.Patch("/items/{productID}", controllers.CartUpdateItem(cartService, logg))
			r.Delete("/items/{productID}", controllers.CartRemoveItem(cartService, logg))
		})

		r.Post("/checkout", controllers.Checkout(salesService, logg))
		r.Get("/transactions/{transactionID}", controllers.TransactionGet(salesService, logg))

		r.Route("/inventory", func(r chi.Router) {
			r.Post("/adjustments", controllers.InventoryAdjust(inventoryService, logg))
			r.Get("/products/{productID}/adjustments", controllers.InventoryHistory(inventoryService, logg))
		})
	})

	return r
}
