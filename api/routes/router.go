package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/orderbridge/orderbridge-backend/api/controllers"
	"github.com/orderbridge/orderbridge-backend/api/middleware"
	"github.com/orderbridge/orderbridge-backend/internal/orders"
	"github.com/orderbridge/orderbridge-backend/internal/returns"
	"github.com/orderbridge/orderbridge-backend/pkg/config"
	"github.com/orderbridge/orderbridge-backend/pkg/db"
	"github.com/orderbridge/orderbridge-backend/pkg/logger"
)

// Deps carries everything the router wires into handlers.
type Deps struct {
	Config   *config.Config
	Logger   *logger.Logger
	DB       db.Pinger
	Orders   orders.Service
	Returns  returns.Service
	Webhooks controllers.DeliveryHandler
	Sweeper  controllers.Sweeper
	Metrics  prometheus.Gatherer
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.App.CORSOrigins),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.DB))
	})

	if deps.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Metrics, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/checkout", controllers.Checkout(deps.Orders, logg))

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.ListOrders(deps.Orders, logg))
			r.Get("/{orderID}", controllers.GetOrder(deps.Orders, logg))
			r.Post("/{orderID}/retry", controllers.RetryOrder(deps.Orders, logg))
			r.Post("/{orderID}/return", controllers.CreateReturn(deps.Returns, logg))
			r.Get("/{orderID}/return", controllers.GetOrderReturn(deps.Returns, logg))
		})

		r.Route("/returns", func(r chi.Router) {
			r.Get("/", controllers.ListReturns(deps.Returns, logg))
			r.Get("/{returnID}", controllers.GetReturn(deps.Returns, logg))
		})

		r.Get("/poll", controllers.Poll(deps.Sweeper, cfg.Zinc.PollSecret, logg))
	})

	r.Post("/webhooks/{channel}", controllers.Webhook(deps.Webhooks, cfg.Zinc.WebhookSecret, logg))

	return r
}
