package httptransport

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/briansbrian/coshop/order/internal/service/models/identity"
	"github.com/briansbrian/coshop/order/internal/service/models/order"
	"github.com/briansbrian/coshop/order/internal/service/services/ordersvc"
	createorder "github.com/briansbrian/coshop/order/internal/transport/http/create_order"
	listorders "github.com/briansbrian/coshop/order/internal/transport/http/list_orders"
	updatestatus "github.com/briansbrian/coshop/order/internal/transport/http/update_status"
	"github.com/briansbrian/coshop/order/pkg/http/middleware/auth"
	"github.com/briansbrian/coshop/order/pkg/http/middleware/trace"
	"github.com/briansbrian/coshop/order/pkg/logger"
	"github.com/briansbrian/coshop/order/pkg/metrics"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/spf13/viper"
)

type service interface {
	Checkout(
		ctx context.Context,
		consumerID int64,
		items []ordersvc.CartItem,
		method order.DeliveryMethod,
	) ([]order.Order, error)
	UpdateStatus(
		ctx context.Context,
		ident identity.Identity,
		orderID int64,
		next order.Status,
	) (*order.Order, error)
	GetOrders(
		ctx context.Context,
		ident identity.Identity,
		filter *order.QueryOrdersModel,
	) ([]order.Order, error)
}

type HTTPTransport struct {
	server  *http.Server
	router  *chi.Mux
	service service
}

func NewHTTPTransport(service service) *HTTPTransport {
	router := newRouter()
	server := newServer(router)

	return &HTTPTransport{
		server:  server,
		router:  router,
		service: service,
	}
}

func (h *HTTPTransport) Run() error {
	return h.server.ListenAndServe()
}

// Shutdown gracefully stops the HTTP server.
func (h *HTTPTransport) Shutdown(ctx context.Context) error {
	return h.server.Shutdown(ctx)
}

// RegisterRoutes registers the routes for the HTTPTransport.
func (h *HTTPTransport) RegisterRoutes() {
	h.router.Handle("/metrics", metrics.Handler())

	h.router.Route("/api", func(r chi.Router) {
		r.Use(auth.NewAuthMiddleware)
		r.Post("/orders", h.createOrder)
		r.Get("/orders", h.listOrders)
		r.Patch("/orders/{id}/status", h.updateStatus)
	})
}

func (h *HTTPTransport) createOrder(w http.ResponseWriter, r *http.Request) {
	createorder.CreateOrder(w, r, h.service)
}

func (h *HTTPTransport) listOrders(w http.ResponseWriter, r *http.Request) {
	listorders.ListOrders(w, r, h.service)
}

func (h *HTTPTransport) updateStatus(w http.ResponseWriter, r *http.Request) {
	updatestatus.UpdateStatus(w, r, h.service)
}

func newRouter() *chi.Mux {
	router := chi.NewMux()
	router.Use(middleware.RequestID)
	router.Use(logger.NewLoggerMiddleware(slog.Default()))
	router.Use(trace.NewTraceMiddleware)

	allowedOrigins := viper.GetStringSlice("server.http.cors.allowed_origins")
	allowedMethods := viper.GetStringSlice("server.http.cors.allowed_methods")
	allowedHeaders := viper.GetStringSlice("server.http.cors.allowed_headers")
	exposedHeaders := viper.GetStringSlice("server.http.cors.exposed_headers")
	allowCredentials := viper.GetBool("server.http.cors.allow_credentials")
	maxAge := viper.GetInt("server.http.cors.max_age")

	c := cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   allowedMethods,
		AllowedHeaders:   allowedHeaders,
		ExposedHeaders:   exposedHeaders,
		AllowCredentials: allowCredentials,
		MaxAge:           maxAge,
	})

	router.Use(c.Handler)

	return router
}

func newServer(router http.Handler) *http.Server {
	return &http.Server{
		Addr:    "0.0.0.0:" + viper.GetString("server.http.port"),
		Handler: router,
	}
}
