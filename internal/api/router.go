package api

import (
	"github.com/google/uuid"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/mylaundry/order-system/docs"
	"github.com/mylaundry/order-system/internal/api/handler"
	"github.com/mylaundry/order-system/internal/api/middleware"
	"github.com/mylaundry/order-system/internal/core/ports"
)

// Registry is both where HTTP metrics are registered and where /metrics
// gathers from.
type Registry interface {
	prometheus.Registerer
	prometheus.Gatherer
}

// Deps are the collaborators the router wires into handlers.
type Deps struct {
	Auth     ports.AuthService
	Orders   ports.OrderService
	Verifier ports.TokenVerifier
	Checks   []handler.DependencyCheck
	Registry Registry
	Logger   zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	reg := deps.Registry
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	// --- Global middleware ---
	e.Pre(middleware.CORS())
	e.Use(echomiddleware.RequestIDWithConfig(echomiddleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(requestLogger(deps.Logger))
	e.Use(echomiddleware.Recover())
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  "laundry",
		Registerer: reg,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics"
		},
	}))

	authHandler := handler.NewAuthHandler(deps.Auth)
	orderHandler := handler.NewOrderHandler(deps.Orders)
	requireAuth := middleware.Auth(deps.Verifier)
	adminOnly := middleware.AdminOnly()

	api := e.Group("/api")

	// --- Auth routes ---
	auth := api.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.GET("/profile", authHandler.Profile, requireAuth)

	// --- Order routes ---
	orders := api.Group("/orders")
	orders.GET("/public/services", orderHandler.ListServices)

	orders.GET("/admin/customers", orderHandler.ListCustomers, requireAuth, adminOnly)
	orders.GET("/admin/stats", orderHandler.Stats, requireAuth, adminOnly)

	orders.POST("", orderHandler.CreateOrder, requireAuth, adminOnly)
	orders.GET("", orderHandler.ListOrders, requireAuth)
	orders.GET("/:id", orderHandler.GetOrder, requireAuth)
	orders.PUT("/:id", orderHandler.UpdateOrder, requireAuth, adminOnly)
	orders.DELETE("/:id", orderHandler.DeleteOrder, requireAuth, adminOnly)
	orders.GET("/:id/history", orderHandler.OrderHistory, requireAuth)

	// --- Operational endpoints (no auth required) ---
	e.GET("/health", handler.NewHealthHandler().Liveness)
	e.GET("/health/ready", handler.NewReadinessHandler(deps.Checks...).Readiness)
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: reg}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Error != nil {
				ev = log.Warn().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
