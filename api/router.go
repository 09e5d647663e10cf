package api

import (
	"net/http"

	"ordercore/api/customer"
	"ordercore/api/health"
	"ordercore/api/middleware"
	"ordercore/api/order"
	"ordercore/api/product"
	"ordercore/config"
	"ordercore/pkg/metrics"

	"github.com/gin-gonic/gin"
)

type Router struct {
	engine             *gin.Engine
	config             *config.Config
	healthController   *health.Controller
	orderController    *order.Controller
	productController  *product.Controller
	customerController *customer.Controller
	metricsHandler     http.Handler
}

// Controllers groups what NewRouter mounts under /api/v1.
type Controllers struct {
	Health   *health.Controller
	Order    *order.Controller
	Product  *product.Controller
	Customer *customer.Controller
}

// NewRouter builds the engine and its middleware chain. m and
// metricsHandler may be nil when metrics are disabled.
func NewRouter(cfg *config.Config, controllers Controllers, m *metrics.Metrics, metricsHandler http.Handler) *Router {
	if cfg.IsDevelopment() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()

	// order matters: the request id must exist before anything logs
	engine.Use(middleware.RequestID())
	engine.Use(middleware.Recovery())
	engine.Use(middleware.Logging())
	if m != nil {
		engine.Use(middleware.Metrics(m))
	}
	engine.Use(middleware.CORS(&cfg.CORS))
	engine.Use(middleware.RateLimit(&cfg.Server.RateLimit))

	return &Router{
		engine:             engine,
		config:             cfg,
		healthController:   controllers.Health,
		orderController:    controllers.Order,
		productController:  controllers.Product,
		customerController: controllers.Customer,
		metricsHandler:     metricsHandler,
	}
}

func (r *Router) SetupRoutes() {
	apiGroup := r.engine.Group("/api/v1")
	{
		r.healthController.RegisterRoutes(apiGroup)
		r.orderController.RegisterRoutes(apiGroup)
		r.productController.RegisterRoutes(apiGroup)
		r.customerController.RegisterRoutes(apiGroup)
	}

	if r.metricsHandler != nil {
		r.engine.GET(r.config.Metrics.Path, gin.WrapH(r.metricsHandler))
	}

	r.engine.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"name":    r.config.App.Name,
			"version": r.config.App.Version,
			"env":     r.config.App.Env,
			"health":  "/api/v1/health",
		})
	})
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}
