package handlers

import (
	"coffee_sync/internal/logger"
	"coffee_sync/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Handler wires HTTP layer to services and logging.
type Handler struct {
	services *service.Service
	log      *logger.Logger
	gatherer prometheus.Gatherer
}

// NewHandler constructs a new HTTP handler with dependencies. A nil gatherer
// disables /metrics.
func NewHandler(services *service.Service, log *logger.Logger, gatherer prometheus.Gatherer) *Handler {
	return &Handler{services: services, log: log, gatherer: gatherer}
}

// InitRoutes builds and returns the Gin router with all routes registered.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/health", h.health)
	if h.gatherer != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(h.gatherer, promhttp.HandlerOpts{})))
	}

	// HMAC-signed endpoints
	signed := router.Group("", h.hmacMiddleware)
	{
		signed.POST("/sync", h.runSync)
		signed.GET("/runs", h.listRuns)
	}

	return router
}
