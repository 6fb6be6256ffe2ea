package http

import (
	"github.com/gin-gonic/gin"

	"github.com/GriffinCanCode/LeoCore/internal/infrastructure/monitoring"
)

// Register mounts the API routes on router. metrics may be nil, in which case
// the Prometheus endpoint is not mounted.
func Register(router gin.IRoutes, h *Handlers, metrics *monitoring.Metrics) {
	router.GET("/healthz", h.Health)
	router.GET("/audit", h.Audit)
	router.GET("/metrics", h.Metrics)
	if metrics != nil {
		router.GET("/metrics/prometheus", gin.WrapH(metrics.Handler()))
	}
}
