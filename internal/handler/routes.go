package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/IrshadAnsari05010/phishing-detector/internal/metrics"
)

// RegisterRoutes mounts the detector API at the root and under /api.
func RegisterRoutes(r *gin.Engine, h *PredictHandler, m *metrics.Metrics) {
	for _, g := range []gin.IRoutes{r, r.Group("/api")} {
		g.POST("/predict", h.Predict)
		g.POST("/predict_batch", h.PredictBatch)
		g.GET("/health", Health)
	}
	r.GET("/metrics", gin.WrapH(m.Handler()))
}
