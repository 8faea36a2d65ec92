package gateway

import (
	"encoding/json"
	"io"
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/IrshadAnsari05010/phishing-detector/internal/handler"
)

// Upstreams names the services behind the gateway.
type Upstreams struct {
	DetectorAPIURL string
	IndexerURL     string
}

// RegisterRoutes mounts /health and the /api/v1 proxies on r.
func RegisterRoutes(r *gin.Engine, up Upstreams, logger *slog.Logger) error {
	detector, err := NewProxy(up.DetectorAPIURL, logger)
	if err != nil {
		return err
	}
	indexer, err := NewProxy(up.IndexerURL, logger)
	if err != nil {
		return err
	}

	r.GET("/health", handler.Health)

	v1 := r.Group(APIPrefix)
	{
		v1.POST("/predict", detector.Handler())
		v1.POST("/predict_batch", detector.Handler())
		v1.GET("/analyses", indexer.Handler())
		v1.GET("/analyses/:id", indexer.Handler())
		v1.DELETE("/analyses/:id", indexer.Handler())
	}
	return nil
}

func writeJSON(w io.Writer, v any) error {
	return json.NewEncoder(w).Encode(v)
}
