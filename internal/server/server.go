package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/IrshadAnsari05010/phishing-detector/internal/config"
	"github.com/IrshadAnsari05010/phishing-detector/internal/metrics"
	"github.com/IrshadAnsari05010/phishing-detector/internal/middleware"
)

const shutdownTimeout = 5 * time.Second

// NewEngine builds a gin engine with recovery, request ids, request logging,
// latency metrics and CORS.
func NewEngine(cfg config.ServerConfig, logger *slog.Logger, m *metrics.Metrics) *gin.Engine {
	gin.SetMode(cfg.GinMode)

	router := gin.New()
	router.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.Logger(logger),
		middleware.Metrics(m),
	)

	router.Use(cors.New(CORSConfig(cfg.AllowedOrigins)))

	return router
}

// CORSConfig allows the given origins. A single "*" allows every origin.
func CORSConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders: []string{"Content-Length", middleware.RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	cfg.AllowCredentials = true
	return cfg
}

// Run serves handler on addr until SIGINT or SIGTERM, then shuts down
// gracefully. cleanup functions run after the listener stops.
func Run(name, addr string, handler http.Handler, logger *slog.Logger, cleanup ...func()) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting server", "service", name, "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err, ok := <-errCh:
		if ok {
			logger.Error("server failed", "service", name, "error", err)
			runCleanup(cleanup)
			return err
		}
	case <-quit:
	}
	logger.Info("shutting down server", "service", name)

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	err := srv.Shutdown(ctx)
	runCleanup(cleanup)

	if err != nil {
		return err
	}
	logger.Info("server exited", "service", name)
	return nil
}

func runCleanup(fns []func()) {
	for _, fn := range fns {
		fn()
	}
}
