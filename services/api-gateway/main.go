package main

import (
	"log"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/IrshadAnsari05010/phishing-detector/internal/config"
	"github.com/IrshadAnsari05010/phishing-detector/internal/gateway"
	"github.com/IrshadAnsari05010/phishing-detector/internal/logging"
	"github.com/IrshadAnsari05010/phishing-detector/internal/metrics"
	"github.com/IrshadAnsari05010/phishing-detector/internal/server"
	_ "github.com/IrshadAnsari05010/phishing-detector/services/api-gateway/docs"
)

// @title          PhishGuard API Gateway
// @version        1.0
// @description    API Gateway for the PhishGuard phishing detector

// @license.name MIT
// @license.url  https://opensource.org/licenses/MIT

// @host      localhost:8080
// @BasePath  /api/v1

func main() {
	cfg := config.Load()
	logger := logging.New(cfg.Logging).With("service", "api-gateway")
	m := metrics.New()

	router := server.NewEngine(cfg.Server, logger, m)

	// Swagger documentation
	router.GET("/api/v1/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/metrics", gin.WrapH(m.Handler()))

	err := gateway.RegisterRoutes(router, gateway.Upstreams{
		DetectorAPIURL: cfg.Gateway.DetectorAPIURL,
		IndexerURL:     cfg.Gateway.IndexerURL,
	}, logger)
	if err != nil {
		log.Fatalf("Failed to configure upstreams: %v", err)
	}

	if err := server.Run("api-gateway", cfg.Server.ListenAddr(":8080"), router, logger); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
