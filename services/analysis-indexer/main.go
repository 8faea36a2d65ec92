package main

import (
	"context"
	"log"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/IrshadAnsari05010/phishing-detector/internal/config"
	"github.com/IrshadAnsari05010/phishing-detector/internal/events"
	"github.com/IrshadAnsari05010/phishing-detector/internal/handler"
	"github.com/IrshadAnsari05010/phishing-detector/internal/indexer"
	"github.com/IrshadAnsari05010/phishing-detector/internal/logging"
	"github.com/IrshadAnsari05010/phishing-detector/internal/metrics"
	"github.com/IrshadAnsari05010/phishing-detector/internal/server"
)

func main() {
	cfg := config.Load()
	logger := logging.New(cfg.Logging).With("service", "analysis-indexer")
	m := metrics.New()

	store, err := indexer.NewElasticStore(
		cfg.Elasticsearch.Addresses,
		cfg.Elasticsearch.Username,
		cfg.Elasticsearch.Password,
		cfg.Elasticsearch.Index,
	)
	if err != nil {
		log.Fatalf("Failed to create Elasticsearch store: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ensureCtx, ensureCancel := context.WithTimeout(ctx, 10*time.Second)
	if err := store.EnsureIndex(ensureCtx); err != nil {
		logger.Warn("index not ready, continuing", "index", cfg.Elasticsearch.Index, "error", err)
	}
	ensureCancel()

	done := make(chan struct{})
	var consumer *events.Consumer
	if cfg.Kafka.Enabled() {
		ix := indexer.New(store, logger, func(outcome string) {
			m.Indexed.WithLabelValues(outcome).Inc()
		})
		consumer = events.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.Topic, cfg.Kafka.GroupID, ix.Handle, logger)
		go func() {
			defer close(done)
			if err := consumer.Start(ctx); err != nil {
				logger.Error("consumer stopped", "error", err)
			}
		}()
	} else {
		logger.Warn("no Kafka brokers configured, serving stored analyses only")
		close(done)
	}

	router := server.NewEngine(cfg.Server, logger, m)
	router.GET("/health", handler.Health)
	indexer.NewHTTPHandler(store, logger).RegisterRoutes(router)
	router.GET("/metrics", gin.WrapH(m.Handler()))

	stopConsumer := func() {
		cancel()
		<-done
		if consumer != nil {
			if err := consumer.Close(); err != nil {
				logger.Error("closing consumer", "error", err)
			}
		}
	}

	if err := server.Run("analysis-indexer", cfg.Server.ListenAddr(":8083"), router, logger, stopConsumer); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
