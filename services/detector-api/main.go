package main

import (
	"log"

	"github.com/IrshadAnsari05010/phishing-detector/internal/config"
	"github.com/IrshadAnsari05010/phishing-detector/internal/detector"
	"github.com/IrshadAnsari05010/phishing-detector/internal/events"
	"github.com/IrshadAnsari05010/phishing-detector/internal/handler"
	"github.com/IrshadAnsari05010/phishing-detector/internal/logging"
	"github.com/IrshadAnsari05010/phishing-detector/internal/metrics"
	"github.com/IrshadAnsari05010/phishing-detector/internal/model"
	"github.com/IrshadAnsari05010/phishing-detector/internal/server"
)

func main() {
	cfg := config.Load()
	logger := logging.New(cfg.Logging).With("service", "detector-api")
	m := metrics.New()

	opts := []detector.Option{
		detector.WithConcurrency(cfg.Batch.Concurrency),
		detector.WithLogger(logger),
	}
	if cfg.Model.Enabled() {
		logger.Info("using remote model", "url", cfg.Model.URL)
		opts = append(opts, detector.WithModel(model.NewClient(cfg.Model.URL, cfg.Model.APIKey, cfg.Model.Timeout)))
	}
	classifier := detector.NewClassifier(opts...)

	var publisher events.Publisher = events.NoopPublisher{}
	if cfg.Kafka.Enabled() {
		logger.Info("publishing analysis events", "brokers", cfg.Kafka.Brokers, "topic", cfg.Kafka.Topic)
		publisher = events.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic, logger, func(n int) {
			m.PublishFailures.Add(float64(n))
		})
	}

	router := server.NewEngine(cfg.Server, logger, m)
	h := handler.NewPredictHandler(classifier, publisher, m, logger, cfg.Model.Enabled())
	handler.RegisterRoutes(router, h, m)

	closePublisher := func() {
		if err := publisher.Close(); err != nil {
			logger.Error("closing publisher", "error", err)
		}
	}

	if err := server.Run("detector-api", cfg.Server.ListenAddr(":8081"), router, logger, closePublisher); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
