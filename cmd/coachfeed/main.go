package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"paddock/internal/coachslots/ingest"
	"paddock/internal/coachslots/repository"
	"paddock/pkg/config"
	"paddock/pkg/kafka"
	kafka_config "paddock/pkg/kafka/config"
	kafka_middleware "paddock/pkg/kafka/middleware"
)

const ServiceName = "coachfeed"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	defer cfg.GracefulShutdown()

	cfg.Log.Info("Starting Coach feed consumer")

	slotRepo := repository.NewMongoCoachSlotRepository(cfg)
	feedHandler := ingest.NewFeedHandler(slotRepo, cfg.Log)

	kafkaCfg := kafka_config.Load()
	consumer, err := kafka.NewConsumer(
		kafkaCfg,
		kafkaCfg.CoachFeedTopic,
		kafkaCfg.CoachFeedGroupID,
		kafkaCfg.CoachFeedDLQTopic,
		feedHandler,
	)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka consumer", "error", err)
	}
	consumer.Use(kafka_middleware.LoggingConsumerMiddleware(cfg.Log))

	ctx, cancel := context.WithCancel(context.Background())

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	go func() {
		sig := <-shutdown
		cfg.Log.Info("Shutdown signal received", "signal", sig)
		cancel()
	}()

	cfg.Log.Info("Consuming coach feed",
		"topic", kafkaCfg.CoachFeedTopic,
		"group_id", kafkaCfg.CoachFeedGroupID,
	)
	if err := consumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		cfg.Log.Error("Consumer stopped with error", "error", err)
	}

	if err := consumer.Close(); err != nil {
		cfg.Log.Error("Failed to close consumer", "error", err)
	}
	cfg.Log.Info("Coach feed consumer stopped")
}
