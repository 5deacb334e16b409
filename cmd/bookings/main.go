package main

import (
	arenarepository "paddock/internal/arenas/repository"
	availabilitycache "paddock/internal/availability/cache"
	"paddock/internal/bookings/handler"
	"paddock/internal/bookings/repository"
	"paddock/internal/bookings/service"
	"paddock/internal/bookings/validator"
	"paddock/pkg/app"
	"paddock/pkg/config"
	"paddock/pkg/kafka"
	kafka_config "paddock/pkg/kafka/config"
	kafka_middleware "paddock/pkg/kafka/middleware"
	"paddock/pkg/sealer"
)

const ServiceName = "bookings"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	cfg.SetRedis()
	defer cfg.GracefulShutdown()

	cfg.Log.Info("Starting Bookings service")

	producer := initProducer(cfg)
	defer func() {
		if err := producer.Close(); err != nil {
			cfg.Log.Error("Failed to close Kafka producer", "error", err)
		}
	}()

	bookingService := initServices(cfg, producer)
	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(handler.NewBookingHandler(bookingService, cfg.Log))
	serverApp.Run()
}

func initProducer(cfg *config.Config) *kafka.Producer {
	kafkaCfg := kafka_config.Load()
	producer, err := kafka.NewProducer(kafkaCfg, kafkaCfg.BookingEventsTopic, kafkaCfg.BookingEventsDLQTopic)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka producer", "error", err)
	}
	producer.Use(kafka_middleware.LoggingProducerMiddleware(cfg.Log))
	return producer
}

func initServices(cfg *config.Config, producer *kafka.Producer) service.BookingService {
	tokenSealer, err := sealer.New(cfg.GuestTokenKey)
	if err != nil {
		cfg.Log.Fatal("Failed to initialize guest token sealer", "error", err)
	}

	bookingValidator := validator.NewBookingValidator(cfg.MaxBookingDuration, cfg.Log)
	bookingRepo := repository.NewMongoBookingRepository(cfg)
	lockRepo := repository.NewArenaLockRepository(cfg)
	arenaRepo := arenarepository.NewMongoArenaRepository(cfg)
	viewCache := availabilitycache.New(cfg.Client.Redis, cfg.AvailabilityCacheTTL)

	bookingService := service.NewBookingService(
		bookingRepo,
		lockRepo,
		arenaRepo,
		bookingValidator,
		tokenSealer,
		producer,
		viewCache,
		cfg,
	)

	cfg.Log.Info("Booking service initialized", "database", cfg.MongoDatabaseName)
	return bookingService
}
