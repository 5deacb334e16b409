package main

import (
	availabilitycache "paddock/internal/availability/cache"
	"paddock/internal/availability/handler"
	"paddock/internal/availability/service"
	bookingrepository "paddock/internal/bookings/repository"
	coachslotrepository "paddock/internal/coachslots/repository"
	"paddock/pkg/app"
	"paddock/pkg/config"
)

const ServiceName = "availability"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	cfg.SetRedis()
	defer cfg.GracefulShutdown()

	cfg.Log.Info("Starting Availability service")

	bookingRepo := bookingrepository.NewMongoBookingRepository(cfg)
	slotRepo := coachslotrepository.NewMongoCoachSlotRepository(cfg)
	viewCache := availabilitycache.New(cfg.Client.Redis, cfg.AvailabilityCacheTTL)

	availabilityService := service.NewAvailabilityService(bookingRepo, slotRepo, viewCache, cfg)

	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(handler.NewAvailabilityHandler(availabilityService, cfg.Log))
	serverApp.Run()
}
