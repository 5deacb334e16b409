package main

import (
	"paddock/internal/arenas/handler"
	"paddock/internal/arenas/repository"
	"paddock/internal/arenas/service"
	"paddock/internal/arenas/validator"
	"paddock/pkg/app"
	"paddock/pkg/config"
)

const ServiceName = "arenas"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	defer cfg.GracefulShutdown()

	cfg.Log.Info("Starting Arenas service")

	arenaValidator := validator.NewArenaValidator(cfg.Log)
	arenaRepo := repository.NewMongoArenaRepository(cfg)
	arenaService := service.NewArenaService(arenaRepo, arenaValidator, cfg)

	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(handler.NewArenaHandler(arenaService, cfg.Log))
	serverApp.Run()
}
