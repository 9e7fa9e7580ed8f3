// @title FiBu Trainer API
// @version 1.0
// @description Backend für das FiBu-Trainer Übungssystem: Aufgabenbank, Tests und Statistiken.

// @host localhost:8080
// @BasePath /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

package main

import (
	"flag"
	"log"

	"fibu_trainer_backend/internal/app"
	"fibu_trainer_backend/internal/config"
	"fibu_trainer_backend/pkg/logger"
)

func main() {
	migrateOnly := flag.Bool("migrate-only", false, "run database migrations and exit")
	migrate := flag.Bool("migrate", false, "force migrations on startup, even in release mode")
	flag.Parse()

	cfg, err := config.LoadConfig("configs")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	cfg.ForceMigrate = *migrate || *migrateOnly
	cfg.MigrateOnly = *migrateOnly

	application, err := app.NewApp(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize app: %v", err)
	}
	defer logger.Log.Sync()

	if *migrateOnly {
		log.Println("Migrations complete, exiting")
		return
	}

	if err := application.Run(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
