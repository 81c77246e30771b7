package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/taskdeck-dev/taskdeck/db"
	"github.com/taskdeck-dev/taskdeck/internal/auth"
	"github.com/taskdeck-dev/taskdeck/internal/config"
	"github.com/taskdeck-dev/taskdeck/internal/logging"
	"github.com/taskdeck-dev/taskdeck/internal/router"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using process environment")
	}

	cfg, err := config.Load()

	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	if err := logging.InitLogger(); err != nil {
		log.Fatalf("Failed to initialize logging: %v", err)
	}

	if err := auth.InitJWTSecret(cfg.JWTSecret); err != nil {
		log.Fatalf("Failed to initialize JWT secret: %v", err)
	}

	if err := db.ConnectDatabase(cfg.DatabaseURL); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := db.MigrateDatabase(); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	r := router.NewRouter()

	logging.Logger.Infof("Starting taskdeck on port %s", cfg.Port)

	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
