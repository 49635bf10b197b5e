package main

import (
	"log"

	"github.com/gin-gonic/gin"

	"go-media-library/database/migrations"
	"go-media-library/internal/api"
	"go-media-library/internal/config"
	"go-media-library/internal/database"
	"go-media-library/internal/storage"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	// Initialize Database
	if err := database.Initialize(cfg); err != nil {
		log.Fatal("Failed to initialize database:", err)
	}
	db := database.GetDB()

	if err := migrations.Migrate(db); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	// Initialize Storage
	store, err := storage.New(cfg)
	if err != nil {
		log.Fatal("Failed to initialize storage:", err)
	}

	// Initialize Router
	router := gin.Default()
	api.SetupRoutes(router, cfg, db, store)

	// Start Server
	if err := router.Run(":" + cfg.Server.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
