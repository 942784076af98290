package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/mvargascr/fondo-server/internal/api"
	"github.com/mvargascr/fondo-server/internal/config"
	"github.com/mvargascr/fondo-server/internal/events"
	"github.com/mvargascr/fondo-server/internal/events/kafka"
	"github.com/mvargascr/fondo-server/internal/repository"
	"github.com/mvargascr/fondo-server/internal/service"
	"github.com/mvargascr/fondo-server/internal/utils"
)

func main() {
	// Load configuration
	cfg := config.LoadConfig()

	logger := utils.NewLogger()

	// Set up database connection
	db, err := config.SetupDatabase(cfg)
	if err != nil {
		log.Fatalf("Failed to set up database: %v", err)
	}
	defer db.Close()

	// Create repository
	repo := repository.NewPostgresRepository(db)

	// Movement change feed, disabled unless brokers are configured
	var publisher events.Publisher = events.NoopPublisher{}
	if len(cfg.Kafka.Brokers) > 0 {
		kafkaPublisher := kafka.NewPublisher(cfg.Kafka.Brokers)
		defer kafkaPublisher.Close()
		publisher = kafkaPublisher
		logger.Info("publishing movement events to %v", cfg.Kafka.Brokers)
	}

	// Create service
	svc := service.NewDefaultService(repo, publisher, logger, cfg.Auth.JWTSecret)

	// Create API handler
	handler := api.NewHandler(svc)

	// Set up Gin router
	router := gin.Default()

	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	// Add middleware for JWT secret
	router.Use(func(c *gin.Context) {
		c.Set("jwtSecret", []byte(cfg.Auth.JWTSecret))
		c.Next()
	})

	// Set up routes
	handler.SetupRoutes(router)

	// Start server
	serverAddr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Printf("Starting server on %s", serverAddr)
	if err := http.ListenAndServe(serverAddr, router); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
