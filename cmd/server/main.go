package main

import (
	"context"
	"log"

	"firebase.google.com/go/v4/auth"
	"github.com/labstack/echo/v4"
	"github.com/mhasanr/linkup/backend/internal/cache"
	"github.com/mhasanr/linkup/backend/internal/router"
	"github.com/mhasanr/linkup/backend/internal/validators"
	"github.com/mhasanr/linkup/backend/pkg/config"
	"github.com/mhasanr/linkup/backend/pkg/firebase"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database connections
	db, err := config.InitDB()
	if err != nil {
		log.Fatalf("Failed to initialize databases: %v", err)
	}
	defer db.CloseDB()

	ctx := context.Background()

	// Redis is optional; without it the feed is served uncached
	var cacheClient *cache.Client
	if cfg.RedisAddr != "" {
		cacheClient, err = cache.NewClient(ctx)
		if err != nil {
			log.Printf("Redis unavailable, feed caching disabled: %v", err)
			cacheClient = nil
		} else {
			defer cacheClient.Close()
		}
	}

	// Firebase is optional; without it only local JWT auth is available
	firebaseAuth := firebaseAuthClient(ctx, cfg.FirebaseCredentialsPath)

	// Create Echo instance
	e := echo.New()
	e.Validator = validators.NewValidator()

	// Setup global middleware
	config.SetupMiddleware(e)

	// Setup routes and dependencies
	router.SetupRoutes(e, db.Postgres, db.Mongo, cfg.MongoDatabase, cacheClient, firebaseAuth)

	// Start server
	e.Logger.Fatal(e.Start(":" + cfg.Port))
}

func firebaseAuthClient(ctx context.Context, credentialsPath string) *auth.Client {
	if credentialsPath == "" {
		log.Println("No Firebase credentials configured, Firebase login disabled.")
		return nil
	}
	app, err := firebase.InitFirebase(ctx, credentialsPath)
	if err != nil {
		log.Printf("Firebase unavailable, Firebase login disabled: %v", err)
		return nil
	}
	return app.AuthClient
}
