package main

import (
	"context"
	"log"

	"firebase.google.com/go/v4/auth"
	"github.com/Tejas2005SG/odoo-hackathon/backend/internal/router"
	"github.com/Tejas2005SG/odoo-hackathon/backend/pkg/config"
	"github.com/Tejas2005SG/odoo-hackathon/backend/pkg/firebase"
	"github.com/Tejas2005SG/odoo-hackathon/backend/pkg/storage"
	"github.com/Tejas2005SG/odoo-hackathon/backend/validators"
	"github.com/labstack/echo/v4"
)

func main() {
	// Load configuration
	config.LoadEnv()
	cfg := config.Load()

	// Initialize database connections
	db, err := config.InitDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize databases: %v", err)
	}
	defer db.CloseDB() // Ensure database connections are closed when main exits

	ctx := context.Background()

	// Initialize Firebase (optional social sign-in)
	var firebaseAuthClient *auth.Client
	if cfg.FirebaseCredentialsPath != "" {
		firebaseApp, err := firebase.InitFirebase(ctx, cfg.FirebaseCredentialsPath)
		if err != nil {
			log.Fatalf("Failed to initialize Firebase: %v", err)
		}
		firebaseAuthClient = firebaseApp.AuthClient
	} else {
		log.Println("Firebase credentials not configured; firebase login disabled.")
	}

	// Initialize image storage (optional)
	var images *storage.ImageStore
	if cfg.MinioEndpoint != "" {
		images, err = storage.New(ctx, storage.Options{
			Endpoint:  cfg.MinioEndpoint,
			AccessKey: cfg.MinioAccessKey,
			SecretKey: cfg.MinioSecretKey,
			Bucket:    cfg.MinioBucket,
			PublicURL: cfg.MinioPublicURL,
			UseSSL:    cfg.MinioUseSSL,
		})
		if err != nil {
			log.Fatalf("Failed to initialize image storage: %v", err)
		}
	} else {
		log.Println("Image storage not configured; image uploads disabled.")
	}

	// Create Echo instance
	e := echo.New()

	// Setup global middleware
	router.SetupMiddleware(e)

	// Setup routes and dependencies
	router.SetupRoutes(e, db.Postgres, db.Mongo.Database(cfg.MongoDatabase), firebaseAuthClient, images)

	// Validator
	e.Validator = validators.NewValidator()

	// Start server
	e.Logger.Fatal(e.Start(":" + cfg.Port))
}
