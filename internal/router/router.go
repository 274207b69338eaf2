package router

import (
	"log"

	"firebase.google.com/go/v4/auth"
	"github.com/Tejas2005SG/odoo-hackathon/backend/internal/handlers"
	"github.com/Tejas2005SG/odoo-hackathon/backend/internal/middleware"
	"github.com/Tejas2005SG/odoo-hackathon/backend/internal/models"
	"github.com/Tejas2005SG/odoo-hackathon/backend/internal/repositories"
	"github.com/Tejas2005SG/odoo-hackathon/backend/pkg/storage"
	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

// SetupMiddleware configures global Echo middleware
func SetupMiddleware(e *echo.Echo) {
	e.Use(eMiddleware.Logger())
	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.CORS())
	log.Println("Global middleware configured.")
}

// SetupRoutes configures all application routes and injects dependencies.
// firebaseAuthClient and images may be nil when those integrations are
// not configured; the affected endpoints then answer 503.
func SetupRoutes(e *echo.Echo, pgdb *gorm.DB, mongoDB *mongo.Database, firebaseAuthClient *auth.Client, images *storage.ImageStore) {
	// AutoMigrate PostgreSQL models
	err := pgdb.AutoMigrate(
		&models.User{},
		&models.Notification{},
	)
	if err != nil {
		log.Fatalf("Failed to auto migrate models: %v", err)
	}
	log.Println("PostgreSQL auto-migrations completed for all models.")

	// Health check - always accessible
	e.GET("/health", handlers.HealthCheck)

	// --- Initialize Repositories ---
	userRepo := repositories.NewPostgresUserRepository(pgdb)
	questionRepo := repositories.NewMongoQuestionRepository(mongoDB)
	answerRepo := repositories.NewMongoAnswerRepository(mongoDB)
	notificationRepo := repositories.NewPostgresNotificationRepository(pgdb)

	// --- Unprotected routes for authentication ---
	authGroup := e.Group("/api/v1/auth")
	authHandler := handlers.NewAuthHandler(userRepo, firebaseAuthClient)
	authHandler.RegisterAuthRoutes(authGroup)
	log.Println("Auth routes configured.")

	// --- Public browsing routes ---
	public := e.Group("/api/v1")
	questionHandler := handlers.NewQuestionHandler(questionRepo, answerRepo, notificationRepo, userRepo, images)
	questionHandler.RegisterPublicRoutes(public)
	log.Println("Public question routes configured.")

	// --- Protected routes (require JWT authentication) ---
	api := e.Group("/api/v1")
	api.Use(middleware.JWTAuthMiddleware())
	log.Println("JWT authentication middleware applied to /api/v1 group.")

	authHandler.RegisterProfileRoutes(api)
	questionHandler.RegisterQuestionRoutes(api)

	answerHandler := handlers.NewAnswerHandler(answerRepo, questionRepo, userRepo, notificationRepo)
	answerHandler.RegisterAnswerRoutes(api)
	log.Println("Answer routes configured.")

	notificationHandler := handlers.NewNotificationHandler(notificationRepo)
	notificationHandler.RegisterNotificationRoutes(api)
	log.Println("Notification routes configured.")

	// --- Admin routes ---
	admin := e.Group("/api/v1/admin")
	admin.Use(middleware.JWTAuthMiddleware())
	admin.Use(middleware.AdminOnly(userRepo))
	adminHandler := handlers.NewAdminHandler(questionRepo, userRepo)
	adminHandler.RegisterAdminRoutes(admin)
	admin.GET("/users", authHandler.GetUsers)
	log.Println("Admin routes configured.")

	log.Println("All routes configured.")
}
