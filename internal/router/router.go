package router

import (
	"context"
	"log"

	"firebase.google.com/go/v4/auth"
	"github.com/labstack/echo/v4"
	"github.com/mhasanr/linkup/backend/internal/cache"
	"github.com/mhasanr/linkup/backend/internal/handlers"
	"github.com/mhasanr/linkup/backend/internal/middleware"
	"github.com/mhasanr/linkup/backend/internal/models"
	"github.com/mhasanr/linkup/backend/internal/repositories"
	"github.com/mhasanr/linkup/backend/internal/services"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

// SetupRoutes configures all application routes and injects dependencies.
// cacheClient and firebaseAuthClient may be nil; the corresponding features
// degrade gracefully.
func SetupRoutes(e *echo.Echo, pgdb *gorm.DB, mgClient *mongo.Client, mongoDatabase string, cacheClient *cache.Client, firebaseAuthClient *auth.Client) {
	// AutoMigrate PostgreSQL models
	err := pgdb.AutoMigrate(
		&models.User{},
		&models.Friendship{},
		&models.Follow{},
		&models.Post{},
		&models.Like{},
		&models.Comment{},
		&models.CommentLike{},
		&models.SavedPost{},
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
	friendshipRepo := repositories.NewPostgresFriendshipRepository(pgdb)
	followRepo := repositories.NewPostgresFollowRepository(pgdb)
	postRepo := repositories.NewPostgresPostRepository(pgdb)
	likeRepo := repositories.NewPostgresLikeRepository(pgdb)
	commentRepo := repositories.NewPostgresCommentRepository(pgdb)
	savedPostRepo := repositories.NewPostgresSavedPostRepository(pgdb)
	notificationRepo := repositories.NewPostgresNotificationRepository(pgdb)
	chatRepo := repositories.NewMongoChatRepository(mgClient.Database(mongoDatabase))

	if err := chatRepo.EnsureIndexes(context.Background()); err != nil {
		log.Fatalf("Failed to create MongoDB indexes: %v", err)
	}

	// --- Initialize Services ---
	feedCache := cache.NewFeedCache(cacheClient)
	relationshipService := services.NewRelationshipService(pgdb, userRepo, friendshipRepo, notificationRepo)
	engagementService := services.NewEngagementService(pgdb, postRepo, commentRepo, followRepo, notificationRepo, feedCache)
	conversationService := services.NewConversationService(chatRepo, userRepo)

	// --- Unprotected routes for authentication ---
	authGroup := e.Group("/api/v1/auth")
	authHandler := handlers.NewAuthHandler(userRepo, firebaseAuthClient)
	authHandler.RegisterAuthRoutes(authGroup)

	// --- Protected routes (require JWT authentication) ---
	api := e.Group("/api/v1")
	api.Use(middleware.JWTAuthMiddleware())

	userHandler := handlers.NewUserHandler(userRepo)
	userHandler.RegisterUserRoutes(api)

	friendshipHandler := handlers.NewFriendshipHandler(relationshipService, friendshipRepo)
	friendshipHandler.RegisterFriendshipRoutes(api)

	followHandler := handlers.NewFollowHandler(relationshipService, followRepo)
	followHandler.RegisterFollowRoutes(api)

	postHandler := handlers.NewPostHandler(engagementService, postRepo)
	postHandler.RegisterPostRoutes(api)

	likeHandler := handlers.NewLikeHandler(engagementService, likeRepo)
	likeHandler.RegisterLikeRoutes(api)

	commentHandler := handlers.NewCommentHandler(engagementService, commentRepo)
	commentHandler.RegisterCommentRoutes(api)

	savedPostHandler := handlers.NewSavedPostHandler(engagementService, savedPostRepo)
	savedPostHandler.RegisterSavedPostRoutes(api)

	feedHandler := handlers.NewFeedHandler(postRepo, followRepo, feedCache)
	feedHandler.RegisterFeedRoutes(api)

	notificationHandler := handlers.NewNotificationHandler(notificationRepo)
	notificationHandler.RegisterNotificationRoutes(api)

	chatHandler := handlers.NewChatHandler(conversationService)
	chatHandler.RegisterChatRoutes(api)

	// --- Routes authenticated with a raw Firebase session ---
	if firebaseAuthClient != nil {
		fb := e.Group("/api/v1/firebase")
		fb.Use(middleware.FirebaseAuthMiddleware(firebaseAuthClient))
		fb.GET("/me", userHandler.GetMeByFirebaseUID)
	}

	log.Println("All routes configured.")
}
