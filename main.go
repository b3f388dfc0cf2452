package main

import (
	"net/http"
	"os"

	"inkpress/config"
	"inkpress/handlers"
	"inkpress/middleware"
	"inkpress/models"
	"inkpress/pkg/logger"
	"inkpress/repositories"
	"inkpress/services"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables; no .env file is fine outside development
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("invalid configuration: " + err.Error() + "\n")
		os.Exit(1)
	}

	log := logger.New(cfg.Log.Level, cfg.Log.Format)

	// Initialize database
	db, err := config.InitDB(&cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize database")
	}

	// Initialize repositories
	userRepo := repositories.NewUserRepository(db)
	manuscriptRepo := repositories.NewManuscriptRepository(db)
	profileRepo := repositories.NewAuthorProfileRepository(db)
	auditRepo := repositories.NewAuditRepository(db)

	// Shared infrastructure
	events := services.NewEventBus()
	events.Subscribe(services.LoggingSubscriber(log))
	cache := services.NewManuscriptCache()

	// Initialize services
	authService := services.NewAuthService(userRepo)
	workflowService := services.NewWorkflowService(manuscriptRepo, profileRepo, cache, events, log)
	verificationService := services.NewVerificationService(profileRepo, events, log)
	queueService := services.NewQueueService(manuscriptRepo, profileRepo)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	manuscriptHandler := handlers.NewManuscriptHandler(workflowService, queueService)
	verificationHandler := handlers.NewVerificationHandler(verificationService, queueService)
	auditHandler := handlers.NewAuditHandler(auditRepo)

	// Setup router
	router := gin.Default()

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	// API routes
	v1 := router.Group("/api/v1")
	{
		// Auth routes (public)
		auth := v1.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
		}

		// Protected routes
		protected := v1.Group("/")
		protected.Use(middleware.AuthMiddleware())
		{
			// Profile
			protected.GET("/profile", authHandler.GetProfile)

			// Manuscripts
			manuscripts := protected.Group("/manuscripts")
			{
				manuscripts.POST("", manuscriptHandler.Create)
				manuscripts.GET("", manuscriptHandler.List)
				manuscripts.GET("/:id", manuscriptHandler.Get)
				manuscripts.POST("/:id/submit", manuscriptHandler.Submit)
				manuscripts.POST("/:id/resubmit", manuscriptHandler.Resubmit)
				manuscripts.POST("/:id/review", middleware.RequireRole(models.RoleAdmin), manuscriptHandler.StartReview)
				manuscripts.POST("/:id/approve", middleware.RequireRole(models.RoleAdmin), manuscriptHandler.Approve)
				manuscripts.POST("/:id/reject", middleware.RequireRole(models.RoleAdmin), manuscriptHandler.Reject)
				manuscripts.POST("/:id/publish", middleware.RequireRole(models.RoleAdmin), manuscriptHandler.Publish)
				manuscripts.POST("/:id/unpublish", middleware.RequireRole(models.RoleAdmin), manuscriptHandler.Unpublish)
			}

			// Author verification
			verification := protected.Group("/verification")
			{
				verification.GET("", verificationHandler.GetProfile)
				verification.POST("/request", verificationHandler.Request)
			}

			// Admin console
			admin := protected.Group("/admin")
			admin.Use(middleware.RequireRole(models.RoleAdmin))
			{
				admin.GET("/verifications", verificationHandler.ListPending)
				admin.POST("/verifications/:author_id/approve", verificationHandler.Approve)
				admin.POST("/verifications/:author_id/grant", verificationHandler.Grant)
				admin.POST("/verifications/:author_id/reject", verificationHandler.Reject)
				admin.POST("/verifications/:author_id/revoke", verificationHandler.Revoke)
				admin.POST("/verifications/:author_id/suspend", verificationHandler.Suspend)
				admin.GET("/audit", auditHandler.List)
			}
		}
	}

	// Start server
	log.Info().Str("port", cfg.Server.Port).Msg("Server starting")
	if err := http.ListenAndServe(":"+cfg.Server.Port, router); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
