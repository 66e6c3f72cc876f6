package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"invitation-platform/internal/auth"
	"invitation-platform/internal/config"
	"invitation-platform/internal/database"
	"invitation-platform/internal/handlers"
	"invitation-platform/internal/jobs"
	"invitation-platform/internal/repository"
	"invitation-platform/internal/services"
)

func main() {
	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	// Initialize session tokens
	auth.InitJWT(cfg.App.JWTSecret)
	auth.SessionCookieName = cfg.App.SessionCookie

	// Connect to database
	if err := database.Connect(cfg.GetDSN()); err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}

	// Run migrations
	if err := database.AutoMigrate(); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	db := database.GetDB()

	// Initialize repository and services
	repo := repository.NewRepository(db)
	authService := services.NewAuthService(db)
	eventService := services.NewEventService(db, repo)
	guestService := services.NewGuestService(db, repo)
	invitationService := services.NewInvitationService(db, repo)
	templateService := services.NewTemplateService(db)
	adminService := services.NewAdminService(db)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService, cfg.App.SessionCookie)
	eventHandler := handlers.NewEventHandler(eventService)
	guestHandler := handlers.NewGuestHandler(guestService, eventService)
	invitationHandler := handlers.NewInvitationHandler(invitationService)
	templateHandler := handlers.NewTemplateHandler(templateService)
	adminHandler := handlers.NewAdminHandler(adminService, templateService)

	// Start stats snapshot job (runs every 6 hours)
	statsJob := jobs.NewStatsJob(db)
	statsJob.Start(6 * time.Hour)
	log.Info().Msg("stats snapshot job started")

	// Set up Gin router
	router := gin.Default()

	// CORS middleware
	allowedOrigins := []string{
		"http://localhost:3000",
		"http://localhost:5173",
		"http://127.0.0.1:3000",
		"http://127.0.0.1:5173",
	}
	if frontendURL := os.Getenv("FRONTEND_URL"); frontendURL != "" {
		allowedOrigins = append(allowedOrigins, frontendURL)
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Accept", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length", "X-Session-Token"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	// Public invitation routes. Single segment carries the legacy guest
	// token, two segments carry slug + short code.
	router.GET("/invite/:p1", invitationHandler.ResolveLegacy)
	router.GET("/invite/:p1/:p2", invitationHandler.ResolveSlugAndCode)
	router.POST("/invite/:p1/:p2/rsvp", invitationHandler.RSVP)
	router.GET("/invitation/:id", invitationHandler.ResolvePreview)

	// Authentication routes (public)
	authRoutes := router.Group("/auth")
	{
		authRoutes.POST("/register", authHandler.Register)
		authRoutes.POST("/login", authHandler.Login)
		authRoutes.POST("/logout", authHandler.Logout)
	}

	// API routes (session required)
	api := router.Group("/api")
	api.Use(auth.AuthMiddleware())
	{
		api.GET("/auth/me", authHandler.GetMe)

		// Event endpoints
		api.POST("/events", eventHandler.CreateEvent)
		api.GET("/events", eventHandler.ListEvents)
		api.GET("/events/:id", eventHandler.GetEvent)
		api.PUT("/events/:id", eventHandler.UpdateEvent)
		api.POST("/events/:id/slug", eventHandler.EnsureSlug)

		// Guest endpoints
		api.POST("/events/:id/guests", guestHandler.CreateGuest)
		api.GET("/events/:id/guests", guestHandler.ListGuests)
		api.POST("/events/:id/guests/import", guestHandler.ImportGuests)
		api.GET("/events/:id/guests/export", guestHandler.ExportGuests)
		api.DELETE("/guests/:id", guestHandler.DeleteGuest)

		// Template picker for event owners
		api.GET("/templates", templateHandler.ListTemplates)
	}

	// Admin routes (session + admin only)
	admin := router.Group("/api/admin")
	admin.Use(auth.AuthMiddleware())
	admin.Use(adminHandler.AdminMiddleware())
	{
		admin.GET("/templates", adminHandler.ListAllTemplates)
		admin.POST("/templates", adminHandler.CreateTemplate)
		admin.PUT("/templates/:id", adminHandler.UpdateTemplate)
		admin.DELETE("/templates/:id", adminHandler.DeactivateTemplate)

		admin.POST("/assets", adminHandler.RegisterAsset)
		admin.GET("/assets", adminHandler.ListAssets)

		admin.GET("/users", adminHandler.GetUsers)
		admin.GET("/logs", adminHandler.GetAdminLogs)
		admin.GET("/stats", adminHandler.GetPlatformStats)

		// Promotion is reserved for super admins
		super := admin.Group("")
		super.Use(adminHandler.SuperAdminMiddleware())
		super.POST("/users/promote", adminHandler.PromoteToAdmin)
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	// Start server in a goroutine
	go func() {
		log.Info().Str("port", cfg.Server.Port).Msg("server starting")

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	// Graceful shutdown with 5 second timeout
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited")
}
