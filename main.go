package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/onlyvolunteer/backend/auth"
	"github.com/onlyvolunteer/backend/catalog"
	"github.com/onlyvolunteer/backend/config"
	"github.com/onlyvolunteer/backend/gemini"
	"github.com/onlyvolunteer/backend/handlers"
	"github.com/onlyvolunteer/backend/match"
	"github.com/onlyvolunteer/backend/mcp"
	"github.com/onlyvolunteer/backend/newsalerts"
	"github.com/onlyvolunteer/backend/orchestrator"
	"github.com/onlyvolunteer/backend/storage"
	"github.com/onlyvolunteer/backend/tools"
	"github.com/onlyvolunteer/backend/utils"
)

// @title OnlyVolunteer API
// @version 1.0
// @description AI-assisted volunteering backend: assistant orchestration, opportunity matching, alerts, and analytics for the Malaysian volunteer community.

// @contact.name API Support
// @contact.email support@onlyvolunteer.my

// @host localhost:8080
// @BasePath /api

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Load .env file if present (for local development)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	if cfg.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx := context.Background()

	log.Println("Initializing Firestore client...")
	store, err := storage.NewClient(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize Firestore client: %v", err)
	}
	defer store.Close()

	log.Println("Initializing Gemini client...")
	geminiClient, err := gemini.NewClient(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize Gemini client: %v", err)
	}
	defer geminiClient.Close()

	jwtService := auth.NewJWTService(cfg)
	googleAuthService := auth.NewGoogleAuthService(cfg)

	// Matching pipeline
	assessor := match.NewAssessor(store, store, geminiClient, geminiClient)
	profiler := match.NewProfiler(geminiClient)

	// Assistant tools
	analyticsTool := tools.NewAnalyticsTool(store, geminiClient)
	matchingTool := tools.NewMatchingTool(store, geminiClient)

	registry := tools.NewRegistry()
	registry.Register(tools.NewAlertsTool(store))
	registry.Register(analyticsTool)
	registry.Register(matchingTool)
	registry.Register(tools.NewAidFinderTool(store))
	registry.Register(tools.NewDonationDrivesTool(store))
	registry.Register(tools.NewMatchMeMiniTool(assessor))

	limiter := orchestrator.NewLimiter(store, cfg.RateLimitBypass)
	orch := orchestrator.New(store, registry, geminiClient, limiter)

	// Background jobs: news alert ingestion and catalog maintenance
	httpClient := utils.NewHTTPClient(time.Duration(cfg.HTTPTimeoutSeconds) * time.Second)
	newsService := newsalerts.NewService(store, geminiClient, cfg.NewsFeeds, httpClient)
	maintainer := catalog.NewMaintainer(store, geminiClient, geminiClient)

	scheduler := cron.New()
	if _, err := scheduler.AddFunc(cfg.NewsPollSchedule, func() {
		jobCtx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		if _, err := newsService.Run(jobCtx); err != nil {
			log.Printf("News alert run failed: %v", err)
		}
	}); err != nil {
		log.Fatalf("Invalid news poll schedule %q: %v", cfg.NewsPollSchedule, err)
	}
	if _, err := scheduler.AddFunc(cfg.CatalogSweepSchedule, func() {
		jobCtx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()
		if _, err := maintainer.Sweep(jobCtx); err != nil {
			log.Printf("Catalog sweep failed: %v", err)
		}
	}); err != nil {
		log.Fatalf("Invalid catalog sweep schedule %q: %v", cfg.CatalogSweepSchedule, err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	// Handlers
	assistantHandler := handlers.NewAssistantHandler(orch)
	assessmentHandler := handlers.NewAssessmentHandler(assessor, profiler)
	insightsHandler := handlers.NewInsightsHandler(analyticsTool, matchingTool)
	toolsHandler := handlers.NewToolsHandler(registry)
	authHandler := handlers.NewAuthHandler(store, jwtService, googleAuthService)
	adminHandler := handlers.NewAdminHandler(newsService, maintainer)
	mcpServer := mcp.NewServer(registry)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(gin.Logger())

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "http://localhost:5173", "*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Retry-After"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.GET("/health", handlers.HealthCheck)

	api := router.Group("/api")
	{
		// Auth endpoints (public)
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
			authGroup.POST("/google", authHandler.GoogleLogin)
		}

		// Protected auth endpoints
		authProtected := api.Group("/auth")
		authProtected.Use(auth.AuthMiddleware(jwtService))
		{
			authProtected.GET("/profile", authHandler.GetProfile)
			authProtected.PUT("/profile", authHandler.UpdateProfile)
		}

		// Assistant and matching (optional auth; anonymous assessment works)
		api.POST("/assistant", auth.OptionalAuthMiddleware(jwtService), assistantHandler.Chat)
		api.POST("/assessment", auth.OptionalAuthMiddleware(jwtService), assessmentHandler.Assess)
		api.POST("/profiler/next", assessmentHandler.NextQuestion)

		// Direct data endpoints (require authentication)
		protected := api.Group("")
		protected.Use(auth.AuthMiddleware(jwtService))
		{
			protected.GET("/insights", insightsHandler.GetInsights)
			protected.GET("/matches", insightsHandler.GetMatches)
			protected.POST("/admin/alerts/refresh", adminHandler.RefreshAlerts)
			protected.POST("/admin/catalog/sweep", adminHandler.SweepCatalog)
		}

		// Tools introspection endpoint
		api.GET("/tools", toolsHandler.GetTools)

		// MCP endpoints for external AI agents
		mcpServer.RegisterRoutes(api)
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Printf("Starting server on port %s...", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited gracefully")
}
