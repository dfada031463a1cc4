package main

import (
	"fmt"
	"net/http"
	"os"

	"networth/internal/config"
	"networth/internal/database"
	"networth/internal/handlers"
	"networth/internal/logger"
	"networth/internal/marketdata"
	"networth/internal/middleware"
	"networth/internal/services"
	"networth/internal/validator"

	"github.com/gin-gonic/gin"
)

func main() {
	// Initialize logger (use ENV var if available, default to development)
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Create database manager
	dbManager, err := database.NewManager(cfg)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}

	// Run migrations
	if err := dbManager.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	// Register custom binding validators
	validator.Register()

	// Market data client
	market := marketdata.NewHTTPClient(nil, cfg.MarketDataBaseURL)

	// Initialize services
	db := dbManager.DB()
	assetService := services.NewAssetService(db)
	debtService := services.NewDebtService(db)
	flowService := services.NewFlowService(db)
	settingsService := services.NewSettingsService(db, cfg.BaseCurrency, cfg.DividendWithholdingRate)
	scheduleService := services.NewScheduleService(db, flowService)
	rateService := services.NewRateService(db)
	snapshotService := services.NewSnapshotService(db, rateService, settingsService, market)
	auditService := services.NewAuditService(db)
	formRepo := services.NewFormRepository(assetService, debtService, flowService, settingsService)

	// Initialize handlers
	assetHandler := handlers.NewAssetHandler(assetService, auditService)
	debtHandler := handlers.NewDebtHandler(debtService, auditService)
	flowHandler := handlers.NewFlowHandler(flowService, formRepo, market, auditService)
	scheduleHandler := handlers.NewScheduleHandler(scheduleService, auditService)
	rateHandler := handlers.NewRateHandler(rateService)
	settingsHandler := handlers.NewSettingsHandler(settingsService)
	netWorthHandler := handlers.NewNetWorthHandler(snapshotService)
	marketHandler := handlers.NewMarketHandler(market)
	presetHandler := handlers.NewPresetHandler()

	// Initialize Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	// Health check endpoint
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// API v1 group
	v1 := router.Group("/api/v1")

	assets := v1.Group("/assets")
	assets.POST("", assetHandler.CreateAsset)
	assets.GET("", assetHandler.ListAssets)
	assets.GET("/:id", assetHandler.GetAsset)
	assets.PUT("/:id", assetHandler.UpdateAsset)
	assets.POST("/:id/adjust-balance", assetHandler.AdjustBalance)
	assets.PUT("/:id/shares", assetHandler.UpdateShares)

	debts := v1.Group("/debts")
	debts.POST("", debtHandler.CreateDebt)
	debts.GET("", debtHandler.ListDebts)
	debts.GET("/:id", debtHandler.GetDebt)
	debts.PUT("/:id", debtHandler.UpdateDebt)

	flows := v1.Group("/flows")
	flows.POST("", flowHandler.SubmitFlow)
	flows.GET("", flowHandler.ListFlows)
	flows.GET("/:id", flowHandler.GetFlow)
	flows.DELETE("/:id", flowHandler.DeleteFlow)

	schedules := v1.Group("/schedules")
	schedules.POST("", scheduleHandler.CreateSchedule)
	schedules.GET("", scheduleHandler.ListSchedules)
	schedules.GET("/:id", scheduleHandler.GetSchedule)
	schedules.DELETE("/:id", scheduleHandler.DeactivateSchedule)
	schedules.POST("/run-due", scheduleHandler.RunDueSchedules)

	rates := v1.Group("/rates")
	rates.GET("", rateHandler.ListRates)
	rates.PUT("", rateHandler.UpsertRate)

	settings := v1.Group("/settings")
	settings.GET("", settingsHandler.GetSettings)
	settings.PUT("", settingsHandler.UpdateSettings)

	networth := v1.Group("/networth")
	networth.GET("/summary", netWorthHandler.GetSummary)
	networth.POST("/snapshots", netWorthHandler.RecordSnapshot)
	networth.GET("/snapshots", netWorthHandler.ListSnapshots)

	md := v1.Group("/market")
	md.GET("/search", marketHandler.SearchSymbols)
	md.GET("/quotes/:ticker", marketHandler.GetQuote)

	presets := v1.Group("/presets")
	presets.GET("", presetHandler.ListPresets)
	presets.GET("/:category", presetHandler.GetPreset)

	// Start the server
	addr := fmt.Sprintf(":%s", cfg.Port)
	log.Infof("Starting server on %s", addr)
	return router.Run(addr)
}
