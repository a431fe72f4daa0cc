package main

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	"github.com/AAOS-Opus/bioelectric-tracker-sub005/internal/cache"
	"github.com/AAOS-Opus/bioelectric-tracker-sub005/internal/config"
	"github.com/AAOS-Opus/bioelectric-tracker-sub005/internal/handlers"
	"github.com/AAOS-Opus/bioelectric-tracker-sub005/internal/insights"
	"github.com/AAOS-Opus/bioelectric-tracker-sub005/internal/logger"
	"github.com/AAOS-Opus/bioelectric-tracker-sub005/internal/middleware"
	"github.com/AAOS-Opus/bioelectric-tracker-sub005/internal/repository"
	"github.com/AAOS-Opus/bioelectric-tracker-sub005/internal/service"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the API server",
	Long:  `Start the HTTP API server and listen for requests.`,
	RunE:  runServe,
}

var port string

func init() {
	serveCmd.Flags().StringVarP(&port, "port", "p", "", "Port to listen on (overrides config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if port != "" {
		cfg.Server.Port = port
	}

	log := logger.New(logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})
	log.Info("starting tracker API server", logger.String("env", cfg.Server.Env))

	store, err := cache.OpenBadgerStore(cfg.Cache.StorePath)
	if err != nil {
		return err
	}
	defer store.Close()

	insightCache := cache.New(cache.Config{
		TTL:        cfg.Cache.TTL,
		MaxSize:    cfg.Cache.MaxSize,
		StorageKey: cfg.Cache.StorageKey,
	}, store, log)

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	engine := insights.NewEngine(nil, insights.NewPrioritizer(rng))

	records := repository.NewFileRecordRepository(cfg.Data.RecordsDir)
	insightService := service.NewInsightService(records, engine, insightCache, log)
	insightsHandler := handlers.NewInsightsHandler(insightService, log)

	// The cache never schedules its own cleanup; the application owns
	// the timer so tests can call Cleanup directly.
	scheduler := cron.New()
	schedule := fmt.Sprintf("@every %s", cfg.Cache.CleanupInterval)
	if _, err := scheduler.AddFunc(schedule, func() {
		if removed := insightCache.Cleanup(); removed > 0 {
			log.Info("cache cleanup", logger.Int("removed", removed))
		}
	}); err != nil {
		return fmt.Errorf("failed to schedule cache cleanup: %w", err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORS(cfg.Server.AllowedOrigins))
	router.Use(middleware.RequestLogger(log))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "ok",
			"env":    cfg.Server.Env,
		})
	})

	v1 := router.Group("/api/v1")
	protected := v1.Group("")
	protected.Use(middleware.RequireUserID())
	{
		protected.GET("/insights", insightsHandler.GetInsights)
		protected.POST("/insights/refresh", insightsHandler.RefreshInsights)
		protected.GET("/insights/cache/stats", insightsHandler.GetCacheStats)
	}

	log.Info("server listening", logger.String("port", cfg.Server.Port))
	if err := router.Run(":" + cfg.Server.Port); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}
