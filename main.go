package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"unjumble/config"
	"unjumble/handlers"
	"unjumble/models"
	"unjumble/routes"
	"unjumble/services"
	"unjumble/storage"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

func main() {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	cfg := config.Load()

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	logger := zerolog.New(os.Stdout).Level(level).With().Timestamp().Logger()

	// Initialize database
	db, err := config.InitDB(cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}

	// Auto-migrate database models
	err = db.AutoMigrate(
		&models.User{},
		&models.GameTemplate{},
		&models.Game{},
	)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to migrate database")
	}

	if err := seedTemplates(db); err != nil {
		logger.Fatal().Err(err).Msg("failed to seed game templates")
	}

	// Initialize Redis
	redisClient := config.InitRedis(cfg)

	// Initialize media storage
	bucket, err := storage.OpenLocalBucket(cfg.MediaDir)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open media bucket")
	}
	media := storage.NewMediaStore(bucket)
	defer media.Close()

	// Initialize services
	cache := services.NewPlayCache(redisClient, cfg.CacheTTL)
	authService := services.NewAuthService(db, cfg.JWTSecret)
	gameService := services.NewGameService(db, media, cache, logger)
	playService := services.NewPlayService(db, cache, logger)

	// Background cleanup of soft-deleted games and their media
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	reaper := services.NewReaper(db, media, logger, cfg.ReapInterval, cfg.ReapAfter)
	go reaper.Run(ctx)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	gameHandler := handlers.NewGameHandler(gameService)
	playHandler := handlers.NewPlayHandler(playService)

	// Setup Gin router
	router := gin.Default()
	router.Use(cors.Default())

	routes.SetupRoutes(router, authHandler, gameHandler, playHandler, cfg.JWTSecret)

	logger.Info().Str("port", cfg.Port).Msg("server starting")
	if err := router.Run(":" + cfg.Port); err != nil {
		logger.Fatal().Err(err).Msg("failed to start server")
	}
}

func seedTemplates(db *gorm.DB) error {
	template := models.GameTemplate{Name: "Unjumble", Slug: models.TemplateUnjumble}
	return db.Where(models.GameTemplate{Slug: template.Slug}).FirstOrCreate(&template).Error
}
