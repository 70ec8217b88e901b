package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	pkgvalidator "github.com/minhducdev/clipforge/pkg/validator"

	"github.com/minhducdev/clipforge/internal/adapter/handler"
	"github.com/minhducdev/clipforge/internal/adapter/repository"
	"github.com/minhducdev/clipforge/internal/infrastructure/cache"
	"github.com/minhducdev/clipforge/internal/infrastructure/database"
	"github.com/minhducdev/clipforge/internal/infrastructure/external/mediasearch"
	"github.com/minhducdev/clipforge/internal/infrastructure/external/scriptgen"
	"github.com/minhducdev/clipforge/internal/infrastructure/external/tts"
	"github.com/minhducdev/clipforge/internal/infrastructure/storage"
	"github.com/minhducdev/clipforge/internal/render"
	"github.com/minhducdev/clipforge/internal/usecase/generation"
	"github.com/minhducdev/clipforge/pkg/config"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize Echo instance
	e := echo.New()

	// Register validator for request validation
	e.Validator = pkgvalidator.New()

	// Configure Echo
	e.HideBanner = true
	e.HidePort = false

	// Custom logger format
	e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Format: "${time_rfc3339} | ${status} | ${method} ${uri} | ${latency_human}\n",
	}))

	// Recover from panics
	e.Use(middleware.Recover())

	// CORS middleware
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.Server.AllowedOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
	}))

	// Initialize dependencies
	log.Println("🔧 Initializing dependencies...")

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	// Initialize Database
	log.Println("📦 Connecting to database...")
	db, err := database.NewPostgresDB(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.CloseDB(db)

	// Run AutoMigrate only when explicitly enabled in config.
	// Production deployments should manage schema via sql-migrate.
	if cfg.Database.AutoMigrate {
		if cfg.Server.Environment == "production" {
			log.Fatalf("AutoMigrate is enabled in production. Disable DB_AUTO_MIGRATE or manage schema with sql-migrate.")
		}
		log.Println("🔄 Running GORM AutoMigrate (development only) ...")
		if err := database.AutoMigrate(db); err != nil {
			log.Fatalf("Failed to run AutoMigrate: %v", err)
		}
	} else {
		log.Println("🔄 Skipping GORM AutoMigrate; use sql-migrate for schema migrations in CI/CD/production")
	}

	// Initialize cache: Redis when reachable, in-memory otherwise
	log.Println("📦 Connecting to Redis...")
	var cacheStore cache.Store
	redisStore, err := cache.NewRedisClient(cfg)
	if err != nil {
		log.Printf("⚠️  Redis unavailable (%v), falling back to in-memory cache", err)
		cacheStore = cache.NewMemoryStore()
	} else {
		defer redisStore.Close()
		cacheStore = redisStore
	}

	// Initialize artifact storage
	log.Println("🗄️  Connecting to object storage...")
	minioClient, err := storage.NewMinIOClient(&cfg.Storage)
	if err != nil {
		log.Fatalf("Failed to connect to object storage: %v", err)
	}

	// Initialize external clients
	log.Println("🤖 Initializing external clients...")
	scriptClient := scriptgen.NewClient(&cfg.ScriptGen)
	ttsClient := tts.NewClient(&cfg.TTS)
	localVoice := tts.NewLocalSynthesizer(cfg.TTS.LocalBinary, cfg.Render.WorkDir)
	mediaClient := mediasearch.NewClient(&cfg.MediaSearch, cacheStore, logger)

	// Initialize render toolbox
	ffmpeg := render.NewFFmpeg(cfg.Render.FFmpegBinary, cfg.Render.WorkDir)
	encoderFactory := func() render.Encoder { return ffmpeg.NewEncoder() }

	// Initialize the generation pipeline
	log.Println("🎬 Initializing generation pipeline...")
	resolver := generation.NewResolver(minioClient, mediaClient, ffmpeg, logger)
	genService := generation.NewService(
		scriptClient,
		ttsClient,
		localVoice,
		resolver,
		encoderFactory,
		cfg,
		logger,
	)

	// Initialize repositories and the job runner
	jobRepo := repository.NewRenderJobRepository(db)
	runner := generation.NewRunner(genService, jobRepo, minioClient, cacheStore, cfg.Render.MaxConcurrent, logger)

	// Initialize handlers and routes
	log.Println("🛣️  Setting up routes...")
	videoHandler := handler.NewVideoHandler(runner, jobRepo, minioClient, logger)
	router := handler.NewRouter(cfg, videoHandler)
	router.Setup(e)

	// Start server
	go func() {
		addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
		log.Printf("🚀 Starting server on %s", addr)
		log.Printf("📝 Environment: %s", cfg.Server.Environment)
		log.Printf("🔗 Health check: http://%s/health", addr)

		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		log.Fatalf("❌ Server forced to shutdown: %v", err)
	}

	// Let in-flight render jobs finish before the process exits
	runner.Wait()

	log.Println("✅ Server stopped gracefully")
}
