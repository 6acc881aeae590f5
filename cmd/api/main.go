package main

import (
	"context"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"github.com/minio/minio-go/v7"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"donor-finder/internal/config"
	"donor-finder/internal/handler"
	"donor-finder/internal/metrics"
	"donor-finder/internal/middleware"
	"donor-finder/internal/repository"
	"donor-finder/internal/service"
	"donor-finder/web"
)

func main() {
	envErr := godotenv.Load()

	cfg := config.Load()

	zlog, err := config.NewLogger(cfg.LogLevel, cfg.LogFormat, "donor-finder")
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer zlog.Sync()

	if envErr != nil {
		zlog.Info("no .env file found, using environment variables")
	}

	var db *sqlx.DB
	if cfg.DatabaseURL != "" {
		db, err = config.NewPostgresDB(cfg)
		if err != nil {
			zlog.Fatal("failed to connect to database", zap.Error(err))
		}
		defer db.Close()
	}

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = config.NewRedisClient(cfg)
		if err != nil {
			zlog.Warn("redis unavailable, index invalidation stays local", zap.Error(err))
			redisClient = nil
		} else {
			defer redisClient.Close()
		}
	}

	var minioClient *minio.Client
	if cfg.MinIOEndpoint != "" {
		minioClient, err = config.NewMinIOClient(cfg, zlog)
		if err != nil {
			zlog.Warn("minio unavailable, workbook archiving disabled", zap.Error(err))
			minioClient = nil
		}
	}

	repos := repository.NewRepositories(cfg.DataPath, db)
	if repos.Dispatch != nil {
		if err := repos.Dispatch.EnsureSchema(context.Background()); err != nil {
			zlog.Fatal("failed to prepare dispatch log", zap.Error(err))
		}
	}

	registry := prometheus.NewRegistry()
	m := metrics.New(registry)

	services, err := service.NewServices(repos, redisClient, minioClient, cfg, m, zlog)
	if err != nil {
		zlog.Fatal("failed to build services", zap.Error(err))
	}
	handlers := handler.NewHandlers(services)

	// Warm the index. A bad sheet is logged and retried on the next request.
	if _, err := services.Index.EnsureLoaded(context.Background()); err != nil {
		zlog.Warn("donor data not loaded at startup", zap.String("path", cfg.DataPath), zap.Error(err))
	}

	app := fiber.New(fiber.Config{
		ErrorHandler: middleware.ErrorHandler(zlog),
		Views:        web.NewEngine(),
	})

	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Next: func(c *fiber.Ctx) bool {
			return c.Path() == "/health" || c.Path() == "/metrics"
		},
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept",
		AllowMethods: "GET, POST, OPTIONS",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	handler.SetupRoutes(app, handlers)

	zlog.Info("server starting",
		zap.String("port", cfg.Port),
		zap.String("environment", cfg.Environment),
		zap.String("data_path", cfg.DataPath),
	)
	if err := app.Listen(":" + cfg.Port); err != nil {
		zlog.Fatal("failed to start server", zap.Error(err))
	}
}
