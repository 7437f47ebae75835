package main

import (
	"context"
	"coursetrack/backend/apperr"
	"coursetrack/backend/config"
	"coursetrack/backend/middleware"
	"coursetrack/backend/progress"
	"coursetrack/backend/repository"
	"coursetrack/backend/routes"
	"coursetrack/backend/utils"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	// Initialize logger
	logger, err := utils.InitLogger(cfg.LogMode)
	if err != nil {
		log.Fatalf("Error initializing logger: %v", err)
	}
	defer logger.Sync()

	// Initialize database
	db, err := utils.InitDB(cfg)
	if err != nil {
		logger.Fatal("database init failed", "driver", cfg.DBDriver, "error", err)
	}
	if err := utils.Migrate(db); err != nil {
		logger.Fatal("migration failed", "error", err)
	}

	sessions, closeSessions, err := newSessionStore(cfg, logger)
	if err != nil {
		logger.Fatal("session store init failed", "store", cfg.SessionStore, "error", err)
	}
	defer closeSessions()

	svc := progress.NewService(progress.Deps{
		DB:          db,
		Courses:     repository.NewCourseRepo(db, logger),
		Users:       repository.NewUserRepo(db, logger),
		Completions: repository.NewCompletionRepo(db, logger),
		Enrollments: repository.NewEnrollmentRepo(db, logger),
		Activities:  repository.NewActivityRepo(db, logger),
		Sessions:    sessions,
		Log:         logger,
	}, progress.Options{
		EngagementGate: cfg.EngagementGate,
		Atomic:         cfg.ProgressAtomic,
	})

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName: "coursetrack",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			var fe *fiber.Error
			if errors.As(err, &fe) || apperr.KindOf(err) != "" {
				return utils.AppError(c, err)
			}
			logger.Error("unhandled error", "path", c.Path(), "error", err)
			return utils.Error(c, fiber.StatusInternalServerError, errors.New("internal error"))
		},
	})

	// Middleware
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-Request-ID",
	}))
	app.Use(middleware.LoggingMiddleware(logger))

	// Setup routes
	routes.SetupRoutes(app, svc, cfg)

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		logger.Info("shutting down")
		_ = app.Shutdown()
	}()

	// Start server
	logger.Info("listening", "port", cfg.ServerPort, "session_store", cfg.SessionStore, "atomic", cfg.ProgressAtomic)
	if err := app.Listen(":" + cfg.ServerPort); err != nil {
		logger.Fatal("server stopped", "error", err)
	}
}

func newSessionStore(cfg *config.Config, logger *utils.Logger) (progress.SessionStore, func(), error) {
	switch cfg.SessionStore {
	case "redis":
		rdb, err := progress.DialRedis(context.Background(), cfg.RedisAddr)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("redis session store ready", "addr", cfg.RedisAddr, "ttl", cfg.SessionTTL.String())
		return progress.NewRedisSessionStore(rdb, cfg.SessionTTL), func() { _ = rdb.Close() }, nil
	case "memory", "":
		return progress.NewMemorySessionStore(), func() {}, nil
	default:
		return nil, nil, errors.New("unknown SESSION_STORE " + cfg.SessionStore)
	}
}
