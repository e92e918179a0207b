// @title Quiz Gate API
// @version 1.0
// @description Course quiz attempts, retry cooldowns and completion certificates.
// @host localhost:8090
// @BasePath /api
// @schemes http https
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization
// @description Type 'Bearer YOUR_JWT_TOKEN' to authorize.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	_ "quiz-gate/cmd/api/docs"
	"quiz-gate/internal/adapter"
	"quiz-gate/internal/cache"
	"quiz-gate/internal/config"
	"quiz-gate/internal/database"
	"quiz-gate/internal/domain"
	"quiz-gate/internal/handler"
	"quiz-gate/internal/logger"
	"quiz-gate/internal/middleware"
	"quiz-gate/internal/repository"
	"quiz-gate/internal/service"
	"quiz-gate/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Initialize(cfg.Logger); err != nil {
		panic(err)
	}
	appLogger := logger.Get()
	defer logger.Sync()

	db, err := database.NewSQLXOracleDB(cfg)
	if err != nil {
		appLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	// Redis only backs the quiz definition cache; run without it if unreachable.
	var definitionCache domain.Cache
	redisClient, err := cache.NewRedisClient(cfg.Redis)
	if err != nil {
		appLogger.Warn("Redis unavailable, quiz definitions will be read from the database", zap.Error(err))
	} else {
		defer redisClient.Close()
		definitionCache = adapter.NewRedisCacheAdapter(redisClient)
		appLogger.Info("Successfully connected to Redis")
	}

	// Repositories
	quizRepository := repository.NewSQLXQuizRepository(db)
	progressStore := repository.NewSQLXProgressStore(db)
	videoRepository := repository.NewSQLXVideoProgressRepository(db)
	txManager := repository.NewTransactionManagerAdapter(db)

	// Services
	clock := domain.SystemClock{}
	quizDefinitions := service.NewQuizDefinitionService(quizRepository, definitionCache, cfg.Quiz.DefinitionCacheTTL)
	attemptController := service.NewQuizAttemptController(progressStore, quizDefinitions, clock, cfg.Policy())
	cooldownWatcher := service.NewCooldownWatcher(attemptController, clock, cfg.Quiz.CountdownTick)
	videoProgress := service.NewVideoProgressService(
		videoRepository,
		txManager,
		attemptController,
		clock,
		cfg.Completion.VideoWatchThresholdPercent,
		cfg.Completion.VideoCompletionScore,
	)

	authService, err := service.NewAuthService(cfg.JWT.SecretKey, cfg.JWT.Issuer)
	if err != nil {
		appLogger.Fatal("Failed to create AuthService", zap.Error(err))
	}

	validator := validation.NewValidator()

	handlers := handler.Handlers{
		Quiz:     handler.NewQuizHandler(quizDefinitions, attemptController, cooldownWatcher, validator, clock),
		Progress: handler.NewProgressHandler(videoProgress, validator),
		Health:   handler.NewHealthHandler(definitionCache),
	}

	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.ReadTimeout,
		BodyLimit:    1024 * 1024,
		ErrorHandler: middleware.ErrorHandler(clock),
	})

	app.Use(recover.New())
	app.Use(middleware.RequestLogger())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization",
		MaxAge:       300,
	}))

	app.Get("/swagger/*", swagger.HandlerDefault)
	handler.RegisterRoutes(app, handlers, authService, middleware.NewValidationMiddleware(validator))

	go func() {
		appLogger.Info("Starting server",
			zap.Int("port", cfg.Server.Port),
			zap.String("env", cfg.Logger.Env),
			zap.Int("max_attempts", cfg.Quiz.MaxAttempts),
			zap.Duration("cooldown", cfg.Quiz.Cooldown))
		if err := app.Listen(":" + strconv.Itoa(cfg.Server.Port)); err != nil {
			appLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(ctx); err != nil {
		appLogger.Error("Server forced to shutdown", zap.Error(err))
	}
	appLogger.Info("Server exited gracefully")
}
