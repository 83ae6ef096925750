package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/noah-isme/essay-api/internal/config"
	"github.com/noah-isme/essay-api/internal/database"
	"github.com/noah-isme/essay-api/internal/handler"
	"github.com/noah-isme/essay-api/internal/middleware"
	"github.com/noah-isme/essay-api/internal/models"
	"github.com/noah-isme/essay-api/internal/repository"
	"github.com/noah-isme/essay-api/internal/router"
	"github.com/noah-isme/essay-api/internal/service"
	"github.com/noah-isme/essay-api/pkg/grader"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	db, err := database.ConnectPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(&models.User{}, &models.Student{}, &models.Assignment{}, &models.Essay{}); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = database.ConnectRedis(cfg.RedisURL)
		if err != nil {
			log.Fatalf("failed to connect to redis: %v", err)
		}
		defer redisClient.Close()
	} else {
		logger.Warn().Msg("redis url not configured, dashboard caching disabled")
	}

	evaluator := buildEvaluator(cfg, logger)

	validate := validator.New(validator.WithRequiredStructEnabled())

	userRepo := repository.NewUserRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	assignmentRepo := repository.NewAssignmentRepository(db)
	essayRepo := repository.NewEssayRepository(db)

	authService := service.NewAuthService(userRepo, studentRepo, validate, cfg.JWTSecret, cfg.TokenTTL, logger)
	assignmentService := service.NewAssignmentService(assignmentRepo, validate, logger)
	essayService := service.NewEssayService(essayRepo, studentRepo, assignmentRepo, evaluator, validate, logger)
	rosterService := service.NewRosterService(studentRepo, userRepo, validate, logger)
	dashboardService := service.NewDashboardService(assignmentRepo, essayRepo, studentRepo, redisClient, cfg.DashboardCacheTTL, logger)

	authHandler := handler.NewAuthHandler(authService, logger)
	assignmentHandler := handler.NewAssignmentHandler(assignmentService, logger)
	essayHandler := handler.NewEssayHandler(essayService, logger)
	studentHandler := handler.NewStudentHandler(rosterService, dashboardService, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, router.Dependencies{
		AuthHandler:       authHandler,
		AssignmentHandler: assignmentHandler,
		EssayHandler:      essayHandler,
		StudentHandler:    studentHandler,
		AuthMiddleware:    middleware.Authenticate(cfg.JWTSecret, userRepo),
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app)
}

// buildEvaluator picks the grading backend: a dedicated oracle service when
// configured, otherwise the OpenAI evaluator, otherwise none.
func buildEvaluator(cfg config.Config, logger zerolog.Logger) grader.Evaluator {
	if cfg.GraderURL != "" {
		client, err := grader.NewClient(grader.ClientConfig{
			BaseURL: cfg.GraderURL,
			Timeout: cfg.GraderTimeout,
			Logger:  logger,
		})
		if err != nil {
			log.Fatalf("failed to create grader client: %v", err)
		}
		return client
	}

	if cfg.AIProvider == "openai" && cfg.OpenAIAPIKey != "" {
		evaluator, err := grader.NewOpenAIEvaluator(grader.OpenAIConfig{
			APIKey: cfg.OpenAIAPIKey,
			Model:  cfg.OpenAIModel,
			Logger: logger,
		})
		if err != nil {
			log.Fatalf("failed to create openai evaluator: %v", err)
		}
		return evaluator
	}

	logger.Warn().Msg("no grading backend configured, evaluation endpoint disabled")
	return nil
}

func waitForShutdown(app *fiber.App) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("server stopped")
}
