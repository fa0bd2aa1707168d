package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/tdt-go-api/internal/config"
	"github.com/noah-isme/tdt-go-api/internal/database"
	"github.com/noah-isme/tdt-go-api/internal/handler"
	"github.com/noah-isme/tdt-go-api/internal/middleware"
	"github.com/noah-isme/tdt-go-api/internal/repository"
	"github.com/noah-isme/tdt-go-api/internal/router"
	"github.com/noah-isme/tdt-go-api/internal/service"
	"github.com/noah-isme/tdt-go-api/pkg/ai"
	cloud "github.com/noah-isme/tdt-go-api/pkg/cloudinary"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Str("app", cfg.AppName).Logger()

	db, err := database.Connect(cfg.DatabaseDriver, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	healthChecks := map[string]handler.Pinger{"database": databasePinger(db)}

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = database.ConnectRedis(cfg.RedisURL)
		if err != nil {
			log.Fatalf("failed to connect to redis: %v", err)
		}
		defer redisClient.Close()
		healthChecks["redis"] = func(ctx context.Context) error { return redisClient.Ping(ctx).Err() }
	}

	var natsConn *nats.Conn
	if cfg.NATSURL != "" {
		natsConn, err = database.ConnectNATS(cfg.NATSURL, cfg.AppName)
		if err != nil {
			log.Fatalf("failed to connect to nats: %v", err)
		}
		defer natsConn.Close()
		healthChecks["nats"] = func(context.Context) error {
			if !natsConn.IsConnected() {
				return errors.New("nats disconnected")
			}
			return nil
		}
	}

	generator, err := ai.NewFromConfig(ai.Settings{
		Provider:          cfg.AIProvider,
		Model:             cfg.AIModel,
		Timeout:           cfg.AITimeout,
		OpenAIAPIKey:      cfg.OpenAIAPIKey,
		GeminiAPIKey:      cfg.GeminiAPIKey,
		HuggingFaceAPIKey: cfg.HuggingFaceAPIKey,
		Logger:            logger,
	})
	if err != nil {
		log.Fatalf("failed to configure ai provider: %v", err)
	}

	var uploader service.FileUploader
	if cfg.CloudinaryEnabled() {
		cld, err := cloud.New(cloud.Config{
			CloudName: cfg.CloudinaryCloudName,
			APIKey:    cfg.CloudinaryAPIKey,
			APISecret: cfg.CloudinaryAPISecret,
			Folder:    cfg.CloudinaryUploadFolder,
		}, logger)
		if err != nil {
			log.Fatalf("failed to create cloudinary client: %v", err)
		}
		uploader = cld
	} else {
		logger.Warn().Msg("cloudinary credentials missing, pipeline export disabled")
	}

	validate := validator.New(validator.WithRequiredStructEnabled())

	transactor := repository.NewTransactor(db)
	userRepo := repository.NewUserRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	stackRepo := repository.NewProjectStackRepository(db)
	feedbackRepo := repository.NewFeedbackRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	activityRepo := repository.NewTaskActivityRepository(db)
	generationRepo := repository.NewAIGenerationRepository(db)
	deploymentRepo := repository.NewDeploymentRepository(db)

	events := service.NewTaskEventPublisher(redisClient, natsConn, cfg.EventChannel, logger)

	authService := service.NewAuthService(userRepo, validate, cfg.JWTSecret, cfg.JWTTTL, logger)
	userService := service.NewUserService(userRepo, validate, logger)
	projectService := service.NewProjectService(projectRepo, userRepo, stackRepo, feedbackRepo, validate, logger)
	taskService := service.NewTaskService(transactor, taskRepo, activityRepo, projectRepo, userRepo, events, validate, logger)
	cicdService := service.NewCICDService(projectRepo, generationRepo, generator, uploader, logger)
	deploymentService := service.NewDeploymentService(transactor, projectRepo, deploymentRepo, validate, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{
		Logger:    &logger,
		AccessLog: cfg.AppEnv == "development",
	})
	router.Register(app, cfg, router.Dependencies{
		AuthHandler:       handler.NewAuthHandler(authService, logger),
		UserHandler:       handler.NewUserHandler(userService, logger),
		ProjectHandler:    handler.NewProjectHandler(projectService, logger),
		TaskHandler:       handler.NewTaskHandler(taskService, logger),
		CICDHandler:       handler.NewCICDHandler(cicdService, logger),
		DeploymentHandler: handler.NewDeploymentHandler(deploymentService, logger),
		AuthChain: []fiber.Handler{
			middleware.JWTProtected(cfg.JWTSecret),
			middleware.CurrentUser(authService),
		},
		HealthChecks: healthChecks,
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app, logger)
}

func databasePinger(db *gorm.DB) handler.Pinger {
	return func(ctx context.Context) error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.PingContext(ctx)
	}
}

func waitForShutdown(app *fiber.App, logger zerolog.Logger) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}

	logger.Info().Msg("server stopped")
}
