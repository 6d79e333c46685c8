package main

import (
	"log"

	"go.uber.org/zap"

	"briefdesk/internal/brief"
	"briefdesk/internal/classify"
	"briefdesk/internal/handler"
	"briefdesk/internal/httpserver"
	"briefdesk/internal/repository"
	"briefdesk/internal/service"
	"briefdesk/internal/service/auth"
	"briefdesk/internal/source"
	"briefdesk/internal/taskgen"
	"briefdesk/pkg/config"
	"briefdesk/pkg/db"
	"briefdesk/pkg/logger"
	"briefdesk/pkg/mq"
)

func main() {
	// Load config
	cfg := config.Load()

	zl := logger.NewLogger()
	defer zl.Sync()

	// Init DB
	dbConn, err := db.NewConnection(cfg.DB, zl)
	if err != nil {
		zl.Fatal("DB initialization failed", zap.Error(err))
	}
	defer dbConn.Close()

	// Init RabbitMQ Publisher
	publisher, err := mq.NewPublisher(cfg.MQ.URL)
	if err != nil {
		log.Fatalf("failed to init publisher: %v", err)
	}
	defer publisher.Close()

	// Init Repositories
	userRepo := repository.NewUserRepository(dbConn)
	msgRepo := repository.NewMessageRepository(dbConn)
	clsRepo := repository.NewClassificationRepository(dbConn)
	taskRepo := repository.NewTaskRepository(dbConn)
	briefRepo := repository.NewBriefRepository(dbConn)

	// Classifier strategy: heuristic by default, model-backed with heuristic
	// fallback when an API key is configured.
	var strategy classify.Strategy = classify.NewHeuristic()
	if cfg.OpenAI.APIKey != "" {
		strategy = classify.NewModelStrategy(cfg.OpenAI.APIKey, cfg.OpenAI.Model, classify.NewHeuristic(), zl)
		zl.Info("Classifier running with model strategy", zap.String("model", cfg.OpenAI.Model))
	}
	classifier := classify.New(strategy, zl)

	// Message source: remote integrations service when configured, local
	// store otherwise.
	var msgSource source.MessageSource = source.NewRepoSource(msgRepo)
	if cfg.MessageSource.URL != "" {
		msgSource = source.NewHTTPSource(cfg.MessageSource.URL, config.GetEnv("MESSAGE_SOURCE_TOKEN", ""))
		zl.Info("Using remote message source", zap.String("url", cfg.MessageSource.URL))
	}

	// Init Services
	authService := auth.NewService(userRepo, cfg.JWT.Secret)
	messageService := service.NewMessageService(msgRepo, publisher, zl)
	clsService := service.NewClassificationService(classifier, clsRepo, msgSource, publisher, zl)
	taskService := service.NewTaskService(taskgen.New(zl), clsRepo, msgRepo, taskRepo, zl)
	briefService := service.NewBriefService(brief.NewBuilder(), clsRepo, msgRepo, briefRepo, zl)

	// Init Handlers
	authHandler := handler.NewAuthHandler(authService)
	messageHandler := handler.NewMessageHandler(messageService, msgRepo, zl)
	clsHandler := handler.NewClassificationHandler(clsService, clsRepo, zl)
	taskHandler := handler.NewTaskHandler(taskService, taskRepo, zl)
	briefHandler := handler.NewBriefHandler(briefService, briefRepo, zl)

	// Router
	router := httpserver.NewRouter(authHandler, messageHandler, clsHandler, taskHandler, briefHandler, cfg.JWT.Secret, dbConn)

	// Start API server
	if err := router.Run(cfg.Server.Port); err != nil {
		zl.Fatal("server start failed", zap.Error(err))
	}
}
