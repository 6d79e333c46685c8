package main

import (
	"time"

	"go.uber.org/zap"

	"briefdesk/internal/classify"
	"briefdesk/internal/mqhandler"
	"briefdesk/internal/repository"
	"briefdesk/internal/service"
	"briefdesk/internal/source"
	"briefdesk/internal/taskgen"
	"briefdesk/pkg/config"
	"briefdesk/pkg/db"
	"briefdesk/pkg/logger"
	"briefdesk/pkg/mq"
	redisclient "briefdesk/pkg/redis"
	"briefdesk/pkg/util"
)

func main() {
	// Load config
	cfg := config.Load()

	zl := logger.NewLogger()
	defer zl.Sync()

	zl.Info("Starting worker service...")

	// Init Redis
	rdb := redisclient.NewRedisClient(cfg.Redis)
	defer rdb.Close()

	deduper := util.NewDeduperWithLogger(rdb, time.Hour, zl)
	retryCounter := util.NewRetryCounter(rdb, time.Hour)

	// Init DB
	dbConn, err := db.NewConnection(cfg.DB, zl)
	if err != nil {
		zl.Fatal("DB initialization failed", zap.Error(err))
	}
	defer dbConn.Close()

	zl.Info("Database connection established")

	// Init Publisher (classification.created events and the DLQ)
	publisher, err := mq.NewPublisher(cfg.MQ.URL)
	if err != nil {
		zl.Fatal("failed to init publisher", zap.Error(err))
	}
	defer publisher.Close()

	// Init Repositories
	msgRepo := repository.NewMessageRepository(dbConn)
	clsRepo := repository.NewClassificationRepository(dbConn)
	taskRepo := repository.NewTaskRepository(dbConn)

	// Classifier: model strategy with heuristic fallback when configured.
	var strategy classify.Strategy = classify.NewHeuristic()
	if cfg.OpenAI.APIKey != "" {
		strategy = classify.NewModelStrategy(cfg.OpenAI.APIKey, cfg.OpenAI.Model, classify.NewHeuristic(), zl)
		zl.Info("Classifier running with model strategy", zap.String("model", cfg.OpenAI.Model))
	}
	classifier := classify.New(strategy, zl)

	clsService := service.NewClassificationService(classifier, clsRepo, source.NewRepoSource(msgRepo), publisher, zl)
	taskService := service.NewTaskService(taskgen.New(zl), clsRepo, msgRepo, taskRepo, zl)

	classifyHandler := mqhandler.NewMessageReceivedClassifyHandler(clsService, taskService, publisher, retryCounter, deduper, zl)

	zl.Info("Initializing classify consumer", zap.String("queue", "message.received.classify.q"))
	consumer, err := mq.NewConsumer(cfg.MQ.URL, "message.received.classify.q", "message.received", zl)
	if err != nil {
		zl.Fatal("failed to init classify consumer", zap.Error(err))
	}
	consumer.SetHandler(classifyHandler.HandleMessageReceived)
	go func() {
		zl.Info("Starting classify consumer")
		if err := consumer.StartConsuming(); err != nil {
			zl.Fatal("classify consumer failed", zap.Error(err))
		}
	}()
	defer consumer.Close()

	zl.Info("Consumer started, worker is ready to process messages")

	// Keep worker running
	select {}
}
