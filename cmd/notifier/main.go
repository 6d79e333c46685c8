package main

import (
	"time"

	"go.uber.org/zap"

	"briefdesk/internal/mqhandler"
	"briefdesk/internal/repository"
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

	zl.Info("Starting notifier service...")

	// Init Redis
	rdb := redisclient.NewRedisClient(cfg.Redis)
	defer rdb.Close()

	deduper := util.NewDeduperWithLogger(rdb, time.Hour, zl)

	// Init DB
	dbConn, err := db.NewConnection(cfg.DB, zl)
	if err != nil {
		zl.Fatal("DB initialization failed", zap.Error(err))
	}
	defer dbConn.Close()

	// Publisher is only used for parking malformed payloads on the DLQ.
	publisher, err := mq.NewPublisher(cfg.MQ.URL)
	if err != nil {
		zl.Fatal("failed to init publisher", zap.Error(err))
	}
	defer publisher.Close()

	notiLogRepo := repository.NewNotificationLogRepository(dbConn)
	notifyHandler := mqhandler.NewClassificationCreatedNotifyHandler(notiLogRepo, publisher, deduper, zl)

	zl.Info("Initializing notify consumer", zap.String("queue", "classification.created.notify.q"))
	consumer, err := mq.NewConsumer(cfg.MQ.URL, "classification.created.notify.q", "classification.created", zl)
	if err != nil {
		zl.Fatal("failed to init notify consumer", zap.Error(err))
	}
	consumer.SetHandler(notifyHandler.HandleClassificationCreated)
	go func() {
		zl.Info("Starting notify consumer")
		if err := consumer.StartConsuming(); err != nil {
			zl.Fatal("notify consumer failed", zap.Error(err))
		}
	}()
	defer consumer.Close()

	zl.Info("Consumer started, notifier is ready to process events")

	select {}
}
