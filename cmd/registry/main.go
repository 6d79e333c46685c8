package main

import (
	"go.uber.org/zap"

	"briefdesk/internal/registry"
	"briefdesk/pkg/config"
	"briefdesk/pkg/logger"
)

func main() {
	zl := logger.NewLogger()
	defer zl.Sync()

	h := registry.NewHandler(
		registry.NewBookStore(),
		registry.NewCourseStore(),
		registry.NewAddressStore(),
		registry.NewPersonStore(),
	)

	port := config.GetEnv("REGISTRY_PORT", ":8000")
	zl.Info("Starting registry service", zap.String("port", port))

	if err := registry.NewRouter(h).Run(port); err != nil {
		zl.Fatal("registry server failed", zap.Error(err))
	}
}
