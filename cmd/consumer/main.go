package main

import (
	"context"

	"go-otta/internal/app"
	"go-otta/internal/config"
	"go-otta/internal/shared/apperror"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load(context.Background())
	if err != nil {
		panic(err)
	}
	logger, err := cfg.NewLogger()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	apperror.Init()

	if err := app.RunConsumer(cfg); err != nil {
		logger.Fatal("run consumer failed", zap.Error(err))
	}
}
