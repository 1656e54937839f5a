package main

import (
	"context"
	"time"

	"go-otta/internal/app"
	"go-otta/internal/bootstrap"
	"go-otta/internal/config"
	"go-otta/internal/shared/apperror"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load(ctx)
	if err != nil {
		panic(err)
	}
	logger, err := cfg.NewLogger()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	if cfg.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	apperror.Init()
	r := gin.New()
	r.Use(gin.Recovery())

	// build dependency + routes
	shutdown, err := app.BuildApp(ctx, r, cfg, logger)
	if err != nil {
		logger.Fatal("build app failed", zap.Error(err))
	}

	auditLogger := bootstrap.NewStdoutAuditLogger(logger)
	bootstrap.StartHTTPServer(
		r,
		bootstrap.ServerConfig{
			Port:        cfg.Port,
			ReadTimeout: 5 * time.Second,
			// SSE streams stay open; only the idle timeout bounds them
			WriteTimeout: 0,
			IdleTimeout:  60 * time.Second,
		},
		auditLogger,
		bootstrap.ShutdownHook(shutdown),
	)
}
