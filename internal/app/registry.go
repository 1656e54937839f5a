package app

import (
	"time"

	"go-otta/internal/analytics"
	"go-otta/internal/attendance"
	"go-otta/internal/config"
	"go-otta/internal/insight"
	"go-otta/internal/ledger"
	"go-otta/internal/middleware"
	"go-otta/internal/notification"
	"go-otta/internal/replication"
	"go-otta/internal/report"
	"go-otta/internal/user"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

type modules struct {
	cfg        *config.Config
	loc        *time.Location
	repo       ledger.Repository
	engine     *attendance.Engine
	bus        *notification.Bus
	dispatcher *replication.Dispatcher
	generator  insight.Generator
	rdb        *redis.Client
	logger     *zap.Logger
}

func registerModules(router *gin.Engine, m modules) {
	// --- Services ---
	userService := user.NewService(m.repo, m.dispatcher, m.logger)
	attendanceService := attendance.NewService(m.repo, m.engine, m.bus, m.dispatcher, m.logger)
	reportService := report.NewService(m.repo, m.loc, m.logger)
	analyticsService := analytics.NewService(m.repo, m.loc, m.logger)
	insightService := insight.NewService(m.repo, m.generator, m.logger)

	// --- Handlers ---
	userHandler := user.NewHandler(userService, m.logger)
	var attendanceHandler *attendance.Handler
	if m.rdb != nil {
		attendanceHandler = attendance.NewHandlerWithRedis(attendanceService, m.rdb)
	} else {
		attendanceHandler = attendance.NewHandler(attendanceService)
	}
	notificationHandler := notification.NewHandler(m.bus)
	reportHandler := report.NewHandler(reportService)
	analyticsHandler := analytics.NewHandler(analyticsService)
	insightHandler := insight.NewHandler(insightService)

	userLimit := middleware.RateLimitByUser(rate.Limit(m.cfg.RateLimit.RPS), m.cfg.RateLimit.Burst)
	insightLimit := middleware.RateLimitByIP(rate.Limit(0.2), 2)

	// --- Routes Registration ---
	api := router.Group("/api/v1")
	api.Use(middleware.ContextLogger(m.logger), middleware.AccessLog(m.logger))
	{
		user.RegisterRoutes(api, userHandler)
		attendance.RegisterRoutes(api, attendanceHandler, m.rdb, userLimit)
		notification.RegisterRoutes(api, notificationHandler)
		report.RegisterRoutes(api, reportHandler)
		analytics.RegisterRoutes(api, analyticsHandler)
		insight.RegisterRoutes(api, insightHandler, insightLimit)
	}
}
