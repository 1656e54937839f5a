package app

import (
	"context"
	"net/http"

	"go-otta/internal/attendance"
	"go-otta/internal/config"
	"go-otta/internal/insight"
	"go-otta/internal/ledger"
	"go-otta/internal/notification"
	"go-otta/internal/replication"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// BuildApp connects infrastructure, starts the background workers and
// mounts every route on router. The returned function stops the workers and
// releases connections.
func BuildApp(ctx context.Context, router *gin.Engine, cfg *config.Config, logger *zap.Logger) (func(context.Context), error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	store, rdb, closers, err := openStore(ctx, cfg, logger)
	if err != nil {
		release(closers)
		return nil, err
	}

	sink, sinkClosers, err := openSink(cfg, logger)
	if err != nil {
		release(closers)
		return nil, err
	}
	closers = append(closers, sinkClosers...)

	keys := ledger.NewKeys(cfg.Ledger.KeyPrefix)
	repo := ledger.NewRepository(store, keys, logger)
	engine := attendance.NewEngine(loc)
	bus := notification.NewBus(logger)
	dispatcher := replication.NewDispatcher(sink, cfg.Replication.QueueSize, cfg.Replication.Timeout, logger)

	var generator insight.Generator
	if cfg.Insight.APIKey != "" {
		generator = insight.NewClient(cfg.Insight.BaseURL, cfg.Insight.APIKey, cfg.Insight.Model, cfg.Insight.Timeout)
	}

	workerCtx, cancel := context.WithCancel(context.Background())

	relay := notification.NewRelay(store, bus, keys.Logs, cfg.Ledger.Recency, logger)
	go func() {
		if err := relay.Run(workerCtx); err != nil {
			logger.Warn("change relay stopped, remote notifications disabled", zap.Error(err))
		}
	}()
	go dispatcher.Run(workerCtx)

	registerModules(router, modules{
		cfg:        cfg,
		loc:        loc,
		repo:       repo,
		engine:     engine,
		bus:        bus,
		dispatcher: dispatcher,
		generator:  generator,
		rdb:        rdb,
		logger:     logger,
	})

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "backend": cfg.Ledger.Backend})
	})

	shutdown := func(ctx context.Context) {
		if err := dispatcher.Close(ctx); err != nil {
			logger.Warn("replication queue not drained", zap.Error(err))
		}
		cancel()
		release(closers)
	}
	return shutdown, nil
}

func release(closers []closer) {
	for i := len(closers) - 1; i >= 0; i-- {
		closers[i]()
	}
}
