package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"

	"github.com/slipbook-erp/slipbook/internal/app"
	"github.com/slipbook-erp/slipbook/internal/catalog"
	"github.com/slipbook-erp/slipbook/internal/docstore"
	"github.com/slipbook-erp/slipbook/internal/documents"
	"github.com/slipbook-erp/slipbook/internal/platform/cache"
	"github.com/slipbook-erp/slipbook/internal/platform/db"
	"github.com/slipbook-erp/slipbook/internal/stock"
	"github.com/slipbook-erp/slipbook/jobs"
)

type billSource struct {
	repo *documents.Repository
}

func (b billSource) ListBills(ctx context.Context) ([]documents.SlipDocument, error) {
	return b.repo.List(ctx, documents.KindBill)
}

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping worker startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	store := docstore.NewPostgres(pool)
	if err := store.EnsureSchema(ctx); err != nil {
		logger.Error("ensure schema", slog.Any("error", err))
		os.Exit(1)
	}

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	catalogRepo := catalog.NewRepository(store)
	catalogService := catalog.NewService(catalogRepo)

	documentsRepo := documents.NewRepository(store)
	stockRepo := stock.NewRepository(store)
	stockService := stock.NewService(stockRepo, catalogService, billSource{repo: documentsRepo}, logger)

	reportCache := stock.NewReportCache(redisClient, cfg.ReportCacheTTL)
	warmupJob := jobs.NewReportWarmupJob(stockService, reportCache, logger)

	stockCheckTask, err := jobs.NewStockCheckWarmupTask(jobs.StockCheckWarmupPayload{})
	if err != nil {
		logger.Error("build stock check task", slog.Any("error", err))
		os.Exit(1)
	}
	partyBalanceTask, err := jobs.NewPartyBalanceWarmupTask(jobs.PartyBalanceWarmupPayload{})
	if err != nil {
		logger.Error("build party balance task", slog.Any("error", err))
		os.Exit(1)
	}

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Logger:    logger,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskStockCheckWarmup, Handler: warmupJob.HandleStockCheck},
			{Type: jobs.TaskPartyBalanceWarmup, Handler: warmupJob.HandlePartyBalances},
		},
		Cron: []jobs.CronRegistration{
			{Spec: "15 1 * * *", Task: stockCheckTask, Options: []asynq.Option{asynq.MaxRetry(3)}},
			{Spec: "30 1 * * *", Task: partyBalanceTask, Options: []asynq.Option{asynq.MaxRetry(3)}},
		},
	})
	if err != nil {
		logger.Error("init worker", slog.Any("error", err))
		os.Exit(1)
	}

	if err := worker.Run(ctx); err != nil && err != context.Canceled {
		logger.Error("worker run", slog.Any("error", err))
		os.Exit(1)
	}
}
