package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/slipbook-erp/slipbook/internal/app"
	"github.com/slipbook-erp/slipbook/internal/auth"
	"github.com/slipbook-erp/slipbook/internal/catalog"
	"github.com/slipbook-erp/slipbook/internal/docstore"
	"github.com/slipbook-erp/slipbook/internal/documents"
	"github.com/slipbook-erp/slipbook/internal/platform/cache"
	"github.com/slipbook-erp/slipbook/internal/platform/db"
	"github.com/slipbook-erp/slipbook/internal/shared"
	"github.com/slipbook-erp/slipbook/internal/stock"
	"github.com/slipbook-erp/slipbook/jobs"
)

// billSource feeds stock reports straight from the bill collection. It
// reads through the repository so construction does not depend on the
// documents service.
type billSource struct {
	repo *documents.Repository
}

func (b billSource) ListBills(ctx context.Context) ([]documents.SlipDocument, error) {
	return b.repo.List(ctx, documents.KindBill)
}

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
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

	sessionManager := shared.NewSessionManager(redisClient, "slipbook_session", cfg.SessionSecret, cfg.SessionTTL, cfg.IsProduction())
	csrfManager := shared.NewCSRFManager(cfg.CSRFSecret)

	verifier := auth.NewConfigVerifier(cfg.OwnerEmail, cfg.OwnerPasswordHash)
	authHandler := auth.NewHandler(logger, verifier, sessionManager, csrfManager)

	catalogRepo := catalog.NewRepository(store)
	catalogService := catalog.NewService(catalogRepo)
	catalogHandler := catalog.NewHandler(logger, catalogService)

	documentsRepo := documents.NewRepository(store)
	stockRepo := stock.NewRepository(store)
	stockService := stock.NewService(stockRepo, catalogService, billSource{repo: documentsRepo}, logger)
	documentsService := documents.NewService(documentsRepo, catalogService, stockService, logger)
	documentsService.StartWatch(ctx)
	documentsHandler := documents.NewHandler(logger, documentsService, catalogService)

	reportCache := stock.NewReportCache(redisClient, cfg.ReportCacheTTL)
	stockHandler := stock.NewHandler(logger, stockService, reportCache)

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()
	jobHandler := jobs.NewHandler(inspector, logger)

	router := app.NewRouter(app.RouterParams{
		Logger:           logger,
		Config:           cfg,
		SessionManager:   sessionManager,
		CSRFManager:      csrfManager,
		AuthHandler:      authHandler,
		CatalogHandler:   catalogHandler,
		DocumentsHandler: documentsHandler,
		StockHandler:     stockHandler,
		JobHandler:       jobHandler,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
