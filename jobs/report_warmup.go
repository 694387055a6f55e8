package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/slipbook-erp/slipbook/internal/stock"
)

// ReportWarmupJob pre-populates the report cache so the first morning
// request does not pay the aggregation cost.
type ReportWarmupJob struct {
	Stock  *stock.Service
	Cache  *stock.ReportCache
	Logger *slog.Logger
	clock  func() time.Time
}

// NewReportWarmupJob wires dependencies for the warmup handlers.
func NewReportWarmupJob(stockSvc *stock.Service, cache *stock.ReportCache, logger *slog.Logger) *ReportWarmupJob {
	return &ReportWarmupJob{
		Stock:  stockSvc,
		Cache:  cache,
		Logger: logger,
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// HandleStockCheck processes TaskStockCheckWarmup tasks.
func (j *ReportWarmupJob) HandleStockCheck(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Stock == nil {
		return errors.New("report warmup: handler not configured")
	}
	var payload StockCheckWarmupPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	if payload.Date == "" {
		payload.Date = j.now().Format(stock.DateLayout)
	}

	logger := j.logger().With(slog.String("date", payload.Date))
	started := j.now()

	rows, err := j.Stock.StockCheckReport(ctx, payload.Date)
	if err != nil {
		logger.Error("compute stock check", slog.Any("error", err))
		return err
	}
	if err := j.Cache.SetStockCheck(ctx, payload.Date, rows); err != nil {
		logger.Error("cache stock check", slog.Any("error", err))
		return err
	}

	logger.Info("completed stock check warmup",
		slog.Int("rows", len(rows)),
		slog.Duration("duration", time.Since(started)))
	return nil
}

// HandlePartyBalances processes TaskPartyBalanceWarmup tasks.
func (j *ReportWarmupJob) HandlePartyBalances(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Stock == nil {
		return errors.New("report warmup: handler not configured")
	}
	logger := j.logger()
	started := j.now()

	rows, err := j.Stock.PartyBalances(ctx)
	if err != nil {
		logger.Error("compute party balances", slog.Any("error", err))
		return err
	}
	if err := j.Cache.SetPartyBalances(ctx, rows); err != nil {
		logger.Error("cache party balances", slog.Any("error", err))
		return err
	}

	logger.Info("completed party balance warmup",
		slog.Int("rows", len(rows)),
		slog.Duration("duration", time.Since(started)))
	return nil
}

func (j *ReportWarmupJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger.With(slog.String("job", "report_warmup"))
	}
	return slog.Default().With(slog.String("job", "report_warmup"))
}

func (j *ReportWarmupJob) now() time.Time {
	if j.clock != nil {
		return j.clock()
	}
	return time.Now().UTC()
}
