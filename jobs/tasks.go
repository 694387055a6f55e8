package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskStockCheckWarmup pre-computes the stock check report.
	TaskStockCheckWarmup = "report:stock_check_warmup"
	// TaskPartyBalanceWarmup pre-computes party outstanding balances.
	TaskPartyBalanceWarmup = "report:party_balance_warmup"
)

// StockCheckWarmupPayload selects the report day; empty means today.
type StockCheckWarmupPayload struct {
	Date string `json:"date"`
}

// PartyBalanceWarmupPayload is currently empty but kept versionable.
type PartyBalanceWarmupPayload struct{}

// NewStockCheckWarmupTask constructs an Asynq task.
func NewStockCheckWarmupTask(payload StockCheckWarmupPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskStockCheckWarmup, data), nil
}

// NewPartyBalanceWarmupTask constructs an Asynq task.
func NewPartyBalanceWarmupTask(payload PartyBalanceWarmupPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskPartyBalanceWarmup, data), nil
}
