package stock

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// ReportCache stores warmed report snapshots in Redis so the HTTP report
// endpoints can serve them without recomputing on every request.
type ReportCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewReportCache constructs ReportCache.
func NewReportCache(client *redis.Client, ttl time.Duration) *ReportCache {
	return &ReportCache{client: client, ttl: ttl}
}

// GetStockCheck returns the cached stock check rows for the date, if any.
func (c *ReportCache) GetStockCheck(ctx context.Context, date string) ([]StockCheckRow, bool) {
	var rows []StockCheckRow
	if !c.get(ctx, stockCheckKey(date), &rows) {
		return nil, false
	}
	return rows, true
}

// SetStockCheck caches the stock check rows for the date.
func (c *ReportCache) SetStockCheck(ctx context.Context, date string, rows []StockCheckRow) error {
	return c.set(ctx, stockCheckKey(date), rows)
}

// GetPartyBalances returns the cached party balance rows, if any.
func (c *ReportCache) GetPartyBalances(ctx context.Context) ([]PartyBalanceRow, bool) {
	var rows []PartyBalanceRow
	if !c.get(ctx, partyBalancesKey, &rows) {
		return nil, false
	}
	return rows, true
}

// SetPartyBalances caches the party balance rows.
func (c *ReportCache) SetPartyBalances(ctx context.Context, rows []PartyBalanceRow) error {
	return c.set(ctx, partyBalancesKey, rows)
}

const partyBalancesKey = "report:party_balances"

func stockCheckKey(date string) string {
	return "report:stock_check:" + date
}

func (c *ReportCache) get(ctx context.Context, key string, target any) bool {
	if c == nil || c.client == nil {
		return false
	}
	raw, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		return false
	}
	if err := json.Unmarshal(raw, target); err != nil {
		return false
	}
	return true
}

func (c *ReportCache) set(ctx context.Context, key string, value any) error {
	if c == nil || c.client == nil {
		return errors.New("stock: report cache not configured")
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, raw, c.ttl).Err()
}
