package stock

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/slipbook-erp/slipbook/internal/catalog"
	"github.com/slipbook-erp/slipbook/internal/documents"
)

// CatalogPort abstracts the catalog operations the ledger needs.
type CatalogPort interface {
	ListItems(ctx context.Context) ([]catalog.Item, error)
	GetItem(ctx context.Context, id string) (catalog.Item, error)
	AdjustBalanceByID(ctx context.Context, id string, delta float64) error
	AdjustBalanceByName(ctx context.Context, name string, delta float64) (bool, error)
	ListParties(ctx context.Context) ([]catalog.Party, error)
}

// BillSource supplies the saved bills reports replay against.
type BillSource interface {
	ListBills(ctx context.Context) ([]documents.SlipDocument, error)
}

// Service maintains each item's running balance and derives the stock
// check and party balance reports.
//
// Balances move on three event classes: production saves, manual stock
// additions, and the compensating restore when a bill is deleted. Saving a
// bill does not decrement balances; only the restore-on-delete half exists
// (see DESIGN.md).
type Service struct {
	repo    *Repository
	catalog CatalogPort
	bills   BillSource
	logger  *slog.Logger
	clock   func() time.Time
}

// NewService constructs Service.
func NewService(repo *Repository, catalogPort CatalogPort, bills BillSource, logger *slog.Logger) *Service {
	return &Service{
		repo:    repo,
		catalog: catalogPort,
		bills:   bills,
		logger:  logger,
		clock:   time.Now,
	}
}

// RecordProduction stores the batch's production logs and increments the
// referenced item balances in a single atomic write.
func (s *Service) RecordProduction(ctx context.Context, input ProductionInput) ([]ProductionLog, error) {
	if len(input.Entries) == 0 {
		return nil, ErrNoEntries
	}
	date := strings.TrimSpace(input.Date)
	if date == "" {
		date = s.clock().Format(DateLayout)
	}
	if _, err := time.Parse(DateLayout, date); err != nil {
		return nil, ErrInvalidDate
	}

	now := s.clock().UTC()
	logs := make([]ProductionLog, 0, len(input.Entries))
	updated := make(map[string]catalog.Item)
	for _, entry := range input.Entries {
		if entry.Quantity == 0 {
			return nil, ErrInvalidQuantity
		}
		item, ok := updated[entry.ItemID]
		if !ok {
			var err error
			item, err = s.catalog.GetItem(ctx, entry.ItemID)
			if err != nil {
				return nil, err
			}
		}
		item.Balance += entry.Quantity
		updated[entry.ItemID] = item

		logs = append(logs, ProductionLog{
			ID:          uuid.NewString(),
			MachineName: entry.MachineName,
			ItemID:      item.ID,
			ItemName:    item.Name,
			Quantity:    entry.Quantity,
			Date:        date,
			CreatedAt:   now,
		})
	}

	items := make([]catalog.Item, 0, len(updated))
	for _, item := range updated {
		items = append(items, item)
	}
	if err := s.repo.SaveProductionBatch(ctx, logs, items); err != nil {
		return nil, err
	}
	return logs, nil
}

// ListLogs returns production logs, filtered to a day when date is set.
func (s *Service) ListLogs(ctx context.Context, date string) ([]ProductionLog, error) {
	logs, err := s.repo.ListLogs(ctx)
	if err != nil {
		return nil, err
	}
	if date == "" {
		return logs, nil
	}
	filtered := logs[:0]
	for _, log := range logs {
		if log.Date == date {
			filtered = append(filtered, log)
		}
	}
	return filtered, nil
}

// AddStock increments an item's balance directly.
func (s *Service) AddStock(ctx context.Context, itemID string, qty float64) error {
	if qty == 0 {
		return ErrInvalidQuantity
	}
	return s.catalog.AdjustBalanceByID(ctx, itemID, qty)
}

// RestoreForBill adds each of the deleted bill's line quantities back onto
// the matching item's balance. Resolution is by case-insensitive item
// name and best effort per line: a name that no longer resolves is
// skipped, its stock effect lost.
func (s *Service) RestoreForBill(ctx context.Context, doc documents.SlipDocument) error {
	for _, line := range doc.BillingItems {
		if strings.TrimSpace(line.ItemName) == "" || line.Quantity == 0 {
			continue
		}
		found, err := s.catalog.AdjustBalanceByName(ctx, line.ItemName, line.Quantity)
		if err != nil {
			return err
		}
		if !found && s.logger != nil {
			s.logger.Debug("restore skipped unresolved item",
				slog.String("bill", doc.ID),
				slog.String("item", line.ItemName))
		}
	}
	return nil
}
