package stock

import (
	"context"
	"fmt"

	"github.com/slipbook-erp/slipbook/internal/catalog"
	"github.com/slipbook-erp/slipbook/internal/docstore"
)

// Repository persists production logs and applies batched balance updates
// through the document store.
type Repository struct {
	store docstore.Store
}

// NewRepository constructs Repository.
func NewRepository(store docstore.Store) *Repository {
	return &Repository{store: store}
}

// ListLogs returns every production log.
func (r *Repository) ListLogs(ctx context.Context) ([]ProductionLog, error) {
	docs, err := r.store.List(ctx, docstore.CollectionProductionLogs)
	if err != nil {
		return nil, err
	}
	logs := make([]ProductionLog, 0, len(docs))
	for _, doc := range docs {
		var log ProductionLog
		if err := docstore.Decode(doc, &log); err != nil {
			return nil, fmt.Errorf("stock: decode log %s: %w", doc.ID, err)
		}
		logs = append(logs, log)
	}
	return logs, nil
}

// SaveProductionBatch writes the logs and the updated item balances as one
// atomic batch: either every log lands and every balance moves, or none do.
func (r *Repository) SaveProductionBatch(ctx context.Context, logs []ProductionLog, items []catalog.Item) error {
	ops := make([]docstore.BatchOp, 0, len(logs)+len(items))
	for _, log := range logs {
		fields, err := docstore.Encode(log)
		if err != nil {
			return err
		}
		ops = append(ops, docstore.BatchOp{
			Kind:       docstore.OpSet,
			Collection: docstore.CollectionProductionLogs,
			ID:         log.ID,
			Fields:     fields,
		})
	}
	for _, item := range items {
		fields, err := docstore.Encode(item)
		if err != nil {
			return err
		}
		ops = append(ops, docstore.BatchOp{
			Kind:       docstore.OpSet,
			Collection: docstore.CollectionItems,
			ID:         item.ID,
			Fields:     fields,
		})
	}
	return r.store.RunBatch(ctx, ops)
}
