package documents

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/slipbook-erp/slipbook/internal/billing"
)

// PartyPriceMerger folds manual group prices into a party's price list.
type PartyPriceMerger interface {
	MergePartyPrices(ctx context.Context, partyName string, prices map[string]float64) error
}

// StockRestorer compensates item balances for a deleted bill.
type StockRestorer interface {
	RestoreForBill(ctx context.Context, doc SlipDocument) error
}

// SaveResult reports the stored document and the slip number the workflow
// advances to for the next fresh form.
type SaveResult struct {
	Document   SlipDocument `json:"document"`
	NextSlipNo string       `json:"nextSlipNo"`
}

// Service runs the load/save/delete/convert workflow for bills, orders and
// loading slips. It caches the next slip number per workflow and drops the
// cache whenever the backing collection changes.
type Service struct {
	repo   *Repository
	prices PartyPriceMerger
	stock  StockRestorer
	logger *slog.Logger

	mu   sync.Mutex
	next map[Kind]string
}

// NewService constructs Service. prices and stock may be nil in tests.
func NewService(repo *Repository, prices PartyPriceMerger, stock StockRestorer, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		prices: prices,
		stock:  stock,
		logger: logger,
		next:   make(map[Kind]string),
	}
}

// StartWatch begins tracking collection changes so cached next slip
// numbers stay in step with the stored snapshots.
func (s *Service) StartWatch(ctx context.Context) {
	for _, kind := range []Kind{KindBill, KindOrder, KindLoadingSlip} {
		ch, cancel := s.repo.Watch(kind)
		go func(kind Kind, ch <-chan struct{}, cancel func()) {
			defer cancel()
			for {
				select {
				case <-ctx.Done():
					return
				case <-ch:
					s.invalidateNext(kind)
				}
			}
		}(kind, ch, cancel)
	}
}

// NextSlipNumber returns the next free slip number for the workflow.
func (s *Service) NextSlipNumber(ctx context.Context, kind Kind) (string, error) {
	s.mu.Lock()
	if cached, ok := s.next[kind]; ok {
		s.mu.Unlock()
		return cached, nil
	}
	s.mu.Unlock()

	docs, err := s.repo.List(ctx, kind)
	if err != nil {
		return "", err
	}
	next := NextSlipNumber(docs)

	s.mu.Lock()
	s.next[kind] = next
	s.mu.Unlock()
	return next, nil
}

// Load retrieves the document saved under the slip number, converting the
// stored ISO date back into a time value and backfilling manual prices.
func (s *Service) Load(ctx context.Context, kind Kind, slipNo string) (LoadedDocument, error) {
	doc, err := s.repo.Get(ctx, kind, slipNo)
	if err != nil {
		return LoadedDocument{}, err
	}
	if doc.ManualPrices == nil {
		doc.ManualPrices = make(map[string]float64)
	}
	return LoadedDocument{SlipDocument: doc, Date: parseDocumentDate(doc.Filters.Date)}, nil
}

// Save validates and persists the document under its slip number.
// Saving an existing slip number overwrites that document in place; that
// is the edit path. Line items with an empty name or zero quantity are
// dropped before persisting. Saving an order with manual prices also
// merges them into the selected party's price list.
func (s *Service) Save(ctx context.Context, kind Kind, doc SlipDocument) (SaveResult, error) {
	slipNo := strings.TrimSpace(doc.Filters.SlipNo)
	if slipNo == "" {
		return SaveResult{}, ErrSlipNumberRequired
	}
	if kind == KindOrder || kind == KindLoadingSlip {
		if strings.TrimSpace(doc.Filters.PartyName) == "" {
			return SaveResult{}, ErrPartyRequired
		}
	}

	doc.Filters.SlipNo = slipNo
	doc.ID = slipNo
	doc.BillingItems = filterLines(doc.BillingItems)
	if doc.ManualPrices == nil {
		doc.ManualPrices = make(map[string]float64)
	}

	if err := s.repo.Put(ctx, kind, doc); err != nil {
		return SaveResult{}, err
	}
	s.invalidateNext(kind)

	if kind == KindOrder && s.prices != nil && len(doc.ManualPrices) > 0 {
		if err := s.prices.MergePartyPrices(ctx, doc.Filters.PartyName, doc.ManualPrices); err != nil && s.logger != nil {
			s.logger.Warn("merge party prices", slog.String("party", doc.Filters.PartyName), slog.Any("error", err))
		}
	}

	next, err := s.NextSlipNumber(ctx, kind)
	if err != nil {
		return SaveResult{}, err
	}
	return SaveResult{Document: doc, NextSlipNo: next}, nil
}

// Delete removes the document saved under the slip number. Deleting a bill
// first restores each resolvable line item's stock balance.
func (s *Service) Delete(ctx context.Context, kind Kind, slipNo string) error {
	doc, err := s.repo.Get(ctx, kind, slipNo)
	if err != nil {
		return err
	}
	if kind == KindBill && s.stock != nil {
		if err := s.stock.RestoreForBill(ctx, doc); err != nil {
			return err
		}
	}
	if err := s.repo.Delete(ctx, kind, slipNo); err != nil {
		return err
	}
	s.invalidateNext(kind)
	return nil
}

// ConvertOrder marks the order completed and returns its slip number as
// the cross-reference the billing form loads from. The order itself is
// kept.
func (s *Service) ConvertOrder(ctx context.Context, slipNo string) (string, error) {
	doc, err := s.repo.Get(ctx, KindOrder, slipNo)
	if err != nil {
		return "", err
	}
	doc.Filters.OrderStatus = OrderStatusCompleted
	if err := s.repo.Put(ctx, KindOrder, doc); err != nil {
		return "", err
	}
	return doc.ID, nil
}

// List returns every saved document of the kind.
func (s *Service) List(ctx context.Context, kind Kind) ([]SlipDocument, error) {
	return s.repo.List(ctx, kind)
}

// ListBills returns every saved bill.
func (s *Service) ListBills(ctx context.Context) ([]SlipDocument, error) {
	return s.repo.List(ctx, KindBill)
}

func (s *Service) invalidateNext(kind Kind) {
	s.mu.Lock()
	delete(s.next, kind)
	s.mu.Unlock()
}

// filterLines drops partially-filled template rows: only lines with a
// non-empty item name and a non-zero quantity are persisted.
func filterLines(lines []billing.LineItem) []billing.LineItem {
	out := make([]billing.LineItem, 0, len(lines))
	for _, line := range lines {
		if strings.TrimSpace(line.ItemName) == "" || line.Quantity == 0 {
			continue
		}
		out = append(out, line)
	}
	return out
}

func parseDocumentDate(value string) time.Time {
	if value == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}
	return time.Time{}
}
