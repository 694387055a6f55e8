package stock

import (
	"context"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/slipbook-erp/slipbook/internal/billing"
	"github.com/slipbook-erp/slipbook/internal/catalog"
	"github.com/slipbook-erp/slipbook/internal/documents"
)

// StockCheckReport reconstructs each item's daily movement for the given
// yyyy-MM-dd date. The current balance is taken as the closing figure and
// the opening balance is backed out algebraically:
//
//	opening = closing - production + sale
func (s *Service) StockCheckReport(ctx context.Context, date string) ([]StockCheckRow, error) {
	if _, err := time.Parse(DateLayout, date); err != nil {
		return nil, ErrInvalidDate
	}

	var (
		items []catalog.Item
		bills []documents.SlipDocument
		logs  []ProductionLog
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		items, err = s.catalog.ListItems(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		bills, err = s.bills.ListBills(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		logs, err = s.repo.ListLogs(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	rows := make([]StockCheckRow, 0, len(items))
	for _, item := range items {
		var production float64
		for _, log := range logs {
			if log.Date != date {
				continue
			}
			if log.ItemID == item.ID || (log.ItemID == "" && strings.EqualFold(log.ItemName, item.Name)) {
				production += log.Quantity
			}
		}

		var sale float64
		for _, bill := range bills {
			if !billOnDay(bill, date) {
				continue
			}
			for _, line := range bill.BillingItems {
				if strings.EqualFold(line.ItemName, item.Name) {
					sale += line.Quantity
				}
			}
		}

		closing := item.Balance
		rows = append(rows, StockCheckRow{
			ItemID:             item.ID,
			ItemName:           item.Name,
			OpeningBalance:     closing - production + sale,
			TotalProductionQty: production,
			TotalSaleQty:       sale,
			ClosingBalance:     closing,
		})
	}
	return rows, nil
}

// PartyBalances sums each party's billed grand totals. A bill counts
// toward a party only on an exact, case-sensitive match between the bill's
// stored party name and the party's name.
func (s *Service) PartyBalances(ctx context.Context) ([]PartyBalanceRow, error) {
	var (
		parties []catalog.Party
		bills   []documents.SlipDocument
		items   []catalog.Item
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		parties, err = s.catalog.ListParties(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		bills, err = s.bills.ListBills(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		items, err = s.catalog.ListItems(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	printer := message.NewPrinter(language.English)
	rows := make([]PartyBalanceRow, 0, len(parties))
	for _, party := range parties {
		var total float64
		for _, bill := range bills {
			if bill.Filters.PartyName != party.Name {
				continue
			}
			summary := billing.ComputeSummary(bill.BillingItems, items, bill.ManualPrices)
			total += summary.GrandTotal
		}
		rows = append(rows, PartyBalanceRow{
			PartyID:      party.ID,
			PartyName:    party.Name,
			Station:      party.Station,
			Outstanding:  total,
			DisplayTotal: printer.Sprintf("%.2f", total),
		})
	}
	return rows, nil
}

func billOnDay(bill documents.SlipDocument, date string) bool {
	value := bill.Filters.Date
	if value == "" {
		return false
	}
	for _, layout := range []string{time.RFC3339, DateLayout} {
		if t, err := time.Parse(layout, value); err == nil {
			return t.Format(DateLayout) == date
		}
	}
	return false
}
