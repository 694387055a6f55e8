// Package billing holds the pricing aggregation logic that turns free-form
// document line items into per-group quantity and price summaries.
package billing

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/slipbook-erp/slipbook/internal/catalog"
)

// Pseudo-group display labels and manual-price keys. U Cap and L Cap are
// summed across every line regardless of catalog resolution.
const (
	UCapLabel = "U Cap"
	LCapLabel = "L Cap"
	uCapKey   = "u cap"
	lCapKey   = "l cap"
)

// LineItem is a single document row. SrNo is 1-based positional.
type LineItem struct {
	SrNo     int     `json:"srNo"`
	ItemName string  `json:"itemName"`
	Quantity float64 `json:"quantity"`
	Unit     string  `json:"unit"`
	UCap     float64 `json:"uCap"`
	LCap     float64 `json:"lCap"`
}

// SummaryRow is one priced group in the aggregation output.
type SummaryRow struct {
	Item       string  `json:"item"`
	TotalQty   float64 `json:"totalQty"`
	Price      float64 `json:"price"`
	TotalPrice float64 `json:"totalPrice"`
}

// Summary is the aggregation result.
type Summary struct {
	Rows       []SummaryRow `json:"summaryItems"`
	GrandTotal float64      `json:"grandTotal"`
}

// ComputeSummary aggregates line items into priced group rows.
//
// Lines resolve to catalog items by case-insensitive name; lines that do
// not resolve, or whose item carries no group, contribute nothing to the
// named groups. That skip is policy, not an error. UCap and LCap sum
// independently over every line. Manual prices are keyed by lowercased
// group name and default to zero. The function is pure and never fails.
func ComputeSummary(lines []LineItem, items []catalog.Item, manualPrices map[string]float64) Summary {
	type groupAcc struct {
		display string
		qty     float64
	}
	var order []string
	groups := make(map[string]*groupAcc)

	var uCapQty, lCapQty float64
	for _, line := range lines {
		uCapQty += line.UCap
		lCapQty += line.LCap

		if strings.TrimSpace(line.ItemName) == "" || line.Quantity == 0 {
			continue
		}
		item, ok := resolveItem(items, line.ItemName)
		if !ok || item.Group == "" {
			continue
		}
		key := strings.ToLower(item.Group)
		acc, ok := groups[key]
		if !ok {
			acc = &groupAcc{display: capitalize(item.Group)}
			groups[key] = acc
			order = append(order, key)
		}
		acc.qty += line.Quantity
	}

	var summary Summary
	for _, key := range order {
		acc := groups[key]
		price := manualPrices[key]
		row := SummaryRow{
			Item:       acc.display,
			TotalQty:   acc.qty,
			Price:      price,
			TotalPrice: acc.qty * price,
		}
		summary.Rows = append(summary.Rows, row)
		summary.GrandTotal += row.TotalPrice
	}

	for _, pseudo := range []struct {
		label string
		key   string
		qty   float64
	}{
		{UCapLabel, uCapKey, uCapQty},
		{LCapLabel, lCapKey, lCapQty},
	} {
		price := manualPrices[pseudo.key]
		// Shown when quantity accrued or a nonzero manual price exists; a
		// manually entered price of zero with no quantity stays hidden.
		if pseudo.qty <= 0 && price == 0 {
			continue
		}
		row := SummaryRow{
			Item:       pseudo.label,
			TotalQty:   pseudo.qty,
			Price:      price,
			TotalPrice: pseudo.qty * price,
		}
		summary.Rows = append(summary.Rows, row)
		summary.GrandTotal += row.TotalPrice
	}

	return summary
}

func resolveItem(items []catalog.Item, name string) (catalog.Item, bool) {
	for _, item := range items {
		if strings.EqualFold(item.Name, name) {
			return item, true
		}
	}
	return catalog.Item{}, false
}

// capitalize upper-cases the first letter, keeping the catalog's casing
// for the rest ("cement" -> "Cement").
func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
