package documents

import "github.com/slipbook-erp/slipbook/internal/billing"

// SaveForm carries a document save payload. The slip number travels inside
// the filters, mirroring the saved shape.
type SaveForm struct {
	Filters      Filters            `json:"filters"`
	BillingItems []billing.LineItem `json:"billingItems"`
	ManualPrices map[string]float64 `json:"manualPrices"`
}

// SummaryForm carries a pricing preview request.
type SummaryForm struct {
	BillingItems []billing.LineItem `json:"billingItems"`
	ManualPrices map[string]float64 `json:"manualPrices"`
}

// NewFormResponse seeds a fresh form: either the next free slip number or,
// when loading from a cross-reference, the source document's full layout.
type NewFormResponse struct {
	SlipNo   string          `json:"slipNo"`
	Prefill  *LoadedDocument `json:"prefill,omitempty"`
	FromKind string          `json:"fromKind,omitempty"`
}

func (f SaveForm) toDocument() SlipDocument {
	return SlipDocument{
		ID:           f.Filters.SlipNo,
		Filters:      f.Filters,
		BillingItems: f.BillingItems,
		ManualPrices: f.ManualPrices,
	}
}
