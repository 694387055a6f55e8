package documents

import (
	"errors"
	"time"

	"github.com/slipbook-erp/slipbook/internal/billing"
)

// Kind selects one of the three parallel document workflows. The value is
// the backing collection name.
type Kind string

const (
	// KindBill is the sales bill workflow.
	KindBill Kind = "billingRecords"
	// KindOrder is the sales order workflow.
	KindOrder Kind = "orders"
	// KindLoadingSlip is the loading slip workflow.
	KindLoadingSlip Kind = "loadingSlips"
)

// OrderStatusCompleted marks an order that has been converted to a bill.
const OrderStatusCompleted = "completed"

// Filters are the header fields of a saved document.
type Filters struct {
	PartyName   string `json:"partyName"`
	Address     string `json:"address"`
	Date        string `json:"date"` // ISO 3339 timestamp string
	SlipNo      string `json:"slipNo"`
	VehicleNo   string `json:"vehicleNo,omitempty"`
	VehicleType string `json:"vehicleType,omitempty"`
	BillType    string `json:"billType,omitempty"`
	OrderStatus string `json:"orderStatus,omitempty"`
	Notes       string `json:"notes"`
}

// SlipDocument is a saved bill, order or loading slip. The document id and
// Filters.SlipNo are kept equal at all times; the document is stored under
// that slip number string.
type SlipDocument struct {
	ID           string             `json:"id"`
	Filters      Filters            `json:"filters"`
	BillingItems []billing.LineItem `json:"billingItems"`
	ManualPrices map[string]float64 `json:"manualPrices"`
}

// LoadedDocument is a SlipDocument with its header date parsed back into a
// time value for form consumption.
type LoadedDocument struct {
	SlipDocument
	Date time.Time `json:"parsedDate"`
}

var (
	// ErrNotFound indicates no document exists under the slip number.
	ErrNotFound = errors.New("documents: no saved document with this slip number")
	// ErrSlipNumberRequired indicates a save without a slip number.
	ErrSlipNumberRequired = errors.New("documents: slip number is required")
	// ErrPartyRequired indicates an order or loading slip save without a party.
	ErrPartyRequired = errors.New("documents: party is required")
)

// Valid reports whether the kind is one of the three workflows.
func (k Kind) Valid() bool {
	switch k {
	case KindBill, KindOrder, KindLoadingSlip:
		return true
	}
	return false
}
