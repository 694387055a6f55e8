package stock

import (
	"errors"
	"time"
)

// DateLayout is the day-granular date format production logs and reports use.
const DateLayout = "2006-01-02"

// ProductionLog records one machine's output of an item on a day.
// Logs are immutable once created; they are aggregated for reporting,
// never mutated.
type ProductionLog struct {
	ID          string    `json:"id"`
	MachineName string    `json:"machineName"`
	ItemID      string    `json:"itemId"`
	ItemName    string    `json:"itemName"`
	Quantity    float64   `json:"quantity"`
	Date        string    `json:"date"` // yyyy-MM-dd
	CreatedAt   time.Time `json:"createdAt"`
}

// ProductionEntry is one line of a production save.
type ProductionEntry struct {
	MachineName string  `json:"machineName"`
	ItemID      string  `json:"itemId" validate:"required"`
	Quantity    float64 `json:"quantity" validate:"required"`
}

// ProductionInput is a batch of production lines applied atomically.
type ProductionInput struct {
	Date    string            `json:"date"`
	Entries []ProductionEntry `json:"entries" validate:"required,min=1,dive"`
}

// StockCheckRow is one item's reconstructed daily movement. The identity
// opening + production - sale == closing holds on every row.
type StockCheckRow struct {
	ItemID             string  `json:"itemId"`
	ItemName           string  `json:"itemName"`
	OpeningBalance     float64 `json:"openingBalance"`
	TotalProductionQty float64 `json:"totalProductionQty"`
	TotalSaleQty       float64 `json:"totalSaleQty"`
	ClosingBalance     float64 `json:"closingBalance"`
}

// PartyBalanceRow is one party's outstanding figure: the sum of grand
// totals across that party's saved bills. Payments are not subtracted.
type PartyBalanceRow struct {
	PartyID      string  `json:"partyId"`
	PartyName    string  `json:"partyName"`
	Station      string  `json:"station"`
	Outstanding  float64 `json:"outstanding"`
	DisplayTotal string  `json:"displayTotal"`
}

var (
	// ErrNoEntries indicates a production save without any lines.
	ErrNoEntries = errors.New("stock: at least one production entry is required")
	// ErrInvalidDate indicates a date not in yyyy-MM-dd form.
	ErrInvalidDate = errors.New("stock: date must be yyyy-MM-dd")
	// ErrInvalidQuantity indicates a zero production or stock-add quantity.
	ErrInvalidQuantity = errors.New("stock: quantity must be non zero")
)
