package catalog

import "errors"

// Party is a customer or supplier. Documents reference parties by name,
// not id, so renaming a party never rewrites history.
type Party struct {
	ID        string             `json:"id"`
	Name      string             `json:"name"`
	Address   string             `json:"address"`
	District  string             `json:"district"`
	State     string             `json:"state"`
	Pincode   string             `json:"pincode"`
	Station   string             `json:"station"`
	Phone     string             `json:"phone"`
	PriceList map[string]float64 `json:"priceList"`
}

// Item is a sellable good. Group is a free-form label used as the
// aggregation key in billing summaries. Balance is the running stock
// quantity maintained by the stock ledger.
type Item struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Group   string  `json:"group"`
	Unit    string  `json:"unit"`
	Alias   string  `json:"alias"`
	Price   float64 `json:"price"`
	Balance float64 `json:"balance"`
}

// ItemGroup is a soft registry entry of known group labels. Aggregation
// works off Item.Group directly; this is not a foreign-key constraint.
type ItemGroup struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

var (
	// ErrNotFound indicates a missing catalog entity.
	ErrNotFound = errors.New("catalog: not found")
	// ErrInvalidInput indicates a rejected create/update payload.
	ErrInvalidInput = errors.New("catalog: invalid input")
	// ErrDuplicateParty indicates a party with the same name and station
	// already exists.
	ErrDuplicateParty = errors.New("catalog: party with this name and station already exists")
)
