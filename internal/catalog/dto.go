package catalog

// PartyForm carries party create/update payloads.
type PartyForm struct {
	Name      string             `json:"name" validate:"required"`
	Address   string             `json:"address"`
	District  string             `json:"district"`
	State     string             `json:"state"`
	Pincode   string             `json:"pincode"`
	Station   string             `json:"station"`
	Phone     string             `json:"phone"`
	PriceList map[string]float64 `json:"priceList"`
}

// ItemForm carries item create/update payloads.
type ItemForm struct {
	Name    string  `json:"name" validate:"required"`
	Group   string  `json:"group"`
	Unit    string  `json:"unit"`
	Alias   string  `json:"alias"`
	Price   float64 `json:"price"`
	Balance float64 `json:"balance"`
}

// GroupForm carries item group create payloads.
type GroupForm struct {
	Name string `json:"name" validate:"required"`
}

func (f PartyForm) toParty() Party {
	return Party{
		Name:      f.Name,
		Address:   f.Address,
		District:  f.District,
		State:     f.State,
		Pincode:   f.Pincode,
		Station:   f.Station,
		Phone:     f.Phone,
		PriceList: f.PriceList,
	}
}

func (f ItemForm) toItem() Item {
	return Item{
		Name:    f.Name,
		Group:   f.Group,
		Unit:    f.Unit,
		Alias:   f.Alias,
		Price:   f.Price,
		Balance: f.Balance,
	}
}
