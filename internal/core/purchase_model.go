package core

import (
	"github.com/shopspring/decimal"
)

// Purchase is a purchase of goods from a Client (supplier).
type Purchase struct {
	ID          int            `json:"id"`
	CreatedAt   string         `json:"created_at"`
	Client      *Client        `json:"client,omitempty"`
	Observation string         `json:"observation,omitempty"`
	Items       []PurchaseItem `json:"items"`
}

// PurchaseItem is one purchased line. Its line total is Quantity × UnitCost.
type PurchaseItem struct {
	ID       int             `json:"id"`
	Product  *Product        `json:"product,omitempty"`
	Quantity decimal.Decimal `json:"quantity"`
	UnitCost decimal.Decimal `json:"unit_cost"`
	UnitID   int             `json:"unit_id"`
}

// LineTotal returns Quantity × UnitCost.
func (i PurchaseItem) LineTotal() decimal.Decimal {
	return i.Quantity.Mul(i.UnitCost)
}
