package core

import (
	"github.com/shopspring/decimal"
)

// Order is a customer order placed for one delivery area.
//
// CreatedAt is kept exactly as the source stores it: it may be a naive local
// timestamp ("2024-03-05 10:00:00") or an absolute one with a zone offset.
// A nil Area means the owning area could not be resolved.
type Order struct {
	ID          int         `json:"id"`
	CreatedAt   string      `json:"created_at"`
	Area        *Area       `json:"area,omitempty"`
	Observation string      `json:"observation,omitempty"`
	Items       []OrderItem `json:"items"`
}

// Company returns the company owning the order's area, or nil.
func (o Order) Company() *Company {
	if o.Area == nil {
		return nil
	}
	return o.Area.Company
}

// OrderItem is one line of an order. A nil Product means the product
// reference could not be resolved; such lines are left out of reports.
type OrderItem struct {
	ID       int             `json:"id"`
	Product  *Product        `json:"product,omitempty"`
	Quantity decimal.Decimal `json:"quantity"`
	UnitID   int             `json:"unit_id"`
}
