package core

// Company is a customer business. Its orders arrive through its delivery areas.
// Color is an optional hex string ("#RRGGBB") used for report headers.
type Company struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color,omitempty"`
}

// Area is a delivery point (branch, kitchen, store) belonging to exactly one Company.
type Area struct {
	ID      int      `json:"id"`
	Name    string   `json:"name"`
	Color   string   `json:"color,omitempty"`
	Company *Company `json:"company,omitempty"`
}

// Client is the counterparty of a purchase (a supplier).
type Client struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color,omitempty"`
}

// Category groups products on reports. Products without one fall into
// the report's uncategorized bucket.
type Category struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Product is a catalog item.
type Product struct {
	ID       int       `json:"id"`
	Name     string    `json:"name"`
	Category *Category `json:"category,omitempty"`
}

// Unit is a unit of measure (kg, lb, bunch, box...).
type Unit struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// UnitNames maps unit-of-measure ids to display names. It is fetched once per
// report run and treated as read-only for the rest of the run.
type UnitNames map[int]string

// Name returns the display name for id, or "" when the unit is unknown.
func (u UnitNames) Name(id int) string {
	return u[id]
}

// NewUnitNames builds a lookup from a list of units.
func NewUnitNames(units []Unit) UnitNames {
	names := make(UnitNames, len(units))
	for _, u := range units {
		names[u.ID] = u.Name
	}
	return names
}
