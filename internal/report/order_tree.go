package report

import (
	"produce-reports/internal/core"

	"github.com/shopspring/decimal"
)

// Accumulator is a terminal aggregate: a summed quantity in one unit.
type Accumulator struct {
	Quantity decimal.Decimal
	UnitName string
}

// GroupKey identifies an (area, unit) group inside one product/company cell.
type GroupKey struct {
	AreaID   int
	UnitName string
}

// Group is the terminal accumulator of one area and unit.
type Group struct {
	Area *core.Area
	Accumulator
}

// CompanyNode holds one product's quantities for one company, split by
// (area, unit).
type CompanyNode struct {
	Company *core.Company
	Groups  map[GroupKey]*Group
}

// Total sums every group regardless of unit.
func (c *CompanyNode) Total() decimal.Decimal {
	total := decimal.Zero
	for _, g := range c.Groups {
		total = total.Add(g.Quantity)
	}
	return total
}

// ProductNode holds one product's per-company cells.
type ProductNode struct {
	Product   *core.Product
	Companies map[int]*CompanyNode
}

// CompanyTotal is the raw quantity of this product ordered by company id.
func (p *ProductNode) CompanyTotal(companyID int) decimal.Decimal {
	c, ok := p.Companies[companyID]
	if !ok {
		return decimal.Zero
	}
	return c.Total()
}

// CategoryNode groups the products of one category name.
type CategoryNode struct {
	Name     string
	Products map[int]*ProductNode
}

// CompanyTotal sums the raw quantities of every product in the category for
// companyID. Units are not converted.
func (c *CategoryNode) CompanyTotal(companyID int) decimal.Decimal {
	total := decimal.Zero
	for _, p := range c.Products {
		total = total.Add(p.CompanyTotal(companyID))
	}
	return total
}

// CompanyTotalsByUnit sums the category's quantities for companyID per unit
// name. The result is keyed by unit name.
func (c *CategoryNode) CompanyTotalsByUnit(companyID int) map[string]decimal.Decimal {
	totals := make(map[string]decimal.Decimal)
	for _, p := range c.Products {
		node, ok := p.Companies[companyID]
		if !ok {
			continue
		}
		for _, g := range node.Groups {
			totals[g.UnitName] = totals[g.UnitName].Add(g.Quantity)
		}
	}
	return totals
}

// OrderTree is the category -> product -> company -> (area, unit) aggregation
// of a set of orders.
type OrderTree struct {
	Categories map[string]*CategoryNode
	// Companies holds every company owning at least one input order.
	Companies map[int]*core.Company
	// Dropped counts line items left out because a reference was missing or
	// the quantity was negative.
	Dropped int
}

// AggregateOrders builds an OrderTree in a single pass over every line item.
// Lines with the same product, company, area and unit are summed into one
// accumulator.
func AggregateOrders(orders []core.Order, units core.UnitNames, opts Options) *OrderTree {
	opts = opts.withDefaults()
	tree := &OrderTree{
		Categories: make(map[string]*CategoryNode),
		Companies:  make(map[int]*core.Company),
	}

	for _, order := range orders {
		company := order.Company()
		if company != nil {
			tree.Companies[company.ID] = company
		}
		for _, item := range order.Items {
			if item.Product == nil || company == nil || item.Quantity.IsNegative() {
				tree.Dropped++
				continue
			}
			tree.add(order.Area, company, item, units.Name(item.UnitID), opts.Uncategorized)
		}
	}
	return tree
}

func (t *OrderTree) add(area *core.Area, company *core.Company, item core.OrderItem, unitName, uncategorized string) {
	catName := uncategorized
	if item.Product.Category != nil && item.Product.Category.Name != "" {
		catName = item.Product.Category.Name
	}

	cat, ok := t.Categories[catName]
	if !ok {
		cat = &CategoryNode{Name: catName, Products: make(map[int]*ProductNode)}
		t.Categories[catName] = cat
	}

	prod, ok := cat.Products[item.Product.ID]
	if !ok {
		prod = &ProductNode{Product: item.Product, Companies: make(map[int]*CompanyNode)}
		cat.Products[item.Product.ID] = prod
	}

	comp, ok := prod.Companies[company.ID]
	if !ok {
		comp = &CompanyNode{Company: company, Groups: make(map[GroupKey]*Group)}
		prod.Companies[company.ID] = comp
	}

	key := GroupKey{AreaID: area.ID, UnitName: unitName}
	group, ok := comp.Groups[key]
	if !ok {
		group = &Group{Area: area, Accumulator: Accumulator{UnitName: unitName}}
		comp.Groups[key] = group
	}
	group.Quantity = group.Quantity.Add(item.Quantity)
}

// CategoryNames returns the category names present in the tree, unordered.
func (t *OrderTree) CategoryNames() []string {
	names := make([]string, 0, len(t.Categories))
	for name := range t.Categories {
		names = append(names, name)
	}
	return names
}
