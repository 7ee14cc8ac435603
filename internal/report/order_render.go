package report

import (
	"fmt"

	"produce-reports/internal/core"

	"github.com/shopspring/decimal"
)

const (
	LabelColumnWidth = 32
	DataColumnWidth  = 22

	headerRowHeight      = 20
	observationRowHeight = 45

	defaultHeaderFill = "#D9D9D9"
	totalFill         = "#F2F2F2"
	observationFill   = "#FFF2CC"

	runSeparator = " + "
	bullet       = "• "
)

// RenderOrders lays out an order tree as a grid with one column per company.
// Categories and products follow the Sorter's order; companies must already
// be in column order.
func RenderOrders(tree *OrderTree, companies []*core.Company, obs Observations, opts Options) (*Document, error) {
	if tree == nil {
		return nil, fmt.Errorf("render orders: nil tree")
	}
	for i, c := range companies {
		if c == nil {
			return nil, fmt.Errorf("render orders: nil company at column %d", i)
		}
	}
	opts = opts.withDefaults()
	sorter := NewSorter(opts)

	doc := &Document{
		Title:      "Orders report",
		Sheet:      "Orders",
		Columns:    len(companies),
		LabelWidth: LabelColumnWidth,
		DataWidth:  DataColumnWidth,
	}

	for _, cat := range sorter.SortedCategories(tree) {
		doc.Rows = append(doc.Rows, companyHeaderRow(cat.Name, companies))

		for _, prod := range sorter.SortedProducts(cat) {
			row := Row{Kind: RowData, Cells: []Cell{textCell(prod.Product.Name)}}
			for _, company := range companies {
				row.Cells = append(row.Cells, productCell(sorter, prod.Companies[company.ID]))
			}
			doc.Rows = append(doc.Rows, row)
		}

		doc.Rows = append(doc.Rows, categoryTotalRow(sorter, cat, companies, opts.TotalsByUnit))
		doc.Rows = append(doc.Rows, Row{Kind: RowSpacer, Cells: blankCells(1 + len(companies))})
	}

	doc.Rows = append(doc.Rows, observationRows(companies, obs)...)

	if err := doc.Validate(); err != nil {
		return nil, fmt.Errorf("render orders: %w", err)
	}
	return doc, nil
}

func companyHeaderRow(label string, companies []*core.Company) Row {
	row := Row{
		Kind:   RowHeader,
		Height: headerRowHeight,
		Cells:  []Cell{{Runs: []Run{{Text: label}}, Bold: true}},
	}
	for _, c := range companies {
		fill := c.Color
		if fill == "" {
			fill = defaultHeaderFill
		}
		row.Cells = append(row.Cells, Cell{Runs: []Run{{Text: c.Name}}, Fill: fill, Bold: true})
	}
	return row
}

// productCell renders every (area, unit) group of a cell as a colored
// "<qty><unit>" run. A missing node yields a blank cell.
func productCell(sorter *Sorter, node *CompanyNode) Cell {
	if node == nil || len(node.Groups) == 0 {
		return Cell{}
	}
	var cell Cell
	for i, g := range sorter.SortedGroups(node) {
		if i > 0 {
			cell.Runs = append(cell.Runs, Run{Text: runSeparator})
		}
		cell.Runs = append(cell.Runs, Run{Text: FormatQuantity(g.Quantity) + g.UnitName, Color: g.Area.Color})
	}
	return cell
}

func categoryTotalRow(sorter *Sorter, cat *CategoryNode, companies []*core.Company, byUnit bool) Row {
	row := Row{
		Kind:  RowTotal,
		Cells: []Cell{{Runs: []Run{{Text: "TOTAL"}}, Bold: true, Fill: totalFill}},
	}
	for _, c := range companies {
		var cell Cell
		if byUnit {
			cell = unitTotalsCell(sorter, cat.CompanyTotalsByUnit(c.ID))
		} else {
			total := cat.CompanyTotal(c.ID)
			cell = numberCell(total, FormatQuantity(total))
		}
		cell.Bold = true
		cell.Fill = totalFill
		row.Cells = append(row.Cells, cell)
	}
	return row
}

func unitTotalsCell(sorter *Sorter, totals map[string]decimal.Decimal) Cell {
	units := make([]string, 0, len(totals))
	for u := range totals {
		units = append(units, u)
	}
	var cell Cell
	for i, u := range sorter.SortedUnits(units) {
		if i > 0 {
			cell.Runs = append(cell.Runs, Run{Text: runSeparator})
		}
		cell.Runs = append(cell.Runs, Run{Text: FormatQuantity(totals[u]) + u})
	}
	return cell
}

// observationRows emits the OBSERVATIONS header and one row per observation
// index up to the longest list. Companies with fewer entries get blank cells.
func observationRows(companies []*core.Company, obs Observations) []Row {
	header := Row{
		Kind:   RowHeader,
		Height: headerRowHeight,
		Cells:  []Cell{{Runs: []Run{{Text: "OBSERVATIONS"}}, Bold: true, Fill: observationFill}},
	}
	for _, c := range companies {
		header.Cells = append(header.Cells, Cell{Runs: []Run{{Text: c.Name}}, Bold: true, Fill: observationFill})
	}
	rows := []Row{header}

	for i := 0; i < obs.MaxLen(); i++ {
		row := Row{Kind: RowObservation, Height: observationRowHeight, Cells: []Cell{{Fill: observationFill}}}
		for _, c := range companies {
			cell := Cell{Fill: observationFill, Wrap: true}
			if list := obs.For(c.ID); i < len(list) {
				cell.Runs = []Run{{Text: bullet + list[i]}}
			}
			row.Cells = append(row.Cells, cell)
		}
		rows = append(rows, row)
	}
	return rows
}

// FormatQuantity prints a quantity without trailing zeros.
func FormatQuantity(q decimal.Decimal) string {
	return q.String()
}

// FormatMoney prints an amount with two decimals.
func FormatMoney(v decimal.Decimal) string {
	return v.StringFixed(2)
}
