package report

import (
	"fmt"

	"github.com/shopspring/decimal"
)

var purchaseColumns = []string{"Product", "Quantity", "Unit", "Unit cost", "Total"}

const (
	purchaseTotalCol = 5
	clientHeaderFill = "#D9E1F2"
	grandTotalFill   = "#BDD7EE"
)

// RenderPurchases lays out a purchase tree: one block per supplier with the
// days in ascending order. Each day closes with a SUBTOTAL row, each
// week-of-month bucket with a WEEK SUBTOTAL row, and each supplier with a
// TOTAL row followed by one row per purchase observation. A GRAND TOTAL row
// ends the document.
func RenderPurchases(tree *PurchaseTree, opts Options) (*Document, error) {
	if tree == nil {
		return nil, fmt.Errorf("render purchases: nil tree")
	}
	opts = opts.withDefaults()
	sorter := NewSorter(opts)

	doc := &Document{
		Title:      "Purchases report",
		Sheet:      "Purchases",
		Columns:    len(purchaseColumns),
		LabelWidth: LabelColumnWidth,
		DataWidth:  DataColumnWidth,
	}

	header := Row{Kind: RowHeader, Height: headerRowHeight, Cells: []Cell{{Runs: []Run{{Text: "Date"}}, Bold: true, Fill: defaultHeaderFill}}}
	for _, name := range purchaseColumns {
		header.Cells = append(header.Cells, Cell{Runs: []Run{{Text: name}}, Bold: true, Fill: defaultHeaderFill})
	}
	doc.Rows = append(doc.Rows, header)

	for _, client := range sorter.SortedClients(tree) {
		fill := client.Client.Color
		if fill == "" {
			fill = clientHeaderFill
		}
		clientRow := Row{Kind: RowHeader, Height: headerRowHeight, Cells: blankCells(1 + doc.Columns)}
		for i := range clientRow.Cells {
			clientRow.Cells[i].Fill = fill
			clientRow.Cells[i].Bold = true
		}
		clientRow.Cells[0].Runs = []Run{{Text: client.Client.Name}}
		doc.Rows = append(doc.Rows, clientRow)

		for _, week := range client.Weeks() {
			for _, day := range week.Days {
				for i, line := range sorter.SortedLines(day) {
					label := ""
					if i == 0 {
						label = day.Key
					}
					doc.Rows = append(doc.Rows, Row{Kind: RowData, Cells: []Cell{
						textCell(label),
						textCell(line.Product.Name),
						numberCell(line.Quantity, FormatQuantity(line.Quantity)),
						textCell(line.UnitName),
						numberCell(line.UnitCost, FormatMoney(line.UnitCost)),
						numberCell(line.Total, FormatMoney(line.Total)),
					}})
				}
				doc.Rows = append(doc.Rows, amountRow(RowSubtotal, "SUBTOTAL", day.Key, day.Subtotal, totalFill))
			}
			doc.Rows = append(doc.Rows, amountRow(RowSubtotal, "WEEK SUBTOTAL", week.Key, week.Subtotal, totalFill))
		}
		doc.Rows = append(doc.Rows, amountRow(RowTotal, "TOTAL", client.Client.Name, client.Total, totalFill))
		for _, text := range client.Observations {
			doc.Rows = append(doc.Rows, purchaseObservationRow(text))
		}
		doc.Rows = append(doc.Rows, Row{Kind: RowSpacer, Cells: blankCells(1 + doc.Columns)})
	}

	doc.Rows = append(doc.Rows, amountRow(RowTotal, "GRAND TOTAL", "", tree.GrandTotal, grandTotalFill))

	if err := doc.Validate(); err != nil {
		return nil, fmt.Errorf("render purchases: %w", err)
	}
	return doc, nil
}

// amountRow renders a labelled total with a note in the first data column and
// the amount in the Total column.
func amountRow(kind RowKind, label, note string, amount decimal.Decimal, fill string) Row {
	cells := blankCells(1 + len(purchaseColumns))
	cells[0] = textCell(label)
	cells[1] = textCell(note)
	cells[purchaseTotalCol] = numberCell(amount, FormatMoney(amount))
	for i := range cells {
		cells[i].Bold = true
		cells[i].Fill = fill
	}
	return Row{Kind: kind, Cells: cells}
}

func purchaseObservationRow(text string) Row {
	cells := blankCells(1 + len(purchaseColumns))
	cells[0] = textCell("OBSERVATION")
	cells[0].Bold = true
	cells[1] = Cell{Runs: []Run{{Text: bullet + text}}, Wrap: true}
	for i := range cells {
		cells[i].Fill = observationFill
	}
	return Row{Kind: RowObservation, Height: observationRowHeight, Cells: cells}
}
