package report

import (
	"produce-reports/internal/core"

	"github.com/shopspring/decimal"
)

var (
	vegetables = &core.Category{ID: 1, Name: "Vegetables"}
	fruits     = &core.Category{ID: 2, Name: "Fruits"}

	tomato  = &core.Product{ID: 1, Name: "Tomato", Category: vegetables}
	onion   = &core.Product{ID: 2, Name: "onion", Category: vegetables}
	avocado = &core.Product{ID: 3, Name: "Avocado", Category: fruits}
	ginger  = &core.Product{ID: 4, Name: "Ginger"}

	casaVerde   = &core.Company{ID: 1, Name: "Casa Verde", Color: "#2E7D32"}
	bistroNorte = &core.Company{ID: 2, Name: "Bistro Norte"}

	kitchen  = &core.Area{ID: 10, Name: "Kitchen", Color: "#C62828", Company: casaVerde}
	bakery   = &core.Area{ID: 11, Name: "Bakery", Color: "#6A1B9A", Company: casaVerde}
	mainHall = &core.Area{ID: 20, Name: "Main", Color: "#EF6C00", Company: bistroNorte}
	orphan   = &core.Area{ID: 30, Name: "Orphan"}

	testUnits = core.UnitNames{1: "kg", 2: "lb", 3: "bunch"}
)

func qty(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func item(p *core.Product, q string, unitID int) core.OrderItem {
	return core.OrderItem{Product: p, Quantity: qty(q), UnitID: unitID}
}

func order(id int, area *core.Area, createdAt, observation string, items ...core.OrderItem) core.Order {
	return core.Order{ID: id, CreatedAt: createdAt, Area: area, Observation: observation, Items: items}
}

func testOptions() Options {
	return Options{
		Location:         utcMinus5,
		CategoryPriority: []string{"Vegetables", "Fruits", "Herbs", "Tax", "Other"},
		Uncategorized:    "Uncategorized",
	}
}

func sampleOrders() []core.Order {
	return []core.Order{
		order(1, kitchen, "2024-03-04 08:00:00", "Deliver early",
			item(tomato, "2", 1),
			item(avocado, "1.5", 1),
		),
		order(2, kitchen, "2024-03-05", "",
			item(tomato, "3", 1),
			item(tomato, "4", 2),
		),
		order(3, bakery, "2024-03-05T23:00:00-05:00", "  Ring the bell ",
			item(tomato, "1", 1),
			item(onion, "10", 3),
		),
		order(4, mainHall, "2024-03-06T02:00:00Z", "Back door",
			item(onion, "5", 1),
			item(ginger, "0.25", 1),
		),
	}
}
