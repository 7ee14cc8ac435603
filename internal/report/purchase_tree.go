package report

import (
	"sort"
	"strings"
	"time"

	"produce-reports/internal/core"

	"github.com/shopspring/decimal"
)

// LineKey identifies a purchase line within one day: the same product bought
// in the same unit at the same unit cost is summed.
type LineKey struct {
	ProductID int
	UnitName  string
	UnitCost  string
}

// PurchaseLine aggregates purchased quantity and cost.
type PurchaseLine struct {
	Product  *core.Product
	UnitName string
	UnitCost decimal.Decimal
	Quantity decimal.Decimal
	Total    decimal.Decimal
}

// DayNode holds one client's purchase lines for one calendar day.
type DayNode struct {
	Key      string
	Lines    map[LineKey]*PurchaseLine
	Subtotal decimal.Decimal
}

// ClientNode holds one supplier's purchases by day.
type ClientNode struct {
	Client *core.Client
	Days   map[string]*DayNode
	Total  decimal.Decimal
	// Observations are the trimmed notes of the client's reported purchases
	// in input order.
	Observations []string
}

// WeekNode is a run of consecutive days sharing one week-of-month bucket.
type WeekNode struct {
	Key      string
	Days     []*DayNode
	Subtotal decimal.Decimal
}

// DayKeys returns the client's day keys in ascending order.
func (c *ClientNode) DayKeys() []string {
	keys := make([]string, 0, len(c.Days))
	for k := range c.Days {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Weeks walks the days in ascending order and starts a new week whenever the
// week-of-month bucket changes.
func (c *ClientNode) Weeks() []*WeekNode {
	var weeks []*WeekNode
	var current *WeekNode
	for _, key := range c.DayKeys() {
		bucket, err := WeekOfMonth(key)
		if err != nil {
			bucket = key
		}
		if current == nil || current.Key != bucket {
			current = &WeekNode{Key: bucket}
			weeks = append(weeks, current)
		}
		day := c.Days[key]
		current.Days = append(current.Days, day)
		current.Subtotal = current.Subtotal.Add(day.Subtotal)
	}
	return weeks
}

// PurchaseTree is the client -> day -> line aggregation of purchases.
type PurchaseTree struct {
	Clients    map[int]*ClientNode
	GrandTotal decimal.Decimal
	Dropped    int
}

// AggregatePurchases builds a PurchaseTree in one pass. Each line total feeds
// the day subtotal, the client total and the grand total together. Purchases
// without a resolvable date key or client are dropped with all their lines.
func AggregatePurchases(purchases []core.Purchase, units core.UnitNames, loc *time.Location) *PurchaseTree {
	tree := &PurchaseTree{Clients: make(map[int]*ClientNode)}

	for _, p := range purchases {
		key, ok := DateKey(p.CreatedAt, loc)
		if !ok || p.Client == nil {
			tree.Dropped += len(p.Items)
			continue
		}
		kept := 0
		for _, item := range p.Items {
			if item.Product == nil || item.Quantity.IsNegative() || item.UnitCost.IsNegative() {
				tree.Dropped++
				continue
			}
			tree.add(p.Client, key, item, units.Name(item.UnitID))
			kept++
		}
		if text := strings.TrimSpace(p.Observation); text != "" && kept > 0 {
			cn := tree.Clients[p.Client.ID]
			cn.Observations = append(cn.Observations, text)
		}
	}
	return tree
}

func (t *PurchaseTree) add(client *core.Client, dayKey string, item core.PurchaseItem, unitName string) {
	cn, ok := t.Clients[client.ID]
	if !ok {
		cn = &ClientNode{Client: client, Days: make(map[string]*DayNode)}
		t.Clients[client.ID] = cn
	}

	day, ok := cn.Days[dayKey]
	if !ok {
		day = &DayNode{Key: dayKey, Lines: make(map[LineKey]*PurchaseLine)}
		cn.Days[dayKey] = day
	}

	lk := LineKey{ProductID: item.Product.ID, UnitName: unitName, UnitCost: item.UnitCost.String()}
	line, ok := day.Lines[lk]
	if !ok {
		line = &PurchaseLine{Product: item.Product, UnitName: unitName, UnitCost: item.UnitCost}
		day.Lines[lk] = line
	}

	lineTotal := item.LineTotal()
	line.Quantity = line.Quantity.Add(item.Quantity)
	line.Total = line.Total.Add(lineTotal)
	day.Subtotal = day.Subtotal.Add(lineTotal)
	cn.Total = cn.Total.Add(lineTotal)
	t.GrandTotal = t.GrandTotal.Add(lineTotal)
}
