package report

import (
	"sort"
	"strings"

	"produce-reports/internal/core"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Sorter applies the report ordering rules. A Sorter wraps a collator and is
// not safe for concurrent use; build one per report run.
type Sorter struct {
	col      *collate.Collator
	priority map[string]int
}

// NewSorter builds a Sorter for the locale and category priority in opts.
func NewSorter(opts Options) *Sorter {
	tag := opts.Locale
	if tag == language.Und {
		tag = language.Spanish
	}
	priority := make(map[string]int, len(opts.CategoryPriority))
	for i, name := range opts.CategoryPriority {
		key := strings.ToLower(strings.TrimSpace(name))
		if _, dup := priority[key]; !dup {
			priority[key] = i
		}
	}
	return &Sorter{
		col:      collate.New(tag, collate.IgnoreCase),
		priority: priority,
	}
}

// Compare orders a and b case-insensitively under the locale, falling back to
// a byte comparison so that distinct strings never compare equal.
func (s *Sorter) Compare(a, b string) int {
	if c := s.col.CompareString(a, b); c != 0 {
		return c
	}
	return strings.Compare(a, b)
}

// SortCategories orders names with priority categories first, in priority
// order, and the rest alphabetically after them.
func (s *Sorter) SortCategories(names []string) []string {
	out := append([]string(nil), names...)
	sort.SliceStable(out, func(i, j int) bool {
		pi, iok := s.priority[strings.ToLower(strings.TrimSpace(out[i]))]
		pj, jok := s.priority[strings.ToLower(strings.TrimSpace(out[j]))]
		switch {
		case iok && jok && pi != pj:
			return pi < pj
		case iok != jok:
			return iok
		}
		return s.Compare(out[i], out[j]) < 0
	})
	return out
}

// SortedCategories returns the tree's categories in category order.
func (s *Sorter) SortedCategories(tree *OrderTree) []*CategoryNode {
	names := s.SortCategories(tree.CategoryNames())
	out := make([]*CategoryNode, 0, len(names))
	for _, name := range names {
		out = append(out, tree.Categories[name])
	}
	return out
}

// SortedProducts orders a category's products by name, then id.
func (s *Sorter) SortedProducts(cat *CategoryNode) []*ProductNode {
	out := make([]*ProductNode, 0, len(cat.Products))
	for _, p := range cat.Products {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if c := s.Compare(out[i].Product.Name, out[j].Product.Name); c != 0 {
			return c < 0
		}
		return out[i].Product.ID < out[j].Product.ID
	})
	return out
}

// SortedCompanies orders the tree's companies by ascending id.
func (s *Sorter) SortedCompanies(tree *OrderTree) []*core.Company {
	out := make([]*core.Company, 0, len(tree.Companies))
	for _, c := range tree.Companies {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// SortedGroups orders a cell's groups by area name, then unit name, then
// area id.
func (s *Sorter) SortedGroups(node *CompanyNode) []*Group {
	out := make([]*Group, 0, len(node.Groups))
	for _, g := range node.Groups {
		out = append(out, g)
	}
	sort.Slice(out, func(i, j int) bool {
		if c := s.Compare(out[i].Area.Name, out[j].Area.Name); c != 0 {
			return c < 0
		}
		if c := s.Compare(out[i].UnitName, out[j].UnitName); c != 0 {
			return c < 0
		}
		return out[i].Area.ID < out[j].Area.ID
	})
	return out
}

// SortedUnits orders unit names.
func (s *Sorter) SortedUnits(names []string) []string {
	out := append([]string(nil), names...)
	sort.Slice(out, func(i, j int) bool { return s.Compare(out[i], out[j]) < 0 })
	return out
}

// SortedClients orders suppliers by name, then id.
func (s *Sorter) SortedClients(tree *PurchaseTree) []*ClientNode {
	out := make([]*ClientNode, 0, len(tree.Clients))
	for _, c := range tree.Clients {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if c := s.Compare(out[i].Client.Name, out[j].Client.Name); c != 0 {
			return c < 0
		}
		return out[i].Client.ID < out[j].Client.ID
	})
	return out
}

// SortedLines orders a day's purchase lines by product name, unit name, unit
// cost and product id.
func (s *Sorter) SortedLines(day *DayNode) []*PurchaseLine {
	out := make([]*PurchaseLine, 0, len(day.Lines))
	for _, l := range day.Lines {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if c := s.Compare(a.Product.Name, b.Product.Name); c != 0 {
			return c < 0
		}
		if c := s.Compare(a.UnitName, b.UnitName); c != 0 {
			return c < 0
		}
		if c := a.UnitCost.Cmp(b.UnitCost); c != 0 {
			return c < 0
		}
		return a.Product.ID < b.Product.ID
	})
	return out
}
