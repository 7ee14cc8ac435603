package report

import (
	"time"

	"golang.org/x/text/language"
)

// DefaultCategoryPriority is the category order used when none is configured.
var DefaultCategoryPriority = []string{"Vegetables", "Fruits", "Herbs", "Tax", "Other"}

// DefaultUncategorized names the bucket for products without a category.
const DefaultUncategorized = "Uncategorized"

// Options tune aggregation, ordering and rendering of a report run.
type Options struct {
	// Location is the reference timezone for absolute timestamps.
	Location *time.Location
	// Locale drives collation of names.
	Locale language.Tag
	// CategoryPriority lists categories that sort first, in this order.
	CategoryPriority []string
	Uncategorized    string
	// TotalsByUnit renders TOTAL cells as one run per unit instead of a
	// raw sum of quantities that may mix units.
	TotalsByUnit bool
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	loc, err := time.LoadLocation("America/Bogota")
	if err != nil {
		loc = time.FixedZone("UTC-5", -5*60*60)
	}
	return Options{
		Location:         loc,
		Locale:           language.Spanish,
		CategoryPriority: DefaultCategoryPriority,
		Uncategorized:    DefaultUncategorized,
	}
}

func (o Options) withDefaults() Options {
	if o.Location == nil {
		o.Location = time.UTC
	}
	if o.Locale == language.Und {
		o.Locale = language.Spanish
	}
	if o.Uncategorized == "" {
		o.Uncategorized = DefaultUncategorized
	}
	return o
}
