package picklist

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/invopop/jsonschema"
	"github.com/shopspring/decimal"
)

// ErrInvalidRequest marks a request that must be rejected before rendering.
var ErrInvalidRequest = errors.New("invalid pick list request")

// Request is a single order to print: the delivery area, its lines and an
// optional free-text observation.
type Request struct {
	AreaName    string `json:"areaName" jsonschema:"required,minLength=1"`
	Observation string `json:"observation,omitempty"`
	Items       []Item `json:"items" jsonschema:"required,minItems=1"`
}

// Item is one pick-list line.
type Item struct {
	ProductName string          `json:"productName" jsonschema:"required,minLength=1"`
	Quantity    decimal.Decimal `json:"quantity" jsonschema:"required"`
	UnitName    string          `json:"unitName,omitempty"`
}

// Validate rejects requests without an area, without items, or with an item
// that has no product name or a negative quantity.
func (r Request) Validate() error {
	if strings.TrimSpace(r.AreaName) == "" {
		return fmt.Errorf("%w: areaName is required", ErrInvalidRequest)
	}
	if len(r.Items) == 0 {
		return fmt.Errorf("%w: at least one item is required", ErrInvalidRequest)
	}
	for i, it := range r.Items {
		if strings.TrimSpace(it.ProductName) == "" {
			return fmt.Errorf("%w: items[%d].productName is required", ErrInvalidRequest, i)
		}
		if it.Quantity.IsNegative() {
			return fmt.Errorf("%w: items[%d].quantity must not be negative", ErrInvalidRequest, i)
		}
	}
	return nil
}

var decimalType = reflect.TypeOf(decimal.Decimal{})

// Schema returns the JSON Schema of Request. Quantities accept a JSON number
// or a numeric string.
func Schema() *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
		Mapper: func(t reflect.Type) *jsonschema.Schema {
			if t == decimalType {
				return &jsonschema.Schema{OneOf: []*jsonschema.Schema{
					{Type: "number"},
					{Type: "string", Pattern: `^-?\d+(\.\d+)?$`},
				}}
			}
			return nil
		},
	}
	return reflector.Reflect(&Request{})
}
