package report

import (
	"strings"

	"produce-reports/internal/core"
)

// Observations maps a company id to its order observations in first-seen order.
type Observations map[int][]string

// CollectObservations gathers the trimmed, non-empty observation of every
// order under its company. It runs independently of aggregation and never
// reorders entries.
func CollectObservations(orders []core.Order) Observations {
	obs := make(Observations)
	for _, o := range orders {
		company := o.Company()
		if company == nil {
			continue
		}
		text := strings.TrimSpace(o.Observation)
		if text == "" {
			continue
		}
		obs[company.ID] = append(obs[company.ID], text)
	}
	return obs
}

// For returns the observations of companyID.
func (o Observations) For(companyID int) []string {
	return o[companyID]
}

// MaxLen is the length of the longest list.
func (o Observations) MaxLen() int {
	max := 0
	for _, list := range o {
		if len(list) > max {
			max = len(list)
		}
	}
	return max
}
