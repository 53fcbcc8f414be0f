package deal

import (
	"sort"

	"jvdveen/dealwatch/pkg/errors"
)

// SortKey selects the ordering of a deal listing
type SortKey string

const (
	// SortByDiscount orders by discount percentage, highest first
	SortByDiscount SortKey = "discount_percentage"
	// SortByAddedDate orders by added date, newest first
	SortByAddedDate SortKey = "added_date"
	// SortByPrice orders by current price, cheapest first
	SortByPrice SortKey = "price"
)

// ParseSortKey validates a sort key string, defaulting to discount percentage
func ParseSortKey(s string) (SortKey, error) {
	switch SortKey(s) {
	case "":
		return SortByDiscount, nil
	case SortByDiscount, SortByAddedDate, SortByPrice:
		return SortKey(s), nil
	}
	return "", errors.NewValidation("sort must be one of discount_percentage, added_date, price")
}

// Sort orders deals in place by the given key
func Sort(deals []Deal, key SortKey) {
	switch key {
	case SortByAddedDate:
		// RFC3339 strings compare chronologically
		sort.SliceStable(deals, func(i, j int) bool {
			return deals[i].AddedDate > deals[j].AddedDate
		})
	case SortByPrice:
		sort.SliceStable(deals, func(i, j int) bool {
			return deals[i].CurrentPrice < deals[j].CurrentPrice
		})
	default:
		sort.SliceStable(deals, func(i, j int) bool {
			return deals[i].Discount() > deals[j].Discount()
		})
	}
}

// Filter narrows a deal listing. Zero values leave the dimension unfiltered.
type Filter struct {
	Status      string
	MinDiscount float64
	Retailers   []string
}

// Apply returns the deals passing every filter dimension
func (f Filter) Apply(deals []Deal) []Deal {
	out := make([]Deal, 0, len(deals))
	for _, d := range deals {
		if f.Status != "" && d.Status != f.Status {
			continue
		}
		// A deal without a discount never passes a positive threshold
		if f.MinDiscount > 0 && d.Discount() < f.MinDiscount {
			continue
		}
		if len(f.Retailers) > 0 && !contains(f.Retailers, d.Retailer) {
			continue
		}
		out = append(out, d)
	}
	return out
}

func contains(set []string, value string) bool {
	for _, s := range set {
		if s == value {
			return true
		}
	}
	return false
}
