package product

import (
	"sort"
	"strings"
)

type Sort string

const (
	SortNewest    Sort = "newest"
	SortOldest    Sort = "oldest"
	SortPriceLow  Sort = "price-low"
	SortPriceHigh Sort = "price-high"
)

// Filter is the catalog browsing state: free text, category and order.
type Filter struct {
	Query    string `json:"q" validate:"max=200"`
	Category string `json:"category" validate:"max=60"`
	Sort     Sort   `json:"sort" validate:"omitempty,oneof=newest oldest price-low price-high"`
}

func (f Filter) IsZero() bool {
	return f == Filter{}
}

// Search returns the available products matching f, ordered by f.Sort.
// The query is a case-insensitive substring match on title, description
// and category; the category must match exactly. Sorting is stable, so
// ties keep their catalog order. products is not modified.
func Search(products []Product, f Filter) []Product {
	q := strings.ToLower(strings.TrimSpace(f.Query))

	out := make([]Product, 0, len(products))
	for _, p := range products {
		if !p.IsAvailable {
			continue
		}
		if q != "" && !matches(p, q) {
			continue
		}
		if f.Category != "" && p.Category != f.Category {
			continue
		}
		out = append(out, p)
	}

	switch f.Sort {
	case SortOldest:
		sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	case SortPriceLow:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price.LessThan(out[j].Price) })
	case SortPriceHigh:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price.GreaterThan(out[j].Price) })
	default:
		sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	}

	return out
}

func matches(p Product, q string) bool {
	return strings.Contains(strings.ToLower(p.Title), q) ||
		strings.Contains(strings.ToLower(p.Description), q) ||
		strings.Contains(strings.ToLower(p.Category), q)
}
