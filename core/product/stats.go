package product

import "github.com/shopspring/decimal"

// ListingStats summarizes a seller's listings.
type ListingStats struct {
	Total      int             `json:"total"`
	Active     int             `json:"active"`
	TotalValue decimal.Decimal `json:"totalValue"`
}

// Stats counts listings and sums the price of the available ones.
func Stats(listings []Product) ListingStats {
	st := ListingStats{Total: len(listings), TotalValue: decimal.Zero}
	for _, p := range listings {
		if !p.IsAvailable {
			continue
		}
		st.Active++
		st.TotalValue = st.TotalValue.Add(p.Price)
	}
	return st
}
