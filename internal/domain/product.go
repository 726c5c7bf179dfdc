package domain

import "github.com/shopspring/decimal"

func init() {
	// the backend speaks plain JSON numbers for money fields
	decimal.MarshalJSONWithoutQuotes = true
}

// Product is one catalog record as served by the remote product source.
// The engine treats products as read-only; stock and price are owned by
// the backend and only mirrored through the catalog cache.
type Product struct {
	ID        int64           `json:"id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Stock     int             `json:"stock"`
}
