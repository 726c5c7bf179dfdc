package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaleItem is one line of the in-progress sale. UnitPrice is the
// operator-entered price, deliberately decoupled from the product's
// catalog price. Subtotal always equals quantity x unit price rounded
// to 2 decimal places.
type SaleItem struct {
	ProductID   int64           `json:"productId"`
	ProductName string          `json:"productName"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	Quantity    int             `json:"quantity"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

// Ticket is the backend's persisted record of a finalized sale.
// Read-only on this side; the list is mirrored by the ticket store.
type Ticket struct {
	ID        string          `json:"id"`
	CreatedAt time.Time       `json:"createdAt"`
	Items     []SaleItem      `json:"items"`
	Total     decimal.Decimal `json:"total"`
}

// PendingEntry holds the form fields for the next add-item call.
type PendingEntry struct {
	ProductName string          `json:"productName"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
}
