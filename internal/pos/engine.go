package pos

import (
	"strings"
	"sync"

	"github.com/shopspring/decimal"
	"github.com/talkincode/gopos/internal/domain"
	"github.com/talkincode/gopos/pkg/metrics"
	"go.uber.org/zap"
)

// Catalog is the lookup side of the catalog cache the engine validates
// against. Stock figures are the cache's last-known values; the engine
// never decrements them locally.
type Catalog interface {
	FindByName(name string) (domain.Product, bool)
}

// Submitter receives the finalized line-item list. Implementations are
// asynchronous: the engine only observes errors raised synchronously by
// the enqueue itself.
type Submitter interface {
	Submit(items []domain.SaleItem) error
}

// ReceiptSink is invoked exactly once per successful finalize with the
// submitted item list and total.
type ReceiptSink interface {
	Deliver(items []domain.SaleItem, total decimal.Decimal)
}

// Engine owns the in-progress sale: the ordered line items, the derived
// total, the pending form entry, and the single current error reason.
// One engine is one register; operations are serialized by a mutex, the
// design assumes a single active operator session.
type Engine struct {
	mu        sync.Mutex
	catalog   Catalog
	submitter Submitter
	receipts  ReceiptSink

	items   []domain.SaleItem
	total   decimal.Decimal
	pending domain.PendingEntry
	lastErr error
}

// NewEngine wires an empty cart. receipts may be nil when no receipt
// delivery is configured.
func NewEngine(catalog Catalog, submitter Submitter, receipts ReceiptSink) *Engine {
	return &Engine{
		catalog:   catalog,
		submitter: submitter,
		receipts:  receipts,
		total:     decimal.Zero,
		pending:   domain.PendingEntry{Quantity: 1},
	}
}

// SelectProduct pre-fills the pending entry's name and unit price from
// a picked catalog product. It touches nothing else: no cart mutation,
// no error change.
func (e *Engine) SelectProduct(p domain.Product) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.pending.ProductName = p.Name
	e.pending.UnitPrice = p.UnitPrice
}

// Pending returns the current pending entry fields.
func (e *Engine) Pending() domain.PendingEntry {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.pending
}

// AddItem validates the pending entry, resolves the product, and merges
// it into the cart or appends a new line.
//
// Order matters: shape checks happen before the catalog lookup, and the
// stock check compares the merge-candidate quantity before any line is
// touched, so a rejected add leaves the cart byte-for-byte unchanged.
// Two lines for the same product may coexist when the operator entered
// different unit prices; merging only happens on an exact
// (productId, unitPrice) match.
func (e *Engine) AddItem(entry domain.PendingEntry) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	name := strings.TrimSpace(entry.ProductName)
	if name == "" || entry.Quantity < 1 || entry.UnitPrice.IsNegative() {
		e.lastErr = &ValidationError{Reason: "nombre requerido, cantidad >= 1, precio >= 0"}
		metrics.IncrCounter("pos_add_rejected", 1)
		return e.lastErr
	}

	product, found := e.catalog.FindByName(name)
	if !found {
		e.lastErr = ErrProductNotFound
		metrics.IncrCounter("pos_add_rejected", 1)
		return e.lastErr
	}

	existing := -1
	for i, it := range e.items {
		if it.ProductID == product.ID && it.UnitPrice.Equal(entry.UnitPrice) {
			existing = i
			break
		}
	}

	candidateQty := entry.Quantity
	if existing >= 0 {
		candidateQty += e.items[existing].Quantity
	}
	if candidateQty > product.Stock {
		e.lastErr = ErrInsufficientStock
		metrics.IncrCounter("pos_add_rejected", 1)
		return e.lastErr
	}

	subtotal := entry.UnitPrice.Mul(decimal.NewFromInt(int64(candidateQty))).Round(2)
	if existing >= 0 {
		e.items[existing].Quantity = candidateQty
		e.items[existing].Subtotal = subtotal
	} else {
		e.items = append(e.items, domain.SaleItem{
			ProductID:   product.ID,
			ProductName: product.Name,
			UnitPrice:   entry.UnitPrice,
			Quantity:    entry.Quantity,
			Subtotal:    subtotal,
		})
	}

	e.computeTotalLocked()
	e.lastErr = nil
	e.pending.Quantity = 1
	metrics.IncrCounter("pos_items_added", 1)
	return nil
}

// RemoveItem drops the line at the given insertion-order position and
// recomputes the total. An out-of-range index is a no-op; the observed
// UI never passes one and a hard failure buys nothing here.
func (e *Engine) RemoveItem(index int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if index < 0 || index >= len(e.items) {
		return
	}
	e.items = append(e.items[:index], e.items[index+1:]...)
	e.computeTotalLocked()
	e.lastErr = nil
}

// ComputeTotal recomputes and returns the cart total. Idempotent; zero
// for an empty cart.
func (e *Engine) ComputeTotal() decimal.Decimal {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.computeTotalLocked()
	return e.total
}

// subtotals are already rounded at add time; the sum is rounded again,
// matching the original's per-step rounding.
func (e *Engine) computeTotalLocked() {
	sum := decimal.Zero
	for _, it := range e.items {
		sum = sum.Add(it.Subtotal)
	}
	e.total = sum.Round(2)
}

// Items returns a copy of the line items in display order.
func (e *Engine) Items() []domain.SaleItem {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]domain.SaleItem, len(e.items))
	copy(out, e.items)
	return out
}

// Total returns the current cart total.
func (e *Engine) Total() decimal.Decimal {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.total
}

// LastError returns the current error reason, nil after a successful
// operation.
func (e *Engine) LastError() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastErr
}

// Finalize submits the cart and resets it. An empty cart is a no-op
// with no collaborator call. The submission itself is fire-and-forget:
// only an error raised synchronously by the enqueue keeps the cart and
// surfaces as FinalizeError; once enqueued, the cart is cleared and the
// receipt delivered, and any later remote failure is reported through
// the submitter's own channel.
func (e *Engine) Finalize() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if len(e.items) == 0 {
		return nil
	}

	snapshot := make([]domain.SaleItem, len(e.items))
	copy(snapshot, e.items)
	total := e.total

	if err := e.submitter.Submit(snapshot); err != nil {
		e.lastErr = &FinalizeError{Cause: err}
		zap.L().Warn("pos: finalize rejected", zap.Error(err))
		return e.lastErr
	}

	if e.receipts != nil {
		e.receipts.Deliver(snapshot, total)
	}

	e.items = nil
	e.total = decimal.Zero
	e.lastErr = nil
	e.pending = domain.PendingEntry{Quantity: 1}
	metrics.IncrCounter("pos_tickets_finalized", 1)
	zap.L().Info("pos: sale finalized", zap.Int("items", len(snapshot)), zap.String("total", total.String()))
	return nil
}
