package pos

import (
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/talkincode/gopos/internal/domain"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

type fakeCatalog struct {
	products []domain.Product
	lookups  int
}

func (f *fakeCatalog) FindByName(name string) (domain.Product, bool) {
	f.lookups++
	for _, p := range f.products {
		if strings.EqualFold(p.Name, name) {
			return p, true
		}
	}
	return domain.Product{}, false
}

type fakeSubmitter struct {
	calls [][]domain.SaleItem
	err   error
}

func (f *fakeSubmitter) Submit(items []domain.SaleItem) error {
	if f.err != nil {
		return f.err
	}
	f.calls = append(f.calls, items)
	return nil
}

type fakeReceipts struct {
	count int
	items []domain.SaleItem
	total decimal.Decimal
}

func (f *fakeReceipts) Deliver(items []domain.SaleItem, total decimal.Decimal) {
	f.count++
	f.items = items
	f.total = total
}

func newTestEngine(products ...domain.Product) (*Engine, *fakeCatalog, *fakeSubmitter, *fakeReceipts) {
	cat := &fakeCatalog{products: products}
	sub := &fakeSubmitter{}
	rec := &fakeReceipts{}
	return NewEngine(cat, sub, rec), cat, sub, rec
}

func mouseOptico() domain.Product {
	return domain.Product{ID: 1, Name: "Mouse Óptico", UnitPrice: dec("25000"), Stock: 30}
}

func TestAddItemAppendsLineAndTotals(t *testing.T) {
	e, _, _, _ := newTestEngine(mouseOptico())

	err := e.AddItem(domain.PendingEntry{ProductName: "Mouse Óptico", Quantity: 2, UnitPrice: dec("25000")})
	if err != nil {
		t.Fatalf("AddItem: %v", err)
	}

	items := e.Items()
	if len(items) != 1 {
		t.Fatalf("items = %d, want 1", len(items))
	}
	it := items[0]
	if it.ProductID != 1 || it.Quantity != 2 {
		t.Errorf("line = %+v", it)
	}
	if !it.Subtotal.Equal(dec("50000")) {
		t.Errorf("subtotal = %s, want 50000", it.Subtotal)
	}
	if !e.Total().Equal(dec("50000")) {
		t.Errorf("total = %s, want 50000", e.Total())
	}
	if e.LastError() != nil {
		t.Errorf("lastError = %v, want nil", e.LastError())
	}
}

func TestAddItemMergesSameProductSamePrice(t *testing.T) {
	e, _, _, _ := newTestEngine(mouseOptico())

	entry := domain.PendingEntry{ProductName: "Mouse Óptico", Quantity: 2, UnitPrice: dec("25000")}
	if err := e.AddItem(entry); err != nil {
		t.Fatal(err)
	}
	entry.Quantity = 1
	if err := e.AddItem(entry); err != nil {
		t.Fatal(err)
	}

	items := e.Items()
	if len(items) != 1 {
		t.Fatalf("items = %d, want 1 merged line", len(items))
	}
	if items[0].Quantity != 3 {
		t.Errorf("quantity = %d, want 3", items[0].Quantity)
	}
	if !items[0].Subtotal.Equal(dec("75000")) {
		t.Errorf("subtotal = %s, want 75000", items[0].Subtotal)
	}
	if !e.Total().Equal(dec("75000")) {
		t.Errorf("total = %s, want 75000", e.Total())
	}
}

func TestAddItemDistinctPricesStaySeparate(t *testing.T) {
	e, _, _, _ := newTestEngine(mouseOptico())

	if err := e.AddItem(domain.PendingEntry{ProductName: "Mouse Óptico", Quantity: 1, UnitPrice: dec("25000")}); err != nil {
		t.Fatal(err)
	}
	if err := e.AddItem(domain.PendingEntry{ProductName: "Mouse Óptico", Quantity: 1, UnitPrice: dec("22000")}); err != nil {
		t.Fatal(err)
	}

	items := e.Items()
	if len(items) != 2 {
		t.Fatalf("items = %d, want 2 separate lines", len(items))
	}
	if !e.Total().Equal(dec("47000")) {
		t.Errorf("total = %s, want 47000", e.Total())
	}
}

func TestAddItemInsufficientStockLeavesCartUnchanged(t *testing.T) {
	e, _, _, _ := newTestEngine(mouseOptico())

	if err := e.AddItem(domain.PendingEntry{ProductName: "Mouse Óptico", Quantity: 3, UnitPrice: dec("25000")}); err != nil {
		t.Fatal(err)
	}

	// merged candidate 3+100 exceeds stock 30; the existing line must stay
	err := e.AddItem(domain.PendingEntry{ProductName: "Mouse Óptico", Quantity: 100, UnitPrice: dec("25000")})
	if !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("err = %v, want ErrInsufficientStock", err)
	}
	if !errors.Is(e.LastError(), ErrInsufficientStock) {
		t.Errorf("lastError = %v", e.LastError())
	}

	items := e.Items()
	if len(items) != 1 || items[0].Quantity != 3 {
		t.Errorf("cart mutated on rejection: %+v", items)
	}
	if !e.Total().Equal(dec("75000")) {
		t.Errorf("total = %s, want 75000", e.Total())
	}
}

func TestAddItemNewLineOverStockRejected(t *testing.T) {
	e, _, _, _ := newTestEngine(mouseOptico())

	err := e.AddItem(domain.PendingEntry{ProductName: "Mouse Óptico", Quantity: 31, UnitPrice: dec("25000")})
	if !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("err = %v, want ErrInsufficientStock", err)
	}
	if len(e.Items()) != 0 {
		t.Error("cart should stay empty")
	}
}

func TestAddItemProductNotFound(t *testing.T) {
	e, _, _, _ := newTestEngine(mouseOptico())

	err := e.AddItem(domain.PendingEntry{ProductName: "Teclado", Quantity: 1, UnitPrice: dec("10")})
	if !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("err = %v, want ErrProductNotFound", err)
	}
	if len(e.Items()) != 0 {
		t.Error("cart mutated on lookup miss")
	}
}

func TestAddItemNameMatchIsCaseInsensitive(t *testing.T) {
	e, _, _, _ := newTestEngine(mouseOptico())

	if err := e.AddItem(domain.PendingEntry{ProductName: "mouse óptico", Quantity: 1, UnitPrice: dec("25000")}); err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	// the line carries the catalog's casing, not the typed one
	if got := e.Items()[0].ProductName; got != "Mouse Óptico" {
		t.Errorf("productName = %q", got)
	}
}

func TestAddItemValidationBeforeLookup(t *testing.T) {
	e, cat, _, _ := newTestEngine(mouseOptico())

	cases := []domain.PendingEntry{
		{ProductName: "  ", Quantity: 1, UnitPrice: dec("10")},
		{ProductName: "Mouse Óptico", Quantity: 0, UnitPrice: dec("10")},
		{ProductName: "Mouse Óptico", Quantity: 1, UnitPrice: dec("-1")},
	}
	for _, entry := range cases {
		err := e.AddItem(entry)
		var ve *ValidationError
		if !errors.As(err, &ve) {
			t.Errorf("entry %+v: err = %v, want ValidationError", entry, err)
		}
	}
	if cat.lookups != 0 {
		t.Errorf("lookups = %d, validation must reject before the catalog is consulted", cat.lookups)
	}
	if len(e.Items()) != 0 {
		t.Error("cart mutated by invalid entries")
	}
}

func TestErrorClearsOnNextSuccess(t *testing.T) {
	e, _, _, _ := newTestEngine(mouseOptico())

	_ = e.AddItem(domain.PendingEntry{ProductName: "Teclado", Quantity: 1, UnitPrice: dec("10")})
	if e.LastError() == nil {
		t.Fatal("expected lastError set")
	}
	if err := e.AddItem(domain.PendingEntry{ProductName: "Mouse Óptico", Quantity: 1, UnitPrice: dec("25000")}); err != nil {
		t.Fatal(err)
	}
	if e.LastError() != nil {
		t.Errorf("lastError = %v, want nil after success", e.LastError())
	}
}

func TestAddItemResetsPendingQuantity(t *testing.T) {
	e, _, _, _ := newTestEngine(mouseOptico())

	e.SelectProduct(mouseOptico())
	pending := e.Pending()
	pending.Quantity = 5
	if err := e.AddItem(pending); err != nil {
		t.Fatal(err)
	}
	if got := e.Pending().Quantity; got != 1 {
		t.Errorf("pending quantity = %d, want 1", got)
	}
	// name and price are left for the caller
	if e.Pending().ProductName != "Mouse Óptico" {
		t.Errorf("pending name = %q", e.Pending().ProductName)
	}
}

func TestSelectProductOnlyFillsPending(t *testing.T) {
	e, _, _, _ := newTestEngine(mouseOptico())

	e.SelectProduct(mouseOptico())
	if len(e.Items()) != 0 {
		t.Error("SelectProduct must not touch the cart")
	}
	p := e.Pending()
	if p.ProductName != "Mouse Óptico" || !p.UnitPrice.Equal(dec("25000")) {
		t.Errorf("pending = %+v", p)
	}
}

func TestRemoveItem(t *testing.T) {
	e, _, _, _ := newTestEngine(
		mouseOptico(),
		domain.Product{ID: 2, Name: "Teclado", UnitPrice: dec("80000"), Stock: 10},
	)

	_ = e.AddItem(domain.PendingEntry{ProductName: "Mouse Óptico", Quantity: 1, UnitPrice: dec("25000")})
	_ = e.AddItem(domain.PendingEntry{ProductName: "Teclado", Quantity: 1, UnitPrice: dec("80000")})

	e.RemoveItem(0)
	items := e.Items()
	if len(items) != 1 || items[0].ProductName != "Teclado" {
		t.Fatalf("items after remove = %+v", items)
	}
	if !e.Total().Equal(dec("80000")) {
		t.Errorf("total = %s, want 80000", e.Total())
	}
}

func TestRemoveItemOutOfRangeIsNoop(t *testing.T) {
	e, _, _, _ := newTestEngine(mouseOptico())
	_ = e.AddItem(domain.PendingEntry{ProductName: "Mouse Óptico", Quantity: 1, UnitPrice: dec("25000")})

	e.RemoveItem(-1)
	e.RemoveItem(5)
	if len(e.Items()) != 1 {
		t.Errorf("items = %d, want 1", len(e.Items()))
	}
}

func TestComputeTotalEmptyCart(t *testing.T) {
	e, _, _, _ := newTestEngine()
	if !e.ComputeTotal().Equal(decimal.Zero) {
		t.Errorf("total = %s, want 0", e.ComputeTotal())
	}
}

func TestSubtotalRoundsPerStep(t *testing.T) {
	e, _, _, _ := newTestEngine(
		domain.Product{ID: 3, Name: "Tornillo", UnitPrice: dec("0.335"), Stock: 100},
		domain.Product{ID: 4, Name: "Arandela", UnitPrice: dec("0.335"), Stock: 100},
	)

	_ = e.AddItem(domain.PendingEntry{ProductName: "Tornillo", Quantity: 3, UnitPrice: dec("0.335")})
	_ = e.AddItem(domain.PendingEntry{ProductName: "Arandela", Quantity: 3, UnitPrice: dec("0.335")})

	items := e.Items()
	// 3 x 0.335 = 1.005, rounded at line-add time
	if !items[0].Subtotal.Equal(dec("1.01")) {
		t.Errorf("subtotal = %s, want 1.01", items[0].Subtotal)
	}
	// the total sums already-rounded subtotals: 2.02, not round(2.01)
	if !e.Total().Equal(dec("2.02")) {
		t.Errorf("total = %s, want 2.02", e.Total())
	}
}

func TestFinalizeEmptyCartIsNoop(t *testing.T) {
	e, _, sub, rec := newTestEngine()

	if err := e.Finalize(); err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	if len(sub.calls) != 0 {
		t.Error("submitter called for empty cart")
	}
	if rec.count != 0 {
		t.Error("receipt delivered for empty cart")
	}
}

func TestFinalizeSubmitsAndClears(t *testing.T) {
	e, _, sub, rec := newTestEngine(mouseOptico())

	_ = e.AddItem(domain.PendingEntry{ProductName: "Mouse Óptico", Quantity: 3, UnitPrice: dec("25000")})
	if err := e.Finalize(); err != nil {
		t.Fatalf("Finalize: %v", err)
	}

	if len(sub.calls) != 1 {
		t.Fatalf("submitter calls = %d, want 1", len(sub.calls))
	}
	sent := sub.calls[0]
	if len(sent) != 1 || sent[0].ProductID != 1 || sent[0].Quantity != 3 {
		t.Errorf("submitted = %+v", sent)
	}

	if rec.count != 1 {
		t.Fatalf("receipt deliveries = %d, want 1", rec.count)
	}
	if !rec.total.Equal(dec("75000")) {
		t.Errorf("receipt total = %s, want 75000", rec.total)
	}

	if len(e.Items()) != 0 {
		t.Error("cart not cleared")
	}
	if !e.Total().Equal(decimal.Zero) {
		t.Errorf("total = %s, want 0", e.Total())
	}
	if e.Pending().Quantity != 1 || e.Pending().ProductName != "" {
		t.Errorf("pending not reset: %+v", e.Pending())
	}
}

func TestFinalizeSubmitErrorKeepsCart(t *testing.T) {
	e, _, sub, rec := newTestEngine(mouseOptico())
	sub.err = errors.New("pool released")

	_ = e.AddItem(domain.PendingEntry{ProductName: "Mouse Óptico", Quantity: 2, UnitPrice: dec("25000")})
	err := e.Finalize()

	var fe *FinalizeError
	if !errors.As(err, &fe) {
		t.Fatalf("err = %v, want FinalizeError", err)
	}
	if !errors.As(e.LastError(), &fe) {
		t.Errorf("lastError = %v", e.LastError())
	}
	if len(e.Items()) != 1 {
		t.Error("cart must be kept when submission fails synchronously")
	}
	if rec.count != 0 {
		t.Error("no receipt on failed finalize")
	}
}

func TestConcreteScenario(t *testing.T) {
	// catalog = [{id:1, name:"Mouse Óptico", unitPrice:25000, stock:30}]
	e, _, _, _ := newTestEngine(mouseOptico())

	if err := e.AddItem(domain.PendingEntry{ProductName: "Mouse Óptico", Quantity: 2, UnitPrice: dec("25000")}); err != nil {
		t.Fatal(err)
	}
	if got := e.Items(); len(got) != 1 || got[0].Quantity != 2 || !got[0].Subtotal.Equal(dec("50000")) {
		t.Fatalf("after first add: %+v", got)
	}

	if err := e.AddItem(domain.PendingEntry{ProductName: "Mouse Óptico", Quantity: 1, UnitPrice: dec("25000")}); err != nil {
		t.Fatal(err)
	}
	if got := e.Items(); len(got) != 1 || got[0].Quantity != 3 || !got[0].Subtotal.Equal(dec("75000")) {
		t.Fatalf("after merge: %+v", got)
	}
	if !e.Total().Equal(dec("75000")) {
		t.Fatalf("total = %s", e.Total())
	}

	err := e.AddItem(domain.PendingEntry{ProductName: "Mouse Óptico", Quantity: 100, UnitPrice: dec("25000")})
	if !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("err = %v", err)
	}
	if got := e.Items(); got[0].Quantity != 3 {
		t.Fatalf("quantity changed on rejection: %+v", got)
	}
}
