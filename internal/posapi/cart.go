package posapi

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/talkincode/gopos/internal/app"
	"github.com/talkincode/gopos/internal/domain"
	"github.com/talkincode/gopos/internal/webserver"
)

// registerCartRoutes binds the cart engine operations for the UI
func registerCartRoutes() {
	webserver.ApiGET("/cart", getCart)
	webserver.ApiPOST("/cart/select", selectProduct)
	webserver.ApiPOST("/cart/items", addItem)
	webserver.ApiDELETE("/cart/items/:index", removeItem)
	webserver.ApiPOST("/cart/checkout", checkout)
	webserver.ApiGET("/receipts/last", lastReceipt)
}

func cartState(a app.AppContext) map[string]interface{} {
	engine := a.Engine()
	state := map[string]interface{}{
		"items":   engine.Items(),
		"total":   engine.Total(),
		"pending": engine.Pending(),
	}
	if err := engine.LastError(); err != nil {
		state["error"] = err.Error()
	}
	return state
}

func getCart(c echo.Context) error {
	return ok(c, cartState(webserver.GetApp(c)))
}

type selectPayload struct {
	ID int64 `json:"id"`
}

// selectProduct pre-fills the pending entry from a catalog product the
// operator picked in the search results.
func selectProduct(c echo.Context) error {
	var payload selectPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse selection", err.Error())
	}
	a := webserver.GetApp(c)
	products, _ := a.Catalog().Snapshot()
	for _, p := range products {
		if p.ID == payload.ID {
			a.Engine().SelectProduct(p)
			return ok(c, cartState(a))
		}
	}
	return fail(c, http.StatusNotFound, "PRODUCT_NOT_FOUND", "Product not found", nil)
}

func addItem(c echo.Context) error {
	var entry domain.PendingEntry
	if err := c.Bind(&entry); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse item", err.Error())
	}
	a := webserver.GetApp(c)
	if err := a.Engine().AddItem(entry); err != nil {
		return failEngine(c, err)
	}
	return ok(c, cartState(a))
}

func removeItem(c echo.Context) error {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_INDEX", "Invalid item index", nil)
	}
	a := webserver.GetApp(c)
	// out-of-range is a no-op inside the engine
	a.Engine().RemoveItem(index)
	return ok(c, cartState(a))
}

func checkout(c echo.Context) error {
	a := webserver.GetApp(c)
	if err := a.Engine().Finalize(); err != nil {
		return failEngine(c, err)
	}
	return ok(c, cartState(a))
}

// lastReceipt returns the most recently printed receipt as plain text.
func lastReceipt(c echo.Context) error {
	doc := webserver.GetApp(c).Receipts().Last()
	if doc == nil {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "No receipt printed yet", nil)
	}
	return c.Blob(http.StatusOK, "text/plain; charset=utf-8", doc)
}
