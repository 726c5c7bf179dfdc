package posapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/talkincode/gopos/internal/webserver"
)

// registerProductRoutes exposes the catalog cache to the UI
func registerProductRoutes() {
	webserver.ApiGET("/products", listProducts)
	webserver.ApiPOST("/catalog/refresh", refreshCatalog)
}

// listProducts answers the search box: blank q returns the short list,
// anything else a case-insensitive substring match in cache order.
func listProducts(c echo.Context) error {
	cache := webserver.GetApp(c).Catalog()
	rows := cache.Search(c.QueryParam("q"))
	return ok(c, map[string]interface{}{
		"items":  rows,
		"loaded": cache.Loaded(),
	})
}

func refreshCatalog(c echo.Context) error {
	cache := webserver.GetApp(c).Catalog()
	if err := cache.Refresh(c.Request().Context()); err != nil {
		return fail(c, http.StatusBadGateway, "REFRESH_FAILED", "Failed to refresh catalog", err.Error())
	}
	products, _ := cache.Snapshot()
	return ok(c, map[string]interface{}{"count": len(products)})
}
