package posapi

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/talkincode/gopos/internal/pos"
)

// Response helpers shared by all handlers. Every endpoint answers the
// same envelope: {code:0, data} on success, {code:1, error, message}
// on failure.

func ok(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"code": 0,
		"data": data,
	})
}

func fail(c echo.Context, status int, code, message string, detail interface{}) error {
	return c.JSON(status, map[string]interface{}{
		"code":    1,
		"error":   code,
		"message": message,
		"detail":  detail,
	})
}

func paged(c echo.Context, rows interface{}, total int64, page, pageSize int) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"code":      0,
		"data":      rows,
		"total":     total,
		"page":      page,
		"page_size": pageSize,
	})
}

func parsePagination(c echo.Context) (page, pageSize int) {
	page = 1
	pageSize = 20
	if p, err := strconv.Atoi(c.QueryParam("page")); err == nil && p > 0 {
		page = p
	}
	if ps, err := strconv.Atoi(c.QueryParam("perPage")); err == nil && ps > 0 && ps <= 500 {
		pageSize = ps
	}
	return page, pageSize
}

// failEngine maps the engine's error taxonomy onto HTTP responses.
func failEngine(c echo.Context, err error) error {
	var ve *pos.ValidationError
	if errors.As(err, &ve) {
		return fail(c, http.StatusBadRequest, "VALIDATION_ERROR", ve.Error(), nil)
	}
	if errors.Is(err, pos.ErrProductNotFound) {
		return fail(c, http.StatusNotFound, "PRODUCT_NOT_FOUND", err.Error(), nil)
	}
	if errors.Is(err, pos.ErrInsufficientStock) {
		return fail(c, http.StatusConflict, "INSUFFICIENT_STOCK", err.Error(), nil)
	}
	var fe *pos.FinalizeError
	if errors.As(err, &fe) {
		return fail(c, http.StatusBadGateway, "FINALIZE_FAILED", fe.Error(), nil)
	}
	return fail(c, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error(), nil)
}

// Init registers all POS API routes.
func Init() {
	registerProductRoutes()
	registerCartRoutes()
	registerTicketRoutes()
}
