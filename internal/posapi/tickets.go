package posapi

import (
	"fmt"
	"net/http"
	"time"

	"github.com/360EntSecGroup-Skylar/excelize"
	"github.com/gocarina/gocsv"
	"github.com/labstack/echo/v4"
	"github.com/montanaflynn/stats"
	"github.com/talkincode/gopos/internal/domain"
	"github.com/talkincode/gopos/internal/webserver"
)

// registerTicketRoutes exposes the mirrored ticket list
func registerTicketRoutes() {
	webserver.ApiGET("/tickets", listTickets)
	webserver.ApiPOST("/tickets/refresh", refreshTickets)
	webserver.ApiGET("/tickets/summary", summaryTickets)
	webserver.ApiGET("/tickets/export", exportTickets)
}

// snapshotTickets returns the cached list, triggering a synchronous
// refresh when no fetch has completed yet.
func snapshotTickets(c echo.Context) ([]domain.Ticket, error) {
	store := webserver.GetApp(c).Tickets()
	rows, loaded := store.Snapshot()
	if !loaded {
		if err := store.Refresh(c.Request().Context()); err != nil {
			return nil, err
		}
		rows, _ = store.Snapshot()
	}
	return rows, nil
}

func listTickets(c echo.Context) error {
	rows, err := snapshotTickets(c)
	if err != nil {
		return fail(c, http.StatusBadGateway, "REFRESH_FAILED", "Failed to load tickets", err.Error())
	}
	page, pageSize := parsePagination(c)
	total := int64(len(rows))
	start := (page - 1) * pageSize
	if start > len(rows) {
		start = len(rows)
	}
	end := start + pageSize
	if end > len(rows) {
		end = len(rows)
	}
	return paged(c, rows[start:end], total, page, pageSize)
}

func refreshTickets(c echo.Context) error {
	store := webserver.GetApp(c).Tickets()
	if err := store.Refresh(c.Request().Context()); err != nil {
		return fail(c, http.StatusBadGateway, "REFRESH_FAILED", "Failed to refresh tickets", err.Error())
	}
	rows, _ := store.Snapshot()
	return ok(c, map[string]interface{}{"count": len(rows)})
}

// summaryTickets aggregates the cached ticket totals for the dashboard.
func summaryTickets(c echo.Context) error {
	rows, err := snapshotTickets(c)
	if err != nil {
		return fail(c, http.StatusBadGateway, "REFRESH_FAILED", "Failed to load tickets", err.Error())
	}

	res := map[string]interface{}{
		"count": len(rows),
		"sum":   0.0,
		"mean":  0.0,
		"max":   0.0,
	}
	if len(rows) > 0 {
		totals := make([]float64, 0, len(rows))
		for _, t := range rows {
			f, _ := t.Total.Float64()
			totals = append(totals, f)
		}
		if v, err := stats.Sum(totals); err == nil {
			res["sum"] = v
		}
		if v, err := stats.Mean(totals); err == nil {
			res["mean"] = v
		}
		if v, err := stats.Max(totals); err == nil {
			res["max"] = v
		}
	}
	return ok(c, res)
}

type ticketExportRow struct {
	ID        string `csv:"id"`
	CreatedAt string `csv:"created_at"`
	Items     int    `csv:"items"`
	Total     string `csv:"total"`
}

func exportRows(tickets []domain.Ticket) []ticketExportRow {
	rows := make([]ticketExportRow, 0, len(tickets))
	for _, t := range tickets {
		created := ""
		if !t.CreatedAt.IsZero() {
			created = t.CreatedAt.Format(time.RFC3339)
		}
		rows = append(rows, ticketExportRow{
			ID:        t.ID,
			CreatedAt: created,
			Items:     len(t.Items),
			Total:     t.Total.StringFixed(2),
		})
	}
	return rows
}

// exportTickets downloads the cached ticket list as a spreadsheet
// (default) or CSV with ?format=csv.
func exportTickets(c echo.Context) error {
	tickets, err := snapshotTickets(c)
	if err != nil {
		return fail(c, http.StatusBadGateway, "REFRESH_FAILED", "Failed to load tickets", err.Error())
	}
	rows := exportRows(tickets)
	filename := fmt.Sprintf("tickets_%s", time.Now().Format("20060102_150405"))

	if c.QueryParam("format") == "csv" {
		c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s.csv"`, filename))
		c.Response().Header().Set(echo.HeaderContentType, "text/csv; charset=utf-8")
		c.Response().WriteHeader(http.StatusOK)
		return gocsv.Marshal(&rows, c.Response())
	}

	f := excelize.NewFile()
	headers := []string{"ID", "Created At", "Items", "Total"}
	for i, h := range headers {
		f.SetCellValue("Sheet1", fmt.Sprintf("%s1", string(rune('A'+i))), h)
	}
	for i, row := range rows {
		f.SetCellValue("Sheet1", fmt.Sprintf("A%d", i+2), row.ID)
		f.SetCellValue("Sheet1", fmt.Sprintf("B%d", i+2), row.CreatedAt)
		f.SetCellValue("Sheet1", fmt.Sprintf("C%d", i+2), row.Items)
		f.SetCellValue("Sheet1", fmt.Sprintf("D%d", i+2), row.Total)
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s.xlsx"`, filename))
	c.Response().Header().Set(echo.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Response().WriteHeader(http.StatusOK)
	return f.Write(c.Response())
}
