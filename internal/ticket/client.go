package ticket

import (
	"context"
	"time"

	"github.com/araddon/dateparse"
	"github.com/guonaihong/gout"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/talkincode/gopos/internal/domain"
	"go.uber.org/zap"
)

// CreateItem is the only shape the create endpoint accepts per line:
// product name and subtotal are dropped, the backend recomputes them.
type CreateItem struct {
	ProductID int64           `json:"productId"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
}

type CreatePayload struct {
	Items []CreateItem `json:"items"`
}

// wireTicket carries createdAt as the raw string the backend sends so
// we can parse it leniently instead of failing on format drift.
type wireTicket struct {
	ID        string            `json:"id"`
	CreatedAt string            `json:"createdAt"`
	Items     []domain.SaleItem `json:"items"`
	Total     decimal.Decimal   `json:"total"`
}

func (w wireTicket) toDomain() domain.Ticket {
	t := domain.Ticket{ID: w.ID, Items: w.Items, Total: w.Total}
	if w.CreatedAt != "" {
		ts, err := dateparse.ParseAny(w.CreatedAt)
		if err != nil {
			zap.L().Warn("ticket: unparseable createdAt", zap.String("value", w.CreatedAt), zap.Error(err))
		} else {
			t.CreatedAt = ts
		}
	}
	return t
}

// Client talks to the remote ticket source (read list + create).
type Client struct {
	baseURL string
	timeout time.Duration
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{baseURL: baseURL, timeout: timeout}
}

func (c *Client) FetchAll(ctx context.Context) ([]domain.Ticket, error) {
	var (
		wire []wireTicket
		code int
	)
	err := gout.GET(c.baseURL + "/tickets").
		WithContext(ctx).
		SetTimeout(c.timeout).
		Code(&code).
		BindJSON(&wire).
		Do()
	if err != nil {
		return nil, errors.Wrap(err, "ticket: fetch tickets")
	}
	if code != 200 {
		return nil, errors.Errorf("ticket: ticket source returned status %d", code)
	}
	out := make([]domain.Ticket, 0, len(wire))
	for _, w := range wire {
		out = append(out, w.toDomain())
	}
	return out, nil
}

func (c *Client) Create(ctx context.Context, payload CreatePayload) (domain.Ticket, error) {
	var (
		wire wireTicket
		code int
	)
	err := gout.POST(c.baseURL + "/tickets").
		WithContext(ctx).
		SetTimeout(c.timeout).
		SetJSON(payload).
		Code(&code).
		BindJSON(&wire).
		Do()
	if err != nil {
		return domain.Ticket{}, errors.Wrap(err, "ticket: create")
	}
	if code != 200 && code != 201 {
		return domain.Ticket{}, errors.Errorf("ticket: create returned status %d", code)
	}
	return wire.toDomain(), nil
}
