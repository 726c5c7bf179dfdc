package catalog

import (
	"context"
	"time"

	"github.com/guonaihong/gout"
	"github.com/pkg/errors"
	"github.com/talkincode/gopos/internal/domain"
)

// Client fetches the full product list from the remote product source.
// The source exposes no pagination or filtering; filtering is done
// locally by the cache after a full fetch.
type Client struct {
	baseURL string
	timeout time.Duration
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{baseURL: baseURL, timeout: timeout}
}

func (c *Client) FetchAll(ctx context.Context) ([]domain.Product, error) {
	var (
		products []domain.Product
		code     int
	)
	err := gout.GET(c.baseURL + "/products").
		WithContext(ctx).
		SetTimeout(c.timeout).
		Code(&code).
		BindJSON(&products).
		Do()
	if err != nil {
		return nil, errors.Wrap(err, "catalog: fetch products")
	}
	if code != 200 {
		return nil, errors.Errorf("catalog: product source returned status %d", code)
	}
	return products, nil
}
