package ticket

import (
	"context"
	"time"

	"github.com/asaskevich/EventBus"
	"github.com/panjf2000/ants/v2"
	"github.com/pkg/errors"
	"github.com/talkincode/gopos/internal/domain"
	"github.com/talkincode/gopos/pkg/metrics"
	"go.uber.org/zap"
)

// Bus topics for submission outcomes. The create call is asynchronous,
// so callers that need the created ticket subscribe to these instead of
// reading a return value (the old UI read a synchronous null and
// silently ignored it; that contract is not reproduced here).
const (
	TopicCreated = "tickets.created" // payload: domain.Ticket
	TopicFailed  = "tickets.failed"  // payload: error
)

// Creator is the write side of the remote ticket source.
type Creator interface {
	Create(ctx context.Context, payload CreatePayload) (domain.Ticket, error)
}

// Submitter turns a finalized line-item list into a backend ticket.
// Submit only enqueues; a pool worker performs the create call and then
// refreshes the ticket list cell, reporting the outcome on the bus.
type Submitter struct {
	client  Creator
	store   *Store
	bus     EventBus.Bus
	pool    *ants.Pool
	timeout time.Duration
}

func NewSubmitter(client Creator, store *Store, bus EventBus.Bus, workers int, timeout time.Duration) (*Submitter, error) {
	if workers <= 0 {
		workers = 4
	}
	pool, err := ants.NewPool(workers)
	if err != nil {
		return nil, errors.Wrap(err, "ticket: submit pool")
	}
	return &Submitter{client: client, store: store, bus: bus, pool: pool, timeout: timeout}, nil
}

// BuildPayload projects sale items onto the create payload, dropping
// the display-only fields.
func BuildPayload(items []domain.SaleItem) CreatePayload {
	payload := CreatePayload{Items: make([]CreateItem, 0, len(items))}
	for _, it := range items {
		payload.Items = append(payload.Items, CreateItem{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
		})
	}
	return payload
}

// Submit enqueues the create+refresh pair and returns immediately. The
// returned error covers enqueueing only (pool released or overloaded);
// remote failures surface on TopicFailed.
func (s *Submitter) Submit(items []domain.SaleItem) error {
	if len(items) == 0 {
		return errors.New("ticket: no items to submit")
	}
	payload := BuildPayload(items)
	if err := s.pool.Submit(func() { s.run(payload) }); err != nil {
		return errors.Wrap(err, "ticket: enqueue submission")
	}
	return nil
}

func (s *Submitter) run(payload CreatePayload) {
	defer func() {
		if r := recover(); r != nil {
			zap.S().Error("ticket: submission worker panic: ", r)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	created, err := s.client.Create(ctx, payload)
	if err != nil {
		zap.L().Warn("ticket: create failed", zap.Error(err), zap.Int("items", len(payload.Items)))
		metrics.IncrCounter("pos_ticket_submit_failed", 1)
		if s.bus != nil {
			s.bus.Publish(TopicFailed, err)
		}
		return
	}

	metrics.IncrCounter("pos_ticket_submitted", 1)
	zap.L().Info("ticket: created", zap.String("id", created.ID), zap.Int("items", len(created.Items)))
	if s.bus != nil {
		s.bus.Publish(TopicCreated, created)
	}

	// refresh the mirrored list so observers see the new ticket
	if s.store != nil {
		if err := s.store.Refresh(ctx); err != nil {
			zap.L().Warn("ticket: post-create list refresh failed", zap.Error(err))
		}
	}
}

// Close drains the pool. Pending submissions already enqueued are lost;
// callers should stop accepting finalize operations first.
func (s *Submitter) Close() {
	s.pool.Release()
}
