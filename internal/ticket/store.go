package ticket

import (
	"context"
	"sync"

	"github.com/asaskevich/EventBus"
	"github.com/talkincode/gopos/internal/domain"
	"go.uber.org/zap"
)

// TopicUpdated is published after every ticket list replacement.
const TopicUpdated = "tickets.updated"

// Lister is the read side of the remote ticket source.
type Lister interface {
	FetchAll(ctx context.Context) ([]domain.Ticket, error)
}

// Store mirrors the backend's ticket list: the same latest-value cell
// shape as the catalog cache, with the same last-response-wins
// semantics for overlapping refreshes.
type Store struct {
	mu      sync.RWMutex
	tickets []domain.Ticket
	loaded  bool

	lister Lister
	bus    EventBus.Bus
}

func NewStore(lister Lister, bus EventBus.Bus) *Store {
	return &Store{lister: lister, bus: bus}
}

func (s *Store) Refresh(ctx context.Context) error {
	tickets, err := s.lister.FetchAll(ctx)
	if err != nil {
		zap.L().Warn("ticket: list refresh failed, keeping stale cache", zap.Error(err))
		return err
	}
	s.Replace(tickets)
	return nil
}

func (s *Store) Replace(tickets []domain.Ticket) {
	s.mu.Lock()
	s.tickets = tickets
	s.loaded = true
	count := len(tickets)
	s.mu.Unlock()

	if s.bus != nil {
		s.bus.Publish(TopicUpdated, count)
	}
	zap.L().Debug("ticket: list replaced", zap.Int("count", count))
}

func (s *Store) Snapshot() ([]domain.Ticket, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Ticket, len(s.tickets))
	copy(out, s.tickets)
	return out, s.loaded
}
