package memory

import (
	"context"

	"tutien/internal/app/ports"
	"tutien/internal/domain/progression"
)

type EventRepo struct {
	store *Store
}

func NewEventRepo(store *Store) EventRepo {
	return EventRepo{store: store}
}

func (r EventRepo) Append(_ context.Context, playerID string, events []progression.DomainEvent) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.events[playerID] = append(r.store.events[playerID], events...)
	return nil
}

// ListByPlayerID returns newest first, matching the SQL adapters.
func (r EventRepo) ListByPlayerID(_ context.Context, playerID string, limit int) ([]progression.DomainEvent, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	stored := r.store.events[playerID]
	if len(stored) == 0 {
		return nil, ports.ErrNotFound
	}
	n := len(stored)
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]progression.DomainEvent, 0, n)
	for i := len(stored) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, stored[i])
	}
	return out, nil
}
