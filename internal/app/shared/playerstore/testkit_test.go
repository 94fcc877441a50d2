package playerstore

import (
	"context"
	"sync"
	"time"

	"tutien/internal/app/ports"
	"tutien/internal/domain/progression"
)

type stubTxManager struct{}

func (stubTxManager) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type stubPlayerRepo struct {
	mu       sync.Mutex
	byPlayer map[string]progression.Player
	saves    int
}

func newStubPlayerRepo() *stubPlayerRepo {
	return &stubPlayerRepo{byPlayer: map[string]progression.Player{}}
}

func (r *stubPlayerRepo) GetByPlayerID(_ context.Context, playerID string) (progression.Player, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.byPlayer[playerID]
	if !ok {
		return progression.Player{}, ports.ErrNotFound
	}
	return p.Clone(), nil
}

func (r *stubPlayerRepo) SaveWithVersion(_ context.Context, p progression.Player, expectedVersion int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	current, ok := r.byPlayer[p.PlayerID]
	if !ok {
		if expectedVersion != 0 {
			return ports.ErrConflict
		}
	} else if current.Version != expectedVersion {
		return ports.ErrConflict
	}
	r.byPlayer[p.PlayerID] = p.Clone()
	r.saves++
	return nil
}

func (r *stubPlayerRepo) ListExpiredSessions(_ context.Context, _ time.Time) ([]string, error) {
	return nil, nil
}

func (r *stubPlayerRepo) ListStaleDailyCounters(_ context.Context, _ string) ([]string, error) {
	return nil, nil
}

type stubEventRepo struct {
	mu     sync.Mutex
	events []progression.DomainEvent
}

func (r *stubEventRepo) Append(_ context.Context, _ string, events []progression.DomainEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, events...)
	return nil
}

func (r *stubEventRepo) ListByPlayerID(_ context.Context, _ string, _ int) ([]progression.DomainEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]progression.DomainEvent, len(r.events))
	copy(out, r.events)
	return out, nil
}

type conflictingPlayerRepo struct {
	*stubPlayerRepo
}

func (r conflictingPlayerRepo) SaveWithVersion(ctx context.Context, p progression.Player, expectedVersion int64) error {
	if expectedVersion == 0 {
		return r.stubPlayerRepo.SaveWithVersion(ctx, p, expectedVersion)
	}
	return ports.ErrConflict
}
