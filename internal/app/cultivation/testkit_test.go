package cultivation

import (
	"context"
	"sort"
	"sync"
	"time"

	"tutien/internal/app/ports"
	"tutien/internal/app/shared/playerlock"
	"tutien/internal/app/shared/playerstore"
	"tutien/internal/domain/progression"
	"tutien/internal/domain/realm"
)

type stubTxManager struct{}

func (stubTxManager) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type stubPlayerRepo struct {
	mu       sync.Mutex
	byPlayer map[string]progression.Player
}

func newStubPlayerRepo(players ...progression.Player) *stubPlayerRepo {
	r := &stubPlayerRepo{byPlayer: map[string]progression.Player{}}
	for _, p := range players {
		r.byPlayer[p.PlayerID] = p
	}
	return r
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
	return nil
}

func (r *stubPlayerRepo) ListExpiredSessions(_ context.Context, now time.Time) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []string{}
	for id, p := range r.byPlayer {
		if p.IsCultivating && p.CultivationEndTime != nil && p.CultivationEndTime.Before(now) {
			out = append(out, id)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (r *stubPlayerRepo) ListStaleDailyCounters(_ context.Context, dateKey string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []string{}
	for id, p := range r.byPlayer {
		if p.LastCultivationResetDate != dateKey {
			out = append(out, id)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (r *stubPlayerRepo) get(id string) progression.Player {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.byPlayer[id]
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

func (r *stubEventRepo) countType(eventType string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, e := range r.events {
		if e.Type == eventType {
			n++
		}
	}
	return n
}

type stubMetrics struct {
	mu        sync.Mutex
	started   int
	completed int
	steps     int
	rejected  map[progression.Code]int
	conflicts int
	failures  int
}

func (m *stubMetrics) RecordSessionStarted() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.started++
}

func (m *stubMetrics) RecordSessionCompleted(realmSteps int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.completed++
	m.steps += realmSteps
}

func (m *stubMetrics) RecordBreakthrough(bool) {}

func (m *stubMetrics) RecordRejected(code progression.Code) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.rejected == nil {
		m.rejected = map[progression.Code]int{}
	}
	m.rejected[code]++
}

func (m *stubMetrics) RecordConflict() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.conflicts++
}

func (m *stubMetrics) RecordFailure() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failures++
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newUseCase(repo *stubPlayerRepo, events *stubEventRepo, metrics *stubMetrics, clock *fakeClock) UseCase {
	catalog := realm.Default()
	uc := UseCase{
		Store: playerstore.Store{
			TxManager: stubTxManager{},
			Players:   repo,
			Events:    events,
			Locks:     playerlock.New(),
			Catalog:   catalog,
			Location:  time.UTC,
		},
		Sessions: progression.SessionService{Catalog: catalog},
		Workers:  4,
		Now:      clock.Now,
	}
	if metrics != nil {
		uc.Metrics = metrics
	}
	return uc
}
