package breakthrough

import (
	"context"
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

func (r *stubPlayerRepo) ListExpiredSessions(_ context.Context, _ time.Time) ([]string, error) {
	return nil, nil
}

func (r *stubPlayerRepo) ListStaleDailyCounters(_ context.Context, _ string) ([]string, error) {
	return nil, nil
}

func (r *stubPlayerRepo) get(id string) progression.Player {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.byPlayer[id]
}

type stubEventRepo struct {
	events []progression.DomainEvent
}

func (r *stubEventRepo) Append(_ context.Context, _ string, events []progression.DomainEvent) error {
	r.events = append(r.events, events...)
	return nil
}

func (r *stubEventRepo) ListByPlayerID(_ context.Context, _ string, _ int) ([]progression.DomainEvent, error) {
	return r.events, nil
}

type stubMetrics struct {
	successes int
	failures  int
	rejected  map[progression.Code]int
	errors    int
}

func (m *stubMetrics) RecordSessionStarted() {}

func (m *stubMetrics) RecordSessionCompleted(int) {}

func (m *stubMetrics) RecordConflict() { m.errors++ }

func (m *stubMetrics) RecordFailure() { m.errors++ }

func (m *stubMetrics) RecordBreakthrough(success bool) {
	if success {
		m.successes++
		return
	}
	m.failures++
}

func (m *stubMetrics) RecordRejected(code progression.Code) {
	if m.rejected == nil {
		m.rejected = map[progression.Code]int{}
	}
	m.rejected[code]++
}

type scriptedRandom struct {
	outcomes []bool
	ints     []int
	lastP    float64
}

func (r *scriptedRandom) Bernoulli(p float64) bool {
	r.lastP = p
	if len(r.outcomes) == 0 {
		return false
	}
	v := r.outcomes[0]
	r.outcomes = r.outcomes[1:]
	return v
}

func (r *scriptedRandom) UniformInt(lo, hi int) int {
	if len(r.ints) == 0 {
		return lo
	}
	v := r.ints[0]
	r.ints = r.ints[1:]
	return min(max(v, lo), hi)
}

type stubEquipment struct {
	bonus int
	err   error
}

func (e stubEquipment) BreakthroughBonus(context.Context, string) (int, error) {
	return e.bonus, e.err
}

var fixedNow = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

func newUseCase(repo *stubPlayerRepo, rng progression.RandomSource, metrics *stubMetrics) UseCase {
	catalog := realm.Default()
	uc := UseCase{
		Store: playerstore.Store{
			TxManager: stubTxManager{},
			Players:   repo,
			Events:    &stubEventRepo{},
			Locks:     playerlock.New(),
			Catalog:   catalog,
			Location:  time.UTC,
		},
		Engine: progression.BreakthroughService{Catalog: catalog},
		Random: rng,
		Now:    func() time.Time { return fixedNow },
	}
	if metrics != nil {
		uc.Metrics = metrics
	}
	return uc
}

// readyPlayer meets every requirement for leaving realmIndex.
func readyPlayer(id string, realmIndex int) progression.Player {
	p := progression.NewPlayer(id, fixedNow, "2026-03-10")
	step := realmIndex + 1
	p.Version = 1
	p.RealmIndex = realmIndex
	p.Experience = 5_000_000
	p.Power = step * progression.RequiredPowerPerRealm
	p.Spirit = step*progression.RequiredSpiritPerRealm + 50
	p.Level = step * progression.RequiredLevelPerRealm
	p.Coins = step*progression.CoinCostPerRealm + 50_000
	return p
}
