package memory

import (
	"context"
	"sort"
	"time"

	"tutien/internal/app/ports"
	"tutien/internal/domain/progression"
)

type PlayerRepo struct {
	store *Store
}

func NewPlayerRepo(store *Store) PlayerRepo {
	return PlayerRepo{store: store}
}

func (r PlayerRepo) GetByPlayerID(_ context.Context, playerID string) (progression.Player, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	p, ok := r.store.players[playerID]
	if !ok {
		return progression.Player{}, ports.ErrNotFound
	}
	return p.Clone(), nil
}

func (r PlayerRepo) SaveWithVersion(_ context.Context, p progression.Player, expectedVersion int64) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	current, ok := r.store.players[p.PlayerID]
	if !ok {
		if expectedVersion != 0 {
			return ports.ErrConflict
		}
		r.store.players[p.PlayerID] = p.Clone()
		return nil
	}
	if current.Version != expectedVersion {
		return ports.ErrConflict
	}
	r.store.players[p.PlayerID] = p.Clone()
	return nil
}

func (r PlayerRepo) ListExpiredSessions(_ context.Context, now time.Time) ([]string, error) {
	return r.list(func(p progression.Player) bool {
		return p.IsCultivating && p.CultivationEndTime != nil && p.CultivationEndTime.Before(now)
	}), nil
}

func (r PlayerRepo) ListStaleDailyCounters(_ context.Context, dateKey string) ([]string, error) {
	return r.list(func(p progression.Player) bool {
		return p.LastCultivationResetDate != dateKey
	}), nil
}

func (r PlayerRepo) list(match func(progression.Player) bool) []string {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	out := []string{}
	for id, p := range r.store.players {
		if match(p) {
			out = append(out, id)
		}
	}
	sort.Strings(out)
	return out
}
