// Package playerstore runs every player mutation as lock -> tx -> load -> rule -> save.
package playerstore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"tutien/internal/app/ports"
	"tutien/internal/app/shared/playerlock"
	"tutien/internal/domain/progression"
	"tutien/internal/domain/realm"
)

var ErrMissingPlayerID = errors.New("missing player id")

// Change is what a rule wants persisted. A zero Change leaves the record untouched.
type Change struct {
	Player progression.Player
	Events []progression.DomainEvent
	Save   bool
}

type Store struct {
	TxManager ports.TxManager
	Players   ports.PlayerRepository
	Events    ports.EventRepository
	Locks     *playerlock.Locks
	Catalog   realm.Catalog
	Location  *time.Location
}

// DateKey is today's calendar key in the configured day-boundary location.
func (s Store) DateKey(now time.Time) string {
	return progression.DateKey(now, s.Location)
}

// Load returns the normalised record, creating the baseline record on first access.
func (s Store) Load(ctx context.Context, playerID string, now time.Time) (progression.Player, error) {
	return s.Mutate(ctx, playerID, now, func(progression.Player) (Change, error) {
		return Change{}, nil
	})
}

// Mutate holds the per-player lock for the whole read-modify-write, so a command and a
// reconciler sweep can never both apply a rule to the same loaded version.
func (s Store) Mutate(ctx context.Context, playerID string, now time.Time, rule func(progression.Player) (Change, error)) (progression.Player, error) {
	playerID = strings.TrimSpace(playerID)
	if playerID == "" {
		return progression.Player{}, ErrMissingPlayerID
	}
	if s.Locks != nil {
		unlock, err := s.Locks.Lock(ctx, playerID)
		if err != nil {
			return progression.Player{}, err
		}
		defer unlock()
	}

	var out progression.Player
	err := s.TxManager.RunInTx(ctx, func(txCtx context.Context) error {
		current, err := s.loadOrCreate(txCtx, playerID, now)
		if err != nil {
			return err
		}
		change, err := rule(current)
		if err != nil {
			return err
		}
		if !change.Save {
			out = current
			return nil
		}

		next := change.Player
		next.PlayerID = playerID
		next.Version = current.Version + 1
		if err := s.Players.SaveWithVersion(txCtx, next, current.Version); err != nil {
			return fmt.Errorf("save player %s: %w", playerID, err)
		}
		if len(change.Events) > 0 && s.Events != nil {
			for i := range change.Events {
				if change.Events[i].Payload == nil {
					change.Events[i].Payload = map[string]any{}
				}
				change.Events[i].Payload["player_id"] = playerID
			}
			if err := s.Events.Append(txCtx, playerID, change.Events); err != nil {
				return fmt.Errorf("append events %s: %w", playerID, err)
			}
		}
		out = next
		return nil
	})
	if err != nil {
		return progression.Player{}, err
	}
	return out, nil
}

func (s Store) loadOrCreate(ctx context.Context, playerID string, now time.Time) (progression.Player, error) {
	current, err := s.Players.GetByPlayerID(ctx, playerID)
	if err == nil {
		return progression.Normalize(s.Catalog, current), nil
	}
	if !errors.Is(err, ports.ErrNotFound) {
		return progression.Player{}, fmt.Errorf("load player %s: %w", playerID, err)
	}

	created := progression.NewPlayer(playerID, now, s.DateKey(now))
	created.Version = 1
	if err := s.Players.SaveWithVersion(ctx, created, 0); err != nil {
		return progression.Player{}, fmt.Errorf("create player %s: %w", playerID, err)
	}
	return created, nil
}
