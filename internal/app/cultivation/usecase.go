package cultivation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"tutien/internal/app/ports"
	"tutien/internal/app/shared/playerstore"
	"tutien/internal/domain/progression"
)

var ErrInvalidRequest = errors.New("invalid cultivation request")

const defaultSweepWorkers = 4

type UseCase struct {
	Store    playerstore.Store
	Sessions progression.SessionService
	Metrics  ports.ProgressionMetrics
	// Workers bounds how many players a sweep mutates at once.
	Workers int
	Now     func() time.Time
}

func (u UseCase) StartSession(ctx context.Context, req StartRequest) (StartResponse, error) {
	req.PlayerID = strings.TrimSpace(req.PlayerID)
	if req.PlayerID == "" {
		return StartResponse{}, ErrInvalidRequest
	}
	now := u.now()
	dateKey := u.Store.DateKey(now)

	var (
		out StartResponse
		rej *progression.Rejection
	)
	_, err := u.Store.Mutate(ctx, req.PlayerID, now, func(p progression.Player) (playerstore.Change, error) {
		started, r := u.Sessions.Start(p, now, dateKey)
		if r != nil {
			rej = r
			out.DailySessions = p.DailyCultivationSessions
			return playerstore.Change{}, nil
		}
		events := started.Events
		if started.DailyReset {
			events = append([]progression.DomainEvent{
				progression.DailyResetEvent(now, p.LastCultivationResetDate, p.DailyCultivationSessions),
			}, events...)
		}
		end := started.EndTime
		out = StartResponse{
			OK:            true,
			Message:       fmt.Sprintf("cultivation started, ends at %s", end.Format(time.RFC3339)),
			EndTime:       &end,
			DailySessions: started.Player.DailyCultivationSessions,
		}
		return playerstore.Change{Player: started.Player, Events: events, Save: true}, nil
	})
	if err != nil {
		u.recordError(err)
		return StartResponse{}, err
	}
	if rej != nil {
		u.recordRejected(rej.Code)
		return StartResponse{OK: false, Message: rej.Message, DailySessions: out.DailySessions, Rejection: rej}, nil
	}
	if u.Metrics != nil {
		u.Metrics.RecordSessionStarted()
	}
	return out, nil
}

func (u UseCase) CompleteSession(ctx context.Context, req CompleteRequest) (CompleteResponse, error) {
	req.PlayerID = strings.TrimSpace(req.PlayerID)
	if req.PlayerID == "" {
		return CompleteResponse{}, ErrInvalidRequest
	}
	out, rej, err := u.complete(ctx, req.PlayerID, u.now(), false)
	if err != nil {
		u.recordError(err)
		return CompleteResponse{}, err
	}
	if rej != nil {
		u.recordRejected(rej.Code)
		return CompleteResponse{OK: false, Message: rej.Message, BreakthroughEvents: []progression.Advancement{}, Rejection: rej}, nil
	}
	return out, nil
}

// complete applies the session rule under the player lock. With strict set, a session
// ending exactly at now is left for the next pass.
func (u UseCase) complete(ctx context.Context, playerID string, now time.Time, strict bool) (CompleteResponse, *progression.Rejection, error) {
	var (
		out CompleteResponse
		rej *progression.Rejection
	)
	_, err := u.Store.Mutate(ctx, playerID, now, func(p progression.Player) (playerstore.Change, error) {
		if strict && p.IsCultivating && p.CultivationEndTime != nil && !now.After(*p.CultivationEndTime) {
			rej = &progression.Rejection{Code: progression.CodeSessionNotFinished, Message: "session not yet finished"}
			return playerstore.Change{}, nil
		}
		done, r := u.Sessions.Complete(p, now)
		if r != nil {
			rej = r
			return playerstore.Change{}, nil
		}
		out = CompleteResponse{
			OK:                 true,
			Message:            completionMessage(done),
			ExperienceGained:   done.ExperienceGained,
			BreakthroughEvents: done.Advancements,
			NewRealmName:       done.NewRealmName,
			CurrentExperience:  done.CurrentExperience,
			RequiredExperience: done.RequiredExperience,
		}
		if out.BreakthroughEvents == nil {
			out.BreakthroughEvents = []progression.Advancement{}
		}
		return playerstore.Change{Player: done.Player, Events: done.Events, Save: true}, nil
	})
	if err != nil {
		return CompleteResponse{}, nil, err
	}
	if rej == nil && u.Metrics != nil {
		u.Metrics.RecordSessionCompleted(len(out.BreakthroughEvents))
	}
	return out, rej, nil
}

// ReconcileExpired completes every session whose end time has passed. Players are
// processed concurrently but each one still goes through the per-player lock, so a
// user completing at the same moment sees at most one grant.
func (u UseCase) ReconcileExpired(ctx context.Context) (SweepReport, error) {
	now := u.now()
	ids, err := u.Store.Players.ListExpiredSessions(ctx, now)
	if err != nil {
		return SweepReport{}, fmt.Errorf("list expired sessions: %w", err)
	}
	return u.sweep(ctx, ids, func(ctx context.Context, id string) (bool, error) {
		_, rej, err := u.complete(ctx, id, now, true)
		return err == nil && rej == nil, err
	})
}

// ResetDailyCounters zeroes the session counter of every player whose reset marker is
// not today. A second call on the same day finds nothing to do.
func (u UseCase) ResetDailyCounters(ctx context.Context) (SweepReport, error) {
	now := u.now()
	dateKey := u.Store.DateKey(now)
	ids, err := u.Store.Players.ListStaleDailyCounters(ctx, dateKey)
	if err != nil {
		return SweepReport{}, fmt.Errorf("list stale daily counters: %w", err)
	}
	return u.sweep(ctx, ids, func(ctx context.Context, id string) (bool, error) {
		applied := false
		_, err := u.Store.Mutate(ctx, id, now, func(p progression.Player) (playerstore.Change, error) {
			prevDate, prevSessions := p.LastCultivationResetDate, p.DailyCultivationSessions
			next := p.Clone()
			if !next.RollDailyCounter(dateKey) {
				return playerstore.Change{}, nil
			}
			next.UpdatedAt = now
			applied = true
			return playerstore.Change{
				Player: next,
				Events: []progression.DomainEvent{progression.DailyResetEvent(now, prevDate, prevSessions)},
				Save:   true,
			}, nil
		})
		return applied, err
	})
}

func (u UseCase) sweep(ctx context.Context, ids []string, apply func(context.Context, string) (bool, error)) (SweepReport, error) {
	report := SweepReport{Scanned: len(ids)}
	if len(ids) == 0 {
		return report, nil
	}
	workers := u.Workers
	if workers <= 0 {
		workers = defaultSweepWorkers
	}

	var (
		mu   sync.Mutex
		errs []error
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for _, id := range ids {
		g.Go(func() error {
			ok, err := apply(gctx, id)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err != nil:
				report.Failed++
				errs = append(errs, fmt.Errorf("player %s: %w", id, err))
				u.recordError(err)
			case ok:
				report.Affected++
			}
			return nil
		})
	}
	_ = g.Wait()
	return report, errors.Join(errs...)
}

func (u UseCase) now() time.Time {
	if u.Now == nil {
		return time.Now()
	}
	return u.Now()
}

func (u UseCase) recordError(err error) {
	if u.Metrics == nil {
		return
	}
	if errors.Is(err, ports.ErrConflict) {
		u.Metrics.RecordConflict()
		return
	}
	u.Metrics.RecordFailure()
}

func (u UseCase) recordRejected(code progression.Code) {
	if u.Metrics != nil {
		u.Metrics.RecordRejected(code)
	}
}

func completionMessage(done progression.CompleteOutcome) string {
	switch n := len(done.Advancements); {
	case n == 0:
		return fmt.Sprintf("cultivation complete, gained %d experience", done.ExperienceGained)
	case n == 1:
		return fmt.Sprintf("cultivation complete, advanced to %s", done.NewRealmName)
	default:
		return fmt.Sprintf("cultivation complete, advanced %d realms to %s", n, done.NewRealmName)
	}
}
