package status

import (
	"context"
	"errors"
	"strings"
	"time"

	"tutien/internal/app/cooldown"
	"tutien/internal/app/ports"
	"tutien/internal/domain/progression"
)

var ErrInvalidRequest = errors.New("invalid status request")

// UseCase is read-only: unknown players surface as ports.ErrNotFound.
type UseCase struct {
	Players  ports.PlayerRepository
	Engine   progression.BreakthroughService
	Location *time.Location
	Now      func() time.Time
}

func (u UseCase) Execute(ctx context.Context, req Request) (Response, error) {
	if strings.TrimSpace(req.PlayerID) == "" {
		return Response{}, ErrInvalidRequest
	}
	stored, err := u.Players.GetByPlayerID(ctx, req.PlayerID)
	if err != nil {
		return Response{}, err
	}
	nowFn := u.Now
	if nowFn == nil {
		nowFn = time.Now
	}
	now := nowFn()

	p := progression.Normalize(u.Engine.Catalog, stored)
	// The stored counter may belong to an earlier day that no sweep has rolled yet.
	p.RollDailyCounter(progression.DateKey(now, u.Location))

	current, _ := u.Engine.Catalog.ByIndex(p.RealmIndex)
	out := Response{
		Player:                 p,
		Realm:                  current,
		DailySessionsRemaining: progression.MaxDailySessions - p.DailyCultivationSessions,
		Cooldowns:              cooldown.RemainingByGate(p, now),
	}
	if _, running := out.Cooldowns[cooldown.KeyCultivation]; p.IsCultivating && !running {
		out.CanComplete = true
	}
	if r, ok := u.Engine.Requirements(p.RealmIndex); ok {
		out.Requirements = &r
	}
	return out, nil
}
