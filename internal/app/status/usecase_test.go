package status

import (
	"context"
	"errors"
	"testing"
	"time"

	"tutien/internal/app/cooldown"
	"tutien/internal/app/ports"
	"tutien/internal/domain/progression"
	"tutien/internal/domain/realm"
)

type statusPlayerRepo struct {
	player progression.Player
	err    error
}

func (r statusPlayerRepo) GetByPlayerID(context.Context, string) (progression.Player, error) {
	if r.err != nil {
		return progression.Player{}, r.err
	}
	return r.player, nil
}

func (r statusPlayerRepo) SaveWithVersion(context.Context, progression.Player, int64) error {
	return nil
}

func (r statusPlayerRepo) ListExpiredSessions(context.Context, time.Time) ([]string, error) {
	return nil, nil
}

func (r statusPlayerRepo) ListStaleDailyCounters(context.Context, string) ([]string, error) {
	return nil, nil
}

var statusNow = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

func newStatusUseCase(repo ports.PlayerRepository) UseCase {
	return UseCase{
		Players:  repo,
		Engine:   progression.BreakthroughService{Catalog: realm.Default()},
		Location: time.UTC,
		Now:      func() time.Time { return statusNow },
	}
}

func TestUseCase_ReportsRealmAndTimers(t *testing.T) {
	end := statusNow.Add(5 * time.Minute)
	start := end.Add(-30 * time.Minute)
	p := progression.NewPlayer("p1", statusNow, "2026-03-10")
	p.RealmIndex = 4
	p.DailyCultivationSessions = 2
	p.IsCultivating = true
	p.CultivationStartTime = &start
	p.CultivationEndTime = &end

	resp, err := newStatusUseCase(statusPlayerRepo{player: p}).Execute(context.Background(), Request{PlayerID: "p1"})
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	if resp.Realm.Name != "Kết Đan" {
		t.Fatalf("expected Kết Đan, got %s", resp.Realm.Name)
	}
	if resp.DailySessionsRemaining != 3 {
		t.Fatalf("expected 3 sessions left, got %d", resp.DailySessionsRemaining)
	}
	if resp.Cooldowns[cooldown.KeyCultivation] != 300 || resp.CanComplete {
		t.Fatalf("expected running session with 300s left, got %v canComplete=%v", resp.Cooldowns, resp.CanComplete)
	}
	if resp.Requirements == nil || resp.Requirements.NextRealmName != "Nguyên Anh" {
		t.Fatalf("expected requirements for the next realm, got %+v", resp.Requirements)
	}
}

func TestUseCase_StaleDayShowsFullAllowance(t *testing.T) {
	p := progression.NewPlayer("p1", statusNow, "2026-03-09")
	p.DailyCultivationSessions = 5

	resp, err := newStatusUseCase(statusPlayerRepo{player: p}).Execute(context.Background(), Request{PlayerID: "p1"})
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	if resp.DailySessionsRemaining != progression.MaxDailySessions {
		t.Fatalf("expected full allowance on a new day, got %d", resp.DailySessionsRemaining)
	}
}

func TestUseCase_FinalRealmHasNoRequirements(t *testing.T) {
	p := progression.NewPlayer("p1", statusNow, "2026-03-10")
	p.RealmIndex = 27
	resp, err := newStatusUseCase(statusPlayerRepo{player: p}).Execute(context.Background(), Request{PlayerID: "p1"})
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	if resp.Requirements != nil {
		t.Fatalf("expected no requirements at the final realm")
	}
}

func TestUseCase_RejectsEmptyPlayerID(t *testing.T) {
	uc := UseCase{}
	if _, err := uc.Execute(context.Background(), Request{}); !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("expected ErrInvalidRequest, got %v", err)
	}
}

func TestUseCase_PropagatesRepoError(t *testing.T) {
	uc := newStatusUseCase(statusPlayerRepo{err: ports.ErrNotFound})
	if _, err := uc.Execute(context.Background(), Request{PlayerID: "p1"}); !errors.Is(err, ports.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
