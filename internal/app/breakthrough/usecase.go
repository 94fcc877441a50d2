package breakthrough

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"tutien/internal/app/ports"
	"tutien/internal/app/shared/playerstore"
	"tutien/internal/domain/progression"
)

var ErrInvalidRequest = errors.New("invalid breakthrough request")

type UseCase struct {
	Store     playerstore.Store
	Engine    progression.BreakthroughService
	Equipment ports.EquipmentBonusProvider
	Random    progression.RandomSource
	Metrics   ports.ProgressionMetrics
	Now       func() time.Time
}

// GetRequirements is a pure lookup; MaxRealm is set when realmIndex is the final realm.
func (u UseCase) GetRequirements(_ context.Context, req RequirementsRequest) (RequirementsResponse, error) {
	if _, ok := u.Engine.Catalog.ByIndex(req.RealmIndex); !ok {
		return RequirementsResponse{}, ErrInvalidRequest
	}
	r, ok := u.Engine.Requirements(req.RealmIndex)
	if !ok {
		return RequirementsResponse{MaxRealm: true}, nil
	}
	return RequirementsResponse{Requirements: &r}, nil
}

func (u UseCase) CanAttempt(ctx context.Context, req EligibilityRequest) (EligibilityResponse, error) {
	req.PlayerID = strings.TrimSpace(req.PlayerID)
	if req.PlayerID == "" {
		return EligibilityResponse{}, ErrInvalidRequest
	}
	now := u.now()
	p, err := u.Store.Load(ctx, req.PlayerID, now)
	if err != nil {
		return EligibilityResponse{}, err
	}
	e := u.Engine.CanAttempt(p, now)
	out := EligibilityResponse{
		Allowed:      e.Allowed,
		Reasons:      e.Reasons,
		Requirements: e.Requirements,
	}
	if e.Requirements != nil {
		bonus, err := u.equipmentBonus(ctx, req.PlayerID)
		if err != nil {
			return EligibilityResponse{}, err
		}
		out.EffectiveSuccessRate = u.Engine.EffectiveSuccessRate(p.RealmIndex, bonus)
	}
	return out, nil
}

func (u UseCase) Attempt(ctx context.Context, req AttemptRequest) (AttemptResponse, error) {
	req.PlayerID = strings.TrimSpace(req.PlayerID)
	if req.PlayerID == "" {
		return AttemptResponse{}, ErrInvalidRequest
	}
	if u.Random == nil {
		return AttemptResponse{}, errors.New("breakthrough: random source not configured")
	}
	bonus, err := u.equipmentBonus(ctx, req.PlayerID)
	if err != nil {
		u.recordError(err)
		return AttemptResponse{}, err
	}

	now := u.now()
	var outcome progression.AttemptOutcome
	saved, err := u.Store.Mutate(ctx, req.PlayerID, now, func(p progression.Player) (playerstore.Change, error) {
		outcome = u.Engine.Attempt(p, bonus, now, u.Random)
		if !outcome.Attempted {
			return playerstore.Change{}, nil
		}
		return playerstore.Change{Player: outcome.Player, Events: outcome.Events, Save: true}, nil
	})
	if err != nil {
		u.recordError(err)
		return AttemptResponse{}, err
	}

	if outcome.Rejection != nil {
		if u.Metrics != nil {
			u.Metrics.RecordRejected(outcome.Rejection.Code)
		}
		return AttemptResponse{
			OK:        false,
			Message:   outcome.Rejection.Message,
			Player:    saved,
			Rejection: outcome.Rejection,
		}, nil
	}
	if u.Metrics != nil {
		u.Metrics.RecordBreakthrough(outcome.Success)
	}
	return AttemptResponse{
		OK:              true,
		Success:         outcome.Success,
		Message:         attemptMessage(u.Engine, outcome),
		Player:          saved,
		SuccessRateUsed: outcome.SuccessRateUsed,
		StatsGained:     outcome.StatsGained,
		SpecialRewards:  outcome.SpecialRewards,
		FailureReason:   outcome.FailureReason,
		LostResources:   outcome.LostResources,
		Record:          outcome.Record,
	}, nil
}

func (u UseCase) equipmentBonus(ctx context.Context, playerID string) (int, error) {
	if u.Equipment == nil {
		return 0, nil
	}
	bonus, err := u.Equipment.BreakthroughBonus(ctx, playerID)
	if err != nil {
		return 0, fmt.Errorf("equipment bonus %s: %w", playerID, err)
	}
	return bonus, nil
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

func attemptMessage(engine progression.BreakthroughService, out progression.AttemptOutcome) string {
	if !out.Success {
		return fmt.Sprintf("breakthrough failed (%d%%): %s", out.SuccessRateUsed, out.FailureReason)
	}
	target, _ := engine.Catalog.ByIndex(out.Player.RealmIndex)
	return fmt.Sprintf("breakthrough succeeded (%d%%), reached %s", out.SuccessRateUsed, target.Name)
}
