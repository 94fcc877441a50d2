package progression

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"tutien/internal/domain/realm"
)

const ReasonMaxRealmReached = "max realm reached"

type BreakthroughService struct {
	Catalog realm.Catalog
}

type AttemptOutcome struct {
	Attempted       bool
	Success         bool
	Player          Player
	SuccessRateUsed int
	StatsGained     *StatGain
	SpecialRewards  []SpecialReward
	FailureReason   string
	LostResources   *LostResources
	Record          *BreakthroughRecord
	Rejection       *Rejection
	Events          []DomainEvent
}

// Requirements describes advancing out of realmIndex. ok is false at the final realm.
func (s BreakthroughService) Requirements(realmIndex int) (Requirements, bool) {
	current, ok := s.Catalog.ByIndex(realmIndex)
	if !ok {
		return Requirements{}, false
	}
	next, ok := s.Catalog.Next(realmIndex)
	if !ok {
		return Requirements{}, false
	}
	step := realmIndex + 1
	return Requirements{
		RealmIndex:         realmIndex,
		RealmName:          current.Name,
		NextRealmName:      next.Name,
		RequiredExperience: current.RequiredExperience,
		RequiredPower:      step * RequiredPowerPerRealm,
		RequiredSpirit:     step * RequiredSpiritPerRealm,
		RequiredLevel:      step * RequiredLevelPerRealm,
		BaseSuccessRate:    s.BaseSuccessRate(realmIndex),
		Cost: Cost{
			Coins:  step * CoinCostPerRealm,
			Spirit: step / 2,
		},
	}, true
}

func (s BreakthroughService) BaseSuccessRate(realmIndex int) int {
	current, ok := s.Catalog.ByIndex(realmIndex)
	if !ok {
		return MinBaseSuccessRate
	}
	rate := BaseSuccessRates[current.Category] - s.Catalog.CategoryOffset(realmIndex)*CategoryStepPenalty
	if rate < MinBaseSuccessRate {
		rate = MinBaseSuccessRate
	}
	return rate
}

// EffectiveSuccessRate folds the clamped equipment bonus and the early-realm bonus into the base.
func (s BreakthroughService) EffectiveSuccessRate(realmIndex, equipmentBonus int) int {
	rate := s.BaseSuccessRate(realmIndex) + clamp(equipmentBonus, 0, MaxEquipmentBonus)
	if realmIndex < EarlyRealmLimit {
		rate += EarlyRealmBonus
	}
	if rate > MaxSuccessRate {
		rate = MaxSuccessRate
	}
	return rate
}

// CanAttempt accumulates every failing check so callers can render a full checklist.
func (s BreakthroughService) CanAttempt(p Player, now time.Time) Eligibility {
	req, ok := s.Requirements(p.RealmIndex)
	if !ok {
		return Eligibility{Allowed: false, Reasons: []string{ReasonMaxRealmReached}}
	}

	reasons := []string{}
	if p.Experience < req.RequiredExperience {
		reasons = append(reasons, fmt.Sprintf("not enough experience (%d/%d)", p.Experience, req.RequiredExperience))
	}
	if p.Power < req.RequiredPower {
		reasons = append(reasons, fmt.Sprintf("not enough power (%d/%d)", p.Power, req.RequiredPower))
	}
	if p.Spirit < req.RequiredSpirit {
		reasons = append(reasons, fmt.Sprintf("not enough spirit (%d/%d)", p.Spirit, req.RequiredSpirit))
	}
	if p.Level < req.RequiredLevel {
		reasons = append(reasons, fmt.Sprintf("level too low (%d/%d)", p.Level, req.RequiredLevel))
	}
	if p.Coins < req.Cost.Coins {
		reasons = append(reasons, fmt.Sprintf("not enough coins (%d/%d)", p.Coins, req.Cost.Coins))
	}
	if p.LastBreakthroughAttemptAt != nil {
		if wait := BreakthroughCooldown - now.Sub(*p.LastBreakthroughAttemptAt); wait > 0 {
			reasons = append(reasons, fmt.Sprintf("breakthrough cooldown active (%ds remaining)", remainingSeconds(wait)))
		}
	}

	return Eligibility{
		Allowed:      len(reasons) == 0,
		Reasons:      reasons,
		Requirements: &req,
	}
}

// Attempt resolves one breakthrough ritual. The cost is paid whatever the outcome, and
// exactly one history record is appended per attempt that passes eligibility.
func (s BreakthroughService) Attempt(p Player, equipmentBonus int, now time.Time, rng RandomSource) AttemptOutcome {
	eligibility := s.CanAttempt(p, now)
	if !eligibility.Allowed {
		code := CodeNotEligible
		message := "breakthrough requirements not met"
		if eligibility.Requirements == nil {
			code = CodeMaxRealmReached
			message = ReasonMaxRealmReached
		}
		return AttemptOutcome{
			Player: p,
			Rejection: &Rejection{
				Code:    code,
				Message: message,
				Reasons: eligibility.Reasons,
			},
		}
	}
	req := *eligibility.Requirements

	next := p.Clone()
	next.Experience -= req.RequiredExperience
	next.Coins -= req.Cost.Coins
	next.Spirit -= req.Cost.Spirit
	next.LastBreakthroughAttemptAt = timePtr(now)
	next.UpdatedAt = now

	rate := s.EffectiveSuccessRate(p.RealmIndex, equipmentBonus)
	success := rng.Bernoulli(float64(rate) / 100)

	record := BreakthroughRecord{
		ID:              uuid.NewString(),
		FromRealm:       p.RealmIndex,
		ToRealm:         p.RealmIndex + 1,
		Timestamp:       now,
		Success:         success,
		SuccessRateUsed: rate,
		CostPaid:        req.Cost,
	}
	next.BreakthroughHistory = append(next.BreakthroughHistory, record)

	out := AttemptOutcome{
		Attempted:       true,
		Success:         success,
		SuccessRateUsed: rate,
		Record:          &record,
	}

	if success {
		target, _ := s.Catalog.ByIndex(record.ToRealm)
		gain := scaleGain(BreakthroughGain, target.PowerMultiplier)
		next.RealmIndex = target.Index
		next.Level++
		next.applyGain(gain)
		next.restoreVitals()
		rewards := s.specialRewards(p.RealmIndex, target.Index)
		for _, r := range rewards {
			next.Coins += r.Coins
			next.Stones += r.Stones
			if r.Title != "" {
				next.Title = r.Title
			}
		}
		out.StatsGained = &gain
		out.SpecialRewards = rewards
		out.Events = []DomainEvent{newEvent(EventBreakthroughSuccess, now, map[string]any{
			"from_realm":   record.FromRealm,
			"to_realm":     record.ToRealm,
			"success_rate": rate,
			"rewards":      len(rewards),
		})}
	} else {
		lost := LostResources{
			Coins:      req.Cost.Coins * FailureCoinPenaltyPercent / 100,
			Spirit:     req.Cost.Spirit * FailureSpiritPenaltyPercent / 100,
			Experience: rng.UniformInt(FailureExperiencePenaltyMin, FailureExperiencePenaltyMax),
		}
		lost.Coins = min(lost.Coins, next.Coins)
		lost.Spirit = min(lost.Spirit, next.Spirit)
		lost.Experience = min(lost.Experience, next.Experience)
		next.Coins -= lost.Coins
		next.Spirit -= lost.Spirit
		next.Experience -= lost.Experience

		out.LostResources = &lost
		out.FailureReason = FailureReasons[rng.UniformInt(0, len(FailureReasons)-1)]
		out.Events = []DomainEvent{newEvent(EventBreakthroughFailure, now, map[string]any{
			"from_realm":      record.FromRealm,
			"to_realm":        record.ToRealm,
			"success_rate":    rate,
			"lost_coins":      lost.Coins,
			"lost_spirit":     lost.Spirit,
			"lost_experience": lost.Experience,
		})}
	}

	out.Player = next
	return out
}

func (s BreakthroughService) specialRewards(from, to int) []SpecialReward {
	prev, _ := s.Catalog.ByIndex(from)
	target, ok := s.Catalog.ByIndex(to)
	if !ok {
		return nil
	}
	var rewards []SpecialReward
	if prev.Category != target.Category {
		ord := target.Category.Ordinal()
		rewards = append(rewards, SpecialReward{
			Kind:        RewardCategoryAscension,
			Description: fmt.Sprintf("Bước vào cảnh giới mới: %s", target.Name),
			Coins:       ord * CategoryRewardCoinsPerOrdinal,
			Stones:      ord * CategoryRewardStonesPerOrdinal,
		})
	}
	if MilestoneRealms[target.Index] {
		rewards = append(rewards, SpecialReward{
			Kind:        RewardMilestone,
			Description: fmt.Sprintf("Cột mốc cảnh giới thứ %d", target.Index),
			Coins:       target.Index * MilestoneRewardCoinsPerIndex,
			Stones:      target.Index * MilestoneRewardStonesPerIndex,
		})
	}
	if s.Catalog.IsFinal(target.Index) {
		rewards = append(rewards, SpecialReward{
			Kind:        RewardFinalRealm,
			Description: "Đạt tới đỉnh phong của con đường tu tiên",
			Coins:       FinalRealmRewardCoins,
			Stones:      FinalRealmRewardStones,
			Title:       FinalRealmTitle,
		})
	}
	return rewards
}
