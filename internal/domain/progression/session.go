package progression

import (
	"fmt"
	"time"

	"tutien/internal/domain/realm"
)

type SessionService struct {
	Catalog realm.Catalog
}

type StartOutcome struct {
	Player     Player
	EndTime    time.Time
	DailyReset bool
	Events     []DomainEvent
}

type CompleteOutcome struct {
	Player             Player
	ExperienceGained   int
	Advancements       []Advancement
	NewRealmName       string
	CurrentExperience  int
	RequiredExperience int
	Events             []DomainEvent
}

// Start opens a session. The lazy day rollover is part of the outcome and is only
// persisted when the start itself succeeds.
func (s SessionService) Start(p Player, now time.Time, dateKey string) (StartOutcome, *Rejection) {
	if p.IsCultivating {
		rej := &Rejection{Code: CodeAlreadyCultivating, Message: "already cultivating"}
		if p.CultivationEndTime != nil {
			rej.RemainingSeconds = remainingSeconds(p.CultivationEndTime.Sub(now))
		}
		return StartOutcome{}, rej
	}

	next := p.Clone()
	rolled := next.RollDailyCounter(dateKey)
	if next.DailyCultivationSessions >= MaxDailySessions {
		return StartOutcome{}, &Rejection{
			Code:    CodeDailyLimitReached,
			Message: fmt.Sprintf("daily limit reached (%d/%d sessions)", next.DailyCultivationSessions, MaxDailySessions),
		}
	}

	end := now.Add(SessionDuration)
	next.IsCultivating = true
	next.CultivationStartTime = timePtr(now)
	next.CultivationEndTime = timePtr(end)
	next.DailyCultivationSessions++
	next.UpdatedAt = now

	return StartOutcome{
		Player:     next,
		EndTime:    end,
		DailyReset: rolled,
		Events: []DomainEvent{newEvent(EventCultivationStarted, now, map[string]any{
			"end_at":         end,
			"daily_sessions": next.DailyCultivationSessions,
		})},
	}, nil
}

// Complete grants the fixed session reward and converts overflow into realm steps.
func (s SessionService) Complete(p Player, now time.Time) (CompleteOutcome, *Rejection) {
	if !p.IsCultivating || p.CultivationEndTime == nil {
		return CompleteOutcome{}, &Rejection{Code: CodeNotCultivating, Message: "not cultivating"}
	}
	if now.Before(*p.CultivationEndTime) {
		return CompleteOutcome{}, &Rejection{
			Code:             CodeSessionNotFinished,
			Message:          "session not yet finished",
			RemainingSeconds: remainingSeconds(p.CultivationEndTime.Sub(now)),
		}
	}

	next := p.Clone()
	sessionEnd := *next.CultivationEndTime
	next.Experience += SessionExperience
	next.IsCultivating = false
	next.CultivationStartTime = nil
	next.CultivationEndTime = nil
	next.UpdatedAt = now

	events := []DomainEvent{newEvent(EventCultivationCompleted, now, map[string]any{
		"experience_gained": SessionExperience,
		"session_end":       sessionEnd,
	})}

	steps := AutoAdvance(s.Catalog, &next)
	for _, step := range steps {
		events = append(events, newEvent(EventRealmAdvanced, now, map[string]any{
			"from_realm":          step.FromRealm,
			"to_realm":            step.ToRealm,
			"experience_consumed": step.ExperienceConsumed,
		}))
	}

	out := CompleteOutcome{
		Player:            next,
		ExperienceGained:  SessionExperience,
		Advancements:      steps,
		CurrentExperience: next.Experience,
		Events:            events,
	}
	if current, ok := s.Catalog.ByIndex(next.RealmIndex); ok {
		if len(steps) > 0 {
			out.NewRealmName = current.Name
		}
		if !s.Catalog.IsFinal(current.Index) {
			out.RequiredExperience = current.RequiredExperience
		}
	}
	return out, nil
}

// AutoAdvance consumes thresholds while they are covered. It always succeeds, uses the
// unscaled gain vector and never touches BreakthroughHistory. Bounded by catalog length.
func AutoAdvance(c realm.Catalog, p *Player) []Advancement {
	var steps []Advancement
	for {
		current, ok := c.ByIndex(p.RealmIndex)
		if !ok {
			return steps
		}
		next, ok := c.Next(p.RealmIndex)
		if !ok || p.Experience < current.RequiredExperience {
			return steps
		}
		p.Experience -= current.RequiredExperience
		p.RealmIndex = next.Index
		p.Level++
		p.applyGain(BreakthroughGain)
		p.Health = clamp(p.Health+BreakthroughGain.Health, 0, p.MaxHealth)
		p.Mana = clamp(p.Mana+BreakthroughGain.Mana, 0, p.MaxMana)
		steps = append(steps, Advancement{
			FromRealm:          current.Index,
			ToRealm:            next.Index,
			FromRealmName:      current.Name,
			ToRealmName:        next.Name,
			ExperienceConsumed: current.RequiredExperience,
			StatsGained:        BreakthroughGain,
		})
	}
}
