package progression

import (
	"math"
	"time"

	"tutien/internal/domain/realm"
)

func NewPlayer(playerID string, now time.Time, dateKey string) Player {
	return Player{
		PlayerID:                 playerID,
		RealmIndex:               0,
		Level:                    BaselineLevel,
		Power:                    BaselinePower,
		Health:                   BaselineHealth,
		MaxHealth:                BaselineHealth,
		Mana:                     BaselineMana,
		MaxMana:                  BaselineMana,
		Spirit:                   BaselineSpirit,
		Attack:                   BaselineAttack,
		Defense:                  BaselineDefense,
		Speed:                    BaselineSpeed,
		CritChance:               BaselineCritChance,
		Coins:                    BaselineCoins,
		LastCultivationResetDate: dateKey,
		BreakthroughHistory:      []BreakthroughRecord{},
		CreatedAt:                now,
		UpdatedAt:                now,
	}
}

// Clone deep-copies the pointer and slice fields so the copy can be mutated freely.
func (p Player) Clone() Player {
	out := p
	out.CultivationStartTime = cloneTime(p.CultivationStartTime)
	out.CultivationEndTime = cloneTime(p.CultivationEndTime)
	out.LastBreakthroughAttemptAt = cloneTime(p.LastBreakthroughAttemptAt)
	out.BreakthroughHistory = make([]BreakthroughRecord, len(p.BreakthroughHistory))
	copy(out.BreakthroughHistory, p.BreakthroughHistory)
	return out
}

// Normalize repairs a record loaded from storage so the rules can assume valid input.
func Normalize(c realm.Catalog, p Player) Player {
	out := p.Clone()
	out.RealmIndex = c.Clamp(out.RealmIndex)
	out.Experience = nonNegative(out.Experience)
	out.Coins = nonNegative(out.Coins)
	out.Stones = nonNegative(out.Stones)
	out.Spirit = nonNegative(out.Spirit)
	if out.Level < BaselineLevel {
		out.Level = BaselineLevel
	}
	if out.MaxHealth <= 0 {
		out.MaxHealth = BaselineHealth
	}
	if out.MaxMana <= 0 {
		out.MaxMana = BaselineMana
	}
	out.Health = clamp(out.Health, 0, out.MaxHealth)
	out.Mana = clamp(out.Mana, 0, out.MaxMana)
	out.DailyCultivationSessions = clamp(out.DailyCultivationSessions, 0, MaxDailySessions)

	if out.IsCultivating && out.CultivationEndTime == nil {
		out.IsCultivating = false
	}
	if !out.IsCultivating {
		out.CultivationStartTime = nil
		out.CultivationEndTime = nil
	}
	if out.BreakthroughHistory == nil {
		out.BreakthroughHistory = []BreakthroughRecord{}
	}
	return out
}

func (p *Player) applyGain(g StatGain) {
	p.MaxHealth += g.Health
	p.MaxMana += g.Mana
	p.Attack += g.Attack
	p.Defense += g.Defense
	p.Speed += g.Speed
	p.Spirit += g.Spirit
	p.Power += g.Power
}

func (p *Player) restoreVitals() {
	p.Health = p.MaxHealth
	p.Mana = p.MaxMana
}

func scaleGain(g StatGain, multiplier float64) StatGain {
	// The epsilon keeps products like 25*1.2 from flooring to 29.
	scale := func(v int) int { return int(math.Floor(float64(v)*multiplier + 1e-9)) }
	return StatGain{
		Health:  scale(g.Health),
		Mana:    scale(g.Mana),
		Attack:  scale(g.Attack),
		Defense: scale(g.Defense),
		Speed:   scale(g.Speed),
		Spirit:  scale(g.Spirit),
		Power:   scale(g.Power),
	}
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

func timePtr(t time.Time) *time.Time {
	return &t
}

func nonNegative(v int) int {
	if v < 0 {
		return 0
	}
	return v
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func remainingSeconds(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	secs := int((d + time.Second - 1) / time.Second)
	if secs < 1 {
		secs = 1
	}
	return secs
}
