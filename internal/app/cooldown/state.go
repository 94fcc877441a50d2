package cooldown

import (
	"time"

	"tutien/internal/domain/progression"
)

const (
	KeyCultivation  = "cultivation"
	KeyBreakthrough = "breakthrough"
)

// RemainingForBreakthrough reports how long until the next attempt is allowed.
func RemainingForBreakthrough(p progression.Player, now time.Time) (int, bool) {
	if p.LastBreakthroughAttemptAt == nil {
		return 0, false
	}
	return remaining(p.LastBreakthroughAttemptAt.Add(progression.BreakthroughCooldown), now)
}

// RemainingForSession reports how long until the active session can be completed.
func RemainingForSession(p progression.Player, now time.Time) (int, bool) {
	if !p.IsCultivating || p.CultivationEndTime == nil {
		return 0, false
	}
	return remaining(*p.CultivationEndTime, now)
}

func RemainingByGate(p progression.Player, now time.Time) map[string]int {
	out := map[string]int{}
	if secs, ok := RemainingForSession(p, now); ok {
		out[KeyCultivation] = secs
	}
	if secs, ok := RemainingForBreakthrough(p, now); ok {
		out[KeyBreakthrough] = secs
	}
	return out
}

func remaining(until, now time.Time) (int, bool) {
	d := until.Sub(now)
	if d <= 0 {
		return 0, false
	}
	secs := int((d + time.Second - 1) / time.Second)
	if secs < 1 {
		secs = 1
	}
	return secs, true
}
