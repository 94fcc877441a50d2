package progression

import "time"

// DateKey is the calendar day of t in loc; day boundaries fall at local midnight.
func DateKey(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	return t.In(loc).Format(DateKeyLayout)
}

// RollDailyCounter zeroes the session counter once per calendar day.
func (p *Player) RollDailyCounter(dateKey string) bool {
	if p.LastCultivationResetDate == dateKey {
		return false
	}
	p.DailyCultivationSessions = 0
	p.LastCultivationResetDate = dateKey
	return true
}

func DailyResetEvent(now time.Time, previousDate string, previousSessions int) DomainEvent {
	return newEvent(EventDailyCounterReset, now, map[string]any{
		"previous_date":     previousDate,
		"previous_sessions": previousSessions,
	})
}
