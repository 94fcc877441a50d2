package replay

import "tutien/internal/domain/progression"

type Request struct {
	PlayerID     string
	Limit        int
	OccurredFrom int64
	OccurredTo   int64
}

// Summary is rebuilt from the journal alone; it never reads the player record.
type Summary struct {
	SessionsStarted       int `json:"sessions_started"`
	SessionsCompleted     int `json:"sessions_completed"`
	ExperienceFromSession int `json:"experience_from_sessions"`
	RealmsAdvanced        int `json:"realms_advanced"`
	BreakthroughSuccesses int `json:"breakthrough_successes"`
	BreakthroughFailures  int `json:"breakthrough_failures"`
	DailyResets           int `json:"daily_resets"`
	LatestRealm           int `json:"latest_realm"`
}

type Response struct {
	Events  []progression.DomainEvent `json:"events"`
	Summary Summary                   `json:"summary"`
}
