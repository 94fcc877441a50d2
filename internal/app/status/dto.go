package status

import (
	"tutien/internal/domain/progression"
	"tutien/internal/domain/realm"
)

type Request struct {
	PlayerID string
}

type Response struct {
	Player                 progression.Player        `json:"player"`
	Realm                  realm.Realm               `json:"realm"`
	Requirements           *progression.Requirements `json:"requirements,omitempty"`
	DailySessionsRemaining int                       `json:"daily_sessions_remaining"`
	Cooldowns              map[string]int            `json:"cooldowns"`
	CanComplete            bool                      `json:"can_complete"`
}
