package cultivation

import (
	"time"

	"tutien/internal/domain/progression"
)

type StartRequest struct {
	PlayerID string
}

type StartResponse struct {
	OK            bool                   `json:"ok"`
	Message       string                 `json:"message"`
	EndTime       *time.Time             `json:"end_time,omitempty"`
	DailySessions int                    `json:"daily_sessions"`
	Rejection     *progression.Rejection `json:"rejection,omitempty"`
}

type CompleteRequest struct {
	PlayerID string
}

type CompleteResponse struct {
	OK                 bool                      `json:"ok"`
	Message            string                    `json:"message"`
	ExperienceGained   int                       `json:"experience_gained,omitempty"`
	BreakthroughEvents []progression.Advancement `json:"breakthrough_events"`
	NewRealmName       string                    `json:"new_realm_name,omitempty"`
	CurrentExperience  int                       `json:"current_experience"`
	RequiredExperience int                       `json:"required_experience,omitempty"`
	Rejection          *progression.Rejection    `json:"rejection,omitempty"`
}

// SweepReport summarises one reconciler pass.
type SweepReport struct {
	Scanned  int
	Affected int
	Failed   int
}
