package breakthrough

import "tutien/internal/domain/progression"

type RequirementsRequest struct {
	RealmIndex int
}

type RequirementsResponse struct {
	Requirements *progression.Requirements `json:"requirements,omitempty"`
	MaxRealm     bool                      `json:"max_realm"`
}

type EligibilityRequest struct {
	PlayerID string
}

type EligibilityResponse struct {
	Allowed              bool                      `json:"allowed"`
	Reasons              []string                  `json:"reasons"`
	Requirements         *progression.Requirements `json:"requirements,omitempty"`
	EffectiveSuccessRate int                       `json:"effective_success_rate,omitempty"`
}

type AttemptRequest struct {
	PlayerID string
}

type AttemptResponse struct {
	OK              bool                            `json:"ok"`
	Success         bool                            `json:"success"`
	Message         string                          `json:"message"`
	Player          progression.Player              `json:"player"`
	SuccessRateUsed int                             `json:"success_rate_used,omitempty"`
	StatsGained     *progression.StatGain           `json:"stats_gained,omitempty"`
	SpecialRewards  []progression.SpecialReward     `json:"special_rewards,omitempty"`
	FailureReason   string                          `json:"failure_reason,omitempty"`
	LostResources   *progression.LostResources      `json:"lost_resources,omitempty"`
	Record          *progression.BreakthroughRecord `json:"record,omitempty"`
	Rejection       *progression.Rejection          `json:"rejection,omitempty"`
}
