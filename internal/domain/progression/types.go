package progression

import "time"

type Player struct {
	PlayerID   string `json:"player_id"`
	RealmIndex int    `json:"realm_index"`
	Experience int    `json:"experience"`
	Level      int    `json:"level"`

	Power      int     `json:"power"`
	Health     int     `json:"health"`
	MaxHealth  int     `json:"max_health"`
	Mana       int     `json:"mana"`
	MaxMana    int     `json:"max_mana"`
	Spirit     int     `json:"spirit"`
	Attack     int     `json:"attack"`
	Defense    int     `json:"defense"`
	Speed      int     `json:"speed"`
	CritChance float64 `json:"crit_chance"`

	Coins  int    `json:"coins"`
	Stones int    `json:"stones"`
	Title  string `json:"title,omitempty"`

	IsCultivating            bool       `json:"is_cultivating"`
	CultivationStartTime     *time.Time `json:"cultivation_start_time,omitempty"`
	CultivationEndTime       *time.Time `json:"cultivation_end_time,omitempty"`
	DailyCultivationSessions int        `json:"daily_cultivation_sessions"`
	LastCultivationResetDate string     `json:"last_cultivation_reset_date"`

	LastBreakthroughAttemptAt *time.Time           `json:"last_breakthrough_attempt_at,omitempty"`
	BreakthroughHistory       []BreakthroughRecord `json:"breakthrough_history"`

	Version   int64     `json:"version"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Cost struct {
	Coins  int `json:"coins"`
	Spirit int `json:"spirit"`
}

// BreakthroughRecord is append-only; ToRealm is the attempted target even on failure.
type BreakthroughRecord struct {
	ID              string    `json:"id"`
	FromRealm       int       `json:"from_realm"`
	ToRealm         int       `json:"to_realm"`
	Timestamp       time.Time `json:"timestamp"`
	Success         bool      `json:"success"`
	SuccessRateUsed int       `json:"success_rate_used"`
	CostPaid        Cost      `json:"cost_paid"`
}

type StatGain struct {
	Health  int `json:"health"`
	Mana    int `json:"mana"`
	Attack  int `json:"attack"`
	Defense int `json:"defense"`
	Speed   int `json:"speed"`
	Spirit  int `json:"spirit"`
	Power   int `json:"power"`
}

type Requirements struct {
	RealmIndex         int    `json:"realm_index"`
	RealmName          string `json:"realm_name"`
	NextRealmName      string `json:"next_realm_name"`
	RequiredExperience int    `json:"required_experience"`
	RequiredPower      int    `json:"required_power"`
	RequiredSpirit     int    `json:"required_spirit"`
	RequiredLevel      int    `json:"required_level"`
	BaseSuccessRate    int    `json:"base_success_rate"`
	Cost               Cost   `json:"cost"`
}

type Eligibility struct {
	Allowed      bool          `json:"allowed"`
	Reasons      []string      `json:"reasons"`
	Requirements *Requirements `json:"requirements,omitempty"`
}

type SpecialRewardKind string

const (
	RewardCategoryAscension SpecialRewardKind = "category_ascension"
	RewardMilestone         SpecialRewardKind = "milestone"
	RewardFinalRealm        SpecialRewardKind = "final_realm"
)

type SpecialReward struct {
	Kind        SpecialRewardKind `json:"kind"`
	Description string            `json:"description"`
	Coins       int               `json:"coins,omitempty"`
	Stones      int               `json:"stones,omitempty"`
	Title       string            `json:"title,omitempty"`
}

type LostResources struct {
	Coins      int `json:"coins"`
	Spirit     int `json:"spirit"`
	Experience int `json:"experience"`
}

// Advancement is one passive realm step taken from cultivation overflow.
type Advancement struct {
	FromRealm          int      `json:"from_realm"`
	ToRealm            int      `json:"to_realm"`
	FromRealmName      string   `json:"from_realm_name"`
	ToRealmName        string   `json:"to_realm_name"`
	ExperienceConsumed int      `json:"experience_consumed"`
	StatsGained        StatGain `json:"stats_gained"`
}

type Code string

const (
	CodeAlreadyCultivating Code = "already_cultivating"
	CodeDailyLimitReached  Code = "daily_limit_reached"
	CodeNotCultivating     Code = "not_cultivating"
	CodeSessionNotFinished Code = "session_not_finished"
	CodeMaxRealmReached    Code = "max_realm_reached"
	CodeNotEligible        Code = "not_eligible"
)

// Rejection is a failed precondition. It never carries a state change.
type Rejection struct {
	Code             Code     `json:"code"`
	Message          string   `json:"message"`
	Reasons          []string `json:"reasons,omitempty"`
	RemainingSeconds int      `json:"remaining_seconds,omitempty"`
}

type DomainEvent struct {
	ID         string         `json:"id"`
	Type       string         `json:"type"`
	OccurredAt time.Time      `json:"occurred_at"`
	Payload    map[string]any `json:"payload"`
}

const (
	EventCultivationStarted   = "cultivation_started"
	EventCultivationCompleted = "cultivation_completed"
	EventRealmAdvanced        = "realm_advanced"
	EventBreakthroughSuccess  = "breakthrough_succeeded"
	EventBreakthroughFailure  = "breakthrough_failed"
	EventDailyCounterReset    = "daily_counter_reset"
)

// RandomSource is the only entropy the rules consume.
type RandomSource interface {
	// Bernoulli reports true with probability p in [0, 1].
	Bernoulli(p float64) bool
	// UniformInt returns an integer in [min, max], both inclusive.
	UniformInt(min, max int) int
}
