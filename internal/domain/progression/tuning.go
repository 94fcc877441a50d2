package progression

import (
	"time"

	"tutien/internal/domain/realm"
)

const (
	SessionDuration   = 30 * time.Minute
	SessionExperience = 1800
	MaxDailySessions  = 5

	BreakthroughCooldown = time.Hour

	RequiredPowerPerRealm  = 500
	RequiredSpiritPerRealm = 2
	RequiredLevelPerRealm  = 2
	CoinCostPerRealm       = 1000

	CategoryStepPenalty = 5
	MinBaseSuccessRate  = 10
	MaxSuccessRate      = 95
	MaxEquipmentBonus   = 20
	EarlyRealmBonus     = 10
	EarlyRealmLimit     = 5

	FailureCoinPenaltyPercent   = 30
	FailureSpiritPenaltyPercent = 20
	FailureExperiencePenaltyMin = 100
	FailureExperiencePenaltyMax = 500

	FinalRealmTitle = "Chí Tôn"

	DateKeyLayout = "2006-01-02"
)

const (
	BaselineLevel      = 1
	BaselinePower      = 100
	BaselineHealth     = 100
	BaselineMana       = 50
	BaselineSpirit     = 10
	BaselineAttack     = 10
	BaselineDefense    = 5
	BaselineSpeed      = 10
	BaselineCritChance = 0.05
	BaselineCoins      = 1000
)

var BaseSuccessRates = map[realm.Category]int{
	realm.CategoryMortal:        90,
	realm.CategoryQiCultivation: 80,
	realm.CategoryImmortal:      70,
	realm.CategoryEmperor:       60,
	realm.CategorySupreme:       50,
}

var BreakthroughGain = StatGain{
	Health:  50,
	Mana:    25,
	Attack:  10,
	Defense: 8,
	Speed:   5,
	Spirit:  3,
	Power:   200,
}

var MilestoneRealms = map[int]bool{5: true, 10: true, 15: true, 20: true, 25: true}

const (
	CategoryRewardCoinsPerOrdinal  = 5000
	CategoryRewardStonesPerOrdinal = 10
	MilestoneRewardCoinsPerIndex   = 100
	MilestoneRewardStonesPerIndex  = 1
	FinalRealmRewardCoins          = 100000
	FinalRealmRewardStones         = 500
)

var FailureReasons = []string{
	"Tâm ma quấy nhiễu, linh khí nghịch loạn trong kinh mạch.",
	"Thiên kiếp giáng xuống quá mạnh, đạo cơ chưa đủ vững.",
	"Linh lực tiêu tán giữa chừng, bình cảnh vẫn chưa lay chuyển.",
	"Đan điền chấn động, buộc phải thu công để bảo toàn tính mạng.",
	"Cảm ngộ thiên đạo chưa đủ, cánh cửa cảnh giới vẫn đóng chặt.",
}
