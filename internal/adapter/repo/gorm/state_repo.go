package gormrepo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"tutien/internal/adapter/repo/gorm/model"
	"tutien/internal/app/ports"
	"tutien/internal/domain/progression"

	"gorm.io/gorm"
)

type PlayerRepo struct {
	db *gorm.DB
}

func NewPlayerRepo(db *gorm.DB) PlayerRepo {
	return PlayerRepo{db: db}
}

func (r PlayerRepo) GetByPlayerID(ctx context.Context, playerID string) (progression.Player, error) {
	var m model.Player
	if err := getDBFromCtx(ctx, r.db).WithContext(ctx).Where("player_id = ?", playerID).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return progression.Player{}, ports.ErrNotFound
		}
		return progression.Player{}, err
	}
	return fromModel(m)
}

func (r PlayerRepo) SaveWithVersion(ctx context.Context, p progression.Player, expectedVersion int64) error {
	db := getDBFromCtx(ctx, r.db).WithContext(ctx)
	m, err := toModel(p)
	if err != nil {
		return err
	}
	if expectedVersion == 0 {
		if err := db.Create(&m).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ports.ErrConflict
			}
			return err
		}
		return nil
	}

	updates := map[string]any{
		"realm_index":                  m.RealmIndex,
		"experience":                   m.Experience,
		"level":                        m.Level,
		"power":                        m.Power,
		"health":                       m.Health,
		"max_health":                   m.MaxHealth,
		"mana":                         m.Mana,
		"max_mana":                     m.MaxMana,
		"spirit":                       m.Spirit,
		"attack":                       m.Attack,
		"defense":                      m.Defense,
		"speed":                        m.Speed,
		"crit_chance":                  m.CritChance,
		"coins":                        m.Coins,
		"stones":                       m.Stones,
		"title":                        m.Title,
		"is_cultivating":               m.IsCultivating,
		"cultivation_start_time":       m.CultivationStartTime,
		"cultivation_end_time":         m.CultivationEndTime,
		"daily_cultivation_sessions":   m.DailyCultivationSessions,
		"last_cultivation_reset_date":  m.LastCultivationResetDate,
		"last_breakthrough_attempt_at": m.LastBreakthroughAttemptAt,
		"breakthrough_history_json":    m.BreakthroughHistoryJSON,
		"version":                      m.Version,
		"updated_at":                   m.UpdatedAt,
	}

	res := db.Model(&model.Player{}).
		Where("player_id = ? AND version = ?", p.PlayerID, expectedVersion).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ports.ErrConflict
	}
	return nil
}

func (r PlayerRepo) ListExpiredSessions(ctx context.Context, now time.Time) ([]string, error) {
	var ids []string
	err := getDBFromCtx(ctx, r.db).WithContext(ctx).
		Model(&model.Player{}).
		Where("is_cultivating AND cultivation_end_time < ?", now).
		Order("player_id").
		Pluck("player_id", &ids).Error
	return ids, err
}

func (r PlayerRepo) ListStaleDailyCounters(ctx context.Context, dateKey string) ([]string, error) {
	var ids []string
	err := getDBFromCtx(ctx, r.db).WithContext(ctx).
		Model(&model.Player{}).
		Where("last_cultivation_reset_date <> ?", dateKey).
		Order("player_id").
		Pluck("player_id", &ids).Error
	return ids, err
}

func toModel(p progression.Player) (model.Player, error) {
	history := p.BreakthroughHistory
	if history == nil {
		history = []progression.BreakthroughRecord{}
	}
	b, err := json.Marshal(history)
	if err != nil {
		return model.Player{}, fmt.Errorf("encode breakthrough history: %w", err)
	}
	return model.Player{
		PlayerID:                  p.PlayerID,
		RealmIndex:                int32(p.RealmIndex),
		Experience:                int64(p.Experience),
		Level:                     int32(p.Level),
		Power:                     int64(p.Power),
		Health:                    int32(p.Health),
		MaxHealth:                 int32(p.MaxHealth),
		Mana:                      int32(p.Mana),
		MaxMana:                   int32(p.MaxMana),
		Spirit:                    int32(p.Spirit),
		Attack:                    int32(p.Attack),
		Defense:                   int32(p.Defense),
		Speed:                     int32(p.Speed),
		CritChance:                p.CritChance,
		Coins:                     int64(p.Coins),
		Stones:                    int64(p.Stones),
		Title:                     p.Title,
		IsCultivating:             p.IsCultivating,
		CultivationStartTime:      p.CultivationStartTime,
		CultivationEndTime:        p.CultivationEndTime,
		DailyCultivationSessions:  int32(p.DailyCultivationSessions),
		LastCultivationResetDate:  p.LastCultivationResetDate,
		LastBreakthroughAttemptAt: p.LastBreakthroughAttemptAt,
		BreakthroughHistoryJSON:   string(b),
		Version:                   p.Version,
		CreatedAt:                 p.CreatedAt,
		UpdatedAt:                 p.UpdatedAt,
	}, nil
}

func fromModel(m model.Player) (progression.Player, error) {
	history := []progression.BreakthroughRecord{}
	if m.BreakthroughHistoryJSON != "" {
		if err := json.Unmarshal([]byte(m.BreakthroughHistoryJSON), &history); err != nil {
			return progression.Player{}, fmt.Errorf("decode breakthrough history %s: %w", m.PlayerID, err)
		}
	}
	return progression.Player{
		PlayerID:                  m.PlayerID,
		RealmIndex:                int(m.RealmIndex),
		Experience:                int(m.Experience),
		Level:                     int(m.Level),
		Power:                     int(m.Power),
		Health:                    int(m.Health),
		MaxHealth:                 int(m.MaxHealth),
		Mana:                      int(m.Mana),
		MaxMana:                   int(m.MaxMana),
		Spirit:                    int(m.Spirit),
		Attack:                    int(m.Attack),
		Defense:                   int(m.Defense),
		Speed:                     int(m.Speed),
		CritChance:                m.CritChance,
		Coins:                     int(m.Coins),
		Stones:                    int(m.Stones),
		Title:                     m.Title,
		IsCultivating:             m.IsCultivating,
		CultivationStartTime:      m.CultivationStartTime,
		CultivationEndTime:        m.CultivationEndTime,
		DailyCultivationSessions:  int(m.DailyCultivationSessions),
		LastCultivationResetDate:  m.LastCultivationResetDate,
		LastBreakthroughAttemptAt: m.LastBreakthroughAttemptAt,
		BreakthroughHistory:       history,
		Version:                   m.Version,
		CreatedAt:                 m.CreatedAt,
		UpdatedAt:                 m.UpdatedAt,
	}, nil
}
