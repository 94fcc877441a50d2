package sqliterepo

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"tutien/internal/app/ports"
	"tutien/internal/domain/progression"
)

type playerRow struct {
	PlayerID                 string        `db:"player_id"`
	RealmIndex               int           `db:"realm_index"`
	Experience               int           `db:"experience"`
	Level                    int           `db:"level"`
	Power                    int           `db:"power"`
	Health                   int           `db:"health"`
	MaxHealth                int           `db:"max_health"`
	Mana                     int           `db:"mana"`
	MaxMana                  int           `db:"max_mana"`
	Spirit                   int           `db:"spirit"`
	Attack                   int           `db:"attack"`
	Defense                  int           `db:"defense"`
	Speed                    int           `db:"speed"`
	CritChance               float64       `db:"crit_chance"`
	Coins                    int           `db:"coins"`
	Stones                   int           `db:"stones"`
	Title                    string        `db:"title"`
	IsCultivating            bool          `db:"is_cultivating"`
	CultivationStartNS       sql.NullInt64 `db:"cultivation_start_ns"`
	CultivationEndNS         sql.NullInt64 `db:"cultivation_end_ns"`
	DailyCultivationSessions int           `db:"daily_cultivation_sessions"`
	LastCultivationResetDate string        `db:"last_cultivation_reset_date"`
	LastBreakthroughNS       sql.NullInt64 `db:"last_breakthrough_attempt_ns"`
	HistoryJSON              string        `db:"history_json"`
	Version                  int64         `db:"version"`
	CreatedNS                int64         `db:"created_ns"`
	UpdatedNS                int64         `db:"updated_ns"`
}

const playerColumns = `player_id, realm_index, experience, level, power, health, max_health, mana, max_mana,
	spirit, attack, defense, speed, crit_chance, coins, stones, title, is_cultivating,
	cultivation_start_ns, cultivation_end_ns, daily_cultivation_sessions, last_cultivation_reset_date,
	last_breakthrough_attempt_ns, history_json, version, created_ns, updated_ns`

type PlayerRepo struct {
	db *sqlx.DB
}

func NewPlayerRepo(db *sqlx.DB) PlayerRepo {
	return PlayerRepo{db: db}
}

func (r PlayerRepo) GetByPlayerID(ctx context.Context, playerID string) (progression.Player, error) {
	var row playerRow
	err := getQuerier(ctx, r.db).GetContext(ctx, &row, `SELECT `+playerColumns+` FROM players WHERE player_id = ?`, playerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return progression.Player{}, ports.ErrNotFound
		}
		return progression.Player{}, err
	}
	return fromRow(row)
}

func (r PlayerRepo) SaveWithVersion(ctx context.Context, p progression.Player, expectedVersion int64) error {
	row, err := toRow(p)
	if err != nil {
		return err
	}
	q := getQuerier(ctx, r.db)

	var res sql.Result
	if expectedVersion == 0 {
		res, err = sqlx.NamedExecContext(ctx, q, `INSERT INTO players (`+playerColumns+`) VALUES (
			:player_id, :realm_index, :experience, :level, :power, :health, :max_health, :mana, :max_mana,
			:spirit, :attack, :defense, :speed, :crit_chance, :coins, :stones, :title, :is_cultivating,
			:cultivation_start_ns, :cultivation_end_ns, :daily_cultivation_sessions, :last_cultivation_reset_date,
			:last_breakthrough_attempt_ns, :history_json, :version, :created_ns, :updated_ns)
			ON CONFLICT(player_id) DO NOTHING`, row)
	} else {
		res, err = sqlx.NamedExecContext(ctx, q, `UPDATE players SET
			realm_index = :realm_index, experience = :experience, level = :level, power = :power,
			health = :health, max_health = :max_health, mana = :mana, max_mana = :max_mana,
			spirit = :spirit, attack = :attack, defense = :defense, speed = :speed,
			crit_chance = :crit_chance, coins = :coins, stones = :stones, title = :title,
			is_cultivating = :is_cultivating, cultivation_start_ns = :cultivation_start_ns,
			cultivation_end_ns = :cultivation_end_ns, daily_cultivation_sessions = :daily_cultivation_sessions,
			last_cultivation_reset_date = :last_cultivation_reset_date,
			last_breakthrough_attempt_ns = :last_breakthrough_attempt_ns, history_json = :history_json,
			version = :version, updated_ns = :updated_ns
			WHERE player_id = :player_id AND version = :expected_version`,
			map[string]any{
				"player_id":                    row.PlayerID,
				"realm_index":                  row.RealmIndex,
				"experience":                   row.Experience,
				"level":                        row.Level,
				"power":                        row.Power,
				"health":                       row.Health,
				"max_health":                   row.MaxHealth,
				"mana":                         row.Mana,
				"max_mana":                     row.MaxMana,
				"spirit":                       row.Spirit,
				"attack":                       row.Attack,
				"defense":                      row.Defense,
				"speed":                        row.Speed,
				"crit_chance":                  row.CritChance,
				"coins":                        row.Coins,
				"stones":                       row.Stones,
				"title":                        row.Title,
				"is_cultivating":               row.IsCultivating,
				"cultivation_start_ns":         row.CultivationStartNS,
				"cultivation_end_ns":           row.CultivationEndNS,
				"daily_cultivation_sessions":   row.DailyCultivationSessions,
				"last_cultivation_reset_date":  row.LastCultivationResetDate,
				"last_breakthrough_attempt_ns": row.LastBreakthroughNS,
				"history_json":                 row.HistoryJSON,
				"version":                      row.Version,
				"updated_ns":                   row.UpdatedNS,
				"expected_version":             expectedVersion,
			})
	}
	if err != nil {
		return fmt.Errorf("save player %s: %w", p.PlayerID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ports.ErrConflict
	}
	return nil
}

func (r PlayerRepo) ListExpiredSessions(ctx context.Context, now time.Time) ([]string, error) {
	ids := []string{}
	err := getQuerier(ctx, r.db).SelectContext(ctx, &ids,
		`SELECT player_id FROM players WHERE is_cultivating = 1 AND cultivation_end_ns < ? ORDER BY player_id`,
		now.UnixNano())
	return ids, err
}

func (r PlayerRepo) ListStaleDailyCounters(ctx context.Context, dateKey string) ([]string, error) {
	ids := []string{}
	err := getQuerier(ctx, r.db).SelectContext(ctx, &ids,
		`SELECT player_id FROM players WHERE last_cultivation_reset_date <> ? ORDER BY player_id`,
		dateKey)
	return ids, err
}

func toRow(p progression.Player) (playerRow, error) {
	history := p.BreakthroughHistory
	if history == nil {
		history = []progression.BreakthroughRecord{}
	}
	b, err := json.Marshal(history)
	if err != nil {
		return playerRow{}, fmt.Errorf("encode breakthrough history: %w", err)
	}
	return playerRow{
		PlayerID:                 p.PlayerID,
		RealmIndex:               p.RealmIndex,
		Experience:               p.Experience,
		Level:                    p.Level,
		Power:                    p.Power,
		Health:                   p.Health,
		MaxHealth:                p.MaxHealth,
		Mana:                     p.Mana,
		MaxMana:                  p.MaxMana,
		Spirit:                   p.Spirit,
		Attack:                   p.Attack,
		Defense:                  p.Defense,
		Speed:                    p.Speed,
		CritChance:               p.CritChance,
		Coins:                    p.Coins,
		Stones:                   p.Stones,
		Title:                    p.Title,
		IsCultivating:            p.IsCultivating,
		CultivationStartNS:       nullNanos(p.CultivationStartTime),
		CultivationEndNS:         nullNanos(p.CultivationEndTime),
		DailyCultivationSessions: p.DailyCultivationSessions,
		LastCultivationResetDate: p.LastCultivationResetDate,
		LastBreakthroughNS:       nullNanos(p.LastBreakthroughAttemptAt),
		HistoryJSON:              string(b),
		Version:                  p.Version,
		CreatedNS:                p.CreatedAt.UnixNano(),
		UpdatedNS:                p.UpdatedAt.UnixNano(),
	}, nil
}

func fromRow(row playerRow) (progression.Player, error) {
	history := []progression.BreakthroughRecord{}
	if row.HistoryJSON != "" {
		if err := json.Unmarshal([]byte(row.HistoryJSON), &history); err != nil {
			return progression.Player{}, fmt.Errorf("decode breakthrough history %s: %w", row.PlayerID, err)
		}
	}
	return progression.Player{
		PlayerID:                  row.PlayerID,
		RealmIndex:                row.RealmIndex,
		Experience:                row.Experience,
		Level:                     row.Level,
		Power:                     row.Power,
		Health:                    row.Health,
		MaxHealth:                 row.MaxHealth,
		Mana:                      row.Mana,
		MaxMana:                   row.MaxMana,
		Spirit:                    row.Spirit,
		Attack:                    row.Attack,
		Defense:                   row.Defense,
		Speed:                     row.Speed,
		CritChance:                row.CritChance,
		Coins:                     row.Coins,
		Stones:                    row.Stones,
		Title:                     row.Title,
		IsCultivating:             row.IsCultivating,
		CultivationStartTime:      timeFromNanos(row.CultivationStartNS),
		CultivationEndTime:        timeFromNanos(row.CultivationEndNS),
		DailyCultivationSessions:  row.DailyCultivationSessions,
		LastCultivationResetDate:  row.LastCultivationResetDate,
		LastBreakthroughAttemptAt: timeFromNanos(row.LastBreakthroughNS),
		BreakthroughHistory:       history,
		Version:                   row.Version,
		CreatedAt:                 time.Unix(0, row.CreatedNS).UTC(),
		UpdatedAt:                 time.Unix(0, row.UpdatedNS).UTC(),
	}, nil
}

func nullNanos(t *time.Time) sql.NullInt64 {
	if t == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: t.UnixNano(), Valid: true}
}

func timeFromNanos(v sql.NullInt64) *time.Time {
	if !v.Valid {
		return nil
	}
	t := time.Unix(0, v.Int64).UTC()
	return &t
}
