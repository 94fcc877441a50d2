package sqliterepo

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"tutien/internal/app/ports"
	"tutien/internal/domain/progression"
)

type eventRow struct {
	EventID     string `db:"event_id"`
	PlayerID    string `db:"player_id"`
	Type        string `db:"type"`
	OccurredNS  int64  `db:"occurred_ns"`
	PayloadJSON string `db:"payload_json"`
}

type EventRepo struct {
	db *sqlx.DB
}

func NewEventRepo(db *sqlx.DB) EventRepo {
	return EventRepo{db: db}
}

func (r EventRepo) Append(ctx context.Context, playerID string, events []progression.DomainEvent) error {
	if len(events) == 0 {
		return nil
	}
	rows := make([]eventRow, 0, len(events))
	for _, e := range events {
		b, err := json.Marshal(e.Payload)
		if err != nil {
			return fmt.Errorf("encode %s payload: %w", e.Type, err)
		}
		rows = append(rows, eventRow{
			EventID:     e.ID,
			PlayerID:    playerID,
			Type:        e.Type,
			OccurredNS:  e.OccurredAt.UnixNano(),
			PayloadJSON: string(b),
		})
	}
	_, err := sqlx.NamedExecContext(ctx, getQuerier(ctx, r.db),
		`INSERT INTO progression_events (event_id, player_id, type, occurred_ns, payload_json)
		VALUES (:event_id, :player_id, :type, :occurred_ns, :payload_json)`, rows)
	return err
}

func (r EventRepo) ListByPlayerID(ctx context.Context, playerID string, limit int) ([]progression.DomainEvent, error) {
	query := `SELECT event_id, player_id, type, occurred_ns, payload_json FROM progression_events
		WHERE player_id = ? ORDER BY occurred_ns DESC, id DESC`
	args := []any{playerID}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows := []eventRow{}
	if err := getQuerier(ctx, r.db).SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ports.ErrNotFound
	}

	out := make([]progression.DomainEvent, 0, len(rows))
	for _, row := range rows {
		var payload map[string]any
		if row.PayloadJSON != "" {
			_ = json.Unmarshal([]byte(row.PayloadJSON), &payload)
		}
		out = append(out, progression.DomainEvent{
			ID:         row.EventID,
			Type:       row.Type,
			OccurredAt: time.Unix(0, row.OccurredNS).UTC(),
			Payload:    payload,
		})
	}
	return out, nil
}
