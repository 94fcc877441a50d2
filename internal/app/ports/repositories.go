package ports

import (
	"context"
	"time"

	"tutien/internal/domain/progression"
)

type PlayerRepository interface {
	GetByPlayerID(ctx context.Context, playerID string) (progression.Player, error)
	// SaveWithVersion inserts when expectedVersion is 0 and otherwise updates only if the
	// stored version still equals expectedVersion, returning ErrConflict when it does not.
	SaveWithVersion(ctx context.Context, player progression.Player, expectedVersion int64) error
	// ListExpiredSessions returns ids of players whose session ended strictly before now.
	ListExpiredSessions(ctx context.Context, now time.Time) ([]string, error)
	// ListStaleDailyCounters returns ids of players whose last reset date is not dateKey.
	ListStaleDailyCounters(ctx context.Context, dateKey string) ([]string, error)
}

type EventRepository interface {
	Append(ctx context.Context, playerID string, events []progression.DomainEvent) error
	ListByPlayerID(ctx context.Context, playerID string, limit int) ([]progression.DomainEvent, error)
}
