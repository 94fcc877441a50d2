package ports

import "context"

// EquipmentBonusProvider reports the breakthrough success bonus, in percentage points,
// granted by whatever the player has equipped.
type EquipmentBonusProvider interface {
	BreakthroughBonus(ctx context.Context, playerID string) (int, error)
}
