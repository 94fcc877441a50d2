package staticequipment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
)

// Provider serves breakthrough bonuses from a fixed table. The engine clamps whatever
// is returned, so the table may hold any value.
type Provider struct {
	Default int
	Players map[string]int
}

type fileFormat struct {
	Default int            `json:"default"`
	Players map[string]int `json:"players"`
}

var ErrInvalidEquipmentFile = errors.New("invalid equipment bonus file")

// Load reads a JSON table of the form {"default": 0, "players": {"id": 10}}.
// An empty path yields a provider that always returns 0.
func Load(path string) (Provider, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return Provider{}, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return Provider{}, fmt.Errorf("read equipment bonuses: %w", err)
	}
	var f fileFormat
	if err := json.Unmarshal(b, &f); err != nil {
		return Provider{}, fmt.Errorf("%w: %v", ErrInvalidEquipmentFile, err)
	}
	return Provider{Default: f.Default, Players: f.Players}, nil
}

func (p Provider) BreakthroughBonus(_ context.Context, playerID string) (int, error) {
	if v, ok := p.Players[playerID]; ok {
		return v, nil
	}
	return p.Default, nil
}
