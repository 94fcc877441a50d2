package staticequipment

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"tutien/internal/app/ports"
)

var _ ports.EquipmentBonusProvider = Provider{}

func TestLoad_ReadsTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "equipment.json")
	if err := os.WriteFile(path, []byte(`{"default":2,"players":{"p1":15}}`), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	p, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got, _ := p.BreakthroughBonus(context.Background(), "p1"); got != 15 {
		t.Fatalf("expected 15 for p1, got %d", got)
	}
	if got, _ := p.BreakthroughBonus(context.Background(), "p2"); got != 2 {
		t.Fatalf("expected default 2, got %d", got)
	}
}

func TestLoad_EmptyPathIsZero(t *testing.T) {
	p, err := Load("  ")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got, _ := p.BreakthroughBonus(context.Background(), "anyone"); got != 0 {
		t.Fatalf("expected 0, got %d", got)
	}
}

func TestLoad_RejectsMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "equipment.json")
	if err := os.WriteFile(path, []byte(`{"players":`), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	if _, err := Load(path); !errors.Is(err, ErrInvalidEquipmentFile) {
		t.Fatalf("expected ErrInvalidEquipmentFile, got %v", err)
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
