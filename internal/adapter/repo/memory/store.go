package memory

import (
	"sync"

	"tutien/internal/domain/progression"
)

// Store keeps players and their journal in process. mu guards the maps; txMu
// serialises RunInTx callers so a whole read-modify-write behaves like one unit.
type Store struct {
	mu      sync.RWMutex
	txMu    sync.Mutex
	players map[string]progression.Player
	events  map[string][]progression.DomainEvent
}

func NewStore() *Store {
	return &Store{
		players: make(map[string]progression.Player),
		events:  make(map[string][]progression.DomainEvent),
	}
}

func (s *Store) SeedPlayer(p progression.Player) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.players[p.PlayerID] = p.Clone()
}
