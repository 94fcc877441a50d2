// Package random provides the entropy behind breakthrough rolls and flavour text.
package random

import (
	crand "crypto/rand"
	"encoding/binary"
	"math/rand"
	"sync"
)

// Source is a seeded math/rand generator safe for concurrent use.
type Source struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// New seeds from seed, or from crypto/rand when seed is 0.
func New(seed int64) *Source {
	if seed == 0 {
		seed = cryptoSeed()
	}
	return &Source{rng: rand.New(rand.NewSource(seed))}
}

func (s *Source) Bernoulli(p float64) bool {
	switch {
	case p <= 0:
		return false
	case p >= 1:
		return true
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Float64() < p
}

func (s *Source) UniformInt(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return lo + s.rng.Intn(hi-lo+1)
}

func cryptoSeed() int64 {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 1
	}
	return int64(binary.LittleEndian.Uint64(b[:]) &^ (1 << 63))
}
