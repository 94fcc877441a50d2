package random

import "sync"

// Script replays fixed outcomes, for deterministic runs and tests. Once a queue is
// drained, Bernoulli returns false and UniformInt returns min.
type Script struct {
	mu    sync.Mutex
	Rolls []bool
	Ints  []int
}

func (s *Script) Bernoulli(float64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.Rolls) == 0 {
		return false
	}
	v := s.Rolls[0]
	s.Rolls = s.Rolls[1:]
	return v
}

// UniformInt clamps the scripted value into [lo, hi].
func (s *Script) UniformInt(lo, hi int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.Ints) == 0 {
		return lo
	}
	v := s.Ints[0]
	s.Ints = s.Ints[1:]
	return max(lo, min(v, hi))
}
