package inmemory

import (
	"sync"

	"tutien/internal/domain/progression"
)

type Snapshot struct {
	SessionsStarted       uint64            `json:"sessions_started"`
	SessionsCompleted     uint64            `json:"sessions_completed"`
	RealmsAutoAdvanced    uint64            `json:"realms_auto_advanced"`
	BreakthroughSuccesses uint64            `json:"breakthrough_successes"`
	BreakthroughFailures  uint64            `json:"breakthrough_failures"`
	Rejected              uint64            `json:"rejected"`
	Conflicts             uint64            `json:"conflicts"`
	Failures              uint64            `json:"failures"`
	RejectedByCode        map[string]uint64 `json:"rejected_by_code"`
}

type Recorder struct {
	mu       sync.Mutex
	snap     Snapshot
	rejected map[string]uint64
}

func NewRecorder() *Recorder {
	return &Recorder{
		rejected: map[string]uint64{},
	}
}

func (r *Recorder) RecordSessionStarted() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.snap.SessionsStarted++
}

func (r *Recorder) RecordSessionCompleted(realmSteps int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.snap.SessionsCompleted++
	if realmSteps > 0 {
		r.snap.RealmsAutoAdvanced += uint64(realmSteps)
	}
}

func (r *Recorder) RecordBreakthrough(success bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if success {
		r.snap.BreakthroughSuccesses++
		return
	}
	r.snap.BreakthroughFailures++
}

func (r *Recorder) RecordRejected(code progression.Code) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.snap.Rejected++
	r.rejected[string(code)]++
}

func (r *Recorder) RecordConflict() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.snap.Conflicts++
}

func (r *Recorder) RecordFailure() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.snap.Failures++
}

func (r *Recorder) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := r.snap
	out.RejectedByCode = make(map[string]uint64, len(r.rejected))
	for k, v := range r.rejected {
		out.RejectedByCode[k] = v
	}
	return out
}

func (r *Recorder) SnapshotAny() any {
	return r.Snapshot()
}
