// Package market builds the per-cycle price change snapshot shared by every
// fund valuation.
package market

import (
	"time"

	"github.com/fortestingfmm-hub/fund-monitor/internal/model"
)

// Snapshot maps security codes to their current percentage change.
// It is never modified after construction, so it is safe for concurrent reads.
type Snapshot struct {
	changes    map[string]float64
	builtAt    time.Time
	domestic   int
	hongKong   int
	hkDegraded bool
}

// NewSnapshot builds a snapshot from a plain code -> change map.
// The map is copied.
func NewSnapshot(changes map[string]float64) *Snapshot {
	m := make(map[string]float64, len(changes))
	for k, v := range changes {
		m[k] = v
	}
	return &Snapshot{changes: m, builtAt: time.Now()}
}

// Lookup returns the change percent stored under exactly this code.
func (s *Snapshot) Lookup(code string) (float64, bool) {
	if s == nil {
		return 0, false
	}
	v, ok := s.changes[code]
	return v, ok
}

// Len is the number of codes in the snapshot.
func (s *Snapshot) Len() int {
	if s == nil {
		return 0
	}
	return len(s.changes)
}

// HKDegraded reports whether the Hong Kong feed was unavailable.
func (s *Snapshot) HKDegraded() bool { return s != nil && s.hkDegraded }

// BuiltAt is the time the snapshot was assembled.
func (s *Snapshot) BuiltAt() time.Time {
	if s == nil {
		return time.Time{}
	}
	return s.builtAt
}

// Info summarizes the snapshot for result sets.
func (s *Snapshot) Info() model.SnapshotInfo {
	if s == nil {
		return model.SnapshotInfo{}
	}
	return model.SnapshotInfo{
		BuiltAt:       s.builtAt,
		DomesticCount: s.domestic,
		HKCount:       s.hongKong,
		HKDegraded:    s.hkDegraded,
	}
}
