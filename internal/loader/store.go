package loader

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/carbon-intensity-service/internal/domain"
	"github.com/couchcryptid/carbon-intensity-service/internal/timeline"
)

// Snapshot is one published load: the immutable record set, its index,
// and the load's provenance. Callers must treat the slices as read-only.
type Snapshot struct {
	Records      []domain.IntensityRecord
	Index        timeline.Index
	UsedFallback bool
	Notice       string
	LoadedAt     time.Time
	Generation   uint64
}

// Store holds the latest published snapshot. Loads follow a
// last-load-wins discipline: each load claims a generation up front, and
// a result whose generation has been superseded by a newer claim is
// silently discarded. Snapshots are written once and read-only after, so
// readers need no locks.
type Store struct {
	current    atomic.Pointer[Snapshot]
	generation atomic.Uint64
}

// NewStore returns an empty store; readiness fails until the first
// publish.
func NewStore() *Store {
	return &Store{}
}

// Begin claims a generation for a load about to start. Claiming makes any
// older in-flight load stale.
func (s *Store) Begin() uint64 {
	return s.generation.Add(1)
}

// Publish installs the load result for the given generation. It returns
// false, leaving the store untouched, when a newer load has been begun
// since; the stale result is dropped in favor of the latest request.
func (s *Store) Publish(generation uint64, res Result) bool {
	if generation != s.generation.Load() {
		return false
	}
	snap := &Snapshot{
		Records:      res.Records,
		Index:        res.Index,
		UsedFallback: res.UsedFallback,
		Notice:       res.Notice,
		LoadedAt:     domain.Now(),
		Generation:   generation,
	}
	s.current.Store(snap)
	return true
}

// Current returns the latest snapshot, or ok=false before the first load
// completes.
func (s *Store) Current() (*Snapshot, bool) {
	snap := s.current.Load()
	if snap == nil {
		return nil, false
	}
	return snap, true
}

// CheckReadiness reports whether a dataset is available to serve.
func (s *Store) CheckReadiness(_ context.Context) error {
	if s.current.Load() == nil {
		return errors.New("no dataset loaded yet")
	}
	return nil
}
