package loader

import "context"

// Service combines a Loader with a snapshot Store: it runs loads and
// publishes their results under the store's last-load-wins discipline.
type Service struct {
	loader *Loader
	store  *Store
}

// NewService wires a loader to a store.
func NewService(l *Loader, s *Store) *Service {
	return &Service{loader: l, store: s}
}

// Reload claims a generation, runs one load, and publishes the result if
// no newer load was requested meanwhile. It returns the snapshot now
// being served, which for a superseded load is the newer winner.
func (s *Service) Reload(ctx context.Context) *Snapshot {
	gen := s.store.Begin()
	res := s.loader.Load(ctx)
	s.store.Publish(gen, res)

	if snap, ok := s.store.Current(); ok {
		return snap
	}
	// Superseded before anything was published; serve this result's view
	// without installing it.
	return &Snapshot{
		Records:      res.Records,
		Index:        res.Index,
		UsedFallback: res.UsedFallback,
		Notice:       res.Notice,
		Generation:   gen,
	}
}

// Current returns the latest published snapshot.
func (s *Service) Current() (*Snapshot, bool) {
	return s.store.Current()
}

// CheckReadiness reports readiness of the underlying store.
func (s *Service) CheckReadiness(ctx context.Context) error {
	return s.store.CheckReadiness(ctx)
}
