package service

import (
	"time"

	"github.com/labstack/gommon/log"
)

type ExpiryStore interface {
	DeleteExpired(now time.Time) (int64, error)
}

// Sweeper removes appointments whose time window has passed. Sweeping is best
// effort: failures are logged and never reach the caller.
type Sweeper struct {
	now    func() time.Time
	names  []string
	stores map[string]ExpiryStore
}

func NewSweeper(now func() time.Time) *Sweeper {
	return &Sweeper{now: now, stores: make(map[string]ExpiryStore)}
}

func (s *Sweeper) Register(kind string, store ExpiryStore) {
	if _, ok := s.stores[kind]; !ok {
		s.names = append(s.names, kind)
	}
	s.stores[kind] = store
}

// Sweep runs the store registered for kind. Kinds without a store, such as
// recurring appointments, are left alone.
func (s *Sweeper) Sweep(kind string) {
	store, ok := s.stores[kind]
	if !ok {
		return
	}

	removed, err := store.DeleteExpired(s.now())
	if err != nil {
		log.Errorf("failed to sweep expired %s: %v", kind, err)
		return
	}
	if removed > 0 {
		log.Infof("swept %d expired %s", removed, kind)
	}
}

func (s *Sweeper) SweepAll() {
	for _, kind := range s.names {
		s.Sweep(kind)
	}
}
