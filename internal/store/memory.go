package store

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/i474232898/ski-conditions/internal/weather"
)

var (
	// ErrSelectionNotFound is returned for unknown or expired selection ids.
	ErrSelectionNotFound = errors.New("selection not found")
)

type selection struct {
	set     weather.ComparisonSet
	touched time.Time
}

// SelectionStore keeps one ComparisonSet per client session. Mutations are
// serialized; sets themselves are immutable values.
type SelectionStore struct {
	mu sync.Mutex

	// key: selection id
	data map[string]*selection

	// idle sessions older than maxAge are dropped (0 = keep forever)
	maxAge time.Duration
	now    func() time.Time
}

// NewSelectionStore creates an empty store.
func NewSelectionStore(maxAge time.Duration) *SelectionStore {
	return &SelectionStore{
		data:   make(map[string]*selection),
		maxAge: maxAge,
		now:    time.Now,
	}
}

// Create opens a new session with an empty selection and returns its id.
func (s *SelectionStore) Create() string {
	id := uuid.NewString()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.evictLocked()
	s.data[id] = &selection{touched: s.now()}
	return id
}

// Get returns the current selection of a session.
func (s *SelectionStore) Get(id string) (weather.ComparisonSet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sel, err := s.lookupLocked(id)
	if err != nil {
		return weather.ComparisonSet{}, err
	}
	return sel.set, nil
}

// Toggle applies ComparisonSet.Toggle to the session's selection.
func (s *SelectionStore) Toggle(id, key string) (weather.ComparisonSet, error) {
	return s.update(id, func(set weather.ComparisonSet) weather.ComparisonSet {
		return set.Toggle(key)
	})
}

// Reset clears the session's selection.
func (s *SelectionStore) Reset(id string) (weather.ComparisonSet, error) {
	return s.update(id, weather.ComparisonSet.Reset)
}

func (s *SelectionStore) update(id string, fn func(weather.ComparisonSet) weather.ComparisonSet) (weather.ComparisonSet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sel, err := s.lookupLocked(id)
	if err != nil {
		return weather.ComparisonSet{}, err
	}
	sel.set = fn(sel.set)
	return sel.set, nil
}

func (s *SelectionStore) lookupLocked(id string) (*selection, error) {
	sel, ok := s.data[id]
	if !ok || s.expired(sel) {
		delete(s.data, id)
		return nil, ErrSelectionNotFound
	}
	sel.touched = s.now()
	return sel, nil
}

func (s *SelectionStore) evictLocked() {
	if s.maxAge <= 0 {
		return
	}
	for id, sel := range s.data {
		if s.expired(sel) {
			delete(s.data, id)
		}
	}
}

func (s *SelectionStore) expired(sel *selection) bool {
	return s.maxAge > 0 && s.now().Sub(sel.touched) > s.maxAge
}
