package store

import (
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectionStore_Lifecycle(t *testing.T) {
	s := NewSelectionStore(0)

	id := s.Create()
	_, err := uuid.Parse(id)
	require.NoError(t, err)

	set, err := s.Get(id)
	require.NoError(t, err)
	assert.Equal(t, 0, set.Len())

	for _, key := range []string{"zermatt", "verbier", "chamonix", "st-anton"} {
		set, err = s.Toggle(id, key)
		require.NoError(t, err)
	}
	assert.Equal(t, []string{"zermatt", "verbier", "chamonix"}, set.Keys())

	set, err = s.Toggle(id, "verbier")
	require.NoError(t, err)
	assert.Equal(t, []string{"zermatt", "chamonix"}, set.Keys())

	set, err = s.Reset(id)
	require.NoError(t, err)
	assert.Equal(t, 0, set.Len())

	set, err = s.Get(id)
	require.NoError(t, err)
	assert.Equal(t, 0, set.Len())
}

func TestSelectionStore_SessionsAreIndependent(t *testing.T) {
	s := NewSelectionStore(0)
	a, b := s.Create(), s.Create()
	assert.NotEqual(t, a, b)

	_, err := s.Toggle(a, "zermatt")
	require.NoError(t, err)

	set, err := s.Get(b)
	require.NoError(t, err)
	assert.Equal(t, 0, set.Len())
}

func TestSelectionStore_NotFound(t *testing.T) {
	s := NewSelectionStore(0)

	_, err := s.Get("missing")
	assert.ErrorIs(t, err, ErrSelectionNotFound)
	_, err = s.Toggle("missing", "zermatt")
	assert.ErrorIs(t, err, ErrSelectionNotFound)
	_, err = s.Reset("missing")
	assert.ErrorIs(t, err, ErrSelectionNotFound)
}

func TestSelectionStore_Expiry(t *testing.T) {
	now := time.Date(2025, 1, 15, 12, 0, 0, 0, time.UTC)
	s := NewSelectionStore(time.Hour)
	s.now = func() time.Time { return now }

	idle := s.Create()
	active := s.Create()

	now = now.Add(40 * time.Minute)
	_, err := s.Toggle(active, "zermatt")
	require.NoError(t, err)

	now = now.Add(40 * time.Minute)
	_, err = s.Get(idle)
	assert.ErrorIs(t, err, ErrSelectionNotFound)

	set, err := s.Get(active)
	require.NoError(t, err)
	assert.Equal(t, []string{"zermatt"}, set.Keys())
}

func TestSelectionStore_ConcurrentToggles(t *testing.T) {
	s := NewSelectionStore(0)
	id := s.Create()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = s.Toggle(id, "zermatt")
		}()
	}
	wg.Wait()

	// An even number of toggles of the same key cancels out.
	set, err := s.Get(id)
	require.NoError(t, err)
	assert.Equal(t, 0, set.Len())
}
