package service

import (
	"context"
	"testing"
	"time"

	"wordtrainer/internal/domain"
	"wordtrainer/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestRegistry(store *testutil.MockWordRepository) *SessionRegistry {
	logger := testutil.NewTestLogger()
	return NewSessionRegistry(func() *PracticeSession {
		return NewPracticeSession(store, logger)
	}, logger)
}

func TestSessionRegistry_CreateAndWith(t *testing.T) {
	store := new(testutil.MockWordRepository)
	store.On("FetchWordsByIDs", mock.Anything, []int64{1}).
		Return(testutil.Words(testutil.NewTestWord(1, "Haus", "house")), nil)

	registry := newTestRegistry(store)

	id, err := registry.Create()
	require.NoError(t, err)
	assert.NotEmpty(t, id)
	assert.Equal(t, 1, registry.Len())

	err = registry.With(id, func(s *PracticeSession) error {
		return s.Start(context.Background(), []int64{1})
	})
	require.NoError(t, err)

	err = registry.With(id, func(s *PracticeSession) error {
		assert.Equal(t, domain.PracticePresenting, s.Status())
		return nil
	})
	assert.NoError(t, err)
	store.AssertExpectations(t)
}

func TestSessionRegistry_UnknownSession(t *testing.T) {
	registry := newTestRegistry(new(testutil.MockWordRepository))

	called := false
	err := registry.With("missing", func(*PracticeSession) error {
		called = true
		return nil
	})

	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.False(t, called)
	assert.ErrorIs(t, registry.Remove("missing"), domain.ErrNotFound)
}

func TestSessionRegistry_Remove(t *testing.T) {
	registry := newTestRegistry(new(testutil.MockWordRepository))

	id, err := registry.Create()
	require.NoError(t, err)

	require.NoError(t, registry.Remove(id))
	assert.Equal(t, 0, registry.Len())
	assert.ErrorIs(t, registry.With(id, func(*PracticeSession) error { return nil }), domain.ErrNotFound)
}

func TestSessionRegistry_EvictIdle(t *testing.T) {
	registry := newTestRegistry(new(testutil.MockWordRepository))

	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	registry.now = func() time.Time { return now }

	stale, err := registry.Create()
	require.NoError(t, err)

	now = now.Add(90 * time.Minute)
	fresh, err := registry.Create()
	require.NoError(t, err)

	now = now.Add(45 * time.Minute)
	evicted := registry.EvictIdle(time.Hour)

	assert.Equal(t, 1, evicted)
	assert.ErrorIs(t, registry.With(stale, func(*PracticeSession) error { return nil }), domain.ErrNotFound)
	assert.NoError(t, registry.With(fresh, func(*PracticeSession) error { return nil }))
}

func TestSessionRegistry_WithKeepsSessionAlive(t *testing.T) {
	registry := newTestRegistry(new(testutil.MockWordRepository))

	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	registry.now = func() time.Time { return now }

	id, err := registry.Create()
	require.NoError(t, err)

	now = now.Add(50 * time.Minute)
	require.NoError(t, registry.With(id, func(*PracticeSession) error { return nil }))

	now = now.Add(50 * time.Minute)
	assert.Equal(t, 0, registry.EvictIdle(time.Hour))
	assert.Equal(t, 1, registry.Len())
}
