package matching

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestScheduler_RefreshActiveUsers(t *testing.T) {
	repo := newFakeRepository()
	repo.activeIDs = []int64{1, 2, 3}
	updater := &fakeUpdater{failFor: map[int64]error{2: errors.New("deadlock")}}

	s := NewScheduler(repo, updater, time.Hour, 7*24*time.Hour, zap.NewNop())
	s.now = func() time.Time { return date(2024, time.June, 15) }

	refreshed, err := s.RefreshActiveUsers(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, refreshed)
	assert.Equal(t, []int64{1, 2, 3}, updater.called())
	assert.Equal(t, date(2024, time.June, 8), repo.since)
}

func TestScheduler_RefreshActiveUsersErrors(t *testing.T) {
	t.Run("lister failure", func(t *testing.T) {
		repo := newFakeRepository()
		listErr := errors.New("timeout")
		repo.activeErr = listErr

		s := NewScheduler(repo, &fakeUpdater{}, time.Hour, time.Hour, zap.NewNop())
		_, err := s.RefreshActiveUsers(context.Background())
		assert.ErrorIs(t, err, listErr)
	})

	t.Run("cancelled context stops the batch", func(t *testing.T) {
		repo := newFakeRepository()
		repo.activeIDs = []int64{1, 2}
		updater := &fakeUpdater{}

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		s := NewScheduler(repo, updater, time.Hour, time.Hour, zap.NewNop())
		refreshed, err := s.RefreshActiveUsers(ctx)
		assert.ErrorIs(t, err, context.Canceled)
		assert.Zero(t, refreshed)
		assert.Empty(t, updater.called())
	})
}

func TestScheduler_Start(t *testing.T) {
	repo := newFakeRepository()
	repo.activeIDs = []int64{4}
	updater := &fakeUpdater{}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s := NewScheduler(repo, updater, 10*time.Millisecond, time.Hour, zap.NewNop())
	s.Start(ctx)

	assert.Eventually(t, func() bool {
		return len(updater.called()) >= 2
	}, time.Second, 5*time.Millisecond)
}
