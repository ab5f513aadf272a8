package matching

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// ActiveUserLister lists users whose ratings are worth refreshing
type ActiveUserLister interface {
	GetRecentlyActiveUserIDs(ctx context.Context, since time.Time) ([]int64, error)
}

// Scheduler periodically recomputes fame ratings of recently active users
type Scheduler struct {
	users    ActiveUserLister
	updater  FameUpdater
	interval time.Duration
	window   time.Duration
	logger   *zap.Logger
	now      func() time.Time
}

func NewScheduler(users ActiveUserLister, updater FameUpdater, interval, window time.Duration, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		users:    users,
		updater:  updater,
		interval: interval,
		window:   window,
		logger:   logger,
		now:      time.Now,
	}
}

func (s *Scheduler) Start(ctx context.Context) {
	go s.runPeriodic(ctx, s.RefreshActiveUsers)
}

func (s *Scheduler) runPeriodic(ctx context.Context, task func(context.Context) (int, error)) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if _, err := task(ctx); err != nil {
				s.logger.Error("scheduled fame refresh failed", zap.Error(err))
			}
		case <-ctx.Done():
			return
		}
	}
}

// RefreshActiveUsers recomputes the rating of every user active within the
// window and returns how many were written. A failure for one user is
// logged and does not stop the batch.
func (s *Scheduler) RefreshActiveUsers(ctx context.Context) (int, error) {
	ids, err := s.users.GetRecentlyActiveUserIDs(ctx, s.now().Add(-s.window))
	if err != nil {
		return 0, err
	}

	refreshed := 0
	for _, id := range ids {
		if ctx.Err() != nil {
			return refreshed, ctx.Err()
		}
		if _, err := s.updater.UpdateFameRating(ctx, id); err != nil {
			s.logger.Warn("fame refresh skipped", zap.Int64("user_id", id), zap.Error(err))
			continue
		}
		refreshed++
	}

	s.logger.Info("fame ratings refreshed",
		zap.Int("candidates", len(ids)),
		zap.Int("refreshed", refreshed),
	)
	return refreshed, nil
}
