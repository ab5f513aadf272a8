// internal/matching/fame.go

package matching

import (
	"context"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"
)

const (
	BaseFameRating    = 50
	DefaultFameRating = 50

	photoPoints         = 20.0
	photoCap            = 5
	completenessBonus   = 10.0
	flashPoints         = 25.0
	flashCap            = 10
	viewPoints          = 15.0
	viewCap             = 20
	responsePoints      = 20.0
	recentActivityBonus = 10.0

	RecentActivityWindow = 7 * 24 * time.Hour
)

// FameStore reads engagement stats and persists computed ratings
type FameStore interface {
	GetFameStats(ctx context.Context, userID int64) (*FameStats, error)
	UpdateFameRating(ctx context.Context, userID int64, rating int) error
}

// ComputeFameRating derives a rating in [0, 100] from engagement stats.
func ComputeFameRating(stats *FameStats, now time.Time) int {
	if stats == nil {
		return BaseFameRating
	}

	rating := float64(BaseFameRating)
	rating += cappedLinear(stats.PhotoCount, photoCap, photoPoints)
	if stats.IsProfileComplete {
		rating += completenessBonus
	}
	rating += cappedLinear(stats.FlashesReceived, flashCap, flashPoints)
	rating += cappedLinear(stats.ProfileViews, viewCap, viewPoints)

	if stats.MessagesReceived > 0 {
		answered := min(max(stats.MessagesAnswered, 0), stats.MessagesReceived)
		rating += float64(answered) / float64(stats.MessagesReceived) * responsePoints
	}

	if stats.LastActivity != nil && now.Sub(*stats.LastActivity) <= RecentActivityWindow {
		rating += recentActivityBonus
	}

	return clampRating(int(math.Round(rating)))
}

func cappedLinear(count, limit int, points float64) float64 {
	if count <= 0 {
		return 0
	}
	if count > limit {
		count = limit
	}
	return float64(count) / float64(limit) * points
}

// FameService computes fame ratings on the read path and recomputes and
// persists them on the write path.
type FameService struct {
	store    FameStore
	cache    RatingCache
	cacheTTL time.Duration
	logger   *zap.Logger
	now      func() time.Time
}

// NewFameService creates a fame service. cache may be nil.
func NewFameService(store FameStore, cache RatingCache, cacheTTL time.Duration, logger *zap.Logger) *FameService {
	return &FameService{
		store:    store,
		cache:    cache,
		cacheTTL: cacheTTL,
		logger:   logger,
		now:      time.Now,
	}
}

// CalculateFameRating returns the current rating for a user. Store failures
// are not returned: the rating falls back to DefaultFameRating.
func (s *FameService) CalculateFameRating(ctx context.Context, userID int64) int {
	if s.cache != nil {
		rating, ok, err := s.cache.Get(ctx, userID)
		switch {
		case err != nil:
			s.logger.Debug("fame cache read failed", zap.Int64("user_id", userID), zap.Error(err))
		case ok:
			return rating
		}
	}

	stats, err := s.store.GetFameStats(ctx, userID)
	if err != nil {
		s.logger.Warn("fame stats unavailable, using default rating",
			zap.Int64("user_id", userID),
			zap.Error(err),
		)
		RecordFameFallback()
		return DefaultFameRating
	}

	rating := ComputeFameRating(stats, s.now())
	RecordFameRating(rating)
	s.cacheRating(ctx, userID, rating)

	return rating
}

// UpdateFameRating recomputes the rating from fresh stats and writes it back.
// Recomputing and overwriting is idempotent, so concurrent calls may race.
func (s *FameService) UpdateFameRating(ctx context.Context, userID int64) (int, error) {
	stats, err := s.store.GetFameStats(ctx, userID)
	if err != nil {
		RecordFameUpdate("failed")
		return 0, fmt.Errorf("failed to get fame stats for user %d: %w", userID, err)
	}

	rating := ComputeFameRating(stats, s.now())

	if err := s.store.UpdateFameRating(ctx, userID, rating); err != nil {
		RecordFameUpdate("failed")
		return 0, fmt.Errorf("failed to update fame rating for user %d: %w", userID, err)
	}

	RecordFameUpdate("ok")
	RecordFameRating(rating)
	s.cacheRating(ctx, userID, rating)

	s.logger.Debug("fame rating updated", zap.Int64("user_id", userID), zap.Int("rating", rating))
	return rating, nil
}

func (s *FameService) cacheRating(ctx context.Context, userID int64, rating int) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, userID, rating, s.cacheTTL); err != nil {
		s.logger.Warn("failed to cache fame rating", zap.Int64("user_id", userID), zap.Error(err))
	}
}
