// internal/matching/service.go

package matching

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
)

var (
	ErrUserNotFound   = errors.New("user not found")
	ErrInvalidFilters = errors.New("invalid match filters")
)

type Service interface {
	// Matching
	GetPotentialMatches(ctx context.Context, userID int64, filters *MatchFilters) ([]*ScoredProfile, error)
	GetFilteredAndSortedMatches(ctx context.Context, userID int64, filters *MatchFilters, opts *SortOptions) ([]*ScoredProfile, error)

	// Fame rating
	CalculateFameRating(ctx context.Context, userID int64) int
	UpdateFameRating(ctx context.Context, userID int64) (int, error)
}

type service struct {
	repo   Repository
	fame   *FameService
	logger *zap.Logger
	now    func() time.Time
}

func NewService(repo Repository, fame *FameService, logger *zap.Logger) Service {
	return &service{
		repo:   repo,
		fame:   fame,
		logger: logger,
		now:    time.Now,
	}
}

// GetPotentialMatches loads the candidate pool for userID and runs it through
// the filter and score pipeline. Store errors are returned as they are.
func (s *service) GetPotentialMatches(ctx context.Context, userID int64, filters *MatchFilters) ([]*ScoredProfile, error) {
	if filters == nil {
		return nil, ErrInvalidFilters
	}

	candidates, err := s.repo.FindCandidates(ctx, &CandidateQuery{
		ExcludeUserID:    userID,
		SexualPreference: filters.SexualPreference,
		City:             filters.Location.City,
		Country:          filters.Location.Country,
	})
	if err != nil {
		return nil, err
	}
	RecordCandidates("pool", len(candidates))

	matches := FilterAndScoreMatches(candidates, filters, s.now())
	RecordCandidates("scored", len(matches))

	s.logger.Debug("potential matches computed",
		zap.Int64("user_id", userID),
		zap.Int("pool", len(candidates)),
		zap.Int("matches", len(matches)),
	)

	return matches, nil
}

// GetFilteredAndSortedMatches applies the fame range filter and the requested
// ordering on top of GetPotentialMatches. A nil opts keeps the score order.
func (s *service) GetFilteredAndSortedMatches(ctx context.Context, userID int64, filters *MatchFilters, opts *SortOptions) ([]*ScoredProfile, error) {
	start := time.Now()
	defer func() {
		RecordRequestDuration("filtered_sorted", time.Since(start))
	}()

	matches, err := s.GetPotentialMatches(ctx, userID, filters)
	if err != nil {
		return nil, err
	}

	matches = FilterByFameRange(matches, filters.FameRange)
	RecordCandidates("fame_filtered", len(matches))

	if opts != nil {
		matches = SortMatches(matches, *opts, filters)
	}

	return matches, nil
}

func (s *service) CalculateFameRating(ctx context.Context, userID int64) int {
	return s.fame.CalculateFameRating(ctx, userID)
}

func (s *service) UpdateFameRating(ctx context.Context, userID int64) (int, error) {
	return s.fame.UpdateFameRating(ctx, userID)
}
