package matching

import (
	"sort"
	"time"
)

// RequesterProfile builds the synthetic profile candidates are scored
// against: the filter's location and interests, a default fame rating and
// the midpoint of the requested age range.
func RequesterProfile(filters *MatchFilters) *Profile {
	return &Profile{
		Gender:           GenderAny,
		SexualPreference: filters.SexualPreference,
		Location:         filters.Location,
		Interests:        filters.Interests,
		FameRating:       DefaultFameRating,
		Age:              filters.AgeRange.Midpoint(),
	}
}

// FilterAndScoreMatches keeps candidates inside the age range that share at
// least one interest with the filters, scores them and orders them by
// descending match score. Candidates without a birth date are dropped.
// Input profiles are not modified.
func FilterAndScoreMatches(candidates []*Profile, filters *MatchFilters, now time.Time) []*ScoredProfile {
	scored := make([]*ScoredProfile, 0, len(candidates))
	if filters == nil {
		return scored
	}

	requester := RequesterProfile(filters)

	for _, candidate := range candidates {
		if candidate == nil || candidate.BirthDate == nil {
			continue
		}

		profile := *candidate
		profile.Age = CalculateAge(*candidate.BirthDate, now)

		if !filters.AgeRange.Contains(profile.Age) {
			continue
		}
		if CountCommonInterests(filters.Interests, profile.Interests) == 0 {
			continue
		}

		score := CalculateMatchScore(requester, &profile)
		RecordMatchScore(score)

		scored = append(scored, &ScoredProfile{
			Profile:    profile,
			MatchScore: score,
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].MatchScore > scored[j].MatchScore
	})

	return scored
}
