package matching

import (
	"slices"
	"sort"
)

// FilterByFameRange keeps matches whose fame rating is within fameRange
// (inclusive). A nil range keeps everything.
func FilterByFameRange(matches []*ScoredProfile, fameRange *Range) []*ScoredProfile {
	if fameRange == nil {
		return matches
	}

	filtered := make([]*ScoredProfile, 0, len(matches))
	for _, m := range matches {
		if fameRange.Contains(m.FameRating) {
			filtered = append(filtered, m)
		}
	}
	return filtered
}

// SortMatches returns a stably sorted copy of matches. Equal keys keep their
// input order. An unknown SortBy returns the input order unchanged.
//
// Sorting by location only partitions matches on whether they are in the
// requester's city: first when ascending, last when descending.
func SortMatches(matches []*ScoredProfile, opts SortOptions, filters *MatchFilters) []*ScoredProfile {
	sorted := slices.Clone(matches)

	key := sortKey(opts.SortBy, filters)
	if key == nil {
		return sorted
	}

	keys := make(map[*ScoredProfile]float64, len(sorted))
	for _, m := range sorted {
		keys[m] = key(m)
	}

	desc := opts.Order == OrderDesc
	sort.SliceStable(sorted, func(i, j int) bool {
		if desc {
			return keys[sorted[i]] > keys[sorted[j]]
		}
		return keys[sorted[i]] < keys[sorted[j]]
	})

	return sorted
}

func sortKey(sortBy string, filters *MatchFilters) func(*ScoredProfile) float64 {
	switch sortBy {
	case SortByAge:
		return func(m *ScoredProfile) float64 { return float64(m.Age) }
	case SortByFameRating:
		return func(m *ScoredProfile) float64 { return float64(m.FameRating) }
	case SortByMatchScore:
		return func(m *ScoredProfile) float64 { return m.MatchScore }
	case SortByLocation:
		var city string
		if filters != nil {
			city = filters.Location.City
		}
		return func(m *ScoredProfile) float64 {
			if sameLocationPart(city, m.Location.City) {
				return 0
			}
			return 1
		}
	case SortByCommonTags:
		var interests []string
		if filters != nil {
			interests = filters.Interests
		}
		return func(m *ScoredProfile) float64 {
			return float64(CountCommonInterests(interests, m.Interests))
		}
	default:
		return nil
	}
}
