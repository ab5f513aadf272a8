package matching

import (
	"math"
	"strings"
)

// Score weights. Location, interests and fame proximity add up to 100.
const (
	CityWeight          = 50.0
	CountryWeight       = CityWeight / 2
	InterestWeight      = 30.0
	FameProximityFactor = 0.2 // (100 - |diff|) * 0.2 gives at most 20 points

	MaxMatchScore = 100.0
)

// CalculateMatchScore scores candidate against requester in [0, 100].
//
// The formula is not symmetric: the interest ratio is taken over the
// requester's interests, so swapping the arguments can change the result.
func CalculateMatchScore(requester, candidate *Profile) float64 {
	score := locationScore(requester.Location, candidate.Location) +
		interestScore(requester.Interests, candidate.Interests) +
		fameProximityScore(requester.FameRating, candidate.FameRating)

	return math.Min(MaxMatchScore, math.Max(0, score))
}

func locationScore(a, b Location) float64 {
	if sameLocationPart(a.City, b.City) {
		return CityWeight
	}
	if sameLocationPart(a.Country, b.Country) {
		return CountryWeight
	}
	return 0
}

func sameLocationPart(a, b string) bool {
	a = strings.TrimSpace(a)
	return a != "" && strings.EqualFold(a, strings.TrimSpace(b))
}

func interestScore(requester, candidate []string) float64 {
	base := normalizeInterests(requester)
	common := countCommon(base, normalizeInterests(candidate))

	return float64(common) / float64(max(len(base), 1)) * InterestWeight
}

func fameProximityScore(a, b int) float64 {
	diff := math.Abs(float64(clampRating(a) - clampRating(b)))
	return (100 - diff) * FameProximityFactor
}

// CountCommonInterests counts the distinct interests of a that also appear
// in b, comparing case-insensitively.
func CountCommonInterests(a, b []string) int {
	return countCommon(normalizeInterests(a), normalizeInterests(b))
}

func countCommon(a, b map[string]struct{}) int {
	count := 0
	for tag := range a {
		if _, ok := b[tag]; ok {
			count++
		}
	}
	return count
}

func normalizeInterests(tags []string) map[string]struct{} {
	set := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag == "" {
			continue
		}
		set[tag] = struct{}{}
	}
	return set
}

func clampRating(r int) int {
	return min(100, max(0, r))
}
