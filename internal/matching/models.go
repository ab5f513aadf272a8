// internal/matching/models.go

package matching

import "time"

const (
	// GenderAny marks the synthetic requester profile built from filters.
	GenderAny = "*"

	SexualPreferenceMale   = "male"
	SexualPreferenceFemale = "female"
	SexualPreferenceBoth   = "both"
)

// Location is the coarse city/country location used for scoring
type Location struct {
	City    string `json:"city" db:"city"`
	Country string `json:"country" db:"country"`
}

// Profile is a candidate (or the requester) as seen by the matching engine.
// Age is derived from BirthDate at evaluation time and never persisted.
type Profile struct {
	ID               int64      `json:"id" db:"id"`
	Username         string     `json:"username" db:"username"`
	Gender           string     `json:"gender" db:"gender"`
	SexualPreference string     `json:"sexual_preferences" db:"sexual_preferences"`
	Location         Location   `json:"location"`
	BirthDate        *time.Time `json:"birth_date,omitempty" db:"birth_date"`
	Age              int        `json:"age" db:"-"`
	Interests        []string   `json:"interests" db:"interests"`
	FameRating       int        `json:"fame_rating" db:"fame_rating"`
}

// ScoredProfile is a profile paired with its match score against the requester
type ScoredProfile struct {
	Profile
	MatchScore float64 `json:"match_score"`
}

// Range is an inclusive integer interval
type Range struct {
	Min int `json:"min" validate:"gte=0"`
	Max int `json:"max" validate:"gtefield=Min"`
}

// Contains reports whether v lies within [Min, Max]
func (r Range) Contains(v int) bool {
	return v >= r.Min && v <= r.Max
}

// Midpoint returns the integer midpoint of the range
func (r Range) Midpoint() int {
	return (r.Min + r.Max) / 2
}

// MatchFilters is what a requester asks for when browsing candidates.
// Distance is accepted but not used in scoring.
type MatchFilters struct {
	AgeRange         Range    `json:"age_range"`
	Distance         float64  `json:"distance" validate:"gte=0"`
	Interests        []string `json:"interests" validate:"max=50,dive,max=64"`
	SexualPreference string   `json:"sexual_preference" validate:"omitempty,oneof=male female both"`
	Location         Location `json:"location"`
	FameRange        *Range   `json:"fame_range,omitempty"`
}

const (
	SortByAge        = "age"
	SortByLocation   = "location"
	SortByFameRating = "fameRating"
	SortByCommonTags = "commonTags"
	SortByMatchScore = "matchScore"

	OrderAsc  = "asc"
	OrderDesc = "desc"
)

// SortOptions selects the secondary ordering applied after filtering
type SortOptions struct {
	SortBy string `json:"sort_by"`
	Order  string `json:"order" validate:"omitempty,oneof=asc desc"`
}

// CandidateQuery is the coarse store-level filter for the candidate pool
type CandidateQuery struct {
	ExcludeUserID    int64
	SexualPreference string
	City             string
	Country          string
}

// FameStats are the engagement counters the fame rating is derived from.
// Store readers normalize NULLs to zero/false before returning them.
type FameStats struct {
	PhotoCount        int        `json:"photo_count" db:"photo_count"`
	FlashesReceived   int        `json:"flashes_received" db:"flashes_received"`
	ProfileViews      int        `json:"profile_views" db:"profile_views"`
	MessagesReceived  int        `json:"messages_received" db:"messages_received"`
	MessagesAnswered  int        `json:"messages_answered" db:"messages_answered"`
	LastActivity      *time.Time `json:"last_activity,omitempty" db:"last_activity"`
	IsProfileComplete bool       `json:"is_profile_complete" db:"is_profile_complete"`
}
