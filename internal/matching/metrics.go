package matching

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	matchScores = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "matching_match_scores",
			Help:    "Distribution of match scores",
			Buckets: prometheus.LinearBuckets(0, 10, 11),
		},
	)

	candidatesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "matching_candidates_total",
			Help: "Candidates seen per pipeline stage",
		},
		[]string{"stage"},
	)

	fameRatings = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "matching_fame_ratings",
			Help:    "Distribution of computed fame ratings",
			Buckets: prometheus.LinearBuckets(0, 10, 11),
		},
	)

	fameRatingFallbacks = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "matching_fame_rating_fallbacks_total",
			Help: "Fame rating reads that fell back to the default rating",
		},
	)

	fameUpdatesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "matching_fame_updates_total",
			Help: "Fame rating write-path attempts",
		},
		[]string{"status"},
	)

	requestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "matching_request_duration_seconds",
			Help: "Time spent producing ranked matches",
		},
		[]string{"action"},
	)
)

func RecordMatchScore(score float64) {
	matchScores.Observe(score)
}

func RecordCandidates(stage string, n int) {
	candidatesTotal.WithLabelValues(stage).Add(float64(n))
}

func RecordFameRating(rating int) {
	fameRatings.Observe(float64(rating))
}

func RecordFameFallback() {
	fameRatingFallbacks.Inc()
}

func RecordFameUpdate(status string) {
	fameUpdatesTotal.WithLabelValues(status).Inc()
}

func RecordRequestDuration(action string, duration time.Duration) {
	requestDuration.WithLabelValues(action).Observe(duration.Seconds())
}
