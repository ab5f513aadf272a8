// internal/matching/repository.go

package matching

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// Repository is the store boundary of the matching engine
type Repository interface {
	FameStore

	// Candidate pool
	FindCandidates(ctx context.Context, query *CandidateQuery) ([]*Profile, error)

	// Fame refresh
	GetRecentlyActiveUserIDs(ctx context.Context, since time.Time) ([]int64, error)
}

type postgresRepository struct {
	db *sqlx.DB
}

// NewPostgresRepository creates a PostgreSQL backed Repository
func NewPostgresRepository(db *sqlx.DB) Repository {
	return &postgresRepository{db: db}
}

type candidateRow struct {
	ID               int64          `db:"id"`
	Username         string         `db:"username"`
	Gender           sql.NullString `db:"gender"`
	SexualPreference sql.NullString `db:"sexual_preferences"`
	City             sql.NullString `db:"city"`
	Country          sql.NullString `db:"country"`
	BirthDate        sql.NullTime   `db:"birth_date"`
	FameRating       sql.NullInt64  `db:"fame_rating"`
	Interests        pq.StringArray `db:"interests"`
}

func (row *candidateRow) toProfile() *Profile {
	p := &Profile{
		ID:               row.ID,
		Username:         row.Username,
		Gender:           row.Gender.String,
		SexualPreference: row.SexualPreference.String,
		Location: Location{
			City:    row.City.String,
			Country: row.Country.String,
		},
		Interests:  []string(row.Interests),
		FameRating: DefaultFameRating,
	}
	if row.BirthDate.Valid {
		birthDate := row.BirthDate.Time
		p.BirthDate = &birthDate
	}
	if row.FameRating.Valid {
		p.FameRating = int(row.FameRating.Int64)
	}
	return p
}

// FindCandidates returns active users compatible with the requested sexual
// preference (or open to both) living in the same city or country.
// An empty preference does not constrain the pool.
func (r *postgresRepository) FindCandidates(ctx context.Context, q *CandidateQuery) ([]*Profile, error) {
	query := `
		SELECT
			u.id, u.username, u.gender, u.sexual_preferences,
			u.city, u.country, u.birth_date, u.fame_rating,
			COALESCE(u.interests, '{}') AS interests
		FROM users u
		WHERE u.id <> $1
			AND u.is_active = TRUE
			AND ($2 = '' OR u.sexual_preferences = $2 OR u.sexual_preferences = 'both')
			AND ((u.city = $3 AND $3 <> '') OR (u.country = $4 AND $4 <> ''))
		ORDER BY u.id`

	var rows []candidateRow
	err := r.db.SelectContext(ctx, &rows, query,
		q.ExcludeUserID, q.SexualPreference, q.City, q.Country,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to find candidates: %w", err)
	}

	candidates := make([]*Profile, 0, len(rows))
	for i := range rows {
		candidates = append(candidates, rows[i].toProfile())
	}

	return candidates, nil
}

type fameStatsRow struct {
	PhotoCount        sql.NullInt64 `db:"photo_count"`
	FlashesReceived   sql.NullInt64 `db:"flashes_received"`
	ProfileViews      sql.NullInt64 `db:"profile_views"`
	MessagesReceived  sql.NullInt64 `db:"messages_received"`
	MessagesAnswered  sql.NullInt64 `db:"messages_answered"`
	LastActivity      sql.NullTime  `db:"last_activity"`
	IsProfileComplete sql.NullBool  `db:"is_profile_complete"`
}

// GetFameStats reads the engagement counters of a user.
// A message counts as answered when the user later wrote back to its sender.
func (r *postgresRepository) GetFameStats(ctx context.Context, userID int64) (*FameStats, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM photos p WHERE p.user_id = u.id) AS photo_count,
			(SELECT COUNT(*) FROM flashes f WHERE f.receiver_id = u.id) AS flashes_received,
			(SELECT COUNT(*) FROM profile_views v WHERE v.viewed_id = u.id) AS profile_views,
			(SELECT COUNT(*) FROM messages m WHERE m.receiver_id = u.id) AS messages_received,
			(SELECT COUNT(*) FROM messages m
				WHERE m.receiver_id = u.id
				AND EXISTS (
					SELECT 1 FROM messages reply
					WHERE reply.sender_id = u.id
						AND reply.receiver_id = m.sender_id
						AND reply.created_at > m.created_at
				)) AS messages_answered,
			u.last_login AS last_activity,
			(u.gender IS NOT NULL
				AND u.sexual_preferences IS NOT NULL
				AND COALESCE(u.biography, '') <> ''
				AND u.birth_date IS NOT NULL) AS is_profile_complete
		FROM users u
		WHERE u.id = $1`

	var row fameStatsRow
	if err := r.db.GetContext(ctx, &row, query, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get fame stats: %w", err)
	}

	stats := &FameStats{
		PhotoCount:        int(row.PhotoCount.Int64),
		FlashesReceived:   int(row.FlashesReceived.Int64),
		ProfileViews:      int(row.ProfileViews.Int64),
		MessagesReceived:  int(row.MessagesReceived.Int64),
		MessagesAnswered:  int(row.MessagesAnswered.Int64),
		IsProfileComplete: row.IsProfileComplete.Bool,
	}
	if row.LastActivity.Valid {
		lastActivity := row.LastActivity.Time
		stats.LastActivity = &lastActivity
	}

	return stats, nil
}

func (r *postgresRepository) UpdateFameRating(ctx context.Context, userID int64, rating int) error {
	query := `
		UPDATE users
		SET fame_rating = $2, updated_at = CURRENT_TIMESTAMP
		WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, userID, rating)
	if err != nil {
		return fmt.Errorf("failed to update fame rating: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update fame rating: %w", err)
	}
	if affected == 0 {
		return ErrUserNotFound
	}

	return nil
}

func (r *postgresRepository) GetRecentlyActiveUserIDs(ctx context.Context, since time.Time) ([]int64, error) {
	query := `
		SELECT id FROM users
		WHERE is_active = TRUE AND last_login >= $1
		ORDER BY id`

	var ids []int64
	if err := r.db.SelectContext(ctx, &ids, query, since); err != nil {
		return nil, fmt.Errorf("failed to get active users: %w", err)
	}

	return ids, nil
}
