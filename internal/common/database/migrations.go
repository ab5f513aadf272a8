// internal/common/database/migrations.go
// Schema used by the matching engine

package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id SERIAL PRIMARY KEY,
		username VARCHAR(100) UNIQUE NOT NULL,
		gender VARCHAR(20),
		sexual_preferences VARCHAR(20) DEFAULT 'both',
		biography TEXT,
		birth_date DATE,
		city VARCHAR(100),
		country VARCHAR(100),
		interests TEXT[] DEFAULT '{}',
		fame_rating INTEGER NOT NULL DEFAULT 50 CHECK (fame_rating BETWEEN 0 AND 100),
		is_active BOOLEAN DEFAULT TRUE,
		last_login TIMESTAMP,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`,

	`CREATE TABLE IF NOT EXISTS photos (
		id SERIAL PRIMARY KEY,
		user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		url TEXT NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`,

	`CREATE TABLE IF NOT EXISTS flashes (
		id SERIAL PRIMARY KEY,
		sender_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		receiver_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		UNIQUE (sender_id, receiver_id)
	)`,

	`CREATE TABLE IF NOT EXISTS profile_views (
		id SERIAL PRIMARY KEY,
		viewer_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		viewed_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		viewed_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`,

	`CREATE TABLE IF NOT EXISTS messages (
		id SERIAL PRIMARY KEY,
		sender_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		receiver_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		content TEXT NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`,

	// Indexes
	`CREATE INDEX IF NOT EXISTS idx_users_location ON users(country, city) WHERE is_active = TRUE`,
	`CREATE INDEX IF NOT EXISTS idx_users_last_login ON users(last_login)`,
	`CREATE INDEX IF NOT EXISTS idx_photos_user ON photos(user_id)`,
	`CREATE INDEX IF NOT EXISTS idx_flashes_receiver ON flashes(receiver_id)`,
	`CREATE INDEX IF NOT EXISTS idx_profile_views_viewed ON profile_views(viewed_id)`,
	`CREATE INDEX IF NOT EXISTS idx_messages_receiver ON messages(receiver_id, sender_id, created_at)`,
	`CREATE INDEX IF NOT EXISTS idx_messages_sender ON messages(sender_id, receiver_id, created_at)`,
}

// RunMigrations creates the tables the matching engine reads from
func RunMigrations(ctx context.Context, db *sqlx.DB) error {
	for i, stmt := range migrations {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}
	return nil
}
