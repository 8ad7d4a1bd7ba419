package database

import (
	"context"
	"database/sql"
	"fmt"
)

const moviesTableSQL = `
	CREATE TABLE IF NOT EXISTS movies (
		id BIGSERIAL PRIMARY KEY,
		external_id BIGINT NOT NULL,
		title TEXT NOT NULL,
		year INTEGER NOT NULL DEFAULT 0,
		description TEXT NOT NULL,
		rating DOUBLE PRECISION,
		ranking INTEGER NOT NULL DEFAULT 0,
		review TEXT,
		img_url TEXT NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		CONSTRAINT movies_rating_range CHECK (rating IS NULL OR (rating >= 0 AND rating <= 10))
	);

	CREATE UNIQUE INDEX IF NOT EXISTS movies_external_id_key ON movies (external_id);

	ALTER TABLE movies ALTER COLUMN title TYPE TEXT;
`

// RunMigrations creates the schema when it does not exist yet and widens
// title on tables created with the old VARCHAR(250) column.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, moviesTableSQL); err != nil {
		return fmt.Errorf("failed to run movies migration: %w", err)
	}
	return nil
}
