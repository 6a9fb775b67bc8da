package db

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS fitness_record
(
    id            INTEGER PRIMARY KEY AUTOINCREMENT,
    user_id       TEXT    NOT NULL,
    steps         INTEGER NOT NULL,
    distance      REAL    NOT NULL,
    calories      REAL    NOT NULL,
    activity_type TEXT    NOT NULL,
    timestamp     INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS ix_fitness_record_user_ts ON fitness_record (user_id, timestamp);
`

// NewSqliteDB opens (and creates if needed) the local sqlite database used
// by development setups that run without postgres.
func NewSqliteDB(ctx context.Context, path string) (*sql.DB, error) {
	sqlDB, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db %s: %w", path, err)
	}
	// sqlite allows a single writer
	sqlDB.SetMaxOpenConns(1)

	if _, err := sqlDB.ExecContext(ctx, sqliteSchema); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("apply sqlite schema: %w", err)
	}
	return sqlDB, nil
}
