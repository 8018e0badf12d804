package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

var scriptSchemaPostgres = []string{
	`CREATE TABLE IF NOT EXISTS scripts (
    id TEXT PRIMARY KEY,
    user_id TEXT NOT NULL,
    title TEXT NOT NULL,
    platform TEXT NOT NULL,
    tone TEXT,
    language TEXT,
    framework TEXT,
    length TEXT,
    content TEXT,
    scheduled_date DATE,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`,
	`CREATE INDEX IF NOT EXISTS idx_scripts_user_created ON scripts (user_id, created_at DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_scripts_user_scheduled ON scripts (user_id, scheduled_date) WHERE scheduled_date IS NOT NULL`,
}

// Columns added after the first release of the scripts table.
var scriptColumnChecks = []struct {
	table  string
	column string
	ddl    string
}{
	{"scripts", "framework", "ALTER TABLE scripts ADD COLUMN framework TEXT"},
	{"scripts", "length", "ALTER TABLE scripts ADD COLUMN length TEXT"},
	{"scripts", "scheduled_date", "ALTER TABLE scripts ADD COLUMN scheduled_date DATE"},
}

// EnsureScriptSchema creates the scripts table and adds missing columns. Safe to call at startup.
func EnsureScriptSchema(db *sql.DB) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	for _, stmt := range scriptSchemaPostgres {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure scripts schema: %w", err)
		}
	}
	for _, c := range scriptColumnChecks {
		exists, err := columnExists(ctx, db, c.table, c.column)
		if err != nil {
			return err
		}
		if !exists {
			if _, err := db.ExecContext(ctx, c.ddl); err != nil {
				return fmt.Errorf("adding column %s.%s failed: %w", c.table, c.column, err)
			}
		}
	}
	return nil
}

func columnExists(ctx context.Context, db *sql.DB, table, column string) (bool, error) {
	row := db.QueryRowContext(ctx, `SELECT 1 FROM information_schema.columns WHERE table_name=$1 AND column_name=$2`, table, column)
	var one int
	if err := row.Scan(&one); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
