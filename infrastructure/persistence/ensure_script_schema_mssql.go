package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// EnsureScriptSchemaMSSQL creates dbo.scripts and adds missing columns on SQL Server.
func EnsureScriptSchemaMSSQL(db *sql.DB) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	create := `IF OBJECT_ID('dbo.scripts', 'U') IS NULL
BEGIN
  CREATE TABLE dbo.[scripts] (
    id NVARCHAR(36) NOT NULL PRIMARY KEY,
    user_id NVARCHAR(64) NOT NULL,
    title NVARCHAR(512) NOT NULL,
    platform NVARCHAR(32) NOT NULL,
    tone NVARCHAR(64) NULL,
    language NVARCHAR(64) NULL,
    framework NVARCHAR(64) NULL,
    length NVARCHAR(64) NULL,
    content NVARCHAR(MAX) NULL,
    scheduled_date DATE NULL,
    created_at DATETIME2 NOT NULL DEFAULT SYSUTCDATETIME()
  );
  CREATE INDEX idx_scripts_user_created ON dbo.[scripts] (user_id, created_at DESC);
END`
	if _, err := db.ExecContext(ctx, create); err != nil {
		return fmt.Errorf("ensure scripts schema: %w", err)
	}

	addIfMissing := func(table, column, ddl string) error {
		q := fmt.Sprintf(`IF COL_LENGTH('%s', '%s') IS NULL BEGIN %s END`, table, column, ddl)
		if _, err := db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("ensure column %s.%s: %w", table, column, err)
		}
		return nil
	}
	if err := addIfMissing("dbo.scripts", "framework", "ALTER TABLE dbo.[scripts] ADD framework NVARCHAR(64) NULL"); err != nil {
		return err
	}
	if err := addIfMissing("dbo.scripts", "scheduled_date", "ALTER TABLE dbo.[scripts] ADD scheduled_date DATE NULL"); err != nil {
		return err
	}
	return nil
}
