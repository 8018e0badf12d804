package persistence

import (
	"database/sql"
	"fmt"
	"net/url"
	"time"

	"scriptgo/infrastructure/configuration"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/lib/pq"
)

// PostgresDSN builds a postgres:// URL from the psql config block.
func PostgresDSN(cfg configuration.Db) string {
	q := url.Values{}
	sslMode := cfg.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	q.Set("sslmode", sslMode)
	u := &url.URL{
		Scheme:   "postgres",
		Host:     fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Path:     "/" + cfg.Name,
		RawQuery: q.Encode(),
	}
	if cfg.User != "" {
		if cfg.Password != "" {
			u.User = url.UserPassword(cfg.User, cfg.Password)
		} else {
			u.User = url.User(cfg.User)
		}
	}
	return u.String()
}

// postgresDriverName maps the configured driver to a registered database/sql driver.
func postgresDriverName(driver string) string {
	if driver == "pgx" {
		return "pgx"
	}
	return "postgres"
}

// NewPostgreSQLDB opens the scripts database with lib/pq, or pgx when database.driver is "pgx".
func NewPostgreSQLDB() (*sql.DB, error) {
	cfg := configuration.C.Database
	db, err := sql.Open(postgresDriverName(cfg.Driver), PostgresDSN(cfg.Psql))
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(10)
	db.SetConnMaxIdleTime(5 * time.Minute)
	db.SetConnMaxLifetime(30 * time.Minute)
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}
