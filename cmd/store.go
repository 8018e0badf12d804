package cmd

import (
	"database/sql"
	"fmt"

	"scriptgo/domain/repository"
	"scriptgo/infrastructure/configuration"
	"scriptgo/infrastructure/logger"
	"scriptgo/infrastructure/persistence"
)

const (
	vendorPostgres = "postgres"
	vendorMSSQL    = "mssql"
	vendorMySQL    = "mysql"
)

// scriptStore is the opened primary database for the configured vendor.
type scriptStore struct {
	vendor  string
	db      *sql.DB
	scripts repository.IScript
}

func (s *scriptStore) Close() {
	if s == nil || s.db == nil {
		return
	}
	if err := s.db.Close(); err != nil {
		logger.GetLogger().WithField("error", err).Warn("Error while closing database")
	}
}

// openScriptStore connects to the vendor's database. When migrate is set the schema is
// bootstrapped before the repository is returned.
func openScriptStore(vendor string, migrate bool) (*scriptStore, error) {
	switch vendor {
	case vendorMSSQL:
		db, err := persistence.NewMSSQLDB()
		if err != nil {
			return nil, fmt.Errorf("connect mssql: %w", err)
		}
		if migrate {
			if err := persistence.EnsureScriptSchemaMSSQL(db); err != nil {
				_ = db.Close()
				return nil, fmt.Errorf("ensure mssql schema: %w", err)
			}
		}
		return &scriptStore{vendor: vendor, db: db, scripts: persistence.NewScriptRepositoryMSSQL(db)}, nil
	case vendorMySQL:
		// gorm migrates the table while opening.
		gdb, err := persistence.NewRepositories()
		if err != nil {
			return nil, fmt.Errorf("connect mysql: %w", err)
		}
		db, err := gdb.DB()
		if err != nil {
			return nil, err
		}
		return &scriptStore{vendor: vendor, db: db, scripts: persistence.NewScriptRepositoryGorm(gdb)}, nil
	case vendorPostgres, "":
		db, err := persistence.NewPostgreSQLDB()
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		if migrate {
			if err := persistence.EnsureScriptSchema(db); err != nil {
				_ = db.Close()
				return nil, fmt.Errorf("ensure postgres schema: %w", err)
			}
		}
		return &scriptStore{vendor: vendorPostgres, db: db, scripts: persistence.NewScriptRepository(db)}, nil
	}
	return nil, fmt.Errorf("unsupported database vendor %q", vendor)
}

func configuredVendor(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	return configuration.C.Database.Vendor
}
