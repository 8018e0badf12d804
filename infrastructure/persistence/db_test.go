package persistence

import (
	"testing"

	"scriptgo/infrastructure/configuration"

	"github.com/stretchr/testify/assert"
)

func TestPostgresDSN(t *testing.T) {
	dsn := PostgresDSN(configuration.Db{Name: "scriptgo", Host: "db", Port: "5432", User: "app", Password: "p@ss"})
	assert.Equal(t, "postgres://app:p%40ss@db:5432/scriptgo?sslmode=disable", dsn)

	dsn = PostgresDSN(configuration.Db{Name: "scriptgo", Host: "db", Port: "5432", SSLMode: "require"})
	assert.Equal(t, "postgres://db:5432/scriptgo?sslmode=require", dsn)
}

func TestPostgresDriverName(t *testing.T) {
	assert.Equal(t, "pgx", postgresDriverName("pgx"))
	assert.Equal(t, "postgres", postgresDriverName("postgres"))
	assert.Equal(t, "postgres", postgresDriverName(""))
}

func TestMSSQLDSN(t *testing.T) {
	dsn := MSSQLDSN(configuration.Db{Name: "scriptgo", Host: "localhost", Port: "1433", User: "sa", Password: "pw"})
	assert.Equal(t, "sqlserver://sa:pw@localhost:1433?TrustServerCertificate=true&database=scriptgo&encrypt=true", dsn)

	dsn = MSSQLDSN(configuration.Db{Name: "scriptgo", Host: "prod.database.windows.net", Port: "1433", User: "app"})
	assert.Equal(t, "sqlserver://app@prod.database.windows.net:1433?database=scriptgo&encrypt=true", dsn)
}

func TestMySQLDSN(t *testing.T) {
	dsn := MySQLDSN(configuration.Db{Name: "scriptgo", Host: "127.0.0.1", Port: "3306", User: "root", Password: "pw"})
	assert.Equal(t, "root:pw@tcp(127.0.0.1:3306)/scriptgo?charset=utf8mb4&parseTime=True&loc=UTC&clientFoundRows=true", dsn)
}
