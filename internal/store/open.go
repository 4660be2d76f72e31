package store

import (
	"context"
	"database/sql"

	_ "github.com/go-sql-driver/mysql"
	"github.com/pkg/errors"
	"gitlab.com/dirk.krummacker/contact-directory/internal/config"
	_ "modernc.org/sqlite"
)

// Open returns the store selected by the DBDRIVER setting.
func Open(cfg *config.Config) (Store, error) {
	if cfg.DBDriver == "file" {
		return OpenFile(cfg.DBFile)
	}
	sqlDB, driverName, err := OpenDB(cfg)
	if err != nil {
		return nil, err
	}
	if driverName == "sqlite3" {
		// The embedded database has no separate migration step.
		if err := Migrate(context.Background(), sqlDB); err != nil {
			sqlDB.Close()
			return nil, err
		}
	}
	return NewSQLStore(sqlDB, driverName)
}

// OpenDB opens the SQL database selected by the DBDRIVER setting. The returned driver name is
// the one sqlx uses for bind variables.
func OpenDB(cfg *config.Config) (*sql.DB, string, error) {
	switch cfg.DBDriver {
	case "mysql":
		// clientFoundRows makes UPDATE report matched rather than changed rows, otherwise saving
		// unchanged values would look like a missing contact.
		sqlDB, err := sql.Open("mysql", cfg.MySQLDSN()+"&clientFoundRows=true")
		if err != nil {
			return nil, "", errors.Wrap(err, "open mysql")
		}
		return sqlDB, "mysql", nil
	case "sqlite":
		sqlDB, err := OpenSQLite(cfg.DBFile)
		if err != nil {
			return nil, "", err
		}
		return sqlDB, "sqlite3", nil
	}
	return nil, "", errors.Errorf("DBDRIVER %q is not an SQL database", cfg.DBDriver)
}

// OpenSQLite opens an SQLite database file, or an in-memory database for ":memory:".
func OpenSQLite(path string) (*sql.DB, error) {
	sqlDB, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrap(err, "open sqlite")
	}
	// An in-memory database exists per connection.
	sqlDB.SetMaxOpenConns(1)
	return sqlDB, nil
}
