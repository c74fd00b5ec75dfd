// Package dsn provides Data Source Name construction utilities for database connections.
package dsn

import (
	"fmt"
	"strings"

	"github.com/inkwell-api/inkwell/internal/config"
)

const sqliteForeignKeys = "_pragma=foreign_keys(1)"

// Create builds the Data Source Name for the configured engine.
func Create(cfg *config.Config) string {
	switch cfg.DB.GormEngine {
	case config.EnginePostgres:
		return Postgres(&cfg.DB)
	case config.EngineSQLite:
		return SQLite(&cfg.DB)
	default:
		return MySQL(&cfg.DB)
	}
}

// MySQL builds a go-sql-driver/mysql DSN.
func MySQL(db *config.DB) string {
	out := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?%s",
		db.User,
		db.Password,
		db.Host,
		db.Port,
		db.Name,
		db.Extras,
	)

	return out
}

// Postgres builds a pgx keyword/value DSN. Extras are appended verbatim, e.g. "sslmode=disable".
func Postgres(db *config.DB) string {
	out := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s",
		db.Host,
		db.Port,
		db.User,
		db.Password,
		db.Name,
	)

	if db.Extras != "" {
		out += " " + db.Extras
	}

	return out
}

// SQLite builds a file DSN with foreign keys enforced. An empty path opens a private in-memory database.
func SQLite(db *config.DB) string {
	path := db.Path
	if path == "" {
		path = ":memory:"
	}

	params := []string{sqliteForeignKeys}
	if db.Extras != "" {
		params = append(params, db.Extras)
	}

	return path + "?" + strings.Join(params, "&")
}
