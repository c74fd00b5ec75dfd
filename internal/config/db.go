package config

const (
	// EngineMySQL selects gorm.io/driver/mysql.
	EngineMySQL = "mysql"
	// EnginePostgres selects gorm.io/driver/postgres.
	EnginePostgres = "postgres"
	// EngineSQLite selects github.com/glebarez/sqlite.
	EngineSQLite = "sqlite"
)

// DB holds the database configuration settings.
type DB struct {
	Extras     string
	Host       string
	Port       int
	User       string
	Password   string `env:"INKWELL_DB_PASSWORD, overwrite"`
	Name       string
	Path       string // sqlite file, ":memory:" for a throwaway database
	GormEngine string // mysql, postgres or sqlite
	LogQueries bool   // log every statement through gorm's logger
}
