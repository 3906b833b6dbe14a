package config

// Database drivers understood by database.NewDatabase
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

const (
	// DefaultDatabasePath is the default path for the SQLite database
	DefaultDatabasePath = "./bookexchange.db"

	// DefaultAuditCleanupSchedule runs audit retention cleanup daily at 03:00
	DefaultAuditCleanupSchedule = "0 3 * * *"
)
