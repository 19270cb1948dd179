package database

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// DB is the global database connection
var DB *sqlx.DB

// Connect establishes a connection to the database. DB_TYPE selects the
// backend: "postgres" connects to DATABASE_URL (the hosted Supabase
// instance), anything else opens a local SQLite file.
func Connect() error {
	dbType := os.Getenv("DB_TYPE")
	if dbType == "postgres" {
		dsn := os.Getenv("DATABASE_URL")
		if dsn == "" {
			return fmt.Errorf("DATABASE_URL environment variable is not set")
		}
		db, err := sqlx.Connect("postgres", dsn)
		if err != nil {
			return fmt.Errorf("failed to connect to postgres: %v", err)
		}
		DB = db
		return initializeSchema("postgres")
	}

	// Create data directory if it doesn't exist
	dataDir := "data"
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return fmt.Errorf("failed to create data directory: %v", err)
	}

	dbPath := filepath.Join(dataDir, "flowbot.db")
	db, err := sqlx.Connect("sqlite3", dbPath)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %v", err)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return fmt.Errorf("failed to enable foreign keys: %v", err)
	}

	// SQLite doesn't support multiple writers
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	DB = db
	return initializeSchema("sqlite")
}

// Close closes the database connection
func Close() error {
	if DB != nil {
		return DB.Close()
	}
	return nil
}

// initializeSchema creates necessary tables if they don't exist
func initializeSchema(dbType string) error {
	serialPK := "INTEGER PRIMARY KEY AUTOINCREMENT"
	if dbType == "postgres" {
		serialPK = "BIGSERIAL PRIMARY KEY"
	}

	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
			telegram_id BIGINT PRIMARY KEY,
			username TEXT NOT NULL DEFAULT '',
			first_name TEXT NOT NULL DEFAULT '',
			last_name TEXT NOT NULL DEFAULT '',
			level INTEGER NOT NULL DEFAULT 1,
			current_streak INTEGER NOT NULL DEFAULT 0,
			longest_streak INTEGER NOT NULL DEFAULT 0,
			onboarding_completed BOOLEAN NOT NULL DEFAULT FALSE,
			notification_enabled BOOLEAN NOT NULL DEFAULT TRUE,
			morning_hour INTEGER NOT NULL DEFAULT 8,
			evening_hour INTEGER NOT NULL DEFAULT 21,
			is_admin BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		)`,
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS tasks (
			id %s,
			user_id BIGINT NOT NULL,
			task_date TEXT NOT NULL,
			task_text TEXT NOT NULL,
			task_type TEXT NOT NULL,
			position INTEGER NOT NULL,
			completed BOOLEAN NOT NULL DEFAULT FALSE,
			completed_at TEXT,
			is_custom BOOLEAN NOT NULL DEFAULT FALSE,
			custom_task_id TEXT,
			created_at TEXT NOT NULL
		)`, serialPK),
		`CREATE INDEX IF NOT EXISTS idx_tasks_user_date ON tasks (user_id, task_date)`,
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS daily_stats (
			id %s,
			user_id BIGINT NOT NULL,
			stat_date TEXT NOT NULL,
			total_tasks INTEGER NOT NULL DEFAULT 0,
			completed_total INTEGER NOT NULL DEFAULT 0,
			completed_easy INTEGER NOT NULL DEFAULT 0,
			completed_standard INTEGER NOT NULL DEFAULT 0,
			completed_hard INTEGER NOT NULL DEFAULT 0,
			magic_completed BOOLEAN NOT NULL DEFAULT FALSE,
			flow_score INTEGER NOT NULL DEFAULT 0,
			productivity_index INTEGER NOT NULL DEFAULT 0,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL,
			UNIQUE (user_id, stat_date)
		)`, serialPK),
		`CREATE TABLE IF NOT EXISTS streaks (
			user_id BIGINT PRIMARY KEY,
			current_streak INTEGER NOT NULL DEFAULT 0,
			longest_streak INTEGER NOT NULL DEFAULT 0,
			total_days INTEGER NOT NULL DEFAULT 0,
			last_completed_date TEXT,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS library_tasks (
			id TEXT PRIMARY KEY,
			user_id BIGINT NOT NULL,
			task_text TEXT NOT NULL,
			task_type TEXT NOT NULL,
			category TEXT NOT NULL DEFAULT 'mental',
			created_at TEXT NOT NULL
		)`,
	}

	for _, stmt := range statements {
		if _, err := DB.Exec(stmt); err != nil {
			return fmt.Errorf("failed to initialize schema: %v", err)
		}
	}
	return nil
}
