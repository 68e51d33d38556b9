package database

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// Store is the SQL-backed progress store. It implements progress.Store over
// sqlite or postgres, selected by the DB_TYPE environment variable.
type Store struct {
	db     *sqlx.DB
	dbType string
}

// Connect opens the database connection and initializes the schema. With
// DB_TYPE=postgres the DATABASE_URL variable supplies the DSN; the default
// is a sqlite file under the data directory.
func Connect() (*Store, error) {
	dbType := os.Getenv("DB_TYPE")
	if dbType == "" {
		dbType = "sqlite"
	}

	var db *sqlx.DB
	var err error
	switch dbType {
	case "postgres":
		db, err = sqlx.Connect("postgres", os.Getenv("DATABASE_URL"))
		if err != nil {
			return nil, fmt.Errorf("failed to connect to postgres: %v", err)
		}
	default:
		dataDir := os.Getenv("DATA_DIR")
		if dataDir == "" {
			dataDir = "data"
		}
		if err := os.MkdirAll(dataDir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %v", err)
		}
		dbPath := filepath.Join(dataDir, "signtutor.db")
		db, err = sqlx.Connect("sqlite3", dbPath)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %v", err)
		}
		if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
			return nil, fmt.Errorf("failed to enable foreign keys: %v", err)
		}
		// SQLite doesn't support multiple writers
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
	}

	store := &Store{db: db, dbType: dbType}
	if err := store.initializeSchema(); err != nil {
		return nil, err
	}
	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// initializeSchema creates necessary tables if they don't exist.
func (s *Store) initializeSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS categories (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS signs (
			id TEXT PRIMARY KEY,
			category_id TEXT NOT NULL,
			name TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			image_path TEXT NOT NULL DEFAULT '',
			difficulty INTEGER NOT NULL DEFAULT 0,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (category_id) REFERENCES categories(id)
		)`,
		`CREATE TABLE IF NOT EXISTS learning_records (
			item_id TEXT PRIMARY KEY,
			category_id TEXT NOT NULL,
			total_attempts INTEGER NOT NULL DEFAULT 0,
			correct_attempts INTEGER NOT NULL DEFAULT 0,
			ease_factor REAL NOT NULL DEFAULT 2.5,
			interval_days INTEGER NOT NULL DEFAULT 0,
			repetitions INTEGER NOT NULL DEFAULT 0,
			next_review_date TIMESTAMP NOT NULL,
			last_attempt_date TIMESTAMP,
			average_response_time_ms REAL NOT NULL DEFAULT 3000,
			last_quality INTEGER,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS category_stats (
			category_id TEXT PRIMARY KEY,
			total_attempts INTEGER NOT NULL DEFAULT 0,
			correct_attempts INTEGER NOT NULL DEFAULT 0,
			last_practiced_date TIMESTAMP NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS quiz_sessions (
			id TEXT PRIMARY KEY,
			date TIMESTAMP NOT NULL,
			categories TEXT NOT NULL DEFAULT '[]',
			mode TEXT NOT NULL,
			difficulty TEXT NOT NULL DEFAULT '',
			question_type TEXT NOT NULL DEFAULT '',
			total_questions INTEGER NOT NULL,
			correct_answers INTEGER NOT NULL,
			missed_items TEXT NOT NULL DEFAULT '[]',
			percentage INTEGER NOT NULL,
			duration_ms INTEGER NOT NULL,
			best_streak INTEGER NOT NULL
		)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to initialize schema: %v", err)
		}
	}
	return nil
}
