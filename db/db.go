package db

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"registration-service/config"

	_ "github.com/lib/pq"   // Postgres driver
	_ "modernc.org/sqlite"  // pure-Go SQLite driver
)

var (
	openDB   = sql.Open
	mkdirAll = os.MkdirAll
)

// Connect opens the configured relational store and verifies the connection.
// An open or ping failure is returned to the caller so bootstrap can fail
// fast instead of continuing with a broken handle.
func Connect(cfg config.DatabaseConfig) (*sql.DB, error) {
	switch cfg.Engine {
	case "sqlite":
		return connectSQLite(cfg)
	case "postgres":
		return connectPostgres(cfg)
	default:
		return nil, fmt.Errorf("unsupported database engine: %s", cfg.Engine)
	}
}

func connectSQLite(cfg config.DatabaseConfig) (*sql.DB, error) {
	if dir := filepath.Dir(cfg.Path); dir != "." {
		if err := mkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("error creating database directory: %w", err)
		}
	}

	database, err := openDB("sqlite", cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	if err := database.Ping(); err != nil {
		return nil, fmt.Errorf("error connecting to the database: %w", err)
	}

	log.Printf("Successfully opened the SQLite database at %s", cfg.Path)
	return database, nil
}

func connectPostgres(cfg config.DatabaseConfig) (*sql.DB, error) {
	connStr := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.Username, cfg.Password, cfg.Name, cfg.SSLMode)

	database, err := openDB("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	if err := database.Ping(); err != nil {
		return nil, fmt.Errorf("error connecting to the database: %w", err)
	}

	log.Println("Successfully connected to the Postgres database")
	return database, nil
}

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS users (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	full_name TEXT NOT NULL,
	email TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL,
	role TEXT NOT NULL,
	created_at TIMESTAMP NOT NULL
)`

const postgresSchema = `
CREATE TABLE IF NOT EXISTS users (
	id BIGSERIAL PRIMARY KEY,
	full_name TEXT NOT NULL,
	email TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL,
	role TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL
)`

// EnsureSchema creates the users table if it does not exist yet.
func EnsureSchema(database *sql.DB, engine string) error {
	var schema string
	switch engine {
	case "sqlite":
		schema = sqliteSchema
	case "postgres":
		schema = postgresSchema
	default:
		return fmt.Errorf("unsupported database engine: %s", engine)
	}

	if _, err := database.Exec(schema); err != nil {
		return fmt.Errorf("error creating users table: %w", err)
	}
	return nil
}
