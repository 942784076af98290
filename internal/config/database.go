package config

import (
	"fmt"
	"log"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // PostgreSQL driver
)

// SetupDatabase initializes the database connection
func SetupDatabase(cfg *Config) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", cfg.Database.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Test the connection
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	// Set connection pool settings
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)

	// Create tables if they don't exist
	if err := createTables(db); err != nil {
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return db, nil
}

// createTables creates the necessary tables in the database
func createTables(db *sqlx.DB) error {
	// Create users table
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			id VARCHAR(36) PRIMARY KEY,
			email VARCHAR(255) UNIQUE NOT NULL,
			name VARCHAR(255) NOT NULL,
			password VARCHAR(255) NOT NULL,
			role VARCHAR(20) NOT NULL DEFAULT 'operador',
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)
	`)
	if err != nil {
		return err
	}

	// Create fund_documents table (versioned key-value documents holding the
	// per-company movement lists, opening balances and legacy lists)
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS fund_documents (
			company VARCHAR(255) NOT NULL,
			key VARCHAR(255) NOT NULL,
			value JSONB NOT NULL,
			version BIGINT NOT NULL DEFAULT 1,
			updated_at TIMESTAMP NOT NULL,
			PRIMARY KEY (company, key)
		)
	`)
	if err != nil {
		return err
	}

	// Create providers table
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS providers (
			code VARCHAR(50) NOT NULL,
			company VARCHAR(255) NOT NULL,
			name VARCHAR(255) NOT NULL,
			type VARCHAR(50) NOT NULL DEFAULT '',
			PRIMARY KEY (company, code)
		)
	`)
	if err != nil {
		return err
	}

	// Create employees table
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS employees (
			id VARCHAR(36) PRIMARY KEY,
			company VARCHAR(255) NOT NULL,
			name VARCHAR(255) NOT NULL
		)
	`)
	if err != nil {
		return err
	}

	// Create purchase_orders table
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS purchase_orders (
			id VARCHAR(36) PRIMARY KEY,
			company VARCHAR(255) NOT NULL,
			provider_code VARCHAR(50) NOT NULL,
			description TEXT NOT NULL,
			amount BIGINT NOT NULL,
			currency VARCHAR(3) NOT NULL,
			status VARCHAR(20) NOT NULL,
			created_by VARCHAR(36) NOT NULL REFERENCES users(id),
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)
	`)
	if err != nil {
		return err
	}

	// Create indexes for better performance
	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_employees_company ON employees(company)",
		"CREATE INDEX IF NOT EXISTS idx_purchase_orders_company ON purchase_orders(company, created_at)",
	}

	for _, idx := range indexes {
		_, err = db.Exec(idx)
		if err != nil {
			log.Printf("Warning: Failed to create index: %v", err)
			// Don't return error here, indexes are not critical
		}
	}

	return nil
}
