// backend/database/connection.go
package database

import (
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/gewnthar/flightops/backend/config"
	_ "github.com/go-sql-driver/mysql" // MariaDB driver
)

var DB *sql.DB

// InitDB initializes the database connection pool and makes sure the schema
// exists.
func InitDB(cfg config.DatabaseConfig) error {
	var err error
	// DSN: username:password@protocol(address)/dbname?param=value
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.DBName,
	)

	DB, err = sql.Open("mysql", dsn)
	if err != nil {
		return fmt.Errorf("failed to open database connection: %w", err)
	}

	// Configure connection pool settings
	DB.SetMaxOpenConns(25)
	DB.SetMaxIdleConns(25)
	DB.SetConnMaxLifetime(5 * time.Minute)

	// Ping the database to verify connection
	err = DB.Ping()
	if err != nil {
		DB.Close() // Close the connection if ping fails
		return fmt.Errorf("failed to ping database: %w", err)
	}

	if err = createTables(); err != nil {
		return fmt.Errorf("failed to create tables: %w", err)
	}

	log.Println("Successfully connected to the database!")
	return nil
}

func createTables() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS ranks (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			name VARCHAR(100) NOT NULL,
			hours_threshold DOUBLE NOT NULL DEFAULT 0,
			auto_approve_manual BOOLEAN NOT NULL DEFAULT FALSE,
			auto_approve_acars BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS pilots (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			rank_id BIGINT NOT NULL,
			flight_time_minutes BIGINT NOT NULL DEFAULT 0,
			flight_count BIGINT NOT NULL DEFAULT 0,
			current_airport VARCHAR(4) NOT NULL DEFAULT '',
			last_pirep_id BIGINT NULL,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
			INDEX idx_pilots_rank (rank_id)
		)`,
		`CREATE TABLE IF NOT EXISTS pireps (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			pilot_id BIGINT NOT NULL,
			departure_icao VARCHAR(4) NOT NULL,
			arrival_icao VARCHAR(4) NOT NULL,
			route_text TEXT NOT NULL,
			flight_time_minutes BIGINT NOT NULL DEFAULT 0,
			source VARCHAR(10) NOT NULL DEFAULT 'MANUAL',
			state VARCHAR(10) NOT NULL DEFAULT 'PENDING',
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
			INDEX idx_pireps_pilot (pilot_id),
			INDEX idx_pireps_state (state)
		)`,
		`CREATE TABLE IF NOT EXISTS pirep_waypoints (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			pirep_id BIGINT NOT NULL,
			seq INT NOT NULL,
			ident VARCHAR(10) NOT NULL,
			waypoint_type VARCHAR(10) NOT NULL DEFAULT 'FIX',
			latitude DOUBLE NOT NULL,
			longitude DOUBLE NOT NULL,
			frequency VARCHAR(10) NOT NULL DEFAULT '',
			INDEX idx_pirep_waypoints_pirep (pirep_id)
		)`,
		`CREATE TABLE IF NOT EXISTS pirep_field_values (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			pirep_id BIGINT NOT NULL,
			seq INT NOT NULL,
			name VARCHAR(100) NOT NULL,
			value TEXT NOT NULL,
			source VARCHAR(10) NOT NULL DEFAULT '',
			INDEX idx_pirep_field_values_pirep (pirep_id)
		)`,
		`CREATE TABLE IF NOT EXISTS waypoints (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			ident VARCHAR(10) NOT NULL,
			name VARCHAR(255) NOT NULL DEFAULT '',
			waypoint_type VARCHAR(10) NOT NULL DEFAULT 'FIX',
			latitude DOUBLE NOT NULL,
			longitude DOUBLE NOT NULL,
			frequency VARCHAR(10) NOT NULL DEFAULT '',
			source_file VARCHAR(255) NOT NULL DEFAULT '',
			INDEX idx_waypoints_ident (ident)
		)`,
		`CREATE TABLE IF NOT EXISTS airports (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			icao VARCHAR(4) NOT NULL UNIQUE,
			iata VARCHAR(3) NOT NULL DEFAULT '',
			name VARCHAR(255) NOT NULL DEFAULT '',
			city VARCHAR(100) NOT NULL DEFAULT '',
			country VARCHAR(100) NOT NULL DEFAULT '',
			latitude DOUBLE NOT NULL,
			longitude DOUBLE NOT NULL,
			source_file VARCHAR(255) NOT NULL DEFAULT ''
		)`,
		`CREATE TABLE IF NOT EXISTS navdata_versions (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			source_name VARCHAR(50) NOT NULL UNIQUE,
			source_file_url VARCHAR(500) NOT NULL DEFAULT '',
			last_downloaded_filename VARCHAR(255) NOT NULL DEFAULT '',
			effective_from DATETIME NULL,
			effective_until DATETIME NULL,
			last_checked_at DATETIME NULL,
			last_downloaded_at DATETIME NULL,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
		)`,
	}

	for _, q := range queries {
		if _, err := DB.Exec(q); err != nil {
			return fmt.Errorf("failed to execute schema statement: %w", err)
		}
	}
	return nil
}

// CloseDB closes the database connection pool.
// Typically called on application shutdown.
func CloseDB() {
	if DB != nil {
		DB.Close()
		log.Println("Database connection closed.")
	}
}
