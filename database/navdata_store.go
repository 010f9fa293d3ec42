// backend/database/navdata_store.go
package database

import (
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/gewnthar/flightops/backend/models"
)

// SaveWaypoints saves a slice of Waypoint objects to the database.
// Uses a "clear and load" strategy for a given sourceFile: one transaction
// deletes the previous batch and inserts the new one, so readers never see
// a half-loaded directory.
func SaveWaypoints(waypoints []models.Waypoint, sourceFile string) error {
	if DB == nil {
		return fmt.Errorf("database connection is not initialized")
	}
	if len(waypoints) == 0 {
		log.Println("No waypoints provided to save.")
		return nil
	}

	tx, err := DB.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction for waypoints: %w", err)
	}
	defer tx.Rollback()

	// Step 1: Delete existing waypoints for this sourceFile.
	_, err = tx.Exec("DELETE FROM waypoints WHERE source_file = ?", sourceFile)
	if err != nil {
		return fmt.Errorf("failed to delete old waypoints for source %s: %w", sourceFile, err)
	}
	log.Printf("Cleared existing waypoints for source: %s\n", sourceFile)

	// Step 2: Insert new waypoints
	stmt, err := tx.Prepare(`
		INSERT INTO waypoints (
			ident, name, waypoint_type, latitude, longitude, frequency, source_file
		) VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare waypoint insert statement: %w", err)
	}
	defer stmt.Close()

	for _, wp := range waypoints {
		_, err := stmt.Exec(
			wp.Ident, wp.Name, wp.Type, wp.Latitude, wp.Longitude, wp.Frequency, sourceFile,
		)
		if err != nil {
			log.Printf("ERROR saving waypoint: %+v, Error: %v", wp, err)
			return fmt.Errorf("failed to execute waypoint insert for ident '%s': %w", wp.Ident, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction for waypoints: %w", err)
	}

	log.Printf("Successfully saved %d waypoints from source: %s\n", len(waypoints), sourceFile)
	return nil
}

// SaveAirports saves a slice of Airport objects with the same clear-and-load
// strategy as SaveWaypoints.
func SaveAirports(airports []models.Airport, sourceFile string) error {
	if DB == nil {
		return fmt.Errorf("database connection is not initialized")
	}
	if len(airports) == 0 {
		log.Println("No airports provided to save.")
		return nil
	}

	tx, err := DB.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction for airports: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec("DELETE FROM airports WHERE source_file = ?", sourceFile)
	if err != nil {
		return fmt.Errorf("failed to delete old airports for source %s: %w", sourceFile, err)
	}
	log.Printf("Cleared existing airports for source: %s\n", sourceFile)

	stmt, err := tx.Prepare(`
		INSERT INTO airports (
			icao, iata, name, city, country, latitude, longitude, source_file
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare airport insert statement: %w", err)
	}
	defer stmt.Close()

	for _, ap := range airports {
		_, err := stmt.Exec(
			ap.ICAO, ap.IATA, ap.Name, ap.City, ap.Country, ap.Latitude, ap.Longitude, sourceFile,
		)
		if err != nil {
			log.Printf("ERROR saving airport: %+v, Error: %v", ap, err)
			return fmt.Errorf("failed to execute airport insert for icao '%s': %w", ap.ICAO, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction for airports: %w", err)
	}

	log.Printf("Successfully saved %d airports from source: %s\n", len(airports), sourceFile)
	return nil
}

// FindWaypointsByIdent returns every waypoint sharing the given identifier.
// Idents are not unique; callers disambiguate by distance.
func FindWaypointsByIdent(ident string) ([]models.Waypoint, error) {
	if DB == nil {
		return nil, fmt.Errorf("database connection is not initialized")
	}
	rows, err := DB.Query(`
		SELECT id, ident, name, waypoint_type, latitude, longitude, frequency, source_file
		FROM waypoints
		WHERE ident = ?
		ORDER BY id
	`, ident)
	if err != nil {
		return nil, fmt.Errorf("failed to query waypoints for ident %s: %w", ident, err)
	}
	defer rows.Close()

	var waypoints []models.Waypoint
	for rows.Next() {
		var wp models.Waypoint
		err := rows.Scan(
			&wp.ID, &wp.Ident, &wp.Name, &wp.Type, &wp.Latitude, &wp.Longitude, &wp.Frequency, &wp.SourceFile,
		)
		if err != nil {
			log.Printf("ERROR: Failed to scan waypoint row: %v", err)
			continue
		}
		waypoints = append(waypoints, wp)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating waypoint rows: %w", err)
	}
	return waypoints, nil
}

// GetAirportByICAO returns the airport with the given ICAO code, or
// sql.ErrNoRows wrapped when it is unknown.
func GetAirportByICAO(icao string) (*models.Airport, error) {
	if DB == nil {
		return nil, fmt.Errorf("database connection is not initialized")
	}
	var ap models.Airport
	err := DB.QueryRow(`
		SELECT id, icao, iata, name, city, country, latitude, longitude, source_file
		FROM airports
		WHERE icao = ?
	`, icao).Scan(
		&ap.ID, &ap.ICAO, &ap.IATA, &ap.Name, &ap.City, &ap.Country, &ap.Latitude, &ap.Longitude, &ap.SourceFile,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query airport %s: %w", icao, err)
	}
	return &ap, nil
}

// LogNavdataVersionUpdate inserts or updates a record in the navdata_versions
// table. This indicates when a navdata source (waypoints or airports CSV)
// was last checked and downloaded, and which AIRAC effective window it
// purports to cover.
func LogNavdataVersionUpdate(
	sourceName string,
	sourceURL string,
	downloadedFilename string,
	effectiveFrom *time.Time,
	effectiveUntil *time.Time,
	lastCheckedAt *time.Time,
	lastDownloadedAt *time.Time,
) error {
	if DB == nil {
		return fmt.Errorf("database connection is not initialized")
	}

	var sqlEffectiveFrom, sqlEffectiveUntil, sqlLastChecked, sqlLastDownloaded sql.NullTime
	if effectiveFrom != nil {
		sqlEffectiveFrom = sql.NullTime{Time: *effectiveFrom, Valid: true}
	}
	if effectiveUntil != nil {
		sqlEffectiveUntil = sql.NullTime{Time: *effectiveUntil, Valid: true}
	}
	if lastCheckedAt != nil {
		sqlLastChecked = sql.NullTime{Time: *lastCheckedAt, Valid: true}
	}
	if lastDownloadedAt != nil {
		sqlLastDownloaded = sql.NullTime{Time: *lastDownloadedAt, Valid: true}
	}

	query := `
		INSERT INTO navdata_versions (
			source_name, source_file_url, last_downloaded_filename,
			effective_from, effective_until, last_checked_at, last_downloaded_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, NOW())
		ON DUPLICATE KEY UPDATE
			source_file_url = VALUES(source_file_url),
			last_downloaded_filename = VALUES(last_downloaded_filename),
			effective_from = VALUES(effective_from),
			effective_until = VALUES(effective_until),
			last_checked_at = VALUES(last_checked_at),
			last_downloaded_at = VALUES(last_downloaded_at),
			updated_at = NOW()
	`

	_, err := DB.Exec(query,
		sourceName, sourceURL, downloadedFilename,
		sqlEffectiveFrom, sqlEffectiveUntil, sqlLastChecked, sqlLastDownloaded,
	)
	if err != nil {
		log.Printf("ERROR Database: Failed to log/update navdata version for '%s': %v", sourceName, err)
		return fmt.Errorf("failed to log navdata version for %s: %w", sourceName, err)
	}

	log.Printf("Database: Logged navdata version for '%s'. Effective Until: %v\n", sourceName, effectiveUntil)
	return nil
}

// GetMaxEffectiveUntilForSource returns the recorded effective_until date for
// a navdata source, or nil when nothing has been loaded yet.
func GetMaxEffectiveUntilForSource(sourceName string) (*time.Time, error) {
	if DB == nil {
		return nil, fmt.Errorf("database connection is not initialized")
	}

	var nullableDate sql.NullTime
	err := DB.QueryRow(
		"SELECT effective_until FROM navdata_versions WHERE source_name = ?",
		sourceName,
	).Scan(&nullableDate)
	if err != nil {
		if err == sql.ErrNoRows {
			log.Printf("No navdata version record found for source: %s", sourceName)
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query effective_until for source %s: %w", sourceName, err)
	}

	if nullableDate.Valid {
		return &nullableDate.Time, nil
	}
	return nil, nil
}
