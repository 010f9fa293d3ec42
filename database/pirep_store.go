// backend/database/pirep_store.go
package database

import (
	"fmt"
	"log"

	"github.com/gewnthar/flightops/backend/models"
)

// InsertPirep inserts a new PIREP and sets its ID.
func InsertPirep(p *models.Pirep) error {
	if DB == nil {
		return fmt.Errorf("database connection is not initialized")
	}
	res, err := DB.Exec(`
		INSERT INTO pireps (
			pilot_id, departure_icao, arrival_icao, route_text,
			flight_time_minutes, source, state
		) VALUES (?, ?, ?, ?, ?, ?, ?)
	`, p.PilotID, p.DepartureICAO, p.ArrivalICAO, p.RouteText,
		p.FlightTimeMinutes, p.Source, p.State)
	if err != nil {
		return fmt.Errorf("failed to insert PIREP for pilot %d: %w", p.PilotID, err)
	}
	p.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read PIREP insert id: %w", err)
	}
	return nil
}

// GetPirep returns the PIREP with the given id.
func GetPirep(id int64) (*models.Pirep, error) {
	if DB == nil {
		return nil, fmt.Errorf("database connection is not initialized")
	}
	var p models.Pirep
	err := DB.QueryRow(`
		SELECT id, pilot_id, departure_icao, arrival_icao, route_text,
		       flight_time_minutes, source, state, created_at, updated_at
		FROM pireps
		WHERE id = ?
	`, id).Scan(
		&p.ID, &p.PilotID, &p.DepartureICAO, &p.ArrivalICAO, &p.RouteText,
		&p.FlightTimeMinutes, &p.Source, &p.State, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query PIREP %d: %w", id, err)
	}
	return &p, nil
}

// ReplacePirepRoute replaces the PIREP's route waypoints wholesale: one
// transaction deletes the old ordered collection and inserts the new one.
func ReplacePirepRoute(pirepID int64, waypoints []models.Waypoint) error {
	if DB == nil {
		return fmt.Errorf("database connection is not initialized")
	}

	tx, err := DB.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction for PIREP %d route: %w", pirepID, err)
	}
	defer tx.Rollback()

	_, err = tx.Exec("DELETE FROM pirep_waypoints WHERE pirep_id = ?", pirepID)
	if err != nil {
		return fmt.Errorf("failed to delete old route waypoints for PIREP %d: %w", pirepID, err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO pirep_waypoints (
			pirep_id, seq, ident, waypoint_type, latitude, longitude, frequency
		) VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare route waypoint insert: %w", err)
	}
	defer stmt.Close()

	for i, wp := range waypoints {
		_, err := stmt.Exec(pirepID, i, wp.Ident, wp.Type, wp.Latitude, wp.Longitude, wp.Frequency)
		if err != nil {
			return fmt.Errorf("failed to insert route waypoint '%s' for PIREP %d: %w", wp.Ident, pirepID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit route replace for PIREP %d: %w", pirepID, err)
	}

	log.Printf("Database: Replaced route for PIREP %d with %d waypoints.\n", pirepID, len(waypoints))
	return nil
}

// GetPirepRoute returns the PIREP's route waypoints in order.
func GetPirepRoute(pirepID int64) ([]models.Waypoint, error) {
	if DB == nil {
		return nil, fmt.Errorf("database connection is not initialized")
	}
	rows, err := DB.Query(`
		SELECT ident, waypoint_type, latitude, longitude, frequency
		FROM pirep_waypoints
		WHERE pirep_id = ?
		ORDER BY seq
	`, pirepID)
	if err != nil {
		return nil, fmt.Errorf("failed to query route waypoints for PIREP %d: %w", pirepID, err)
	}
	defer rows.Close()

	var waypoints []models.Waypoint
	for rows.Next() {
		var wp models.Waypoint
		if err := rows.Scan(&wp.Ident, &wp.Type, &wp.Latitude, &wp.Longitude, &wp.Frequency); err != nil {
			log.Printf("ERROR: Failed to scan PIREP waypoint row: %v", err)
			continue
		}
		waypoints = append(waypoints, wp)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating PIREP waypoint rows: %w", err)
	}
	return waypoints, nil
}

// InsertPirepFieldValues stores the PIREP's custom field values in order,
// replacing any previous set.
func InsertPirepFieldValues(pirepID int64, fields []models.PirepFieldValue) error {
	if DB == nil {
		return fmt.Errorf("database connection is not initialized")
	}

	tx, err := DB.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction for PIREP %d field values: %w", pirepID, err)
	}
	defer tx.Rollback()

	_, err = tx.Exec("DELETE FROM pirep_field_values WHERE pirep_id = ?", pirepID)
	if err != nil {
		return fmt.Errorf("failed to delete old field values for PIREP %d: %w", pirepID, err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO pirep_field_values (pirep_id, seq, name, value, source)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare field value insert: %w", err)
	}
	defer stmt.Close()

	for i, fv := range fields {
		_, err := stmt.Exec(pirepID, i, fv.Name, fv.Value, fv.Source)
		if err != nil {
			return fmt.Errorf("failed to insert field value '%s' for PIREP %d: %w", fv.Name, pirepID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit field values for PIREP %d: %w", pirepID, err)
	}
	return nil
}

// ApplyPirepTransition applies a PIREP state change and the matching pilot
// aggregate delta as one atomic unit. Both the pilot row and the PIREP row
// are locked with SELECT ... FOR UPDATE, so concurrent transitions on the
// same PIREP — or on different PIREPs of the same pilot — serialize instead
// of double-crediting or losing updates.
//
// computeRank, when non-nil, is evaluated inside the transaction against the
// locked, post-delta totals; it returns the rank id the pilot should hold
// and whether a rank could be determined.
//
// Returns the updated pilot snapshot. If the PIREP already holds the target
// state under the lock (a racing duplicate request), the transition is a
// no-op and the unchanged pilot is returned.
func ApplyPirepTransition(
	p *models.Pirep,
	target models.PirepState,
	deltaMinutes int64,
	deltaFlights int64,
	computeRank func(hours float64) (int64, bool),
) (*models.Pilot, error) {
	if DB == nil {
		return nil, fmt.Errorf("database connection is not initialized")
	}

	tx, err := DB.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transition transaction for PIREP %d: %w", p.ID, err)
	}
	defer tx.Rollback()

	// Lock the pilot aggregate row first, then the PIREP row. Every
	// transition takes the locks in this order, so two transitions on the
	// same pilot cannot deadlock each other.
	var pilot models.Pilot
	err = tx.QueryRow(`
		SELECT id, name, rank_id, flight_time_minutes, flight_count,
		       current_airport, last_pirep_id, created_at, updated_at
		FROM pilots
		WHERE id = ?
		FOR UPDATE
	`, p.PilotID).Scan(
		&pilot.ID, &pilot.Name, &pilot.RankID, &pilot.FlightTimeMinutes, &pilot.FlightCount,
		&pilot.CurrentAirport, &pilot.LastPirepID, &pilot.CreatedAt, &pilot.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to lock pilot %d for transition: %w", p.PilotID, err)
	}

	var currentState models.PirepState
	err = tx.QueryRow("SELECT state FROM pireps WHERE id = ? FOR UPDATE", p.ID).Scan(&currentState)
	if err != nil {
		return nil, fmt.Errorf("failed to lock PIREP %d for transition: %w", p.ID, err)
	}

	if currentState == target {
		// A concurrent request already applied this transition. Nothing to
		// credit; report the state as-is.
		if err := tx.Commit(); err != nil {
			return nil, fmt.Errorf("failed to commit no-op transition for PIREP %d: %w", p.ID, err)
		}
		p.State = currentState
		log.Printf("Database: PIREP %d already %s under lock; no state change.\n", p.ID, target)
		return &pilot, nil
	}

	pilot.FlightTimeMinutes += deltaMinutes
	pilot.FlightCount += deltaFlights
	if computeRank != nil {
		if rankID, ok := computeRank(pilot.FlightHours()); ok {
			pilot.RankID = rankID
		}
	}

	_, err = tx.Exec(`
		UPDATE pilots
		SET flight_time_minutes = ?, flight_count = ?, rank_id = ?
		WHERE id = ?
	`, pilot.FlightTimeMinutes, pilot.FlightCount, pilot.RankID, pilot.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to update pilot %d aggregates: %w", pilot.ID, err)
	}

	_, err = tx.Exec("UPDATE pireps SET state = ? WHERE id = ?", target, p.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to update PIREP %d state to %s: %w", p.ID, target, err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transition for PIREP %d: %w", p.ID, err)
	}

	p.State = target
	log.Printf("Database: PIREP %d transitioned to %s (pilot %d: %+d min, %+d flights).\n",
		p.ID, target, pilot.ID, deltaMinutes, deltaFlights)
	return &pilot, nil
}
