// backend/database/pilot_store.go
package database

import (
	"fmt"

	"github.com/gewnthar/flightops/backend/models"
)

// GetPilot returns the pilot with the given id.
func GetPilot(id int64) (*models.Pilot, error) {
	if DB == nil {
		return nil, fmt.Errorf("database connection is not initialized")
	}
	var pilot models.Pilot
	err := DB.QueryRow(`
		SELECT id, name, rank_id, flight_time_minutes, flight_count,
		       current_airport, last_pirep_id, created_at, updated_at
		FROM pilots
		WHERE id = ?
	`, id).Scan(
		&pilot.ID, &pilot.Name, &pilot.RankID, &pilot.FlightTimeMinutes, &pilot.FlightCount,
		&pilot.CurrentAirport, &pilot.LastPirepID, &pilot.CreatedAt, &pilot.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query pilot %d: %w", id, err)
	}
	return &pilot, nil
}

// UpdatePilotLocation moves the pilot to the given airport and records the
// PIREP that put them there.
func UpdatePilotLocation(pilotID int64, airportICAO string, lastPirepID int64) error {
	if DB == nil {
		return fmt.Errorf("database connection is not initialized")
	}
	_, err := DB.Exec(`
		UPDATE pilots
		SET current_airport = ?, last_pirep_id = ?
		WHERE id = ?
	`, airportICAO, lastPirepID, pilotID)
	if err != nil {
		return fmt.Errorf("failed to update location for pilot %d: %w", pilotID, err)
	}
	return nil
}
