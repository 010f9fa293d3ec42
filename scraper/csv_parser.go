// backend/scraper/csv_parser.go
package scraper

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"

	"github.com/jszwec/csvutil"

	"github.com/gewnthar/flightops/backend/models"
)

// ParseWaypointsCsv takes an io.Reader containing the navdata waypoints CSV
// and returns a slice of Waypoint structs.
//
// csvutil assumes the first line is a header and maps columns to struct
// fields via the `csv:"..."` tags in models.Waypoint. The CSV headers must
// EXACTLY match those tags.
func ParseWaypointsCsv(reader io.Reader) ([]models.Waypoint, error) {
	var waypoints []models.Waypoint

	decoder, err := csvutil.NewDecoder(csv.NewReader(reader))
	if err != nil {
		return nil, fmt.Errorf("failed to create CSV decoder for waypoints: %w", err)
	}

	if err := decoder.Decode(&waypoints); err != nil {
		return nil, fmt.Errorf("failed to decode waypoints CSV data: %w", err)
	}

	log.Printf("Successfully parsed %d waypoints from CSV.\n", len(waypoints))
	return waypoints, nil
}

// ParseAirportsCsv takes an io.Reader containing the navdata airports CSV
// and returns a slice of Airport structs.
func ParseAirportsCsv(reader io.Reader) ([]models.Airport, error) {
	var airports []models.Airport

	decoder, err := csvutil.NewDecoder(csv.NewReader(reader))
	if err != nil {
		return nil, fmt.Errorf("failed to create CSV decoder for airports: %w", err)
	}

	if err := decoder.Decode(&airports); err != nil {
		return nil, fmt.Errorf("failed to decode airports CSV data: %w", err)
	}

	log.Printf("Successfully parsed %d airports from CSV.\n", len(airports))
	return airports, nil
}
