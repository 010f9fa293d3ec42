// backend/models/pilot.go
package models

import "time"

// Pilot carries the derived aggregate state for one pilot. FlightTimeMinutes,
// FlightCount, RankID, CurrentAirport and LastPirepID are mutated exclusively
// as a side effect of PIREP state transitions — never edited directly — so
// they stay a consistent reduction over all ACCEPTED PIREPs.
type Pilot struct {
	ID   int64  `db:"id" json:"id"`
	Name string `db:"name" json:"name"`

	RankID            int64  `db:"rank_id" json:"rank_id"`
	FlightTimeMinutes int64  `db:"flight_time_minutes" json:"flight_time_minutes"`
	FlightCount       int64  `db:"flight_count" json:"flight_count"`
	CurrentAirport    string `db:"current_airport" json:"current_airport,omitempty"`
	LastPirepID       *int64 `db:"last_pirep_id" json:"last_pirep_id,omitempty"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// FlightHours returns the cumulative flight time in hours. Rank thresholds
// are expressed in hours; flight time is stored in minutes so that
// accept/reject reversals are exact.
func (p *Pilot) FlightHours() float64 {
	return float64(p.FlightTimeMinutes) / 60.0
}

// Rank is a pilot progression tier. Thresholds are in flight hours; the two
// auto-approve flags feed the PIREP filing policy.
type Rank struct {
	ID             int64   `db:"id" json:"id"`
	Name           string  `db:"name" json:"name"`
	HoursThreshold float64 `db:"hours_threshold" json:"hours_threshold"`

	AutoApproveManual bool `db:"auto_approve_manual" json:"auto_approve_manual"`
	AutoApproveACARS  bool `db:"auto_approve_acars" json:"auto_approve_acars"`
}
