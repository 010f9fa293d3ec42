// backend/models/pirep.go
package models

import "time"

// PirepState is the lifecycle state of a filed flight report.
// Exactly one state value at any time; transitions go through
// services.PirepService only so pilot aggregates stay consistent.
type PirepState string

const (
	PirepStatePending  PirepState = "PENDING"
	PirepStateAccepted PirepState = "ACCEPTED"
	PirepStateRejected PirepState = "REJECTED"
)

// PirepSource says where the report came from: hand-filed by the pilot or
// produced by the ACARS tracking feed. Auto-approval policy is keyed on it.
type PirepSource string

const (
	PirepSourceManual PirepSource = "MANUAL"
	PirepSourceACARS  PirepSource = "ACARS"
)

// Pirep is a filed flight report. Route waypoints live in pirep_waypoints as
// a dependent ordered collection and are deleted and rebuilt wholesale
// whenever the route changes.
type Pirep struct {
	ID      int64 `db:"id" json:"id"`
	PilotID int64 `db:"pilot_id" json:"pilot_id"`

	DepartureICAO     string      `db:"departure_icao" json:"departure_icao"`
	ArrivalICAO       string      `db:"arrival_icao" json:"arrival_icao"`
	RouteText         string      `db:"route_text" json:"route"`
	FlightTimeMinutes int64       `db:"flight_time_minutes" json:"flight_time_minutes"`
	Source            PirepSource `db:"source" json:"source"`
	State             PirepState  `db:"state" json:"state"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// PirepFieldValue is one custom field attached to a PIREP. The set of
// allowed names and their typing is owned by an external schema collaborator;
// this core just stores them in order.
type PirepFieldValue struct {
	ID      int64  `db:"id" json:"id"`
	PirepID int64  `db:"pirep_id" json:"pirep_id"`
	Name    string `db:"name" json:"name"`
	Value   string `db:"value" json:"value"`
	Source  string `db:"source" json:"source,omitempty"`
}
