// backend/repositories.go
package main

import (
	"github.com/gewnthar/flightops/backend/database"
	"github.com/gewnthar/flightops/backend/models"
)

// Thin adapters binding the database package's functions to the service
// interfaces. The database package keeps its package-level function style;
// the services stay injectable for tests.

type pirepRepo struct{}

func (pirepRepo) Insert(p *models.Pirep) error {
	return database.InsertPirep(p)
}

func (pirepRepo) ReplaceRoute(pirepID int64, waypoints []models.Waypoint) error {
	return database.ReplacePirepRoute(pirepID, waypoints)
}

func (pirepRepo) InsertFieldValues(pirepID int64, fields []models.PirepFieldValue) error {
	return database.InsertPirepFieldValues(pirepID, fields)
}

func (pirepRepo) ApplyTransition(p *models.Pirep, target models.PirepState, deltaMinutes int64, deltaFlights int64, computeRank func(hours float64) (int64, bool)) (*models.Pilot, error) {
	return database.ApplyPirepTransition(p, target, deltaMinutes, deltaFlights, computeRank)
}

type pilotRepo struct{}

func (pilotRepo) Get(id int64) (*models.Pilot, error) {
	return database.GetPilot(id)
}

func (pilotRepo) UpdateLocation(pilotID int64, airportICAO string, lastPirepID int64) error {
	return database.UpdatePilotLocation(pilotID, airportICAO, lastPirepID)
}

type rankRepo struct{}

func (rankRepo) All() ([]models.Rank, error) {
	return database.GetRanks()
}

func (rankRepo) Get(id int64) (*models.Rank, error) {
	return database.GetRank(id)
}

type airportDir struct{}

func (airportDir) GetByICAO(icao string) (*models.Airport, error) {
	return database.GetAirportByICAO(icao)
}
