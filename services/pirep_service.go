// backend/services/pirep_service.go
package services

import (
	"fmt"
	"log"
	"strconv"

	"github.com/gewnthar/flightops/backend/events"
	"github.com/gewnthar/flightops/backend/geo"
	"github.com/gewnthar/flightops/backend/models"
)

// PirepRepository is the persistence boundary for PIREPs. ApplyTransition is
// the one atomic unit: it must apply the pilot aggregate delta and the state
// write together or not at all, serializing on both the PIREP and the
// pilot's aggregate row. database/pirep_store.go is the production
// implementation.
type PirepRepository interface {
	Insert(p *models.Pirep) error
	ReplaceRoute(pirepID int64, waypoints []models.Waypoint) error
	InsertFieldValues(pirepID int64, fields []models.PirepFieldValue) error
	ApplyTransition(p *models.Pirep, target models.PirepState, deltaMinutes int64, deltaFlights int64, computeRank func(hours float64) (int64, bool)) (*models.Pilot, error)
}

type PilotRepository interface {
	Get(id int64) (*models.Pilot, error)
	UpdateLocation(pilotID int64, airportICAO string, lastPirepID int64) error
}

type RankRepository interface {
	All() ([]models.Rank, error)
	Get(id int64) (*models.Rank, error)
}

// AirportDirectory resolves airport codes to reference data; the departure
// airport's coordinates anchor route resolution.
type AirportDirectory interface {
	GetByICAO(icao string) (*models.Airport, error)
}

// PirepService manages the PIREP state machine:
//
//	PENDING → ACCEPTED, PENDING → REJECTED, ACCEPTED ↔ REJECTED
//
// Every transition keeps the pilot's aggregates (flight time, flight count,
// rank, current location) consistent with the set of ACCEPTED PIREPs.
type PirepService struct {
	Pireps   PirepRepository
	Pilots   PilotRepository
	Ranks    RankRepository
	Airports AirportDirectory
	Resolver *RouteResolver
	Events   events.Publisher
}

func NewPirepService(
	pireps PirepRepository,
	pilots PilotRepository,
	ranks RankRepository,
	airports AirportDirectory,
	resolver *RouteResolver,
	publisher events.Publisher,
) *PirepService {
	return &PirepService{
		Pireps:   pireps,
		Pilots:   pilots,
		Ranks:    ranks,
		Airports: airports,
		Resolver: resolver,
		Events:   publisher,
	}
}

// File persists a newly filed PIREP: route waypoints (wholesale replace),
// the report itself, and its custom field values, then applies the
// auto-approval policy. The report starts PENDING; when the pilot's rank
// grants auto-approval for the report's source, the accept transition runs
// immediately.
func (s *PirepService) File(p *models.Pirep, fields []models.PirepFieldValue) (*models.Pirep, error) {
	log.Printf("Service: Filing %s PIREP for pilot %d: %s-%s\n", p.Source, p.PilotID, p.DepartureICAO, p.ArrivalICAO)

	pilot, err := s.Pilots.Get(p.PilotID)
	if err != nil {
		return nil, fmt.Errorf("failed to load pilot %d for PIREP filing: %w", p.PilotID, err)
	}

	departure, err := s.Airports.GetByICAO(p.DepartureICAO)
	if err != nil {
		return nil, fmt.Errorf("unknown departure airport %s: %w", p.DepartureICAO, err)
	}

	p.State = models.PirepStatePending
	if err := s.Pireps.Insert(p); err != nil {
		return nil, fmt.Errorf("failed to persist PIREP: %w", err)
	}

	start := geo.Position{Lat: departure.Latitude, Lon: departure.Longitude}
	route := s.Resolver.Resolve(p.DepartureICAO, p.ArrivalICAO, start, p.RouteText)
	if err := s.Pireps.ReplaceRoute(p.ID, route); err != nil {
		return nil, fmt.Errorf("failed to persist route for PIREP %d: %w", p.ID, err)
	}

	if len(fields) > 0 {
		if err := s.Pireps.InsertFieldValues(p.ID, fields); err != nil {
			return nil, fmt.Errorf("failed to persist field values for PIREP %d: %w", p.ID, err)
		}
	}

	s.Events.Publish(events.SubjectPirepFiled, models.PirepEvent{Pirep: p})

	if s.autoApproved(pilot, p.Source) {
		log.Printf("Service: PIREP %d auto-approved by rank policy (%s source).\n", p.ID, p.Source)
		return s.Accept(p)
	}

	return p, nil
}

// autoApproved checks the pilot's rank flags against the report source.
func (s *PirepService) autoApproved(pilot *models.Pilot, source models.PirepSource) bool {
	rank, err := s.Ranks.Get(pilot.RankID)
	if err != nil {
		log.Printf("WARN Service: Could not load rank %d for auto-approval check: %v", pilot.RankID, err)
		return false
	}
	switch source {
	case models.PirepSourceACARS:
		return rank.AutoApproveACARS
	case models.PirepSourceManual:
		return rank.AutoApproveManual
	}
	return false
}

// Transition dispatches a requested state change.
//
// A request for the current state is a no-op, reported as unchanged. From
// PENDING the requested target is honored. From ACCEPTED or REJECTED the
// request always toggles to the opposite state regardless of the requested
// target — legacy behavior carried over from the original system; see
// DESIGN.md before "fixing" it.
func (s *PirepService) Transition(p *models.Pirep, target models.PirepState) (*models.Pirep, error) {
	if target == p.State {
		log.Printf("Service: PIREP %d already %s; no state change.\n", p.ID, target)
		return p, nil
	}

	switch p.State {
	case models.PirepStatePending:
		switch target {
		case models.PirepStateAccepted:
			return s.Accept(p)
		case models.PirepStateRejected:
			return s.Reject(p)
		default:
			// Illegal transition request; not an error, just unchanged.
			log.Printf("Service: Ignoring illegal transition request %s → %s for PIREP %d.\n", p.State, target, p.ID)
			return p, nil
		}
	case models.PirepStateAccepted:
		return s.Reject(p)
	case models.PirepStateRejected:
		return s.Accept(p)
	}

	log.Printf("Service: PIREP %d in unknown state %q; no state change.\n", p.ID, p.State)
	return p, nil
}

// Accept credits the PIREP to the pilot: flight time and flight count go up,
// the rank is recomputed from the new totals, and the state flips to
// ACCEPTED — all in one transactional unit. The pilot's location then moves
// to the arrival airport. Idempotent: accepting an ACCEPTED PIREP changes
// nothing.
func (s *PirepService) Accept(p *models.Pirep) (*models.Pirep, error) {
	if p.State == models.PirepStateAccepted {
		return p, nil
	}

	ranks, err := s.Ranks.All()
	if err != nil {
		return nil, fmt.Errorf("failed to load ranks for accept of PIREP %d: %w", p.ID, err)
	}

	previous, err := s.Pilots.Get(p.PilotID)
	if err != nil {
		return nil, fmt.Errorf("failed to load pilot %d before accept: %w", p.PilotID, err)
	}

	pilot, err := s.Pireps.ApplyTransition(p, models.PirepStateAccepted,
		p.FlightTimeMinutes, 1,
		func(hours float64) (int64, bool) { return ComputeRank(ranks, hours) },
	)
	if err != nil {
		return nil, fmt.Errorf("failed to accept PIREP %d: %w", p.ID, err)
	}

	if err := s.SetPilotLocation(pilot, p); err != nil {
		// Location is pilot convenience state, not part of the atomic
		// credit; the accept itself already committed.
		log.Printf("ERROR Service: Failed to update location for pilot %d after accept: %v", pilot.ID, err)
	}

	s.Events.Publish(events.SubjectPirepAccepted, models.PirepEvent{Pirep: p})
	s.publishRankChange(previous, pilot)

	log.Printf("Service: PIREP %d accepted. Pilot %d now %d flights / %.1f hours.\n",
		p.ID, pilot.ID, pilot.FlightCount, pilot.FlightHours())
	return p, nil
}

// Reject marks the PIREP rejected. If it had been ACCEPTED, the previously
// applied credit (flight time, flight count, rank) is reversed in the same
// transactional unit as the state write. Rejecting from PENDING credits
// nothing and reverses nothing.
func (s *PirepService) Reject(p *models.Pirep) (*models.Pirep, error) {
	if p.State == models.PirepStateRejected {
		return p, nil
	}

	var deltaMinutes, deltaFlights int64
	var computeRank func(hours float64) (int64, bool)
	var previous *models.Pilot

	if p.State == models.PirepStateAccepted {
		deltaMinutes = -p.FlightTimeMinutes
		deltaFlights = -1

		ranks, err := s.Ranks.All()
		if err != nil {
			return nil, fmt.Errorf("failed to load ranks for reject of PIREP %d: %w", p.ID, err)
		}
		computeRank = func(hours float64) (int64, bool) { return ComputeRank(ranks, hours) }

		previous, err = s.Pilots.Get(p.PilotID)
		if err != nil {
			return nil, fmt.Errorf("failed to load pilot %d before reject: %w", p.PilotID, err)
		}
	}

	pilot, err := s.Pireps.ApplyTransition(p, models.PirepStateRejected, deltaMinutes, deltaFlights, computeRank)
	if err != nil {
		return nil, fmt.Errorf("failed to reject PIREP %d: %w", p.ID, err)
	}

	s.Events.Publish(events.SubjectPirepRejected, models.PirepEvent{Pirep: p})
	if previous != nil {
		s.publishRankChange(previous, pilot)
	}

	log.Printf("Service: PIREP %d rejected. Pilot %d now %d flights / %.1f hours.\n",
		p.ID, pilot.ID, pilot.FlightCount, pilot.FlightHours())
	return p, nil
}

// SetPilotLocation moves the pilot to the PIREP's arrival airport and points
// the last-PIREP reference at it. The stats-changed event carries the
// previous airport so downstream consumers can diff.
func (s *PirepService) SetPilotLocation(pilot *models.Pilot, p *models.Pirep) error {
	previousAirport := pilot.CurrentAirport

	if err := s.Pilots.UpdateLocation(pilot.ID, p.ArrivalICAO, p.ID); err != nil {
		return fmt.Errorf("failed to persist location for pilot %d: %w", pilot.ID, err)
	}
	pilot.CurrentAirport = p.ArrivalICAO
	pilot.LastPirepID = &p.ID

	s.Events.Publish(events.SubjectPilotStatsChanged, models.PilotStatsChangedEvent{
		PilotID:       pilot.ID,
		Field:         "current_airport",
		PreviousValue: previousAirport,
		NewValue:      pilot.CurrentAirport,
	})
	return nil
}

func (s *PirepService) publishRankChange(before, after *models.Pilot) {
	if before == nil || after == nil || before.RankID == after.RankID {
		return
	}
	s.Events.Publish(events.SubjectPilotStatsChanged, models.PilotStatsChangedEvent{
		PilotID:       after.ID,
		Field:         "rank_id",
		PreviousValue: strconv.FormatInt(before.RankID, 10),
		NewValue:      strconv.FormatInt(after.RankID, 10),
	})
}
