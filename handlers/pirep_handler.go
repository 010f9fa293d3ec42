// backend/handlers/pirep_handler.go
package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/gewnthar/flightops/backend/database"
	"github.com/gewnthar/flightops/backend/models"
	"github.com/gewnthar/flightops/backend/services"
	"github.com/gewnthar/flightops/backend/utils"
)

// FilePirepRequest is the JSON body for POST /api/pireps.
type FilePirepRequest struct {
	PilotID           int64  `json:"pilot_id"`
	Departure         string `json:"departure"`
	Arrival           string `json:"arrival"`
	Route             string `json:"route"`
	FlightTimeMinutes int64  `json:"flight_time_minutes"`
	Source            string `json:"source"` // "MANUAL" (default) or "ACARS"

	Fields []models.PirepFieldValue `json:"fields,omitempty"`
}

// TransitionRequest is the JSON body for POST /api/pireps/{id}/status.
type TransitionRequest struct {
	State string `json:"state"`
}

// FilePirepHandler files a new PIREP through the lifecycle service.
func FilePirepHandler(svc *services.PirepService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req FilePirepRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondWithError(w, http.StatusBadRequest, fmt.Sprintf("Invalid request body: %v", err))
			return
		}

		if req.PilotID == 0 || req.Departure == "" || req.Arrival == "" {
			respondWithError(w, http.StatusBadRequest, "pilot_id, departure and arrival are required")
			return
		}

		source := models.PirepSource(req.Source)
		switch source {
		case models.PirepSourceManual, models.PirepSourceACARS:
		case "":
			source = models.PirepSourceManual
		default:
			respondWithError(w, http.StatusBadRequest, fmt.Sprintf("Invalid source '%s'. Use 'MANUAL' or 'ACARS'.", req.Source))
			return
		}

		pirep := &models.Pirep{
			PilotID:           req.PilotID,
			DepartureICAO:     utils.NormalizeAirportCode(req.Departure),
			ArrivalICAO:       utils.NormalizeAirportCode(req.Arrival),
			RouteText:         req.Route,
			FlightTimeMinutes: req.FlightTimeMinutes,
			Source:            source,
		}

		filed, err := svc.File(pirep, req.Fields)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to file PIREP: %v", err))
			return
		}

		respondWithJSON(w, http.StatusCreated, filed)
	}
}

// TransitionPirepHandler requests a state change on an existing PIREP.
// Illegal transitions are not errors; the PIREP comes back unchanged.
func TransitionPirepHandler(svc *services.PirepService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid PIREP id")
			return
		}

		var req TransitionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondWithError(w, http.StatusBadRequest, fmt.Sprintf("Invalid request body: %v", err))
			return
		}

		target := models.PirepState(req.State)
		switch target {
		case models.PirepStatePending, models.PirepStateAccepted, models.PirepStateRejected:
		default:
			respondWithError(w, http.StatusBadRequest, fmt.Sprintf("Invalid state '%s'. Use 'PENDING', 'ACCEPTED' or 'REJECTED'.", req.State))
			return
		}

		pirep, err := database.GetPirep(id)
		if err != nil {
			respondWithError(w, http.StatusNotFound, fmt.Sprintf("PIREP %d not found: %v", id, err))
			return
		}

		updated, err := svc.Transition(pirep, target)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to transition PIREP %d: %v", id, err))
			return
		}

		respondWithJSON(w, http.StatusOK, updated)
	}
}

// PirepGeoJSONHandler returns the PIREP's route as two GeoJSON
// FeatureCollections: the points (airports + waypoints) and the line.
func PirepGeoJSONHandler(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid PIREP id")
		return
	}

	pirep, err := database.GetPirep(id)
	if err != nil {
		respondWithError(w, http.StatusNotFound, fmt.Sprintf("PIREP %d not found: %v", id, err))
		return
	}

	departure, err := database.GetAirportByICAO(pirep.DepartureICAO)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, fmt.Sprintf("Departure airport %s not found: %v", pirep.DepartureICAO, err))
		return
	}
	arrival, err := database.GetAirportByICAO(pirep.ArrivalICAO)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, fmt.Sprintf("Arrival airport %s not found: %v", pirep.ArrivalICAO, err))
		return
	}

	route, err := database.GetPirepRoute(id)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to load route for PIREP %d: %v", id, err))
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"points": services.PirepPointFeatures(departure, arrival, route),
		"line":   services.PirepLineFeature(departure, arrival, route),
	})
}
