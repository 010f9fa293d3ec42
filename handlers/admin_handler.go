// backend/handlers/admin_handler.go
package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/gewnthar/flightops/backend/config"
	"github.com/gewnthar/flightops/backend/services"
)

// ForceRefreshNavdataHandler handles requests to manually refresh navdata.
// Expects POST requests to /api/admin/refresh-navdata/{sourceType}
// where {sourceType} is "waypoints", "airports", or "all".
func ForceRefreshNavdataHandler(w http.ResponseWriter, r *http.Request) {
	sourceType := strings.ToLower(mux.Vars(r)["sourceType"])

	var err error
	switch sourceType {
	case "waypoints":
		err = services.ForceRefreshNavdata(services.SourceWaypoints, nil)
	case "airports":
		err = services.ForceRefreshNavdata(services.SourceAirports, nil)
	case "all":
		err = services.ForceRefreshNavdata(services.SourceWaypoints, nil)
		if err == nil { // Only proceed if waypoints refresh was successful
			err = services.ForceRefreshNavdata(services.SourceAirports, nil)
		}
	default:
		respondWithError(w, http.StatusBadRequest, fmt.Sprintf("Invalid source type '%s'. Use 'waypoints', 'airports', or 'all'.", sourceType))
		return
	}

	if err != nil {
		respondWithError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to force refresh %s navdata: %v", sourceType, err))
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"message": fmt.Sprintf("%s navdata refresh completed successfully.", sourceType)})
}

// CheckAndUpdateNavdataHandler handles requests to refresh navdata only when
// the publisher's AIRAC cycle moved past what is loaded.
// Expects POST requests to /api/admin/check-update-navdata/{sourceType}
func CheckAndUpdateNavdataHandler(w http.ResponseWriter, r *http.Request) {
	sourceType := strings.ToLower(mux.Vars(r)["sourceType"])
	cssSelector := config.AppConfig.ScraperSelectors.CycleEffectiveDate

	var err error
	switch sourceType {
	case "waypoints":
		err = services.RefreshNavdataIfNeeded(services.SourceWaypoints, cssSelector)
	case "airports":
		err = services.RefreshNavdataIfNeeded(services.SourceAirports, cssSelector)
	case "all":
		err = services.RefreshNavdataIfNeeded(services.SourceWaypoints, cssSelector)
		if err == nil { // Only proceed if waypoints check was successful (or didn't need update)
			err = services.RefreshNavdataIfNeeded(services.SourceAirports, cssSelector)
		}
	default:
		respondWithError(w, http.StatusBadRequest, fmt.Sprintf("Invalid source type '%s'. Use 'waypoints', 'airports', or 'all'.", sourceType))
		return
	}

	if err != nil {
		respondWithError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to check/update %s navdata: %v", sourceType, err))
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"message": fmt.Sprintf("Check/update process for %s navdata completed.", sourceType)})
}
