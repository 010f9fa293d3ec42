// backend/handlers/router.go
package handlers

import (
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/gewnthar/flightops/backend/database"
	"github.com/gewnthar/flightops/backend/services"
)

// NewRouter creates and configures the router with all API endpoints.
func NewRouter(pirepSvc *services.PirepService) *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/api/health", healthHandler).Methods("GET")

	// PIREP lifecycle
	r.HandleFunc("/api/pireps", FilePirepHandler(pirepSvc)).Methods("POST")
	r.HandleFunc("/api/pireps/{id:[0-9]+}/status", TransitionPirepHandler(pirepSvc)).Methods("POST")
	r.HandleFunc("/api/pireps/{id:[0-9]+}/geojson", PirepGeoJSONHandler).Methods("GET")

	// Admin routes for managing navdata
	r.HandleFunc("/api/admin/refresh-navdata/{sourceType}", ForceRefreshNavdataHandler).Methods("POST")
	r.HandleFunc("/api/admin/check-update-navdata/{sourceType}", CheckAndUpdateNavdataHandler).Methods("POST")

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	if err := database.DB.Ping(); err != nil {
		log.Printf("Health check failed: DB ping error: %v", err)
		respondWithError(w, http.StatusInternalServerError, "database connection error")
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]string{"status": "ok", "message": "flightops backend is healthy"})
}
