// backend/services/route_resolver.go
package services

import (
	"log"
	"strings"

	"github.com/gewnthar/flightops/backend/geo"
	"github.com/gewnthar/flightops/backend/models"
)

// WaypointDirectory looks up navigation fixes by identifier. Idents are not
// unique, so a lookup returns every candidate sharing the name.
// database.FindWaypointsByIdent is the production implementation; tests
// inject an in-memory map.
type WaypointDirectory interface {
	FindByIdent(ident string) ([]models.Waypoint, error)
}

// DirectoryFunc adapts a plain lookup function to WaypointDirectory.
type DirectoryFunc func(ident string) ([]models.Waypoint, error)

func (f DirectoryFunc) FindByIdent(ident string) ([]models.Waypoint, error) {
	return f(ident)
}

// RouteResolver converts a textual flight-plan route into an ordered
// sequence of waypoints, disambiguating duplicate-named fixes by
// nearest-neighbor distance to the previously resolved point.
type RouteResolver struct {
	Directory WaypointDirectory
	Measure   geo.DistanceMeasure
}

func NewRouteResolver(directory WaypointDirectory, measure geo.DistanceMeasure) *RouteResolver {
	return &RouteResolver{Directory: directory, Measure: measure}
}

// Resolve walks the whitespace-separated route tokens and returns the
// waypoints they resolve to, in input order.
//
//   - Tokens equal to the departure code, arrival code, or the literal
//     procedure markers "SID"/"STAR" are skipped (airports are anchors, not
//     route waypoints; procedures don't resolve to a single point).
//   - A token with no directory match is skipped: navdata is incomplete in
//     places and one unknown fix must not fail the whole route.
//   - A token with several matches resolves to the candidate nearest the
//     anchor — the last successfully resolved waypoint, or start when
//     nothing has resolved yet. Ties keep the first-listed candidate.
//
// Lookup errors for individual tokens are logged and treated as skips, so
// the returned slice may be shorter than the token count but Resolve itself
// never fails.
func (r *RouteResolver) Resolve(departure, arrival string, start geo.Position, routeText string) []models.Waypoint {
	var resolved []models.Waypoint
	anchor := start

	for _, token := range strings.Fields(routeText) {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}
		if token == departure || token == arrival || token == "SID" || token == "STAR" {
			continue
		}

		candidates, err := r.Directory.FindByIdent(token)
		if err != nil {
			log.Printf("WARN RouteResolver: Lookup failed for token '%s', skipping: %v", token, err)
			continue
		}
		if len(candidates) == 0 {
			log.Printf("RouteResolver: No waypoint found for token '%s', skipping.", token)
			continue
		}

		best := candidates[0]
		if len(candidates) > 1 {
			bestDist := r.Measure.Distance(anchor, geo.Position{Lat: best.Latitude, Lon: best.Longitude})
			for _, c := range candidates[1:] {
				d := r.Measure.Distance(anchor, geo.Position{Lat: c.Latitude, Lon: c.Longitude})
				// Strict less-than keeps the first-listed candidate on ties.
				if d < bestDist {
					best = c
					bestDist = d
				}
			}
		}

		resolved = append(resolved, best)
		anchor = geo.Position{Lat: best.Latitude, Lon: best.Longitude}
	}

	return resolved
}
