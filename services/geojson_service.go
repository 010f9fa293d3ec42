// backend/services/geojson_service.go
package services

import (
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/gewnthar/flightops/backend/models"
)

// GeoJSON export for a PIREP's route. Pure transforms over already-resolved
// data; nothing here touches storage. Coordinate order in the geometries is
// (longitude, latitude) per RFC 7946, reversed from the internal (lat, lon)
// storage order.

// PirepPointFeatures returns a FeatureCollection of point features for the
// departure airport, each route waypoint in order, and the arrival airport.
// Each point carries name/popup/icon properties for the map renderer.
func PirepPointFeatures(departure, arrival *models.Airport, route []models.Waypoint) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	fc.Append(airportFeature(departure))

	for _, wp := range route {
		f := geojson.NewFeature(orb.Point{wp.Longitude, wp.Latitude})
		f.Properties["name"] = wp.Ident
		popup := wp.Ident
		if wp.Name != "" {
			popup = wp.Ident + " - " + wp.Name
		}
		if wp.Frequency != "" {
			popup += " (" + wp.Frequency + ")"
		}
		f.Properties["popup"] = popup
		f.Properties["icon"] = waypointIcon(wp.Type)
		fc.Append(f)
	}

	fc.Append(airportFeature(arrival))
	return fc
}

// PirepLineFeature returns a FeatureCollection containing one LineString
// connecting departure → waypoints → arrival in order.
func PirepLineFeature(departure, arrival *models.Airport, route []models.Waypoint) *geojson.FeatureCollection {
	line := make(orb.LineString, 0, len(route)+2)
	line = append(line, orb.Point{departure.Longitude, departure.Latitude})
	for _, wp := range route {
		line = append(line, orb.Point{wp.Longitude, wp.Latitude})
	}
	line = append(line, orb.Point{arrival.Longitude, arrival.Latitude})

	f := geojson.NewFeature(line)
	f.Properties["name"] = departure.ICAO + " - " + arrival.ICAO

	fc := geojson.NewFeatureCollection()
	fc.Append(f)
	return fc
}

func airportFeature(ap *models.Airport) *geojson.Feature {
	f := geojson.NewFeature(orb.Point{ap.Longitude, ap.Latitude})
	f.Properties["name"] = ap.ICAO
	if ap.Name != "" {
		f.Properties["popup"] = ap.ICAO + " - " + ap.Name
	} else {
		f.Properties["popup"] = ap.ICAO
	}
	f.Properties["icon"] = "airport"
	return f
}

func waypointIcon(waypointType string) string {
	switch strings.ToUpper(waypointType) {
	case models.WaypointTypeVOR:
		return "vor"
	case models.WaypointTypeNDB:
		return "ndb"
	default:
		return "fix"
	}
}
