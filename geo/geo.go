// backend/geo/geo.go
package geo

import (
	"fmt"
	"math"
	"strings"
)

// R is the mean earth radius in metres.
const R = 6371e3

// Position is a geographic coordinate in floating point degrees.
// Internal storage order is (lat, lon); GeoJSON output reverses it.
type Position struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// DistanceMeasure selects the metric used for nearest-neighbor waypoint
// disambiguation. The legacy system selected this with a free-form string
// flag; here it is a typed enum parsed once from config.
type DistanceMeasure int

const (
	// MeasureFlat is an equirectangular flat-plane approximation. Good
	// enough for picking between duplicate fixes and cheaper than the
	// spherical form. This is the default.
	MeasureFlat DistanceMeasure = iota
	// MeasureGreatCircle is the haversine great-circle distance.
	MeasureGreatCircle
)

// ParseMeasure maps the config string to a DistanceMeasure.
// An empty string means the default (flat).
func ParseMeasure(s string) (DistanceMeasure, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "flat":
		return MeasureFlat, nil
	case "greatcircle", "great-circle", "haversine":
		return MeasureGreatCircle, nil
	}
	return MeasureFlat, fmt.Errorf("unknown distance measure %q (use 'flat' or 'greatcircle')", s)
}

func (m DistanceMeasure) String() string {
	if m == MeasureGreatCircle {
		return "greatcircle"
	}
	return "flat"
}

// Distance returns the distance between two positions in metres using the
// selected measure.
func (m DistanceMeasure) Distance(from, to Position) float64 {
	if m == MeasureGreatCircle {
		return greatCircleDistance(from, to)
	}
	return flatDistance(from, to)
}

func toRadians(a float64) float64 {
	return a * math.Pi / 180.0
}

func toDegrees(a float64) float64 {
	return a * 180.0 / math.Pi
}

// flatDistance is the equirectangular approximation: project onto a plane
// at the mean latitude and take the euclidean distance.
func flatDistance(from, to Position) float64 {
	φ1 := toRadians(from.Lat)
	φ2 := toRadians(to.Lat)
	Δφ := φ2 - φ1
	Δλ := toRadians(to.Lon - from.Lon)

	x := Δλ * math.Cos((φ1+φ2)/2)
	return R * math.Sqrt(x*x+Δφ*Δφ)
}

func greatCircleDistance(from, to Position) float64 {
	φ1 := toRadians(from.Lat)
	φ2 := toRadians(to.Lat)
	Δφ := φ2 - φ1
	Δλ := toRadians(to.Lon - from.Lon)

	a := math.Sin(Δφ/2)*math.Sin(Δφ/2) + math.Cos(φ1)*math.Cos(φ2)*math.Sin(Δλ/2)*math.Sin(Δλ/2)
	δ := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return R * δ
}

// Midpoint returns the great-circle midpoint between two positions.
// Pure geometry, no side effects.
func Midpoint(a, b Position) Position {
	φ1 := toRadians(a.Lat)
	φ2 := toRadians(b.Lat)
	λ1 := toRadians(a.Lon)
	Δλ := toRadians(b.Lon - a.Lon)

	bx := math.Cos(φ2) * math.Cos(Δλ)
	by := math.Cos(φ2) * math.Sin(Δλ)

	φm := math.Atan2(math.Sin(φ1)+math.Sin(φ2),
		math.Sqrt((math.Cos(φ1)+bx)*(math.Cos(φ1)+bx)+by*by))
	λm := λ1 + math.Atan2(by, math.Cos(φ1)+bx)

	return Position{
		Lat: toDegrees(φm),
		Lon: wrap180(toDegrees(λm)),
	}
}

// wrap180 normalizes a longitude to -180..+180.
func wrap180(d float64) float64 {
	if -180.0 <= d && d <= 180.0 {
		return d
	}
	return math.Mod(d+540.0, 360.0) - 180.0
}
