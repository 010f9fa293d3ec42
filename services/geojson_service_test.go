package services

import (
	"testing"

	"github.com/paulmach/orb"

	"github.com/gewnthar/flightops/backend/models"
)

func testAirports() (*models.Airport, *models.Airport) {
	dep := &models.Airport{ICAO: "KJFK", Name: "Kennedy", Latitude: 40.6413, Longitude: -73.7781}
	arr := &models.Airport{ICAO: "KORD", Name: "O'Hare", Latitude: 41.9742, Longitude: -87.9073}
	return dep, arr
}

func TestPirepPointFeaturesOrderAndCoordinates(t *testing.T) {
	dep, arr := testAirports()
	route := []models.Waypoint{
		{Ident: "WAVEY", Name: "Wavey", Type: models.WaypointTypeFix, Latitude: 41.0, Longitude: -76.0},
		{Ident: "GIJ", Name: "Gipper", Type: models.WaypointTypeVOR, Latitude: 41.77, Longitude: -86.32, Frequency: "115.70"},
	}

	fc := PirepPointFeatures(dep, arr, route)

	if len(fc.Features) != 4 {
		t.Fatalf("feature count = %d, want 4 (departure + 2 waypoints + arrival)", len(fc.Features))
	}

	first, ok := fc.Features[0].Geometry.(orb.Point)
	if !ok {
		t.Fatalf("first feature geometry is %T, want orb.Point", fc.Features[0].Geometry)
	}
	// GeoJSON is (lon, lat).
	if first[0] != dep.Longitude || first[1] != dep.Latitude {
		t.Errorf("departure point = (%f, %f), want (lon %f, lat %f)", first[0], first[1], dep.Longitude, dep.Latitude)
	}
	if got := fc.Features[0].Properties["name"]; got != "KJFK" {
		t.Errorf("departure name = %v, want KJFK", got)
	}
	if got := fc.Features[0].Properties["icon"]; got != "airport" {
		t.Errorf("departure icon = %v, want airport", got)
	}

	if got := fc.Features[1].Properties["name"]; got != "WAVEY" {
		t.Errorf("first waypoint name = %v, want WAVEY", got)
	}
	if got := fc.Features[1].Properties["icon"]; got != "fix" {
		t.Errorf("fix icon = %v, want fix", got)
	}

	if got := fc.Features[2].Properties["icon"]; got != "vor" {
		t.Errorf("VOR icon = %v, want vor", got)
	}
	if got := fc.Features[2].Properties["popup"]; got != "GIJ - Gipper (115.70)" {
		t.Errorf("VOR popup = %v, want ident, name and frequency", got)
	}

	if got := fc.Features[3].Properties["name"]; got != "KORD" {
		t.Errorf("arrival name = %v, want KORD", got)
	}
}

func TestPirepPointFeaturesNoRoute(t *testing.T) {
	dep, arr := testAirports()

	fc := PirepPointFeatures(dep, arr, nil)

	if len(fc.Features) != 2 {
		t.Fatalf("feature count = %d, want just departure and arrival", len(fc.Features))
	}
}

func TestPirepLineFeature(t *testing.T) {
	dep, arr := testAirports()
	route := []models.Waypoint{
		{Ident: "WAVEY", Latitude: 41.0, Longitude: -76.0},
	}

	fc := PirepLineFeature(dep, arr, route)

	if len(fc.Features) != 1 {
		t.Fatalf("feature count = %d, want 1", len(fc.Features))
	}
	line, ok := fc.Features[0].Geometry.(orb.LineString)
	if !ok {
		t.Fatalf("geometry is %T, want orb.LineString", fc.Features[0].Geometry)
	}
	if len(line) != 3 {
		t.Fatalf("line has %d points, want 3", len(line))
	}
	if line[0][0] != dep.Longitude || line[0][1] != dep.Latitude {
		t.Errorf("line start = (%f, %f), want departure (lon, lat)", line[0][0], line[0][1])
	}
	if line[1][0] != -76.0 || line[1][1] != 41.0 {
		t.Errorf("line middle = (%f, %f), want the waypoint", line[1][0], line[1][1])
	}
	if line[2][0] != arr.Longitude || line[2][1] != arr.Latitude {
		t.Errorf("line end = (%f, %f), want arrival (lon, lat)", line[2][0], line[2][1])
	}
	if got := fc.Features[0].Properties["name"]; got != "KJFK - KORD" {
		t.Errorf("line name = %v, want KJFK - KORD", got)
	}
}

func TestComputeRank(t *testing.T) {
	ranks := []models.Rank{
		{ID: 1, HoursThreshold: 0},
		{ID: 2, HoursThreshold: 10},
		{ID: 3, HoursThreshold: 50},
	}

	cases := []struct {
		hours  float64
		wantID int64
		wantOK bool
	}{
		{0, 1, true},
		{9.99, 1, true},
		{10, 2, true},
		{49.9, 2, true},
		{50, 3, true},
		{500, 3, true},
	}
	for _, c := range cases {
		id, ok := ComputeRank(ranks, c.hours)
		if id != c.wantID || ok != c.wantOK {
			t.Errorf("ComputeRank(%.2f) = (%d, %v), want (%d, %v)", c.hours, id, ok, c.wantID, c.wantOK)
		}
	}

	if _, ok := ComputeRank(nil, 100); ok {
		t.Error("ComputeRank with no ranks reported a match")
	}

	steep := []models.Rank{{ID: 9, HoursThreshold: 25}}
	if _, ok := ComputeRank(steep, 10); ok {
		t.Error("ComputeRank below the lowest threshold reported a match")
	}
}
