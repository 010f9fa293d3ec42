// backend/models/waypoint.go
package models

// Waypoint type tags as published in the navdata CSV.
const (
	WaypointTypeVOR = "VOR"
	WaypointTypeNDB = "NDB"
	WaypointTypeFix = "FIX"
)

// Waypoint represents one named fix in the navigation network, loaded from
// the navdata waypoints CSV. Identifiers are NOT unique worldwide — several
// fixes may share the same ident — so lookups return a candidate list and
// the route resolver picks the nearest one.
// CSV tags EXACTLY match the navdata file headers.
type Waypoint struct {
	ID int64 `csv:"-" db:"id" json:"id"` // Database primary key, not from CSV

	Ident     string  `csv:"Ident" db:"ident" json:"ident"`
	Name      string  `csv:"Name" db:"name" json:"name"`
	Type      string  `csv:"Type" db:"waypoint_type" json:"type"` // VOR / NDB / FIX
	Latitude  float64 `csv:"Latitude" db:"latitude" json:"lat"`
	Longitude float64 `csv:"Longitude" db:"longitude" json:"lon"`
	Frequency string  `csv:"Frequency" db:"frequency" json:"frequency,omitempty"` // Empty for plain fixes

	// Database specific fields
	SourceFile string `csv:"-" db:"source_file" json:"-"`
}

// Airport represents an airport from the navdata airports CSV. Airports are
// route anchors, not route waypoints: their coordinates seed the resolver's
// nearest-neighbor search and bracket the GeoJSON line.
type Airport struct {
	ID int64 `csv:"-" db:"id" json:"id"`

	ICAO      string  `csv:"ICAO" db:"icao" json:"icao"`
	IATA      string  `csv:"IATA" db:"iata" json:"iata,omitempty"`
	Name      string  `csv:"Name" db:"name" json:"name"`
	City      string  `csv:"City" db:"city" json:"city,omitempty"`
	Country   string  `csv:"Country" db:"country" json:"country,omitempty"`
	Latitude  float64 `csv:"Latitude" db:"latitude" json:"lat"`
	Longitude float64 `csv:"Longitude" db:"longitude" json:"lon"`

	// Database specific fields
	SourceFile string `csv:"-" db:"source_file" json:"-"`
}
