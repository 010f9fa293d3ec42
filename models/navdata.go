// backend/models/navdata.go
package models

import "time"

// NavdataEffectiveInfo holds the AIRAC effective window scraped from the
// navdata publisher's cycle page.
type NavdataEffectiveInfo struct {
	EffectiveFrom  time.Time
	EffectiveUntil time.Time
	RawDateString  string    // The full "Effective ... until ..." string scraped
	LastChecked    time.Time // When this information was scraped
}

// NavdataVersion tracks the freshness of a loaded navdata source.
type NavdataVersion struct {
	ID                     int64      `db:"id" json:"id"`
	SourceName             string     `db:"source_name" json:"source_name"` // "Waypoints" or "Airports"
	SourceFileURL          string     `db:"source_file_url" json:"source_file_url"`
	LastDownloadedFilename string     `db:"last_downloaded_filename" json:"last_downloaded_filename,omitempty"`
	EffectiveFrom          *time.Time `db:"effective_from" json:"effective_from,omitempty"`
	EffectiveUntil         *time.Time `db:"effective_until" json:"effective_until,omitempty"`
	LastCheckedAt          *time.Time `db:"last_checked_at" json:"last_checked_at,omitempty"`
	LastDownloadedAt       *time.Time `db:"last_downloaded_at" json:"last_downloaded_at,omitempty"`
	CreatedAt              time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt              time.Time  `db:"updated_at" json:"updated_at"`
}
