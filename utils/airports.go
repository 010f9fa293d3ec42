// backend/utils/airports.go
package utils

import "strings"

// NormalizeAirportCode trims and uppercases an airport code as filed by the
// pilot. Codes are stored and matched in ICAO form.
func NormalizeAirportCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// IsICAOCode reports whether the (normalized) code looks like a 4-letter
// ICAO identifier.
func IsICAOCode(code string) bool {
	if len(code) != 4 {
		return false
	}
	for _, c := range code {
		if c < 'A' || c > 'Z' {
			return false
		}
	}
	return true
}
