package utils

import "testing"

func TestNormalizeAirportCode(t *testing.T) {
	cases := map[string]string{
		"kjfk":    "KJFK",
		" KORD ":  "KORD",
		"eGLl":    "EGLL",
		"\tlfpg ": "LFPG",
	}
	for in, want := range cases {
		if got := NormalizeAirportCode(in); got != want {
			t.Errorf("NormalizeAirportCode(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestIsICAOCode(t *testing.T) {
	valid := []string{"KJFK", "EGLL", "YSSY"}
	for _, code := range valid {
		if !IsICAOCode(code) {
			t.Errorf("IsICAOCode(%q) = false, want true", code)
		}
	}

	invalid := []string{"", "JFK", "KJFKX", "K1FK", "kjfk"}
	for _, code := range invalid {
		if IsICAOCode(code) {
			t.Errorf("IsICAOCode(%q) = true, want false", code)
		}
	}
}
