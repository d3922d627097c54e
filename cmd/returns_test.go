package cmd

import (
	"testing"
	"time"

	"github.com/etnz/bookkeeper"
)

func TestParseSchedule(t *testing.T) {
	flows, err := parseSchedule("2025-01-01:-1000, 2025-06-15:250")
	if err != nil {
		t.Fatalf("parseSchedule() error = %v", err)
	}
	if len(flows) != 2 {
		t.Fatalf("parseSchedule() returned %d flows, want 2", len(flows))
	}
	if got, want := flows[0].Date, bookkeeper.NewDate(2025, time.January, 1); got != want {
		t.Errorf("Date = %v, want %v", got, want)
	}
	if got, want := flows[0].Amount, bookkeeper.M(-1000, "EUR"); !got.Equal(want) {
		t.Errorf("Amount = %v, want %v", got, want)
	}
	if got, want := flows[1].Amount, bookkeeper.M(250, "EUR"); !got.Equal(want) {
		t.Errorf("Amount = %v, want %v", got, want)
	}
}

func TestParseSchedule_Errors(t *testing.T) {
	tests := []string{
		"2025-01-01",          // no amount
		"2025-01-01:abc",      // bad amount
		"january 1st:-1000",   // bad date
		"2025-01-01:-1000,,x", // malformed tail
	}
	for _, in := range tests {
		if _, err := parseSchedule(in); err == nil {
			t.Errorf("parseSchedule(%q) expected an error", in)
		}
	}
}

func TestParseSchedule_Empty(t *testing.T) {
	flows, err := parseSchedule("")
	if err != nil || flows != nil {
		t.Errorf("parseSchedule(\"\") = %v, %v, want nil, nil", flows, err)
	}
}
