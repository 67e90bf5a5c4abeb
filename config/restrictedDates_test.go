package config_test

import (
	"testing"
	"time"

	"github.com/defensoria/siri-backend/config"
)

func TestRestrictedDatesParsing(t *testing.T) {
	t.Setenv("RESTRICTED_DATES", "2026-01-31, 2026-07-15 ,garbage,2026-13-01")
	dates := config.RestrictedDates()
	if len(dates) != 2 {
		t.Fatalf("len = %d, want 2 (malformed entries dropped)", len(dates))
	}
	if !dates["2026-01-31"] || !dates["2026-07-15"] {
		t.Fatalf("dates = %v", dates)
	}
}

func TestRestrictedDatesEmpty(t *testing.T) {
	t.Setenv("RESTRICTED_DATES", "")
	if len(config.RestrictedDates()) != 0 {
		t.Fatal("expected no restricted dates")
	}
}

func TestIsRestrictedDate(t *testing.T) {
	t.Setenv("RESTRICTED_DATES", "2026-01-31")
	if !config.IsRestrictedDate(time.Date(2026, 1, 31, 14, 30, 0, 0, time.UTC)) {
		t.Error("restricted day not flagged")
	}
	if config.IsRestrictedDate(time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)) {
		t.Error("ordinary day flagged")
	}
}
