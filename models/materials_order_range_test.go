package models_test

import (
	"testing"
	"time"

	"github.com/defensoria/siri-backend/models"
)

func TestFormatDateRange(t *testing.T) {
	from := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)
	got := models.FormatDateRange(from, to)
	want := "2026-03-01 - 2026-03-31"
	if got != want {
		t.Fatalf("FormatDateRange = %q, want %q", got, want)
	}
}

func TestFormatDateRangeIgnoresTimeOfDay(t *testing.T) {
	from := time.Date(2026, 3, 1, 23, 59, 59, 0, time.UTC)
	to := time.Date(2026, 3, 31, 1, 0, 0, 0, time.UTC)
	if got := models.FormatDateRange(from, to); got != "2026-03-01 - 2026-03-31" {
		t.Fatalf("FormatDateRange = %q", got)
	}
}
