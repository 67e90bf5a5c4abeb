package utils_test

import (
	"testing"
	"time"

	"github.com/defensoria/siri-backend/utils"
)

func TestParseDate(t *testing.T) {
	got, err := utils.ParseDate(" 2026-03-05 ")
	if err != nil {
		t.Fatalf("ParseDate: %v", err)
	}
	want := time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("ParseDate = %s, want %s", got, want)
	}
}

func TestParseDateRejectsOtherFormats(t *testing.T) {
	for _, bad := range []string{"05/03/2026", "2026-3-5", "yesterday", ""} {
		if _, err := utils.ParseDate(bad); err == nil {
			t.Errorf("ParseDate(%q) accepted", bad)
		}
	}
}

func TestMonthRange(t *testing.T) {
	start, end, err := utils.MonthRange("2026-01")
	if err != nil {
		t.Fatalf("MonthRange: %v", err)
	}
	if !start.Equal(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("start = %s", start)
	}
	if !end.Equal(time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("end = %s", end)
	}
}

func TestMonthRangeDecemberRollsOver(t *testing.T) {
	start, end, err := utils.MonthRange("2025-12")
	if err != nil {
		t.Fatalf("MonthRange: %v", err)
	}
	if start.Year() != 2025 || end.Year() != 2026 || end.Month() != time.January {
		t.Fatalf("range = %s .. %s", start, end)
	}
}

func TestMonthRangeInvalid(t *testing.T) {
	if _, _, err := utils.MonthRange("01-2026"); err == nil {
		t.Fatal("MonthRange accepted MM-YYYY")
	}
}

func TestIsValidEmail(t *testing.T) {
	if !utils.IsValidEmail("depositos@defensoria.gob.ar") {
		t.Error("valid address rejected")
	}
	if utils.IsValidEmail("not-an-email") {
		t.Error("invalid address accepted")
	}
}

func TestExecTemplate(t *testing.T) {
	out, err := utils.ExecTemplate(
		"SELECT 1{{- if .withFilter}} WHERE id = @id{{- end}}",
		map[string]interface{}{"withFilter": true},
	)
	if err != nil {
		t.Fatalf("ExecTemplate: %v", err)
	}
	if out != "SELECT 1 WHERE id = @id" {
		t.Fatalf("out = %q", out)
	}

	out, err = utils.ExecTemplate(
		"SELECT 1{{- if .withFilter}} WHERE id = @id{{- end}}",
		map[string]interface{}{},
	)
	if err != nil {
		t.Fatalf("ExecTemplate: %v", err)
	}
	if out != "SELECT 1" {
		t.Fatalf("out = %q", out)
	}
}
