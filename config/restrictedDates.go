package config

import (
	"os"
	"strings"
	"time"
)

// RestrictedDates returns the set of calendar dates on which write
// operations are refused. Audits and inventory counts happen on these
// days and the ledgers must not move under them.
//
// Set via env:
// - RESTRICTED_DATES="2026-01-31,2026-07-15"
//
// Malformed entries are ignored.
func RestrictedDates() map[string]bool {
	raw := os.Getenv("RESTRICTED_DATES")
	dates := map[string]bool{}
	if strings.TrimSpace(raw) == "" {
		return dates
	}
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if _, err := time.Parse("2006-01-02", part); err != nil {
			continue
		}
		dates[part] = true
	}
	return dates
}

// IsRestrictedDate reports whether t falls on a restricted date.
func IsRestrictedDate(t time.Time) bool {
	return RestrictedDates()[t.Format("2006-01-02")]
}
