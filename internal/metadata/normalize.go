// file: internal/metadata/normalize.go
// version: 1.1.0
// guid: 5b7d2e90-8c4f-4a3b-b1e6-2f9a0d8c4e71

package metadata

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var yearPattern = regexp.MustCompile(`\b(\d{4})\b`)

// yearFromRawDate pulls the first four-digit token out of a free-form date
// string. Providers report dates in wildly different shapes ("2003",
// "2003-07-14", "July 14, 2003"); anything without a four-digit token yields
// nil. A missing year is normal data, not an error.
func yearFromRawDate(raw string) *int {
	match := yearPattern.FindString(raw)
	if match == "" {
		return nil
	}
	year, err := strconv.Atoi(match)
	if err != nil {
		return nil
	}
	return &year
}

// parseCalendarDate parses a strict YYYY-MM-DD calendar date. Any other shape
// yields nil; the year may still be recoverable via yearFromRawDate.
func parseCalendarDate(raw string) *time.Time {
	parsed, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil
	}
	return &parsed
}

// uniqueStrings removes duplicate values, keeping the first occurrence of
// each. Empty strings are dropped.
func uniqueStrings(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// firstNonEmpty returns the first value with non-whitespace content, or "".
// Used for field fallbacks; candidates are never concatenated.
func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

// intPtr is a small convenience for optional numeric fields.
func intPtr(v int) *int {
	return &v
}
