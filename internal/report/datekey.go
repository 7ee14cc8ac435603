package report

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

const dayLayout = "2006-01-02"

// naivePattern matches a local wall-clock timestamp: a date optionally
// followed by a time, with no zone designator. The match boundaries are
// load-bearing for day bucketing and must not be widened.
var naivePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}([T ]\d{2}:\d{2}(:\d{2}(\.\d+)?)?)?$`)

// absoluteLayouts are tried in order for timestamps that carry a zone.
var absoluteLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02T15:04:05.999999999Z0700",
	"2006-01-02 15:04:05.999999999Z0700",
	"2006-01-02T15:04:05.999999999Z07",
	"2006-01-02 15:04:05.999999999Z07",
	"2006-01-02T15:04Z07:00",
	"2006-01-02 15:04Z07:00",
}

// DateKey returns the YYYY-MM-DD calendar day of raw.
//
// Naive timestamps keep their date portion verbatim. Timestamps with a zone
// or offset are projected into loc first. ok is false when raw cannot be
// parsed; such records are excluded from date-ranged reports.
func DateKey(raw string, loc *time.Location) (key string, ok bool) {
	raw = strings.TrimSpace(raw)
	if naivePattern.MatchString(raw) {
		return raw[:10], true
	}
	if loc == nil {
		loc = time.UTC
	}
	for _, layout := range absoluteLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.In(loc).Format(dayLayout), true
		}
	}
	return "", false
}

// InRange reports whether key lies in the closed interval [start, end].
// An empty bound is open. Keys compare as strings.
func InRange(key, start, end string) bool {
	if start != "" && key < start {
		return false
	}
	if end != "" && key > end {
		return false
	}
	return true
}

// ValidDateKey reports whether s is a real calendar day in YYYY-MM-DD form.
func ValidDateKey(s string) bool {
	if len(s) != len(dayLayout) {
		return false
	}
	_, err := time.Parse(dayLayout, s)
	return err == nil
}

// WidenRange extends both bounds by one day. Stored timestamps that carry an
// offset may land on a neighbouring day once projected, so the store's
// day-prefix filter must be looser than the final one. Empty bounds stay empty.
func WidenRange(start, end string) (string, string) {
	shift := func(key string, days int) string {
		if key == "" {
			return ""
		}
		t, err := time.Parse(dayLayout, key)
		if err != nil {
			return key
		}
		return t.AddDate(0, 0, days).Format(dayLayout)
	}
	return shift(start, -1), shift(end, 1)
}

// WeekOfMonth returns the week bucket of key as "YYYY-MM/wN". Weeks start on
// Monday and never span months: the 1st is always in w1, and a new week
// starts at each following Monday.
func WeekOfMonth(key string) (string, error) {
	t, err := time.Parse(dayLayout, key)
	if err != nil {
		return "", fmt.Errorf("invalid date key %q: %w", key, err)
	}
	first := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	// Weekday of the 1st with Monday as 0.
	offset := (int(first.Weekday()) + 6) % 7
	week := (t.Day()-1+offset)/7 + 1
	return fmt.Sprintf("%04d-%02d/w%d", t.Year(), int(t.Month()), week), nil
}
