package shared

import (
	"strings"
	"time"
)

// TimestampLayout mirrors the en-US locale date/time rendering, e.g. "1/2/2024, 3:04:05 PM".
const TimestampLayout = "1/2/2006, 3:04:05 PM"

// FormatTimestamp renders t in loc using [TimestampLayout]. A nil loc uses [time.Local] and a zero time renders as "-".
func FormatTimestamp(t time.Time, loc *time.Location) string {
	if t.IsZero() {
		return "-"
	}
	if loc == nil {
		loc = time.Local
	}
	return t.In(loc).Format(TimestampLayout)
}

// Truncate shortens s to at most n runes, marking the cut with an ellipsis.
func Truncate(s string, n int) string {
	r := []rune(strings.TrimSpace(s))
	if n <= 0 || len(r) <= n {
		return string(r)
	}
	if n == 1 {
		return "…"
	}
	return string(r[:n-1]) + "…"
}
