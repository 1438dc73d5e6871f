// Package dateutil handles the YYYY-MM-DD calendar dates the habit service
// speaks. Dates are interpreted in the caller's local calendar.
package dateutil

import (
	"fmt"
	"time"
)

// Layout is the wire format for calendar dates.
const Layout = "2006-01-02"

// Format renders t as a calendar date.
func Format(t time.Time) string { return t.Format(Layout) }

// Today is the current date in the local calendar.
func Today() string { return Format(time.Now()) }

// Parse reads a calendar date in the local time zone.
func Parse(s string) (time.Time, error) {
	return time.ParseInLocation(Layout, s, time.Local)
}

// IsToday reports whether t falls on the current local date.
func IsToday(t time.Time) bool { return Format(t) == Today() }

// DaysAgo counts whole local calendar days between t and now; 0 for today,
// negative for future dates. Normalized through UTC midnights so DST shifts
// cannot skew the count.
func DaysAgo(t time.Time) int {
	return int(utcMidnight(time.Now()).Sub(utcMidnight(t)) / (24 * time.Hour))
}

func utcMidnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Range lists the last n calendar dates ending at end, oldest first.
func Range(n int, end time.Time) []string {
	dates := make([]string, 0, n)
	for i := n - 1; i >= 0; i-- {
		dates = append(dates, Format(end.AddDate(0, 0, -i)))
	}
	return dates
}

// Relative renders t for display: Today, Yesterday, "N days ago" within a
// week, otherwise the plain date.
func Relative(t time.Time) string {
	switch days := DaysAgo(t); {
	case days == 0:
		return "Today"
	case days == 1:
		return "Yesterday"
	case days > 1 && days <= 7:
		return fmt.Sprintf("%d days ago", days)
	default:
		return Format(t)
	}
}
