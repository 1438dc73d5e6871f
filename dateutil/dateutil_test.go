package dateutil

import (
	"testing"
	"time"
)

func TestFormatParse(t *testing.T) {
	t.Parallel()

	day, err := Parse("2026-08-29")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if Format(day) != "2026-08-29" {
		t.Fatalf("round trip: %s", Format(day))
	}
	if _, err := Parse("29/08/2026"); err == nil {
		t.Fatalf("want error on bad layout")
	}
}

func TestTodayAndRelative(t *testing.T) {
	t.Parallel()

	now := time.Now()
	if !IsToday(now) {
		t.Fatalf("IsToday(now) = false")
	}
	if got := Relative(now); got != "Today" {
		t.Fatalf("Relative(now) = %q", got)
	}
	if got := Relative(now.AddDate(0, 0, -1)); got != "Yesterday" {
		t.Fatalf("Relative(yesterday) = %q", got)
	}
	if got := Relative(now.AddDate(0, 0, -3)); got != "3 days ago" {
		t.Fatalf("Relative(-3d) = %q", got)
	}
	old := now.AddDate(0, 0, -30)
	if got := Relative(old); got != Format(old) {
		t.Fatalf("Relative(-30d) = %q", got)
	}
}

func TestRange(t *testing.T) {
	t.Parallel()

	end, _ := Parse("2026-08-29")
	got := Range(3, end)
	want := []string{"2026-08-27", "2026-08-28", "2026-08-29"}
	if len(got) != len(want) {
		t.Fatalf("len = %d", len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Range[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}
