package main

import (
	"testing"
	"time"
)

func TestGetEnv(t *testing.T) {
	t.Setenv("HABIT_BASE_URL", "  https://api.example.com  ")
	if got := getEnv("HABIT_BASE_URL", "fallback"); got != "https://api.example.com" {
		t.Fatalf("getEnv = %q", got)
	}
	if got := getEnv("HABIT_UNSET_KEY", "fallback"); got != "fallback" {
		t.Fatalf("getEnv fallback = %q", got)
	}
}

func TestGetDuration(t *testing.T) {
	t.Setenv("HABIT_TIMEOUT", "2s")
	if got := getDuration("HABIT_TIMEOUT", time.Second); got != 2*time.Second {
		t.Fatalf("getDuration = %v", got)
	}

	t.Setenv("HABIT_TIMEOUT", "bogus")
	if got := getDuration("HABIT_TIMEOUT", time.Second); got != time.Second {
		t.Fatalf("getDuration on bad value = %v", got)
	}

	if got := getDuration("HABIT_UNSET_KEY", 10*time.Second); got != 10*time.Second {
		t.Fatalf("getDuration fallback = %v", got)
	}
}
