package mcp

import (
	"context"
	"testing"
	"time"
)

// TestUserIDFromContextDefault verifies the default user ID (1) when no value
// is set in the context.
func TestUserIDFromContextDefault(t *testing.T) {
	ctx := context.Background()
	if id := UserIDFromContext(ctx); id != 1 {
		t.Errorf("UserIDFromContext(empty) = %d, want 1", id)
	}
}

// TestUserIDFromContextSet verifies the user ID is extracted from context
// after being set by WithUserID.
func TestUserIDFromContextSet(t *testing.T) {
	ctx := WithUserID(context.Background(), 42)
	if id := UserIDFromContext(ctx); id != 42 {
		t.Errorf("UserIDFromContext = %d, want 42", id)
	}
}

// TestSinceOrDefault verifies the default lookback window and both accepted
// date formats.
func TestSinceOrDefault(t *testing.T) {
	since, err := sinceOrDefault("", 90)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := time.Now().AddDate(0, 0, -90)
	if diff := since.Sub(want); diff < -time.Minute || diff > time.Minute {
		t.Errorf("default since = %v, want ~%v", since, want)
	}

	since, err = sinceOrDefault("2026-01-05", 90)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if since.Year() != 2026 || since.Month() != 1 || since.Day() != 5 {
		t.Errorf("since = %v, want 2026-01-05", since)
	}

	since, err = sinceOrDefault("2026-06-15T10:30:00Z", 90)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if since.Hour() != 10 || since.Minute() != 30 {
		t.Errorf("since = %v, want 10:30", since)
	}

	if _, err := sinceOrDefault("not-a-date", 90); err == nil {
		t.Error("expected error for invalid date")
	}
}
