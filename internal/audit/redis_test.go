package audit

import (
	"context"
	"testing"
	"time"
)

func TestBuildKey_DayBucketsInUTC(t *testing.T) {
	// 23:30 in UTC-5 is already the next day in UTC.
	loc := time.FixedZone("UTC-5", -5*3600)
	at := time.Date(2024, 3, 10, 23, 30, 0, 0, loc)

	if got := buildKey(at); got != "audit:20240311" {
		t.Errorf("expected audit:20240311, got %q", got)
	}
}

func TestBuildKey_SameDaySameKey(t *testing.T) {
	morning := time.Date(2024, 3, 10, 1, 0, 0, 0, time.UTC)
	evening := time.Date(2024, 3, 10, 23, 59, 0, 0, time.UTC)

	if buildKey(morning) != buildKey(evening) {
		t.Error("entries on the same UTC day must share a key")
	}
}

func TestNoopTrail(t *testing.T) {
	var trail Trail = NoopTrail{}

	if err := trail.Record(context.Background(), Entry{Action: ActionCreated}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
