package daily

import (
	"testing"
	"time"
)

func TestDateKey(t *testing.T) {
	ts := time.Date(2025, 3, 9, 23, 30, 0, 0, time.FixedZone("UTC+5", 5*3600))
	if got := DateKey(ts); got != "2025-03-09" {
		t.Errorf("DateKey = %q, want 2025-03-09", got)
	}
}

func TestDealSeedDeterministic(t *testing.T) {
	d := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	a := DealSeed(d, "salt")
	b := DealSeed(d.Add(3*time.Hour), "salt") // same UTC date
	if a != b {
		t.Errorf("same date produced different seeds: %d vs %d", a, b)
	}
	if DealSeed(d.AddDate(0, 0, 1), "salt") == a {
		t.Error("next day produced the same seed")
	}
	if DealSeed(d, "other_salt") == a {
		t.Error("different salt produced the same seed")
	}
}
