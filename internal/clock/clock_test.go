package clock

import (
	"testing"
	"time"
)

func TestStartOfDay(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*3600)
	at := time.Date(2024, 5, 10, 23, 59, 59, 0, loc)
	want := time.Date(2024, 5, 10, 0, 0, 0, 0, loc).Unix()
	if got := StartOfDay(at); got != want {
		t.Errorf("StartOfDay = %d, want %d", got, want)
	}
	if got := StartOfDay(time.Date(2024, 5, 10, 0, 0, 0, 0, loc)); got != want {
		t.Errorf("StartOfDay at midnight = %d, want %d", got, want)
	}
}

func TestStartOfMonth(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*3600)
	at := time.Date(2024, 5, 31, 18, 30, 0, 0, loc)
	want := time.Date(2024, 5, 1, 0, 0, 0, 0, loc).Unix()
	if got := StartOfMonth(at); got != want {
		t.Errorf("StartOfMonth = %d, want %d", got, want)
	}
}

func TestNowIsEpochSeconds(t *testing.T) {
	before := time.Now().Unix()
	got := Now()
	after := time.Now().Unix()
	if got < before || got > after {
		t.Errorf("Now() = %d, outside [%d, %d]", got, before, after)
	}
}
