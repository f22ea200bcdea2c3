package services

import (
	"testing"
	"time"
)

func TestStatsOverallWindows(t *testing.T) {
	s := newTestService(t)

	// pin the clock to noon so "today" and "last 24h" diverge
	day := time.Date(2024, 5, 10, 12, 0, 0, 0, time.Local)
	now := day.Unix()

	create := func(offset int64) {
		s.now = func() int64 { return now + offset }
		mustCreate(t, s, "t", "text", "alice")
	}

	create(0)               // now
	create(-6 * 3600)       // this morning
	create(-20 * 3600)      // yesterday evening, still within 24h
	create(-3 * 24 * 3600)  // three days ago
	create(-20 * 24 * 3600) // well outside every short window

	s.now = func() int64 { return now }
	if _, err := s.AddAnswer(1, "staff1", "hi"); err != nil {
		t.Fatalf("AddAnswer failed: %v", err)
	}
	if _, err := s.CloseReportBy(2, "done", "staff1"); err != nil {
		t.Fatalf("CloseReportBy failed: %v", err)
	}

	stats, err := s.StatsOverall()
	if err != nil {
		t.Fatalf("StatsOverall failed: %v", err)
	}
	if stats.Total != 5 {
		t.Errorf("total = %d, want 5", stats.Total)
	}
	if stats.Open != 3 || stats.Answered != 1 || stats.Closed != 1 {
		t.Errorf("by status = open %d / answered %d / closed %d, want 3/1/1",
			stats.Open, stats.Answered, stats.Closed)
	}
	if stats.Today != 2 {
		t.Errorf("today = %d, want 2", stats.Today)
	}
	if stats.Last24h != 3 {
		t.Errorf("last24h = %d, want 3", stats.Last24h)
	}
	if stats.Last7d != 4 {
		t.Errorf("last7d = %d, want 4", stats.Last7d)
	}
}

func TestStatsForAdmin(t *testing.T) {
	s := newTestService(t)
	r1 := mustCreate(t, s, "a", "t", "alice")
	r2 := mustCreate(t, s, "b", "t", "bob")

	if _, err := s.AddAnswer(r1, "Staff1", "first"); err != nil {
		t.Fatalf("AddAnswer failed: %v", err)
	}
	if _, err := s.AddAnswer(r1, "staff1", "second"); err != nil {
		t.Fatalf("AddAnswer failed: %v", err)
	}
	if _, err := s.CloseReportBy(r2, "done", "STAFF1"); err != nil {
		t.Fatalf("CloseReportBy failed: %v", err)
	}

	stats, err := s.StatsForAdmin("staff1")
	if err != nil {
		t.Fatalf("StatsForAdmin failed: %v", err)
	}
	if stats.Answers != 3 {
		t.Errorf("answers = %d, want 3 (close answer counts)", stats.Answers)
	}
	if stats.UniqueReports != 2 {
		t.Errorf("unique reports = %d, want 2", stats.UniqueReports)
	}
	if stats.Closes != 1 {
		t.Errorf("closes = %d, want 1", stats.Closes)
	}
	if stats.ProcessedPercent != 100.0 {
		t.Errorf("processed percent = %v, want 100.0", stats.ProcessedPercent)
	}
}

func TestStatsForAdminEmptyStore(t *testing.T) {
	s := newTestService(t)
	stats, err := s.StatsForAdmin("staff1")
	if err != nil {
		t.Fatalf("StatsForAdmin failed: %v", err)
	}
	if stats.Answers != 0 || stats.UniqueReports != 0 || stats.Closes != 0 {
		t.Errorf("empty-store counts = %+v, want zeros", stats)
	}
	if stats.ProcessedPercent != 0.0 {
		t.Errorf("processed percent = %v, want 0.0 (no division by zero)", stats.ProcessedPercent)
	}
}
