package services

import (
	"testing"

	"github.com/saintedlittle/hgn-reports/internal/models"
)

func TestAutoCloseExpired(t *testing.T) {
	s := newTestService(t)
	base := int64(1_000_000)

	s.now = func() int64 { return base }
	stale := mustCreate(t, s, "a", "old report", "alice")
	answered := mustCreate(t, s, "b", "answered report", "bob")
	if _, err := s.AddAnswer(answered, "staff1", "on it"); err != nil {
		t.Fatalf("AddAnswer failed: %v", err)
	}

	s.now = func() int64 { return base + 10 }
	fresh := mustCreate(t, s, "c", "fresh report", "carol")

	// threshold is inclusive: a report created exactly maxAge ago expires
	s.now = func() int64 { return base + 300 }
	closed, err := s.AutoCloseExpired(300, "no answer in 300s")
	if err != nil {
		t.Fatalf("AutoCloseExpired failed: %v", err)
	}
	if len(closed) != 1 || closed[0] != stale {
		t.Fatalf("closed ids = %v, want [%d]", closed, stale)
	}

	r := mustFind(t, s, stale)
	if r.Status != models.StatusClosed {
		t.Errorf("stale report status = %q, want CLOSED", r.Status)
	}
	answers, _ := s.ListAnswers(stale)
	last := answers[len(answers)-1]
	if last.Author != models.ActorSystem || last.Text != "Closed: no answer in 300s" {
		t.Errorf("auto-close answer = %+v", last)
	}

	if r := mustFind(t, s, answered); r.Status != models.StatusAnswered {
		t.Errorf("answered report touched by auto-close: %q", r.Status)
	}
	if r := mustFind(t, s, fresh); r.Status != models.StatusOpen {
		t.Errorf("fresh report touched by auto-close: %q", r.Status)
	}

	// second sweep at the same instant finds nothing new
	closed, err = s.AutoCloseExpired(300, "no answer in 300s")
	if err != nil {
		t.Fatalf("second AutoCloseExpired failed: %v", err)
	}
	if len(closed) != 0 {
		t.Errorf("second sweep closed %v, want none", closed)
	}
}

func TestAutoCloseExpiredEmptyStore(t *testing.T) {
	s := newTestService(t)
	closed, err := s.AutoCloseExpired(300, "reason")
	if err != nil {
		t.Fatalf("AutoCloseExpired failed: %v", err)
	}
	if len(closed) != 0 {
		t.Errorf("closed ids on empty store = %v", closed)
	}
}
