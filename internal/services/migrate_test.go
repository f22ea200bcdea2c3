package services

import (
	"testing"

	"github.com/saintedlittle/hgn-reports/internal/models"
)

func TestMigrateAutoHiddenToClosed(t *testing.T) {
	s := newTestService(t)

	legacy := mustCreate(t, s, "a", "old", "alice")
	open := mustCreate(t, s, "b", "new", "bob")
	if err := s.conn().Model(&models.Report{}).
		Where("id = ?", legacy).
		Update("status", models.StatusAutoHidden).Error; err != nil {
		t.Fatalf("failed to seed legacy status: %v", err)
	}

	n, err := s.MigrateAutoHiddenToClosed("timed out")
	if err != nil {
		t.Fatalf("MigrateAutoHiddenToClosed failed: %v", err)
	}
	if n != 1 {
		t.Errorf("migrated = %d, want 1", n)
	}

	r := mustFind(t, s, legacy)
	if r.Status != models.StatusClosed {
		t.Errorf("legacy report status = %q, want CLOSED", r.Status)
	}
	answers, _ := s.ListAnswers(legacy)
	if len(answers) != 1 {
		t.Fatalf("legacy report answers = %d, want 1", len(answers))
	}
	if answers[0].Author != models.ActorSystem || answers[0].Text != "Closed: timed out" {
		t.Errorf("migration answer = %+v", answers[0])
	}
	if answers[0].Kind != models.AnswerKindClose {
		t.Errorf("migration answer kind = %q, want %q", answers[0].Kind, models.AnswerKindClose)
	}

	if r := mustFind(t, s, open); r.Status != models.StatusOpen {
		t.Errorf("untouched report status = %q, want OPEN", r.Status)
	}

	// nothing left to migrate
	n, err = s.MigrateAutoHiddenToClosed("timed out")
	if err != nil {
		t.Fatalf("second MigrateAutoHiddenToClosed failed: %v", err)
	}
	if n != 0 {
		t.Errorf("second migration moved %d rows, want 0", n)
	}
}

func TestBackfillAnswerKinds(t *testing.T) {
	s := newTestService(t)
	id := mustCreate(t, s, "a", "t", "alice")

	seed := func(text, kind string) {
		if err := s.conn().Create(&models.ReportAnswer{
			ReportID:  id,
			Author:    "staff1",
			Text:      text,
			Kind:      kind,
			CreatedAt: s.now(),
		}).Error; err != nil {
			t.Fatalf("failed to seed answer: %v", err)
		}
	}
	seed("Closed: legacy reason", models.AnswerKindUser) // pre-kind close row
	seed("plain reply", models.AnswerKindUser)
	seed("Closed: already tagged", models.AnswerKindClose)

	n, err := s.BackfillAnswerKinds()
	if err != nil {
		t.Fatalf("BackfillAnswerKinds failed: %v", err)
	}
	if n != 1 {
		t.Errorf("backfilled = %d, want 1", n)
	}

	answers, _ := s.ListAnswers(id)
	for _, a := range answers {
		want := models.AnswerKindUser
		if len(a.Text) >= 7 && a.Text[:7] == "Closed:" {
			want = models.AnswerKindClose
		}
		if a.Kind != want {
			t.Errorf("answer %q kind = %q, want %q", a.Text, a.Kind, want)
		}
	}

	n, err = s.BackfillAnswerKinds()
	if err != nil {
		t.Fatalf("second BackfillAnswerKinds failed: %v", err)
	}
	if n != 0 {
		t.Errorf("second backfill moved %d rows, want 0", n)
	}
}
