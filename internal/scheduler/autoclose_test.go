package scheduler

import (
	"sync"
	"testing"
	"time"

	"github.com/saintedlittle/hgn-reports/internal/config"
	"github.com/saintedlittle/hgn-reports/internal/i18n"
	"github.com/saintedlittle/hgn-reports/internal/models"
	"github.com/saintedlittle/hgn-reports/internal/notify"
	"github.com/saintedlittle/hgn-reports/internal/services"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type recordingSink struct {
	mu        sync.Mutex
	events    []notify.Event
	refreshes int
}

func (r *recordingSink) Deliver(ev notify.Event) {
	r.mu.Lock()
	r.events = append(r.events, ev)
	r.mu.Unlock()
}

func (r *recordingSink) Refresh() {
	r.mu.Lock()
	r.refreshes++
	r.mu.Unlock()
}

func (r *recordingSink) snapshot() ([]notify.Event, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]notify.Event(nil), r.events...), r.refreshes
}

func setupTask(t *testing.T) (*AutoClose, *gorm.DB, *services.ReportService, *recordingSink) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test DB: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := db.AutoMigrate(&models.Report{}, &models.ReportAnswer{}); err != nil {
		t.Fatalf("failed to migrate test models: %v", err)
	}

	reports := services.NewReportService(db)
	dispatcher := notify.NewDispatcher(reports)
	sink := &recordingSink{}
	dispatcher.Register(sink)
	holder := config.NewHolder(&config.Config{AutoHideSeconds: 300})

	task := &AutoClose{
		reports:    reports,
		dispatcher: dispatcher,
		msg:        i18n.New("en"),
		cfg:        holder,
		done:       make(chan struct{}),
	}
	return task, db, reports, sink
}

func TestTickClosesStaleReports(t *testing.T) {
	task, db, reports, sink := setupTask(t)

	stale := models.Report{
		Target:    "Mallory",
		Text:      "hax",
		Author:    "alice",
		CreatedAt: time.Now().Unix() - 600,
		Status:    models.StatusOpen,
	}
	if err := db.Create(&stale).Error; err != nil {
		t.Fatalf("failed to seed report: %v", err)
	}
	fresh, err := reports.CreateReport("Trent", "spam", "bob")
	if err != nil {
		t.Fatalf("CreateReport failed: %v", err)
	}

	task.tick()

	r, err := reports.FindReport(stale.ID)
	if err != nil || r == nil {
		t.Fatalf("FindReport = (%v, %v)", r, err)
	}
	if r.Status != models.StatusClosed {
		t.Errorf("stale report status = %q, want CLOSED", r.Status)
	}
	if r, _ := reports.FindReport(fresh); r.Status != models.StatusOpen {
		t.Errorf("fresh report status = %q, want OPEN", r.Status)
	}

	answers, _ := reports.ListAnswers(stale.ID)
	if len(answers) != 1 {
		t.Fatalf("stale report answers = %d, want 1", len(answers))
	}
	if answers[0].Text != "Closed: no staff reply within 300 seconds" {
		t.Errorf("auto-close answer text = %q", answers[0].Text)
	}

	events, refreshes := sink.snapshot()
	if len(events) != 1 || events[0].Kind != notify.KindStaffClose || events[0].ReportID != stale.ID {
		t.Errorf("events = %+v, want one staff_close for report %d", events, stale.ID)
	}
	if refreshes != 1 {
		t.Errorf("refreshes = %d, want 1", refreshes)
	}
}

func TestTickIsQuietWhenNothingExpires(t *testing.T) {
	task, _, reports, sink := setupTask(t)
	if _, err := reports.CreateReport("Trent", "spam", "bob"); err != nil {
		t.Fatalf("CreateReport failed: %v", err)
	}

	task.tick()

	events, refreshes := sink.snapshot()
	if len(events) != 0 || refreshes != 0 {
		t.Errorf("idle tick produced events %+v and %d refreshes", events, refreshes)
	}
}

func TestTickPicksUpReloadedThreshold(t *testing.T) {
	task, db, reports, sink := setupTask(t)

	r := models.Report{
		Target:    "Mallory",
		Text:      "hax",
		Author:    "alice",
		CreatedAt: time.Now().Unix() - 60,
		Status:    models.StatusOpen,
	}
	if err := db.Create(&r).Error; err != nil {
		t.Fatalf("failed to seed report: %v", err)
	}

	task.tick()
	if got, _ := reports.FindReport(r.ID); got.Status != models.StatusOpen {
		t.Fatalf("report closed under the 300s threshold")
	}

	// reload drops the threshold; the next tick must honor it
	task.cfg.Swap(&config.Config{AutoHideSeconds: 30})
	task.tick()

	if got, _ := reports.FindReport(r.ID); got.Status != models.StatusClosed {
		t.Errorf("report status = %q after threshold reload, want CLOSED", got.Status)
	}
	events, _ := sink.snapshot()
	if len(events) != 1 || events[0].Reason != "no staff reply within 30 seconds" {
		t.Errorf("events = %+v, want one staff_close with the reloaded reason", events)
	}
}

func TestStopTerminatesLoop(t *testing.T) {
	task, _, _, _ := setupTask(t)
	go task.run()
	task.Stop()
	// run() must return; give it a moment and make sure no tick panics
	time.Sleep(10 * time.Millisecond)
}
