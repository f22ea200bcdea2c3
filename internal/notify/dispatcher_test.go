package notify

import (
	"testing"

	"github.com/saintedlittle/hgn-reports/internal/models"
	"github.com/saintedlittle/hgn-reports/internal/services"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type recordingSink struct {
	events    []Event
	refreshes int
}

func (r *recordingSink) Deliver(ev Event) { r.events = append(r.events, ev) }
func (r *recordingSink) Refresh()         { r.refreshes++ }

func newTestDispatcher(t *testing.T) (*Dispatcher, *services.ReportService) {
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
	return NewDispatcher(reports), reports
}

func TestDispatcherStaffEvents(t *testing.T) {
	d, _ := newTestDispatcher(t)
	sink := &recordingSink{}
	d.Register(sink)

	d.StaffNew(1, "Mallory", "hax", "alice")
	d.StaffAnswer(1, "staff1", "hello")
	d.StaffClose(1, "resolved")
	d.Refresh()

	if len(sink.events) != 3 {
		t.Fatalf("delivered %d events, want 3", len(sink.events))
	}
	if sink.events[0].Kind != KindStaffNew || sink.events[0].Author != "alice" || sink.events[0].Target != "Mallory" {
		t.Errorf("staff_new event = %+v", sink.events[0])
	}
	if sink.events[1].Kind != KindStaffAnswer || sink.events[1].Actor != "staff1" {
		t.Errorf("staff_answer event = %+v", sink.events[1])
	}
	if sink.events[2].Kind != KindStaffClose || sink.events[2].Reason != "resolved" {
		t.Errorf("staff_close event = %+v", sink.events[2])
	}
	if sink.refreshes != 1 {
		t.Errorf("refreshes = %d, want 1", sink.refreshes)
	}
}

func TestDispatcherPlayerEventsResolveAuthor(t *testing.T) {
	d, reports := newTestDispatcher(t)
	sink := &recordingSink{}
	d.Register(sink)

	id, err := reports.CreateReport("Mallory", "hax", "alice")
	if err != nil {
		t.Fatalf("CreateReport failed: %v", err)
	}

	d.PlayerAnswer(id, "staff1", "hello")
	d.PlayerClose(id, "staff1", "resolved")

	if len(sink.events) != 2 {
		t.Fatalf("delivered %d events, want 2", len(sink.events))
	}
	for _, ev := range sink.events {
		if ev.Author != "alice" {
			t.Errorf("event %q author = %q, want alice", ev.Kind, ev.Author)
		}
	}
}

func TestDispatcherSuppressesAnonymousAuthor(t *testing.T) {
	d, reports := newTestDispatcher(t)
	sink := &recordingSink{}
	d.Register(sink)

	id, err := reports.CreateReport("Mallory", "hax", models.AuthorAnonymous)
	if err != nil {
		t.Fatalf("CreateReport failed: %v", err)
	}

	d.PlayerAnswer(id, "staff1", "hello")
	d.PlayerClose(id, "staff1", "resolved")
	d.PlayerAnswer(999, "staff1", "no such report")

	if len(sink.events) != 0 {
		t.Errorf("delivered %d player events for anonymous/missing reports, want 0: %+v",
			len(sink.events), sink.events)
	}
}

func TestDispatcherUnregister(t *testing.T) {
	d, _ := newTestDispatcher(t)
	kept := &recordingSink{}
	dropped := &recordingSink{}
	d.Register(kept)
	d.Register(dropped)
	d.Unregister(dropped)

	d.StaffClose(1, "resolved")

	if len(kept.events) != 1 {
		t.Errorf("kept sink got %d events, want 1", len(kept.events))
	}
	if len(dropped.events) != 0 {
		t.Errorf("unregistered sink got %d events, want 0", len(dropped.events))
	}
}
