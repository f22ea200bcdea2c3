// Package notify fans out report mutation events to registered sinks. Events
// are plain values; each front-end registers a sink and delivers on its own
// terms. Callers emit only after the corresponding database commit, so a
// delivered event always has persisted state behind it.
package notify

import (
	"log/slog"
	"strings"
	"sync"

	"github.com/saintedlittle/hgn-reports/internal/models"
	"github.com/saintedlittle/hgn-reports/internal/services"
)

type Kind string

const (
	KindStaffNew     Kind = "staff_new"
	KindStaffAnswer  Kind = "staff_answer"
	KindStaffClose   Kind = "staff_close"
	KindPlayerAnswer Kind = "player_answer"
	KindPlayerClose  Kind = "player_close"
)

// Event carries one notification. Author is the report author (set on player
// events and staff_new); Actor is the admin or System user causing the
// mutation.
type Event struct {
	Kind     Kind   `json:"kind"`
	ReportID int64  `json:"report_id"`
	Target   string `json:"target,omitempty"`
	Author   string `json:"author,omitempty"`
	Actor    string `json:"actor,omitempty"`
	Text     string `json:"text,omitempty"`
	Reason   string `json:"reason,omitempty"`
}

// Sink receives every event; it decides which ones its audience sees.
// Refresh asks the front-end to re-render any open report listings.
type Sink interface {
	Deliver(Event)
	Refresh()
}

type Dispatcher struct {
	mu      sync.RWMutex
	sinks   []Sink
	reports *services.ReportService
}

func NewDispatcher(reports *services.ReportService) *Dispatcher {
	return &Dispatcher{reports: reports}
}

func (d *Dispatcher) Register(s Sink) {
	d.mu.Lock()
	// copy-on-write so in-flight deliveries keep iterating their snapshot
	sinks := make([]Sink, len(d.sinks), len(d.sinks)+1)
	copy(sinks, d.sinks)
	d.sinks = append(sinks, s)
	d.mu.Unlock()
}

// Unregister removes a sink registered earlier, e.g. when the bridge is
// restarted after a reload.
func (d *Dispatcher) Unregister(s Sink) {
	d.mu.Lock()
	sinks := make([]Sink, 0, len(d.sinks))
	for _, existing := range d.sinks {
		if existing != s {
			sinks = append(sinks, existing)
		}
	}
	d.sinks = sinks
	d.mu.Unlock()
}

func (d *Dispatcher) deliver(ev Event) {
	d.mu.RLock()
	sinks := d.sinks
	d.mu.RUnlock()
	for _, s := range sinks {
		s.Deliver(ev)
	}
}

// Refresh tells every sink to refresh open listings.
func (d *Dispatcher) Refresh() {
	d.mu.RLock()
	sinks := d.sinks
	d.mu.RUnlock()
	for _, s := range sinks {
		s.Refresh()
	}
}

func (d *Dispatcher) StaffNew(id int64, target, text, author string) {
	d.deliver(Event{Kind: KindStaffNew, ReportID: id, Target: target, Text: text, Author: author})
}

func (d *Dispatcher) StaffAnswer(id int64, admin, text string) {
	d.deliver(Event{Kind: KindStaffAnswer, ReportID: id, Actor: admin, Text: text})
}

func (d *Dispatcher) StaffClose(id int64, reason string) {
	d.deliver(Event{Kind: KindStaffClose, ReportID: id, Reason: reason})
}

// PlayerAnswer notifies the report's author of a new answer. Anonymous
// authors (bridge-origin reports) have nobody to notify.
func (d *Dispatcher) PlayerAnswer(id int64, admin, text string) {
	author, ok := d.resolveAuthor(id)
	if !ok {
		return
	}
	d.deliver(Event{Kind: KindPlayerAnswer, ReportID: id, Author: author, Actor: admin, Text: text})
}

// PlayerClose notifies the report's author that their report was closed.
func (d *Dispatcher) PlayerClose(id int64, admin, reason string) {
	author, ok := d.resolveAuthor(id)
	if !ok {
		return
	}
	d.deliver(Event{Kind: KindPlayerClose, ReportID: id, Author: author, Actor: admin, Reason: reason})
}

func (d *Dispatcher) resolveAuthor(id int64) (string, bool) {
	report, err := d.reports.FindReport(id)
	if err != nil {
		slog.Error("failed to resolve report author for notification", "report_id", id, "error", err)
		return "", false
	}
	if report == nil {
		return "", false
	}
	if strings.EqualFold(report.Author, models.AuthorAnonymous) {
		return "", false
	}
	return report.Author, true
}
