// Package scheduler runs the recurring auto-close task: every second it
// closes OPEN reports that have gone unanswered past the configured
// threshold and notifies staff. Ticks are resilient; any failure is logged
// and the task keeps running.
package scheduler

import (
	"log/slog"
	"strconv"
	"time"

	"github.com/saintedlittle/hgn-reports/internal/config"
	"github.com/saintedlittle/hgn-reports/internal/i18n"
	"github.com/saintedlittle/hgn-reports/internal/notify"
	"github.com/saintedlittle/hgn-reports/internal/services"
)

const tickInterval = 1 * time.Second

type AutoClose struct {
	reports    *services.ReportService
	dispatcher *notify.Dispatcher
	msg        *i18n.Messages
	cfg        *config.Holder
	done       chan struct{}
}

func StartAutoClose(reports *services.ReportService, dispatcher *notify.Dispatcher, msg *i18n.Messages, cfg *config.Holder) *AutoClose {
	a := &AutoClose{
		reports:    reports,
		dispatcher: dispatcher,
		msg:        msg,
		cfg:        cfg,
		done:       make(chan struct{}),
	}
	go a.run()
	return a
}

func (a *AutoClose) run() {
	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			a.tick()
		case <-a.done:
			return
		}
	}
}

func (a *AutoClose) tick() {
	maxAge := a.cfg.Current().AutoHideSeconds
	reason := a.msg.Render("auto_close_reason", map[string]string{
		"seconds": strconv.FormatInt(maxAge, 10),
	})

	closed, err := a.reports.AutoCloseExpired(maxAge, reason)
	if err != nil {
		slog.Error("auto-close tick failed", "error", err)
		return
	}
	if len(closed) == 0 {
		return
	}

	for _, id := range closed {
		a.dispatcher.StaffClose(id, reason)
	}
	a.dispatcher.Refresh()
}

func (a *AutoClose) Stop() {
	close(a.done)
}
