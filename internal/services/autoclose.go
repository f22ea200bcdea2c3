package services

import (
	"log/slog"

	"github.com/saintedlittle/hgn-reports/internal/models"
)

// AutoCloseExpired closes OPEN reports that never got an answer and are at
// least maxAge seconds old, as the System actor with the given reason.
// ANSWERED reports are left alone (staff have engaged), as are OPEN reports
// carrying a last-answer timestamp. Per-row failures are logged and swallowed
// so one bad row cannot starve the rest of the batch; the returned slice
// holds the ids that were actually closed.
func (s *ReportService) AutoCloseExpired(maxAge int64, reason string) ([]int64, error) {
	threshold := s.now() - maxAge

	var candidates []models.Report
	if err := s.conn().
		Select("id", "created_at", "last_answer_at", "status").
		Where("status IN ?", []string{models.StatusOpen, models.StatusAnswered}).
		Find(&candidates).Error; err != nil {
		return nil, err
	}

	var closed []int64
	for _, r := range candidates {
		if r.Status != models.StatusOpen || r.LastAnswerAt != nil || r.CreatedAt > threshold {
			continue
		}
		ok, err := s.CloseReportBy(r.ID, reason, models.ActorSystem)
		if err != nil {
			slog.Error("auto-close failed for report", "report_id", r.ID, "error", err)
			continue
		}
		if ok {
			closed = append(closed, r.ID)
		}
	}
	return closed, nil
}
