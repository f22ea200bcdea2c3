package services

import (
	"fmt"
	"log/slog"

	"github.com/saintedlittle/hgn-reports/internal/models"
	"gorm.io/gorm"
)

// MigrateAutoHiddenToClosed converts legacy AUTO_HIDDEN rows to CLOSED in one
// transaction, appending a synthetic System close answer to each. Runs at
// boot and after reload; reason is the localized auto-close reason.
func (s *ReportService) MigrateAutoHiddenToClosed(reason string) (int, error) {
	var ids []int64
	if err := s.conn().Model(&models.Report{}).
		Where("status = ?", models.StatusAutoHidden).
		Pluck("id", &ids).Error; err != nil {
		return 0, fmt.Errorf("failed to select legacy reports: %w", err)
	}
	if len(ids) == 0 {
		return 0, nil
	}

	err := s.conn().Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Report{}).
			Where("id IN ?", ids).
			Update("status", models.StatusClosed).Error; err != nil {
			return err
		}
		for _, id := range ids {
			if _, err := s.addAnswer(tx, id, models.ActorSystem, models.ClosePrefix+reason, models.AnswerKindClose); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to migrate legacy reports: %w", err)
	}
	slog.Info("migrated legacy auto-hidden reports", "count", len(ids))
	return len(ids), nil
}

// BackfillAnswerKinds marks pre-kind-column close answers by their serialized
// "Closed:" prefix. Idempotent; only rows still tagged as user answers move.
func (s *ReportService) BackfillAnswerKinds() (int64, error) {
	res := s.conn().Model(&models.ReportAnswer{}).
		Where("kind = ? AND text LIKE ?", models.AnswerKindUser, "Closed:%").
		Update("kind", models.AnswerKindClose)
	if res.Error != nil {
		return 0, fmt.Errorf("failed to backfill answer kinds: %w", res.Error)
	}
	if res.RowsAffected > 0 {
		slog.Info("backfilled answer kinds", "count", res.RowsAffected)
	}
	return res.RowsAffected, nil
}
