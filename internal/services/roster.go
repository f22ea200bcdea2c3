package services

import (
	"strings"

	"github.com/saintedlittle/hgn-reports/internal/models"
	"gorm.io/gorm/clause"
)

// IsReportAdmin reports whether name is on the report-admin roster,
// case-insensitively.
func (s *ReportService) IsReportAdmin(name string) (bool, error) {
	var n int64
	err := s.conn().Model(&models.ReportAdmin{}).
		Where("name = ?", strings.ToLower(name)).
		Count(&n).Error
	return n > 0, err
}

// AddReportAdmin adds name to the roster. Idempotent; returns true iff a new
// entry was inserted.
func (s *ReportService) AddReportAdmin(name string) (bool, error) {
	res := s.conn().Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.ReportAdmin{Name: strings.ToLower(name)})
	return res.RowsAffected > 0, res.Error
}

// RemoveReportAdmin removes name from the roster. Returns true iff an entry
// was removed.
func (s *ReportService) RemoveReportAdmin(name string) (bool, error) {
	res := s.conn().Where("name = ?", strings.ToLower(name)).
		Delete(&models.ReportAdmin{})
	return res.RowsAffected > 0, res.Error
}
