package services

import (
	"strings"
	"time"

	"github.com/saintedlittle/hgn-reports/internal/clock"
	"github.com/saintedlittle/hgn-reports/internal/models"
)

type StatsOverall struct {
	Total     int64 `json:"total"`
	Open      int64 `json:"open"`
	Answered  int64 `json:"answered"`
	Closed    int64 `json:"closed"`
	Today     int64 `json:"today"`
	Last24h   int64 `json:"last24h"`
	Last7d    int64 `json:"last7d"`
	ThisMonth int64 `json:"this_month"`
}

type StatsAdmin struct {
	Admin            string  `json:"admin"`
	Answers          int64   `json:"answers"`
	UniqueReports    int64   `json:"unique_reports"`
	Closes           int64   `json:"closes"`
	ProcessedPercent float64 `json:"processed_percent"`
}

// StatsOverall counts reports by status and by creation window (local today,
// last 24h, last 7d, local month-to-date).
func (s *ReportService) StatsOverall() (*StatsOverall, error) {
	db := s.conn()

	countReports := func(query interface{}, args ...interface{}) (int64, error) {
		var n int64
		q := db.Model(&models.Report{})
		if query != nil {
			q = q.Where(query, args...)
		}
		return n, q.Count(&n).Error
	}

	var (
		out StatsOverall
		err error
	)
	if out.Total, err = countReports(nil); err != nil {
		return nil, err
	}
	if out.Open, err = countReports("status = ?", models.StatusOpen); err != nil {
		return nil, err
	}
	if out.Answered, err = countReports("status = ?", models.StatusAnswered); err != nil {
		return nil, err
	}
	if out.Closed, err = countReports("status = ?", models.StatusClosed); err != nil {
		return nil, err
	}

	now := s.now()
	local := time.Unix(now, 0)
	if out.Today, err = countReports("created_at >= ?", clock.StartOfDay(local)); err != nil {
		return nil, err
	}
	if out.Last24h, err = countReports("created_at >= ?", now-24*3600); err != nil {
		return nil, err
	}
	if out.Last7d, err = countReports("created_at >= ?", now-7*24*3600); err != nil {
		return nil, err
	}
	if out.ThisMonth, err = countReports("created_at >= ?", clock.StartOfMonth(local)); err != nil {
		return nil, err
	}
	return &out, nil
}

// StatsForAdmin aggregates one admin's answer activity, case-insensitively.
// ProcessedPercent is uniqueReports over total reports (at least 1, so an
// empty database yields 0 rather than a division by zero).
func (s *ReportService) StatsForAdmin(name string) (*StatsAdmin, error) {
	db := s.conn()
	low := strings.ToLower(name)

	out := StatsAdmin{Admin: name}

	if err := db.Model(&models.ReportAnswer{}).
		Where("lower(author) = ?", low).
		Count(&out.Answers).Error; err != nil {
		return nil, err
	}

	if err := db.Model(&models.ReportAnswer{}).
		Where("lower(author) = ?", low).
		Distinct("report_id").
		Count(&out.UniqueReports).Error; err != nil {
		return nil, err
	}

	if err := db.Model(&models.ReportAnswer{}).
		Where("lower(author) = ? AND kind = ?", low, models.AnswerKindClose).
		Count(&out.Closes).Error; err != nil {
		return nil, err
	}

	var total int64
	if err := db.Model(&models.Report{}).Count(&total).Error; err != nil {
		return nil, err
	}
	if total < 1 {
		total = 1
	}
	out.ProcessedPercent = float64(out.UniqueReports) / float64(total) * 100.0

	return &out, nil
}
