package services

import (
	"errors"
	"fmt"
	"sync"

	"github.com/saintedlittle/hgn-reports/internal/clock"
	"github.com/saintedlittle/hgn-reports/internal/models"
	"gorm.io/gorm"
)

var (
	ErrReportNotFound = errors.New("report not found")
	ErrNoReportID     = errors.New("insert produced no report id")
)

// ReportService is the report lifecycle engine and the command facade the
// front-ends call. It owns every state transition; permission checks stay
// with the callers.
type ReportService struct {
	mu  sync.RWMutex
	db  *gorm.DB
	now func() int64
}

func NewReportService(db *gorm.DB) *ReportService {
	return &ReportService{db: db, now: clock.Now}
}

func (s *ReportService) conn() *gorm.DB {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.db
}

// Rebind swaps the underlying connection after a configuration reload has
// re-opened the store.
func (s *ReportService) Rebind(db *gorm.DB) {
	s.mu.Lock()
	s.db = db
	s.mu.Unlock()
}

// CreateReport inserts a new OPEN report and returns its assigned id.
func (s *ReportService) CreateReport(target, text, author string) (int64, error) {
	report := models.Report{
		Target:    target,
		Text:      text,
		Author:    author,
		CreatedAt: s.now(),
		Status:    models.StatusOpen,
	}
	if err := s.conn().Create(&report).Error; err != nil {
		return 0, fmt.Errorf("failed to create report: %w", err)
	}
	if report.ID == 0 {
		return 0, ErrNoReportID
	}
	return report.ID, nil
}

// AddAnswer records an answer and bumps the parent report. A CLOSED report
// stays CLOSED; anything else becomes ANSWERED. Returns false when no report
// with that id exists.
func (s *ReportService) AddAnswer(reportID int64, author, text string) (bool, error) {
	return s.addAnswer(s.conn(), reportID, author, text, models.AnswerKindUser)
}

func (s *ReportService) addAnswer(tx *gorm.DB, reportID int64, author, text, kind string) (bool, error) {
	now := s.now()
	answer := models.ReportAnswer{
		ReportID:  reportID,
		Author:    author,
		Text:      text,
		Kind:      kind,
		CreatedAt: now,
	}
	if err := tx.Create(&answer).Error; err != nil {
		return false, fmt.Errorf("failed to insert answer: %w", err)
	}

	res := tx.Model(&models.Report{}).Where("id = ?", reportID).Updates(map[string]interface{}{
		"last_answer_at": now,
		"status": gorm.Expr(
			"CASE WHEN status = ? THEN ? ELSE ? END",
			models.StatusClosed, models.StatusClosed, models.StatusAnswered,
		),
	})
	if res.Error != nil {
		return false, fmt.Errorf("failed to update report after answer: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

// CloseReportBy sets the report CLOSED and records a synthetic
// "Closed: <reason>" answer authored by the closer, in one transaction.
// Closing an already-CLOSED report succeeds and appends another close answer.
// Returns false when no report with that id exists.
func (s *ReportService) CloseReportBy(reportID int64, reason, closer string) (bool, error) {
	closed := false
	err := s.conn().Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Report{}).
			Where("id = ?", reportID).
			Update("status", models.StatusClosed)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		// The CASE guard in addAnswer keeps the status CLOSED.
		if _, err := s.addAnswer(tx, reportID, closer, models.ClosePrefix+reason, models.AnswerKindClose); err != nil {
			return err
		}
		closed = true
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("failed to close report %d: %w", reportID, err)
	}
	return closed, nil
}

// DeleteReport hard-deletes the report and all of its answers in one
// transaction. Returns true iff the report row existed.
func (s *ReportService) DeleteReport(reportID int64) (bool, error) {
	deleted := false
	err := s.conn().Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("report_id = ?", reportID).Delete(&models.ReportAnswer{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", reportID).Delete(&models.Report{})
		if res.Error != nil {
			return res.Error
		}
		deleted = res.RowsAffected > 0
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("failed to delete report %d: %w", reportID, err)
	}
	return deleted, nil
}

// FindReport returns the report or nil when absent.
func (s *ReportService) FindReport(id int64) (*models.Report, error) {
	var report models.Report
	err := s.conn().First(&report, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &report, nil
}

// ListAnswers returns the answers of a report in insertion order.
func (s *ReportService) ListAnswers(reportID int64) ([]models.ReportAnswer, error) {
	var answers []models.ReportAnswer
	err := s.conn().
		Where("report_id = ?", reportID).
		Order("id ASC").
		Find(&answers).Error
	return answers, err
}

// ListForGui returns the newest reports first, capped by limit. With onlyOpen
// the listing is restricted to active reports (OPEN, ANSWERED).
func (s *ReportService) ListForGui(onlyOpen bool, limit int) ([]models.Report, error) {
	q := s.conn().Order("id DESC").Limit(limit)
	if onlyOpen {
		q = q.Where("status IN ?", []string{models.StatusOpen, models.StatusAnswered})
	}
	var reports []models.Report
	err := q.Find(&reports).Error
	return reports, err
}

// FindLatestActiveByAuthor returns the author's most recent active report,
// matched case-insensitively, or nil.
func (s *ReportService) FindLatestActiveByAuthor(author string) (*models.Report, error) {
	var report models.Report
	err := s.conn().
		Where("lower(author) = lower(?) AND status IN ?",
			author, []string{models.StatusOpen, models.StatusAnswered}).
		Order("id DESC").
		First(&report).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &report, nil
}

// FindReportOwnedBy returns the report iff it belongs to owner
// (case-insensitive), regardless of status, or nil.
func (s *ReportService) FindReportOwnedBy(id int64, owner string) (*models.Report, error) {
	var report models.Report
	err := s.conn().
		Where("id = ? AND lower(author) = lower(?)", id, owner).
		First(&report).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &report, nil
}
