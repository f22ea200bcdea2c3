package models

// Answer kinds. Legacy rows predate the kind column and are backfilled from
// the ClosePrefix marker at boot.
const (
	AnswerKindUser  = "user"
	AnswerKindClose = "close"
)

// ClosePrefix is the serialized prefix of synthetic close answers. External
// consumers match on the literal text, so it is kept even though the kind
// column now carries the same information.
const ClosePrefix = "Closed: "

// ReportAnswer is one reply attached to a report, ordered by ID for display.
type ReportAnswer struct {
	ID        int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	ReportID  int64  `gorm:"not null;index:idx_answers_report_id" json:"report_id"`
	Author    string `gorm:"size:255;not null;index:idx_answers_author" json:"author"`
	Text      string `gorm:"type:text;not null" json:"text"`
	Kind      string `gorm:"size:10;not null;default:'user'" json:"kind"`
	CreatedAt int64  `gorm:"not null" json:"created_at"`
}

func (ReportAnswer) TableName() string {
	return "report_answers"
}
