package models

// Report lifecycle states, persisted as text in the status column.
const (
	StatusOpen     = "OPEN"
	StatusAnswered = "ANSWERED"
	StatusClosed   = "CLOSED"

	// StatusAutoHidden is a legacy on-disk value. It is never written by the
	// engine anymore; boot migrates surviving rows to CLOSED.
	StatusAutoHidden = "AUTO_HIDDEN"
)

// AuthorAnonymous is the author recorded for reports created through the
// Telegram bridge.
const AuthorAnonymous = "Anonymous"

// ActorSystem authors synthetic answers written by the engine itself
// (auto-close, legacy migration).
const ActorSystem = "System"

// Report is a persistent player complaint against a named target.
// CreatedAt and LastAnswerAt are epoch seconds.
type Report struct {
	ID           int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Target       string `gorm:"size:255;not null" json:"target"`
	Text         string `gorm:"type:text;not null" json:"text"`
	Author       string `gorm:"size:255;not null" json:"author"`
	CreatedAt    int64  `gorm:"not null;index:idx_reports_status_created,priority:2" json:"created_at"`
	Status       string `gorm:"size:20;not null;index:idx_reports_status_created,priority:1" json:"status"`
	LastAnswerAt *int64 `json:"last_answer_at,omitempty"`
}

func (Report) TableName() string {
	return "reports"
}

// Active reports are the ones staff still need to look at.
func (r *Report) Active() bool {
	return r.Status == StatusOpen || r.Status == StatusAnswered
}
