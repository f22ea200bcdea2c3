package models

// ReportAdmin is one entry of the report-admin roster, a persisted set of
// names independent of the host permission system. Names are stored
// lowercased, so lookups are case-insensitive by construction.
type ReportAdmin struct {
	Name string `gorm:"primaryKey;size:255" json:"name"`
}

func (ReportAdmin) TableName() string {
	return "report_admins"
}
