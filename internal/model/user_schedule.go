package model

import "time"

// UserSchedule is one entry of a user's weekly schedule: a (term, CRN)
// pair. The database holds only these identifiers; the hydrated section
// objects live in the Redis read model and are re-derived from the
// registration system when the cache is cold.
type UserSchedule struct {
	ID       int64     `gorm:"primaryKey;autoIncrement"            json:"id"`
	UserID   string    `gorm:"type:uuid;not null"                  json:"user_id"`
	TermCode string    `gorm:"type:varchar(10);not null"           json:"term_code"`
	CRN      string    `gorm:"column:crn;type:varchar(10);not null" json:"crn"`
	AddedAt  time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"  json:"added_at"`
}

// TableName sets the table name.
func (UserSchedule) TableName() string { return "user_schedules" }
