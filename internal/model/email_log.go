package model

import "time"

// Email kinds recorded in email_logs.
const (
	EmailKindAvailability = "availability"
	EmailKindCustom       = "custom"
)

// EmailLog is an audit row for every notification sent. The watcher also
// reads it to avoid re-mailing the same user about the same open seat.
type EmailLog struct {
	EmailLogID string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"email_log_id"`
	UserID     *string   `gorm:"type:uuid"                                      json:"user_id,omitempty"`
	Recipient  string    `gorm:"type:varchar(255);not null"                     json:"recipient"`
	Kind       string    `gorm:"type:varchar(30);not null"                      json:"kind"`
	Subject    string    `gorm:"type:varchar(255);not null"                     json:"subject"`
	CRN        string    `gorm:"column:crn;type:varchar(10)"                    json:"crn,omitempty"`
	Term       string    `gorm:"type:varchar(10)"                               json:"term,omitempty"`
	SentAt     time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"sent_at"`
}

// TableName sets the table name.
func (EmailLog) TableName() string { return "email_logs" }
