package model

import "time"

// Announcement severity levels.
const (
	SeverityInfo     = "info"
	SeverityWarning  = "warning"
	SeverityCritical = "critical"
)

// Announcement is a site-wide banner message managed by admins.
// Dismissals are tracked per user in Redis, not here.
type Announcement struct {
	AnnouncementID string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"announcement_id"`
	Title          string     `gorm:"type:varchar(255);not null"                     json:"title"`
	Body           string     `gorm:"type:text;not null"                             json:"body"`
	Severity       string     `gorm:"type:varchar(20);not null;default:'info'"       json:"severity"` // info | warning | critical
	IsActive       bool       `gorm:"not null;default:true"                          json:"is_active"`
	StartsAt       *time.Time `json:"starts_at,omitempty"`
	EndsAt         *time.Time `json:"ends_at,omitempty"`
	CreatedBy      *string    `gorm:"type:uuid"                                      json:"created_by,omitempty"`
	CreatedAt      time.Time  `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`
	UpdatedAt      time.Time  `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"updated_at"`
}

// TableName sets the table name.
func (Announcement) TableName() string { return "announcements" }
