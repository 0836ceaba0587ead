package model

import "time"

// User is a student account. Identity lives in Supabase; this row is the
// local shadow created on first authenticated request.
type User struct {
	UserID      string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"user_id"`
	SupabaseID  string     `gorm:"type:varchar(64);not null;uniqueIndex"          json:"supabase_id"`
	Email       string     `gorm:"type:varchar(255);not null"                     json:"email"`
	Name        string     `gorm:"type:varchar(255)"                              json:"name"`
	AvatarURL   string     `gorm:"type:text"                                      json:"avatar_url"`
	IsAdmin     bool       `gorm:"not null;default:false"                         json:"is_admin"`
	CreatedAt   time.Time  `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`
	UpdatedAt   time.Time  `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"updated_at"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
}

// TableName sets the table name.
func (User) TableName() string { return "users" }
