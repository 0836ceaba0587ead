package model

import "time"

// WatchedClass is a section a user tracks for seat availability.
// It stores only the lightweight tuple; full section details are fetched
// from the registration system on demand.
type WatchedClass struct {
	WatchedClassID string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"watched_class_id"`
	UserID         string    `gorm:"type:uuid;not null;index:idx_watched_user"      json:"user_id"`
	CRN            string    `gorm:"column:crn;type:varchar(10);not null"           json:"crn"`
	Term           string    `gorm:"type:varchar(10);not null"                      json:"term"`
	Subject        string    `gorm:"type:varchar(10);not null"                      json:"subject"`
	CourseNumber   string    `gorm:"type:varchar(10);not null"                      json:"course_number"`
	CourseTitle    string    `gorm:"type:varchar(255)"                              json:"course_title"`
	Instructor     string    `gorm:"type:varchar(255)"                              json:"instructor"`
	CreatedAt      time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`

	User *User `gorm:"foreignKey:UserID;references:UserID" json:"user,omitempty"`
}

// TableName sets the table name.
func (WatchedClass) TableName() string { return "watched_classes" }
