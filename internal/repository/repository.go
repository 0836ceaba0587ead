package repository

import "gorm.io/gorm"

// Repository aggregates all data-access interfaces.
type Repository struct {
	User         UserRepository
	WatchedClass WatchedClassRepository
	UserSchedule UserScheduleRepository
	Announcement AnnouncementRepository
	EmailLog     EmailLogRepository
}

// NewRepository wires the GORM-backed implementations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		User:         NewUserRepo(db),
		WatchedClass: NewWatchedClassRepo(db),
		UserSchedule: NewUserScheduleRepo(db),
		Announcement: NewAnnouncementRepo(db),
		EmailLog:     NewEmailLogRepo(db),
	}
}
