package handler

import "github.com/OfficialEseosa/panther-watch/internal/service"

// Handler aggregates all HTTP handlers.
type Handler struct {
	Course       *CourseHandler
	Watched      *WatchedHandler
	Schedule     *ScheduleHandler
	Announcement *AnnouncementHandler
	User         *UserHandler
	Admin        *AdminHandler
}

// NewHandler creates the Handler aggregate.
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Course:       NewCourseHandler(svc.Course),
		Watched:      NewWatchedHandler(svc.Watched),
		Schedule:     NewScheduleHandler(svc.Schedule),
		Announcement: NewAnnouncementHandler(svc.Announcement),
		User:         NewUserHandler(svc.User),
		Admin:        NewAdminHandler(svc.Admin),
	}
}
