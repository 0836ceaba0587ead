package service

import (
	"go.uber.org/zap"

	"github.com/OfficialEseosa/panther-watch/config"
	"github.com/OfficialEseosa/panther-watch/internal/banner"
	"github.com/OfficialEseosa/panther-watch/internal/repository"
	"github.com/OfficialEseosa/panther-watch/pkg/mailer"
	"github.com/OfficialEseosa/panther-watch/pkg/redis"
)

// Service aggregates all business services.
type Service struct {
	Course       CourseService
	Watched      WatchedService
	Schedule     ScheduleService
	Announcement AnnouncementService
	User         UserService
	Admin        AdminService
}

// NewService wires the service layer.
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	cache *redis.Client,
	bannerClient banner.Client,
	mail *mailer.Mailer,
	logger *zap.Logger,
) *Service {
	return &Service{
		Course:       NewCourseService(bannerClient, cache, logger),
		Watched:      NewWatchedService(repo, bannerClient, logger),
		Schedule:     NewScheduleService(repo, cache, bannerClient, logger),
		Announcement: NewAnnouncementService(repo, cache, logger),
		User:         NewUserService(repo, cfg.Auth.AdminEmails, logger),
		Admin:        NewAdminService(repo, mail, logger),
	}
}

// Close releases background workers.
func (s *Service) Close() {
	s.Schedule.Close()
}
