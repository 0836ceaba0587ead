package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/OfficialEseosa/panther-watch/internal/dto"
	"github.com/OfficialEseosa/panther-watch/internal/model"
	"github.com/OfficialEseosa/panther-watch/internal/repository"
)

var ErrAnnouncementNotFound = errors.New("announcement not found")

// AnnouncementEvent is pushed to subscribed clients when the set of
// visible announcements changes.
type AnnouncementEvent struct {
	Type         string                    `json:"type"` // created | updated | deleted
	Announcement *dto.AnnouncementResponse `json:"announcement,omitempty"`
	ID           string                    `json:"id"`
}

// AnnouncementService manages site-wide banner messages. Mutations are
// admin-only (enforced at the router); dismissals are per-user and live
// in Redis. Subscribers get change events for live banner updates.
type AnnouncementService interface {
	Create(ctx context.Context, createdBy string, req *dto.CreateAnnouncementRequest) (*dto.AnnouncementResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateAnnouncementRequest) (*dto.AnnouncementResponse, error)
	Delete(ctx context.Context, id string) error
	ListAll(ctx context.Context) ([]dto.AnnouncementResponse, error)
	// ListVisible returns currently active announcements with the
	// caller's dismissals marked.
	ListVisible(ctx context.Context, userID string) ([]dto.AnnouncementResponse, error)
	Dismiss(ctx context.Context, userID, announcementID string) error
	Subscribe() (<-chan AnnouncementEvent, func())
}

type announcementService struct {
	repo   *repository.Repository
	cache  Cache
	logger *zap.Logger

	mu   sync.Mutex
	subs map[int]chan AnnouncementEvent
	next int
}

// NewAnnouncementService creates the AnnouncementService.
func NewAnnouncementService(repo *repository.Repository, cache Cache, logger *zap.Logger) AnnouncementService {
	return &announcementService{
		repo:   repo,
		cache:  cache,
		logger: logger,
		subs:   make(map[int]chan AnnouncementEvent),
	}
}

func dismissedKey(userID string) string {
	return fmt.Sprintf("announcements:dismissed:%s", userID)
}

func (s *announcementService) Create(ctx context.Context, createdBy string, req *dto.CreateAnnouncementRequest) (*dto.AnnouncementResponse, error) {
	severity := req.Severity
	if severity == "" {
		severity = model.SeverityInfo
	}

	a := &model.Announcement{
		Title:     req.Title,
		Body:      req.Body,
		Severity:  severity,
		IsActive:  true,
		CreatedBy: &createdBy,
	}
	if t, err := parseOptionalTime(req.StartsAt); err != nil {
		return nil, err
	} else {
		a.StartsAt = t
	}
	if t, err := parseOptionalTime(req.EndsAt); err != nil {
		return nil, err
	} else {
		a.EndsAt = t
	}

	if err := s.repo.Announcement.Create(ctx, a); err != nil {
		s.logger.Error("create announcement failed", zap.Error(err))
		return nil, err
	}

	resp := announcementFromModel(a, false)
	s.publish(AnnouncementEvent{Type: "created", ID: a.AnnouncementID, Announcement: &resp})
	return &resp, nil
}

func (s *announcementService) Update(ctx context.Context, id string, req *dto.UpdateAnnouncementRequest) (*dto.AnnouncementResponse, error) {
	a, err := s.repo.Announcement.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAnnouncementNotFound
		}
		return nil, err
	}

	if req.Title != nil {
		a.Title = *req.Title
	}
	if req.Body != nil {
		a.Body = *req.Body
	}
	if req.Severity != nil {
		a.Severity = *req.Severity
	}
	if req.IsActive != nil {
		a.IsActive = *req.IsActive
	}
	if req.StartsAt != nil {
		t, err := parseOptionalTime(req.StartsAt)
		if err != nil {
			return nil, err
		}
		a.StartsAt = t
	}
	if req.EndsAt != nil {
		t, err := parseOptionalTime(req.EndsAt)
		if err != nil {
			return nil, err
		}
		a.EndsAt = t
	}

	if err := s.repo.Announcement.Update(ctx, a); err != nil {
		s.logger.Error("update announcement failed", zap.Error(err))
		return nil, err
	}

	resp := announcementFromModel(a, false)
	s.publish(AnnouncementEvent{Type: "updated", ID: a.AnnouncementID, Announcement: &resp})
	return &resp, nil
}

func (s *announcementService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.Announcement.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAnnouncementNotFound
		}
		return err
	}
	if err := s.repo.Announcement.Delete(ctx, id); err != nil {
		s.logger.Error("delete announcement failed", zap.Error(err))
		return err
	}
	s.publish(AnnouncementEvent{Type: "deleted", ID: id})
	return nil
}

func (s *announcementService) ListAll(ctx context.Context) ([]dto.AnnouncementResponse, error) {
	list, err := s.repo.Announcement.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.AnnouncementResponse, 0, len(list))
	for i := range list {
		out = append(out, announcementFromModel(&list[i], false))
	}
	return out, nil
}

func (s *announcementService) ListVisible(ctx context.Context, userID string) ([]dto.AnnouncementResponse, error) {
	list, err := s.repo.Announcement.ListActive(ctx, time.Now())
	if err != nil {
		return nil, err
	}

	dismissed := make(map[string]bool)
	if userID != "" {
		ids, err := s.cache.SetMembers(ctx, dismissedKey(userID))
		if err != nil {
			s.logger.Warn("load announcement dismissals failed", zap.Error(err))
		}
		for _, id := range ids {
			dismissed[id] = true
		}
	}

	out := make([]dto.AnnouncementResponse, 0, len(list))
	for i := range list {
		out = append(out, announcementFromModel(&list[i], dismissed[list[i].AnnouncementID]))
	}
	return out, nil
}

func (s *announcementService) Dismiss(ctx context.Context, userID, announcementID string) error {
	if _, err := s.repo.Announcement.GetByID(ctx, announcementID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAnnouncementNotFound
		}
		return err
	}
	return s.cache.AddToSet(ctx, dismissedKey(userID), announcementID)
}

// Subscribe registers a change-event channel. The returned func
// unsubscribes; events are dropped rather than block a slow consumer.
func (s *announcementService) Subscribe() (<-chan AnnouncementEvent, func()) {
	s.mu.Lock()
	id := s.next
	s.next++
	ch := make(chan AnnouncementEvent, 8)
	s.subs[id] = ch
	s.mu.Unlock()

	cancel := func() {
		s.mu.Lock()
		if existing, ok := s.subs[id]; ok {
			delete(s.subs, id)
			close(existing)
		}
		s.mu.Unlock()
	}
	return ch, cancel
}

func (s *announcementService) publish(event AnnouncementEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ch := range s.subs {
		select {
		case ch <- event:
		default:
		}
	}
}

func announcementFromModel(a *model.Announcement, dismissed bool) dto.AnnouncementResponse {
	resp := dto.AnnouncementResponse{
		ID:        a.AnnouncementID,
		Title:     a.Title,
		Body:      a.Body,
		Severity:  a.Severity,
		IsActive:  a.IsActive,
		CreatedAt: a.CreatedAt.Format(time.RFC3339),
		Dismissed: dismissed,
	}
	if a.StartsAt != nil {
		v := a.StartsAt.Format(time.RFC3339)
		resp.StartsAt = &v
	}
	if a.EndsAt != nil {
		v := a.EndsAt.Format(time.RFC3339)
		resp.EndsAt = &v
	}
	return resp
}

func parseOptionalTime(raw *string) (*time.Time, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, *raw)
	if err != nil {
		return nil, fmt.Errorf("invalid timestamp %q: %w", *raw, err)
	}
	return &t, nil
}
