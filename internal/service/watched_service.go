package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/OfficialEseosa/panther-watch/internal/banner"
	"github.com/OfficialEseosa/panther-watch/internal/dto"
	"github.com/OfficialEseosa/panther-watch/internal/model"
	"github.com/OfficialEseosa/panther-watch/internal/repository"
)

var (
	ErrAlreadyWatching = errors.New("class is already on the watch list")
	ErrWatchNotFound   = errors.New("class not found in watch list")
)

// WatchedService manages seat-availability watch lists and the merged
// detail view the tracked-classes page renders.
type WatchedService interface {
	Watch(ctx context.Context, userID string, req *dto.WatchClassRequest) (*dto.WatchedClassResponse, error)
	Unwatch(ctx context.Context, userID, crn, term string) error
	List(ctx context.Context, userID string) ([]dto.WatchedClassResponse, error)
	Count(ctx context.Context, userID string) (int64, error)
	IsWatching(ctx context.Context, userID, crn, term string) (bool, error)
	Details(ctx context.Context, userID string) ([]dto.WatchedClassDetail, error)
}

type watchedService struct {
	repo   *repository.Repository
	banner banner.Client
	logger *zap.Logger

	// detail fetches against the registration system occasionally come
	// back short right after a session rollover; short bounded retries
	// paper over that.
	detailAttempts int
	detailDelay    time.Duration
}

// NewWatchedService creates the WatchedService.
func NewWatchedService(repo *repository.Repository, bannerClient banner.Client, logger *zap.Logger) WatchedService {
	return &watchedService{
		repo:           repo,
		banner:         bannerClient,
		logger:         logger,
		detailAttempts: 5,
		detailDelay:    1500 * time.Millisecond,
	}
}

func (s *watchedService) Watch(ctx context.Context, userID string, req *dto.WatchClassRequest) (*dto.WatchedClassResponse, error) {
	exists, err := s.repo.WatchedClass.Exists(ctx, userID, req.CRN, req.Term)
	if err != nil {
		s.logger.Error("watch existence check failed", zap.Error(err))
		return nil, err
	}
	if exists {
		return nil, ErrAlreadyWatching
	}

	wc := &model.WatchedClass{
		UserID:       userID,
		CRN:          req.CRN,
		Term:         req.Term,
		Subject:      req.Subject,
		CourseNumber: req.CourseNumber,
		CourseTitle:  req.CourseTitle,
		Instructor:   req.Instructor,
	}
	if err := s.repo.WatchedClass.Create(ctx, wc); err != nil {
		s.logger.Error("create watched class failed", zap.Error(err))
		return nil, err
	}

	s.logger.Info("class watch added",
		zap.String("user_id", userID),
		zap.String("crn", req.CRN),
		zap.String("term", req.Term))

	resp := watchedFromModel(wc)
	return &resp, nil
}

func (s *watchedService) Unwatch(ctx context.Context, userID, crn, term string) error {
	removed, err := s.repo.WatchedClass.Delete(ctx, userID, crn, term)
	if err != nil {
		s.logger.Error("delete watched class failed", zap.Error(err))
		return err
	}
	if !removed {
		return ErrWatchNotFound
	}
	return nil
}

func (s *watchedService) List(ctx context.Context, userID string) ([]dto.WatchedClassResponse, error) {
	rows, err := s.repo.WatchedClass.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.WatchedClassResponse, 0, len(rows))
	for i := range rows {
		out = append(out, watchedFromModel(&rows[i]))
	}
	return out, nil
}

func (s *watchedService) Count(ctx context.Context, userID string) (int64, error) {
	return s.repo.WatchedClass.CountByUser(ctx, userID)
}

func (s *watchedService) IsWatching(ctx context.Context, userID, crn, term string) (bool, error) {
	return s.repo.WatchedClass.Exists(ctx, userID, crn, term)
}

// Details returns one merged record per tracked CRN. Fresh details are
// fetched per (subject, courseNumber, term) group; a tracked section the
// fetch failed to produce is synthesized from the stored tuple so the
// caller always sees the full watch list. Fetches that come back short
// are retried a few times before the partial records are synthesized.
func (s *watchedService) Details(ctx context.Context, userID string) ([]dto.WatchedClassDetail, error) {
	tracked, err := s.repo.WatchedClass.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(tracked) == 0 {
		return []dto.WatchedClassDetail{}, nil
	}

	var fetched []dto.CourseSection
	for attempt := 1; attempt <= s.detailAttempts; attempt++ {
		fetched = s.fetchDetails(ctx, tracked)
		if len(fetched) >= len(tracked) {
			break
		}
		if attempt < s.detailAttempts {
			s.logger.Debug("watched detail fetch came back short, retrying",
				zap.Int("attempt", attempt),
				zap.Int("tracked", len(tracked)),
				zap.Int("fetched", len(fetched)))
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(s.detailDelay):
			}
		}
	}

	// The same CRN can be tracked in two different terms, so the merge
	// keys on the (crn, term) pair.
	byKey := make(map[string]*dto.CourseSection, len(fetched))
	for i := range fetched {
		byKey[fetched[i].CourseReferenceNumber+"|"+fetched[i].Term] = &fetched[i]
	}

	seen := make(map[string]bool, len(tracked))
	details := make([]dto.WatchedClassDetail, 0, len(tracked))
	for i := range tracked {
		t := &tracked[i]
		key := t.CRN + "|" + t.Term
		if seen[key] {
			continue
		}
		seen[key] = true

		if section, ok := byKey[key]; ok {
			details = append(details, dto.WatchedClassDetail{CourseSection: *section})
			continue
		}
		details = append(details, synthesizeDetail(t))
	}

	// Details that matched no tracked tuple still belong in the view;
	// keep them after the tracked ones.
	for i := range fetched {
		key := fetched[i].CourseReferenceNumber + "|" + fetched[i].Term
		if !seen[key] {
			seen[key] = true
			details = append(details, dto.WatchedClassDetail{CourseSection: fetched[i]})
		}
	}

	return details, nil
}

// fetchDetails searches once per (subject, courseNumber, term) group and
// keeps the sections whose CRN is tracked. A failed group is logged and
// skipped; its sections surface as partial records.
func (s *watchedService) fetchDetails(ctx context.Context, tracked []model.WatchedClass) []dto.CourseSection {
	type group struct {
		subject      string
		courseNumber string
		term         string
		crns         map[string]bool
	}
	groups := make(map[string]*group)
	for i := range tracked {
		t := &tracked[i]
		key := t.Subject + "|" + t.CourseNumber + "|" + t.Term
		g, ok := groups[key]
		if !ok {
			g = &group{
				subject:      t.Subject,
				courseNumber: t.CourseNumber,
				term:         t.Term,
				crns:         make(map[string]bool),
			}
			groups[key] = g
		}
		g.crns[t.CRN] = true
	}

	var sections []dto.CourseSection
	for _, g := range groups {
		found, err := banner.SearchAll(ctx, s.banner, &dto.CourseSearchRequest{
			Term:         g.term,
			Subject:      g.subject,
			CourseNumber: g.courseNumber,
		})
		if err != nil {
			s.logger.Warn("watched detail search failed",
				zap.String("subject", g.subject),
				zap.String("course_number", g.courseNumber),
				zap.String("term", g.term),
				zap.Error(err))
			continue
		}
		for i := range found {
			if g.crns[found[i].CourseReferenceNumber] {
				sections = append(sections, found[i])
			}
		}
	}
	return sections
}

// synthesizeDetail builds the placeholder record for a tracked section
// the registration system did not return. Enrollment counts stay zeroed;
// the stored tuple supplies the identifying fields.
func synthesizeDetail(t *model.WatchedClass) dto.WatchedClassDetail {
	section := dto.CourseSection{
		Term:                  t.Term,
		CourseReferenceNumber: t.CRN,
		Subject:               t.Subject,
		CourseNumber:          t.CourseNumber,
		CourseTitle:           t.CourseTitle,
		SubjectCourse:         t.Subject + t.CourseNumber,
	}
	if t.Instructor != "" {
		section.Faculty = []dto.Faculty{{DisplayName: t.Instructor}}
	}
	return dto.WatchedClassDetail{CourseSection: section, IsPartialData: true}
}

func watchedFromModel(wc *model.WatchedClass) dto.WatchedClassResponse {
	return dto.WatchedClassResponse{
		CRN:          wc.CRN,
		Term:         wc.Term,
		Subject:      wc.Subject,
		CourseNumber: wc.CourseNumber,
		CourseTitle:  wc.CourseTitle,
		Instructor:   wc.Instructor,
		CreatedAt:    wc.CreatedAt.Format(time.RFC3339),
	}
}
