package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/OfficialEseosa/panther-watch/internal/banner"
	"github.com/OfficialEseosa/panther-watch/internal/dto"
	"github.com/OfficialEseosa/panther-watch/internal/model"
	"github.com/OfficialEseosa/panther-watch/internal/repository"
)

var (
	ErrSectionNotFound = errors.New("section not found for the requested term")
	ErrEmptySchedule   = errors.New("schedule has no exportable meetings for this term")
)

const scheduleCacheTTL = 24 * time.Hour

// ScheduleService manages per-user schedules. The cached read model in
// Redis holds fully hydrated sections and answers every read; the
// database rows are the durable source the cache is rebuilt from. Writes
// mutate the cache synchronously and reach the rows through the outbox.
type ScheduleService interface {
	AddEntry(ctx context.Context, userID string, req *dto.AddScheduleEntryRequest) (*dto.ScheduleEntryResponse, error)
	RemoveEntry(ctx context.Context, userID, termCode, crn string) error
	ListEntries(ctx context.Context, userID string) ([]dto.ScheduleEntryResponse, error)
	Sync(ctx context.Context, userID string, req *dto.SyncScheduleRequest) ([]dto.ScheduleEntryResponse, error)
	Sections(ctx context.Context, userID, termCode string) ([]dto.CourseSection, error)
	Grid(ctx context.Context, userID, termCode string) (*dto.GridResponse, error)
	ExportCalendar(ctx context.Context, userID, termCode string) (content, filename string, err error)
	Close()
}

type scheduleService struct {
	repo   *repository.Repository
	cache  Cache
	banner banner.Client
	outbox *scheduleOutbox
	logger *zap.Logger
}

// NewScheduleService creates the ScheduleService and starts its outbox
// worker. Close stops the worker.
func NewScheduleService(
	repo *repository.Repository,
	cache Cache,
	bannerClient banner.Client,
	logger *zap.Logger,
) ScheduleService {
	outbox := newScheduleOutbox(repo.UserSchedule, logger)
	outbox.Start()
	return &scheduleService{
		repo:   repo,
		cache:  cache,
		banner: bannerClient,
		outbox: outbox,
		logger: logger,
	}
}

func (s *scheduleService) Close() {
	s.outbox.Stop()
}

func scheduleCacheKey(userID, termCode string) string {
	return fmt.Sprintf("schedule:sections:%s:%s", userID, termCode)
}

func (s *scheduleService) AddEntry(ctx context.Context, userID string, req *dto.AddScheduleEntryRequest) (*dto.ScheduleEntryResponse, error) {
	sections, err := s.Sections(ctx, userID, req.TermCode)
	if err != nil {
		return nil, err
	}

	for i := range sections {
		if sections[i].CourseReferenceNumber == req.CRN {
			// Already on the schedule; adding again is a no-op.
			return s.entryResponse(ctx, userID, req.TermCode, req.CRN), nil
		}
	}

	section, err := s.findSection(ctx, req.TermCode, req.CRN)
	if err != nil {
		return nil, err
	}

	sections = append(sections, *section)
	s.writeCache(ctx, userID, req.TermCode, sections)

	s.outbox.Enqueue(outboxOp{
		kind:     outboxUpsert,
		userID:   userID,
		termCode: req.TermCode,
		crn:      req.CRN,
	})

	s.logger.Info("schedule entry added",
		zap.String("user_id", userID),
		zap.String("term", req.TermCode),
		zap.String("crn", req.CRN))

	return s.entryResponse(ctx, userID, req.TermCode, req.CRN), nil
}

func (s *scheduleService) RemoveEntry(ctx context.Context, userID, termCode, crn string) error {
	sections, err := s.Sections(ctx, userID, termCode)
	if err != nil {
		return err
	}

	kept := sections[:0]
	removed := false
	for i := range sections {
		if sections[i].CourseReferenceNumber == crn {
			removed = true
			continue
		}
		kept = append(kept, sections[i])
	}

	if removed {
		s.writeCache(ctx, userID, termCode, kept)
	}

	// The row delete runs either way; removing an entry that was never
	// persisted is a harmless no-op.
	s.outbox.Enqueue(outboxOp{
		kind:     outboxDelete,
		userID:   userID,
		termCode: termCode,
		crn:      crn,
	})
	return nil
}

func (s *scheduleService) ListEntries(ctx context.Context, userID string) ([]dto.ScheduleEntryResponse, error) {
	rows, err := s.repo.UserSchedule.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error("list schedule entries failed", zap.Error(err))
		return nil, err
	}
	out := make([]dto.ScheduleEntryResponse, 0, len(rows))
	for i := range rows {
		out = append(out, entryFromModel(&rows[i]))
	}
	return out, nil
}

// Sync replaces the stored schedule with the client snapshot. Terms
// absent from the snapshot lose all their rows. Row writes here are
// synchronous; sync is the reconciliation point the outbox leans on, so
// a failure must surface to the caller.
func (s *scheduleService) Sync(ctx context.Context, userID string, req *dto.SyncScheduleRequest) ([]dto.ScheduleEntryResponse, error) {
	existing, err := s.repo.UserSchedule.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	wanted := make(map[string]bool)
	for termCode, crns := range req.Schedule {
		for _, crn := range crns {
			wanted[termCode+"|"+crn] = true
		}
	}

	staleTerm := make(map[string]bool)
	for i := range existing {
		row := &existing[i]
		if !wanted[row.TermCode+"|"+row.CRN] {
			if err := s.repo.UserSchedule.Delete(ctx, userID, row.TermCode, row.CRN); err != nil {
				return nil, err
			}
			staleTerm[row.TermCode] = true
		}
	}

	have := make(map[string]bool, len(existing))
	for i := range existing {
		have[existing[i].TermCode+"|"+existing[i].CRN] = true
	}
	for termCode, crns := range req.Schedule {
		for _, crn := range crns {
			if have[termCode+"|"+crn] {
				continue
			}
			if _, err := s.repo.UserSchedule.Create(ctx, &model.UserSchedule{
				UserID:   userID,
				TermCode: termCode,
				CRN:      crn,
				AddedAt:  time.Now(),
			}); err != nil {
				return nil, err
			}
			staleTerm[termCode] = true
		}
	}

	// Touched terms rebuild their read model from the rows on next read.
	for termCode := range staleTerm {
		if err := s.cache.Delete(ctx, scheduleCacheKey(userID, termCode)); err != nil {
			s.logger.Warn("schedule cache invalidation failed",
				zap.String("term", termCode), zap.Error(err))
		}
	}

	return s.ListEntries(ctx, userID)
}

// Sections returns the hydrated sections for one term, rebuilding the
// cache from the stored rows when it is cold.
func (s *scheduleService) Sections(ctx context.Context, userID, termCode string) ([]dto.CourseSection, error) {
	if raw, err := s.cache.GetString(ctx, scheduleCacheKey(userID, termCode)); err == nil && raw != "" {
		var sections []dto.CourseSection
		if err := json.Unmarshal([]byte(raw), &sections); err == nil {
			return sections, nil
		}
		s.logger.Warn("corrupt schedule cache entry, rebuilding",
			zap.String("user_id", userID), zap.String("term", termCode))
	}

	rows, err := s.repo.UserSchedule.ListByUserAndTerm(ctx, userID, termCode)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return []dto.CourseSection{}, nil
	}

	crns := make(map[string]bool, len(rows))
	for i := range rows {
		crns[rows[i].CRN] = true
	}

	sections, err := s.hydrateTerm(ctx, termCode, crns)
	if err != nil {
		return nil, err
	}

	s.writeCache(ctx, userID, termCode, sections)
	return sections, nil
}

func (s *scheduleService) Grid(ctx context.Context, userID, termCode string) (*dto.GridResponse, error) {
	sections, err := s.Sections(ctx, userID, termCode)
	if err != nil {
		return nil, err
	}
	return BuildGrid(BuildScheduleBlocks(sections)), nil
}

func (s *scheduleService) ExportCalendar(ctx context.Context, userID, termCode string) (string, string, error) {
	sections, err := s.Sections(ctx, userID, termCode)
	if err != nil {
		return "", "", err
	}
	if len(sections) == 0 {
		return "", "", ErrEmptySchedule
	}
	return BuildCalendar(sections, time.Now()), CalendarFilename(termCode), nil
}

// findSection locates one CRN in a term with a broad term search,
// matching how the registration system is queried everywhere else. The
// search walks every page; large terms span several.
func (s *scheduleService) findSection(ctx context.Context, termCode, crn string) (*dto.CourseSection, error) {
	all, err := banner.SearchAll(ctx, s.banner, &dto.CourseSearchRequest{Term: termCode})
	if err != nil {
		return nil, err
	}
	for i := range all {
		if all[i].CourseReferenceNumber == crn {
			return &all[i], nil
		}
	}
	return nil, ErrSectionNotFound
}

// hydrateTerm fetches the term's full section list and keeps the
// watched CRNs, in stable CRN order.
func (s *scheduleService) hydrateTerm(ctx context.Context, termCode string, crns map[string]bool) ([]dto.CourseSection, error) {
	all, err := banner.SearchAll(ctx, s.banner, &dto.CourseSearchRequest{Term: termCode})
	if err != nil {
		return nil, err
	}

	sections := make([]dto.CourseSection, 0, len(crns))
	for i := range all {
		if crns[all[i].CourseReferenceNumber] {
			sections = append(sections, all[i])
		}
	}

	if len(sections) < len(crns) {
		s.logger.Warn("some schedule entries not found upstream",
			zap.String("term", termCode),
			zap.Int("wanted", len(crns)),
			zap.Int("found", len(sections)))
	}
	return sections, nil
}

func (s *scheduleService) writeCache(ctx context.Context, userID, termCode string, sections []dto.CourseSection) {
	payload, err := json.Marshal(sections)
	if err != nil {
		s.logger.Error("marshal schedule cache failed", zap.Error(err))
		return
	}
	if err := s.cache.SetString(ctx, scheduleCacheKey(userID, termCode), string(payload), scheduleCacheTTL); err != nil {
		s.logger.Warn("schedule cache write failed",
			zap.String("user_id", userID),
			zap.String("term", termCode),
			zap.Error(err))
	}
}

// entryResponse reads the persisted row back for the response; when the
// row has not landed yet (outbox still retrying) a pending entry with a
// zero ID is returned instead.
func (s *scheduleService) entryResponse(ctx context.Context, userID, termCode, crn string) *dto.ScheduleEntryResponse {
	rows, err := s.repo.UserSchedule.ListByUserAndTerm(ctx, userID, termCode)
	if err == nil {
		for i := range rows {
			if rows[i].CRN == crn {
				resp := entryFromModel(&rows[i])
				return &resp
			}
		}
	}
	return &dto.ScheduleEntryResponse{
		TermCode: termCode,
		CRN:      crn,
		AddedAt:  time.Now().Format(time.RFC3339),
	}
}

func entryFromModel(row *model.UserSchedule) dto.ScheduleEntryResponse {
	return dto.ScheduleEntryResponse{
		ID:       row.ID,
		TermCode: row.TermCode,
		CRN:      row.CRN,
		AddedAt:  row.AddedAt.Format(time.RFC3339),
	}
}
