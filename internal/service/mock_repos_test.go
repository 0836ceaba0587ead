package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/OfficialEseosa/panther-watch/internal/banner"
	"github.com/OfficialEseosa/panther-watch/internal/dto"
	"github.com/OfficialEseosa/panther-watch/internal/model"
	"github.com/OfficialEseosa/panther-watch/internal/repository"
)

// ── Mock UserScheduleRepository ──

type mockUserScheduleRepo struct {
	rows   []model.UserSchedule
	nextID int64
	// failWrites makes Create and Delete return errors, simulating a
	// database outage.
	failWrites bool
}

func newMockUserScheduleRepo() *mockUserScheduleRepo {
	return &mockUserScheduleRepo{nextID: 1}
}

var errMockDB = errors.New("mock database down")

func (m *mockUserScheduleRepo) ListByUser(_ context.Context, userID string) ([]model.UserSchedule, error) {
	var out []model.UserSchedule
	for _, r := range m.rows {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *mockUserScheduleRepo) ListByUserAndTerm(_ context.Context, userID, termCode string) ([]model.UserSchedule, error) {
	var out []model.UserSchedule
	for _, r := range m.rows {
		if r.UserID == userID && r.TermCode == termCode {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *mockUserScheduleRepo) Create(_ context.Context, entry *model.UserSchedule) (*model.UserSchedule, error) {
	if m.failWrites {
		return nil, errMockDB
	}
	for _, r := range m.rows {
		if r.UserID == entry.UserID && r.TermCode == entry.TermCode && r.CRN == entry.CRN {
			existing := r
			return &existing, nil
		}
	}
	entry.ID = m.nextID
	m.nextID++
	m.rows = append(m.rows, *entry)
	return entry, nil
}

func (m *mockUserScheduleRepo) Delete(_ context.Context, userID, termCode, crn string) error {
	if m.failWrites {
		return errMockDB
	}
	kept := m.rows[:0]
	for _, r := range m.rows {
		if r.UserID == userID && r.TermCode == termCode && r.CRN == crn {
			continue
		}
		kept = append(kept, r)
	}
	m.rows = kept
	return nil
}

func (m *mockUserScheduleRepo) CountAll(_ context.Context) (int64, error) {
	return int64(len(m.rows)), nil
}

// ── Mock WatchedClassRepository ──

type mockWatchedClassRepo struct {
	classes []model.WatchedClass
	users   map[string]*model.User
}

func newMockWatchedClassRepo() *mockWatchedClassRepo {
	return &mockWatchedClassRepo{users: make(map[string]*model.User)}
}

func (m *mockWatchedClassRepo) Create(_ context.Context, wc *model.WatchedClass) error {
	if wc.WatchedClassID == "" {
		wc.WatchedClassID = fmt.Sprintf("wc-%d", len(m.classes)+1)
	}
	if wc.CreatedAt.IsZero() {
		wc.CreatedAt = time.Now()
	}
	m.classes = append(m.classes, *wc)
	return nil
}

func (m *mockWatchedClassRepo) Delete(_ context.Context, userID, crn, term string) (bool, error) {
	kept := m.classes[:0]
	removed := false
	for _, c := range m.classes {
		if c.UserID == userID && c.CRN == crn && c.Term == term {
			removed = true
			continue
		}
		kept = append(kept, c)
	}
	m.classes = kept
	return removed, nil
}

func (m *mockWatchedClassRepo) ListByUser(_ context.Context, userID string) ([]model.WatchedClass, error) {
	var out []model.WatchedClass
	for _, c := range m.classes {
		if c.UserID == userID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *mockWatchedClassRepo) CountByUser(_ context.Context, userID string) (int64, error) {
	list, _ := m.ListByUser(context.Background(), userID)
	return int64(len(list)), nil
}

func (m *mockWatchedClassRepo) Exists(_ context.Context, userID, crn, term string) (bool, error) {
	for _, c := range m.classes {
		if c.UserID == userID && c.CRN == crn && c.Term == term {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockWatchedClassRepo) ListUniquePairs(_ context.Context) ([]repository.CRNTermPair, error) {
	seen := make(map[string]bool)
	var pairs []repository.CRNTermPair
	for _, c := range m.classes {
		key := c.CRN + "|" + c.Term
		if seen[key] {
			continue
		}
		seen[key] = true
		pairs = append(pairs, repository.CRNTermPair{CRN: c.CRN, Term: c.Term})
	}
	return pairs, nil
}

func (m *mockWatchedClassRepo) ListByCRNTerm(_ context.Context, crn, term string) ([]model.WatchedClass, error) {
	var out []model.WatchedClass
	for _, c := range m.classes {
		if c.CRN == crn && c.Term == term {
			c.User = m.users[c.UserID]
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *mockWatchedClassRepo) CountAll(_ context.Context) (int64, error) {
	return int64(len(m.classes)), nil
}

func (m *mockWatchedClassRepo) CountUniquePairs(_ context.Context) (int64, error) {
	pairs, _ := m.ListUniquePairs(context.Background())
	return int64(len(pairs)), nil
}

func (m *mockWatchedClassRepo) WatchReport(_ context.Context) ([]dto.WatchReportRow, error) {
	counts := make(map[string]*dto.WatchReportRow)
	for _, c := range m.classes {
		key := c.CRN + "|" + c.Term
		if row, ok := counts[key]; ok {
			row.Watchers++
			continue
		}
		counts[key] = &dto.WatchReportRow{
			CRN:          c.CRN,
			Term:         c.Term,
			Subject:      c.Subject,
			CourseNumber: c.CourseNumber,
			CourseTitle:  c.CourseTitle,
			Watchers:     1,
		}
	}
	var rows []dto.WatchReportRow
	for _, row := range counts {
		rows = append(rows, *row)
	}
	return rows, nil
}

// ── Mock UserRepository ──

type mockUserRepo struct {
	users map[string]*model.User // by UserID
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User)}
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	if u, ok := m.users[id]; ok {
		copied := *u
		return &copied, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetBySupabaseID(_ context.Context, supabaseID string) (*model.User, error) {
	for _, u := range m.users {
		if u.SupabaseID == supabaseID {
			copied := *u
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) Upsert(_ context.Context, user *model.User) error {
	for _, u := range m.users {
		if u.SupabaseID == user.SupabaseID {
			u.Email = user.Email
			u.Name = user.Name
			u.AvatarURL = user.AvatarURL
			u.LastLoginAt = user.LastLoginAt
			return nil
		}
	}
	if user.UserID == "" {
		user.UserID = fmt.Sprintf("user-%d", len(m.users)+1)
	}
	copied := *user
	m.users[user.UserID] = &copied
	return nil
}

func (m *mockUserRepo) Update(_ context.Context, user *model.User) error {
	if _, ok := m.users[user.UserID]; !ok {
		return gorm.ErrRecordNotFound
	}
	copied := *user
	m.users[user.UserID] = &copied
	return nil
}

func (m *mockUserRepo) Search(_ context.Context, _ string, _, _ int) ([]model.User, int64, error) {
	var out []model.User
	for _, u := range m.users {
		out = append(out, *u)
	}
	return out, int64(len(out)), nil
}

func (m *mockUserRepo) Count(_ context.Context) (int64, error) {
	return int64(len(m.users)), nil
}

// ── Mock AnnouncementRepository ──

type mockAnnouncementRepo struct {
	items map[string]*model.Announcement
}

func newMockAnnouncementRepo() *mockAnnouncementRepo {
	return &mockAnnouncementRepo{items: make(map[string]*model.Announcement)}
}

func (m *mockAnnouncementRepo) Create(_ context.Context, a *model.Announcement) error {
	if a.AnnouncementID == "" {
		a.AnnouncementID = fmt.Sprintf("ann-%d", len(m.items)+1)
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now()
	}
	copied := *a
	m.items[a.AnnouncementID] = &copied
	return nil
}

func (m *mockAnnouncementRepo) GetByID(_ context.Context, id string) (*model.Announcement, error) {
	if a, ok := m.items[id]; ok {
		copied := *a
		return &copied, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAnnouncementRepo) ListActive(_ context.Context, now time.Time) ([]model.Announcement, error) {
	var out []model.Announcement
	for _, a := range m.items {
		if !a.IsActive {
			continue
		}
		if a.StartsAt != nil && a.StartsAt.After(now) {
			continue
		}
		if a.EndsAt != nil && a.EndsAt.Before(now) {
			continue
		}
		out = append(out, *a)
	}
	return out, nil
}

func (m *mockAnnouncementRepo) ListAll(_ context.Context) ([]model.Announcement, error) {
	var out []model.Announcement
	for _, a := range m.items {
		out = append(out, *a)
	}
	return out, nil
}

func (m *mockAnnouncementRepo) Update(_ context.Context, a *model.Announcement) error {
	if _, ok := m.items[a.AnnouncementID]; !ok {
		return gorm.ErrRecordNotFound
	}
	copied := *a
	m.items[a.AnnouncementID] = &copied
	return nil
}

func (m *mockAnnouncementRepo) Delete(_ context.Context, id string) error {
	delete(m.items, id)
	return nil
}

// ── Mock EmailLogRepository ──

type mockEmailLogRepo struct {
	logs []model.EmailLog
}

func newMockEmailLogRepo() *mockEmailLogRepo {
	return &mockEmailLogRepo{}
}

func (m *mockEmailLogRepo) Create(_ context.Context, log *model.EmailLog) error {
	m.logs = append(m.logs, *log)
	return nil
}

func (m *mockEmailLogRepo) SentRecently(_ context.Context, userID, crn, term, kind string, since time.Time) (bool, error) {
	for _, l := range m.logs {
		if l.UserID != nil && *l.UserID == userID && l.CRN == crn && l.Term == term &&
			l.Kind == kind && l.SentAt.After(since) {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockEmailLogRepo) CountSince(_ context.Context, since time.Time) (int64, error) {
	var n int64
	for _, l := range m.logs {
		if l.SentAt.After(since) {
			n++
		}
	}
	return n, nil
}

// ── Mock banner client ──

type mockBanner struct {
	// sections served per term code, regardless of filters beyond the
	// subject/courseNumber narrowing below.
	sections map[string][]dto.CourseSection
	terms    []dto.Term

	searchCalls int
	// failFirst makes the first N searches fail.
	failFirst int
	// shortFirst makes the first N searches return no data, simulating
	// an upstream session rollover.
	shortFirst int
	// pageSize, when set, slices responses into pages of this size while
	// TotalCount keeps reporting the full match count.
	pageSize int
}

func newMockBanner() *mockBanner {
	return &mockBanner{sections: make(map[string][]dto.CourseSection)}
}

func (m *mockBanner) Search(_ context.Context, req *dto.CourseSearchRequest) (*dto.CourseSearchResponse, error) {
	m.searchCalls++
	if m.failFirst > 0 {
		m.failFirst--
		return nil, errors.New("mock upstream failure")
	}
	if m.shortFirst > 0 {
		m.shortFirst--
		return &dto.CourseSearchResponse{Success: true}, nil
	}

	var data []dto.CourseSection
	for _, s := range m.sections[req.Term] {
		if req.Subject != "" && s.Subject != req.Subject {
			continue
		}
		if req.CourseNumber != "" && s.CourseNumber != req.CourseNumber {
			continue
		}
		data = append(data, s)
	}
	total := len(data)
	if m.pageSize > 0 {
		off := req.PageOffset
		if off > total {
			off = total
		}
		end := off + m.pageSize
		if end > total {
			end = total
		}
		data = data[off:end]
	}
	return &dto.CourseSearchResponse{
		Success:    true,
		TotalCount: total,
		Data:       data,
	}, nil
}

func (m *mockBanner) GetTerms(_ context.Context, _, _ int) ([]dto.Term, error) {
	return m.terms, nil
}

var _ banner.Client = (*mockBanner)(nil)

// ── Mock cache ──

type mockCache struct {
	strings map[string]string
	sets    map[string]map[string]bool
}

func newMockCache() *mockCache {
	return &mockCache{
		strings: make(map[string]string),
		sets:    make(map[string]map[string]bool),
	}
}

func (m *mockCache) GetString(_ context.Context, key string) (string, error) {
	return m.strings[key], nil
}

func (m *mockCache) SetString(_ context.Context, key, value string, _ time.Duration) error {
	m.strings[key] = value
	return nil
}

func (m *mockCache) Delete(_ context.Context, keys ...string) error {
	for _, k := range keys {
		delete(m.strings, k)
		delete(m.sets, k)
	}
	return nil
}

func (m *mockCache) AddToSet(_ context.Context, key string, members ...string) error {
	if m.sets[key] == nil {
		m.sets[key] = make(map[string]bool)
	}
	for _, member := range members {
		m.sets[key][member] = true
	}
	return nil
}

func (m *mockCache) SetMembers(_ context.Context, key string) ([]string, error) {
	var out []string
	for member := range m.sets[key] {
		out = append(out, member)
	}
	return out, nil
}

var _ Cache = (*mockCache)(nil)

// ── assembly helpers ──

type testEnv struct {
	repo     *repository.Repository
	schedule *mockUserScheduleRepo
	watched  *mockWatchedClassRepo
	users    *mockUserRepo
	anns     *mockAnnouncementRepo
	emails   *mockEmailLogRepo
	banner   *mockBanner
	cache    *mockCache
	logger   *zap.Logger
}

func newTestEnv() *testEnv {
	schedule := newMockUserScheduleRepo()
	watched := newMockWatchedClassRepo()
	users := newMockUserRepo()
	anns := newMockAnnouncementRepo()
	emails := newMockEmailLogRepo()
	return &testEnv{
		repo: &repository.Repository{
			User:         users,
			WatchedClass: watched,
			UserSchedule: schedule,
			Announcement: anns,
			EmailLog:     emails,
		},
		schedule: schedule,
		watched:  watched,
		users:    users,
		anns:     anns,
		emails:   emails,
		banner:   newMockBanner(),
		cache:    newMockCache(),
		logger:   zap.NewNop(),
	}
}
