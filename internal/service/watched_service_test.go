package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/OfficialEseosa/panther-watch/internal/dto"
)

func newWatchedServiceForTest(env *testEnv) *watchedService {
	return &watchedService{
		repo:           env.repo,
		banner:         env.banner,
		logger:         env.logger,
		detailAttempts: 3,
		detailDelay:    time.Millisecond,
	}
}

func watchRequest() *dto.WatchClassRequest {
	return &dto.WatchClassRequest{
		CRN:          "80331",
		Term:         "202508",
		Subject:      "CSC",
		CourseNumber: "1301",
		CourseTitle:  "Principles of Computer Science I",
		Instructor:   "Jane Smith",
	}
}

func TestWatchAndUnwatch(t *testing.T) {
	env := newTestEnv()
	svc := newWatchedServiceForTest(env)

	resp, err := svc.Watch(context.Background(), "user-1", watchRequest())
	if err != nil {
		t.Fatalf("Watch failed: %v", err)
	}
	if resp.CRN != "80331" || resp.Term != "202508" {
		t.Errorf("unexpected response: %+v", resp)
	}

	if _, err := svc.Watch(context.Background(), "user-1", watchRequest()); err != ErrAlreadyWatching {
		t.Errorf("expected ErrAlreadyWatching on duplicate watch, got %v", err)
	}

	watching, err := svc.IsWatching(context.Background(), "user-1", "80331", "202508")
	if err != nil || !watching {
		t.Errorf("expected IsWatching true, got %v %v", watching, err)
	}

	count, _ := svc.Count(context.Background(), "user-1")
	if count != 1 {
		t.Errorf("expected count 1, got %d", count)
	}

	if err := svc.Unwatch(context.Background(), "user-1", "80331", "202508"); err != nil {
		t.Fatalf("Unwatch failed: %v", err)
	}
	if err := svc.Unwatch(context.Background(), "user-1", "80331", "202508"); err != ErrWatchNotFound {
		t.Errorf("expected ErrWatchNotFound on second unwatch, got %v", err)
	}
}

func TestWatchedDetailsMergesFetchedSections(t *testing.T) {
	env := newTestEnv()
	env.banner.sections["202508"] = []dto.CourseSection{testSection()}
	svc := newWatchedServiceForTest(env)

	if _, err := svc.Watch(context.Background(), "user-1", watchRequest()); err != nil {
		t.Fatalf("Watch failed: %v", err)
	}

	details, err := svc.Details(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("Details failed: %v", err)
	}
	if len(details) != 1 {
		t.Fatalf("expected 1 detail, got %d", len(details))
	}
	d := details[0]
	if d.CourseReferenceNumber != "80331" {
		t.Errorf("unexpected CRN %s", d.CourseReferenceNumber)
	}
	if d.IsPartialData {
		t.Error("fetched section should not be marked partial")
	}
}

func TestWatchedDetailsSynthesizesPartialRecord(t *testing.T) {
	env := newTestEnv()
	// Upstream has nothing for the tracked course.
	svc := newWatchedServiceForTest(env)

	if _, err := svc.Watch(context.Background(), "user-1", watchRequest()); err != nil {
		t.Fatalf("Watch failed: %v", err)
	}

	details, err := svc.Details(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("Details failed: %v", err)
	}
	if len(details) != 1 {
		t.Fatalf("expected 1 synthesized detail, got %d", len(details))
	}
	d := details[0]
	if !d.IsPartialData {
		t.Error("expected the synthesized record to be marked partial")
	}
	if d.CourseReferenceNumber != "80331" || d.Subject != "CSC" || d.CourseNumber != "1301" {
		t.Errorf("synthesized record lost identifying fields: %+v", d)
	}
	if d.SeatsAvailable != 0 || d.Enrollment != 0 {
		t.Errorf("synthesized record must keep enrollment counts zeroed: %+v", d)
	}
	if len(d.Faculty) != 1 || d.Faculty[0].DisplayName != "Jane Smith" {
		t.Errorf("expected stored instructor as faculty, got %+v", d.Faculty)
	}
}

func TestWatchedDetailsRetriesShortFetch(t *testing.T) {
	env := newTestEnv()
	env.banner.sections["202508"] = []dto.CourseSection{testSection()}
	env.banner.shortFirst = 1
	svc := newWatchedServiceForTest(env)

	if _, err := svc.Watch(context.Background(), "user-1", watchRequest()); err != nil {
		t.Fatalf("Watch failed: %v", err)
	}

	details, err := svc.Details(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("Details failed: %v", err)
	}
	if len(details) != 1 || details[0].IsPartialData {
		t.Fatalf("expected a full record after retry, got %+v", details)
	}
	if env.banner.searchCalls != 2 {
		t.Errorf("expected 2 search calls (short then full), got %d", env.banner.searchCalls)
	}
}

func TestWatchedDetailsOneRecordPerCRN(t *testing.T) {
	env := newTestEnv()
	second := testSection()
	second.CourseReferenceNumber = "80442"
	env.banner.sections["202508"] = []dto.CourseSection{testSection(), second}
	svc := newWatchedServiceForTest(env)

	// Two tracked tuples from the same course group: one search covers both.
	if _, err := svc.Watch(context.Background(), "user-1", watchRequest()); err != nil {
		t.Fatalf("Watch failed: %v", err)
	}
	req := watchRequest()
	req.CRN = "80442"
	if _, err := svc.Watch(context.Background(), "user-1", req); err != nil {
		t.Fatalf("Watch failed: %v", err)
	}

	details, err := svc.Details(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("Details failed: %v", err)
	}
	if len(details) != 2 {
		t.Fatalf("expected 2 details, got %d", len(details))
	}
	seen := make(map[string]bool)
	for _, d := range details {
		if seen[d.CourseReferenceNumber] {
			t.Errorf("duplicate detail for CRN %s", d.CourseReferenceNumber)
		}
		seen[d.CourseReferenceNumber] = true
	}
	if env.banner.searchCalls != 1 {
		t.Errorf("expected a single grouped search, got %d", env.banner.searchCalls)
	}
}

func TestWatchedDetailsSameCRNAcrossTerms(t *testing.T) {
	env := newTestEnv()
	spring := testSection()
	spring.Term = "202601"
	env.banner.sections["202508"] = []dto.CourseSection{testSection()}
	env.banner.sections["202601"] = []dto.CourseSection{spring}
	svc := newWatchedServiceForTest(env)

	// Banner reuses CRNs between terms; both watches must survive the merge.
	if _, err := svc.Watch(context.Background(), "user-1", watchRequest()); err != nil {
		t.Fatalf("Watch failed: %v", err)
	}
	req := watchRequest()
	req.Term = "202601"
	if _, err := svc.Watch(context.Background(), "user-1", req); err != nil {
		t.Fatalf("Watch failed: %v", err)
	}

	details, err := svc.Details(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("Details failed: %v", err)
	}
	if len(details) != 2 {
		t.Fatalf("expected a detail per term, got %d", len(details))
	}
	terms := make(map[string]bool)
	for _, d := range details {
		if d.CourseReferenceNumber != "80331" {
			t.Errorf("unexpected CRN %s", d.CourseReferenceNumber)
		}
		terms[d.Term] = true
	}
	if !terms["202508"] || !terms["202601"] {
		t.Errorf("expected both terms represented, got %v", terms)
	}
}

func TestWatchedDetailsStopsRetryingOnCanceledContext(t *testing.T) {
	env := newTestEnv()
	env.banner.sections["202508"] = []dto.CourseSection{testSection()}
	env.banner.shortFirst = 5
	svc := newWatchedServiceForTest(env)

	if _, err := svc.Watch(context.Background(), "user-1", watchRequest()); err != nil {
		t.Fatalf("Watch failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := svc.Details(ctx, "user-1"); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled from a canceled fetch, got %v", err)
	}
}

func TestWatchedDetailsEmptyWatchList(t *testing.T) {
	env := newTestEnv()
	svc := newWatchedServiceForTest(env)

	details, err := svc.Details(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("Details failed: %v", err)
	}
	if len(details) != 0 {
		t.Errorf("expected empty details, got %d", len(details))
	}
	if env.banner.searchCalls != 0 {
		t.Errorf("empty watch list must not hit upstream, got %d calls", env.banner.searchCalls)
	}
}
