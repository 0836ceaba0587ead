package banner

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/OfficialEseosa/panther-watch/config"
	"github.com/OfficialEseosa/panther-watch/internal/dto"
)

// fakeBanner stands in for the registration system: it hands out session
// cookies on term declaration and serves searches only to requests that
// present them.
type fakeBanner struct {
	declares   int32
	searches   int32
	rejectNext int32

	lastQuery  map[string]string
	lastCookie string

	sections []dto.CourseSection
	// pageSize, when set, slices results by the pageOffset parameter while
	// totalCount still reports the full match count.
	pageSize int
}

func (f *fakeBanner) handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/term/search", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&f.declares, 1)
		w.Header().Add("Set-Cookie", "JSESSIONID=session-abc; Path=/; HttpOnly")
		w.Header().Add("Set-Cookie", "SSB_COOKIE=ssb-xyz; Path=/")
		w.WriteHeader(http.StatusOK)
	})

	mux.HandleFunc("/searchResults/searchResults", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&f.searches, 1)
		f.lastCookie = r.Header.Get("Cookie")
		f.lastQuery = map[string]string{}
		for key, values := range r.URL.Query() {
			f.lastQuery[key] = values[0]
		}

		if atomic.LoadInt32(&f.rejectNext) > 0 {
			atomic.AddInt32(&f.rejectNext, -1)
			json.NewEncoder(w).Encode(dto.CourseSearchResponse{Success: false})
			return
		}
		data := f.sections
		if f.pageSize > 0 {
			off, _ := strconv.Atoi(r.URL.Query().Get("pageOffset"))
			if off > len(f.sections) {
				off = len(f.sections)
			}
			end := off + f.pageSize
			if end > len(f.sections) {
				end = len(f.sections)
			}
			data = f.sections[off:end]
		}
		json.NewEncoder(w).Encode(dto.CourseSearchResponse{
			Success:    true,
			TotalCount: len(f.sections),
			Data:       data,
		})
	})

	mux.HandleFunc("/classSearch/getTerms", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]dto.Term{
			{Code: "202508", Description: "Fall Semester 2025"},
			{Code: "202601", Description: "Spring Semester 2026"},
		})
	})

	return mux
}

func newTestClient(baseURL string) Client {
	return NewClient(&config.BannerConfig{
		BaseURL:        baseURL,
		RequestTimeout: 5 * time.Second,
		SessionTTL:     10 * time.Minute,
		PageMaxSize:    50,
	}, zap.NewNop())
}

func TestSearchDeclaresTermAndReusesSession(t *testing.T) {
	fake := &fakeBanner{sections: []dto.CourseSection{
		{Term: "202508", CourseReferenceNumber: "80331", Subject: "CSC", CourseNumber: "1301"},
	}}
	srv := httptest.NewServer(fake.handler())
	defer srv.Close()

	c := newTestClient(srv.URL)
	req := &dto.CourseSearchRequest{Term: "202508", Subject: "CSC"}

	resp, err := c.Search(context.Background(), req)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if !resp.Success || len(resp.Data) != 1 {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if fake.lastCookie != "JSESSIONID=session-abc; SSB_COOKIE=ssb-xyz" {
		t.Errorf("search did not carry the declared session cookies, got %q", fake.lastCookie)
	}

	// A second search for the same term rides the cached session.
	if _, err := c.Search(context.Background(), req); err != nil {
		t.Fatalf("second Search failed: %v", err)
	}
	if n := atomic.LoadInt32(&fake.declares); n != 1 {
		t.Errorf("expected a single term declaration, got %d", n)
	}
}

func TestSearchQueryParameters(t *testing.T) {
	fake := &fakeBanner{}
	srv := httptest.NewServer(fake.handler())
	defer srv.Close()

	c := newTestClient(srv.URL)
	_, err := c.Search(context.Background(), &dto.CourseSearchRequest{
		Term:         "202508",
		Subject:      "CSC",
		CourseNumber: "1301",
		PageOffset:   10,
		PageMaxSize:  500, // above the cap, clamped to 50
	})
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}

	want := map[string]string{
		"txt_subject":      "CSC",
		"txt_courseNumber": "1301",
		"txt_term":         "202508",
		"pageOffset":       "10",
		"pageMaxSize":      "50",
		"sortColumn":       "subjectDescription",
		"sortDirection":    "asc",
	}
	for key, value := range want {
		if got := fake.lastQuery[key]; got != value {
			t.Errorf("query %s = %q, want %q", key, got, value)
		}
	}
}

func TestSearchRetriesAfterSessionRejection(t *testing.T) {
	fake := &fakeBanner{
		rejectNext: 1,
		sections: []dto.CourseSection{
			{Term: "202508", CourseReferenceNumber: "80331"},
		},
	}
	srv := httptest.NewServer(fake.handler())
	defer srv.Close()

	c := newTestClient(srv.URL)
	resp, err := c.Search(context.Background(), &dto.CourseSearchRequest{Term: "202508"})
	if err != nil {
		t.Fatalf("Search should recover from a stale session, got %v", err)
	}
	if len(resp.Data) != 1 {
		t.Fatalf("unexpected response after retry: %+v", resp)
	}
	if n := atomic.LoadInt32(&fake.declares); n != 2 {
		t.Errorf("expected a fresh declaration after rejection, got %d declares", n)
	}
	if n := atomic.LoadInt32(&fake.searches); n != 2 {
		t.Errorf("expected 2 search attempts, got %d", n)
	}
}

func TestSearchAllWalksEveryPage(t *testing.T) {
	sections := make([]dto.CourseSection, 60)
	for i := range sections {
		sections[i] = dto.CourseSection{
			Term:                  "202508",
			CourseReferenceNumber: fmt.Sprintf("80%03d", i),
		}
	}
	fake := &fakeBanner{sections: sections, pageSize: 25}
	srv := httptest.NewServer(fake.handler())
	defer srv.Close()

	c := newTestClient(srv.URL)
	all, err := SearchAll(context.Background(), c, &dto.CourseSearchRequest{Term: "202508"})
	if err != nil {
		t.Fatalf("SearchAll failed: %v", err)
	}
	if len(all) != 60 {
		t.Fatalf("expected all 60 sections across pages, got %d", len(all))
	}
	if all[55].CourseReferenceNumber != "80055" {
		t.Errorf("unexpected section at index 55: %+v", all[55])
	}
	if n := atomic.LoadInt32(&fake.searches); n != 3 {
		t.Errorf("expected 3 page fetches, got %d", n)
	}
}

func TestSearchSurfacesUpstreamErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/term/search" {
			w.Header().Add("Set-Cookie", "JSESSIONID=x; Path=/")
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	if _, err := c.Search(context.Background(), &dto.CourseSearchRequest{Term: "202508"}); err == nil {
		t.Fatal("expected an error on HTTP 500")
	}
}

func TestGetTerms(t *testing.T) {
	fake := &fakeBanner{}
	srv := httptest.NewServer(fake.handler())
	defer srv.Close()

	c := newTestClient(srv.URL)
	terms, err := c.GetTerms(context.Background(), 0, 0)
	if err != nil {
		t.Fatalf("GetTerms failed: %v", err)
	}
	if len(terms) != 2 || terms[0].Code != "202508" {
		t.Errorf("unexpected terms: %+v", terms)
	}
}
