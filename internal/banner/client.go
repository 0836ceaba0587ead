package banner

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"go.uber.org/zap"

	"github.com/OfficialEseosa/panther-watch/config"
	"github.com/OfficialEseosa/panther-watch/internal/dto"
)

// Client talks to the university's Banner self-service registration
// system. Searches ride on a term-scoped session cookie; the client
// manages sessions transparently.
type Client interface {
	Search(ctx context.Context, req *dto.CourseSearchRequest) (*dto.CourseSearchResponse, error)
	GetTerms(ctx context.Context, offset, max int) ([]dto.Term, error)
}

type client struct {
	baseURL    string
	httpClient *http.Client
	sessions   *sessionStore
	maxPage    int
	logger     *zap.Logger
}

func NewClient(cfg *config.BannerConfig, logger *zap.Logger) Client {
	return &client{
		baseURL: cfg.BaseURL,
		httpClient: &http.Client{
			Timeout: cfg.RequestTimeout,
		},
		sessions: newSessionStore(cfg.SessionTTL),
		maxPage:  cfg.PageMaxSize,
		logger:   logger,
	}
}

// Search runs a section search for the requested term. On a session
// rejection the cached cookies are invalidated and the search is
// retried once with a fresh session.
func (c *client) Search(ctx context.Context, req *dto.CourseSearchRequest) (*dto.CourseSearchResponse, error) {
	result, err := c.searchOnce(ctx, req)
	if err == errSessionRejected {
		c.sessions.invalidate(req.Term)
		result, err = c.searchOnce(ctx, req)
	}
	return result, err
}

// SearchAll walks every result page of a search. Banner caps the page
// size server-side, so a single search silently truncates any term with
// more sections than one page; callers resolving CRNs against a whole
// term must use this instead of a bare Search.
func SearchAll(ctx context.Context, c Client, req *dto.CourseSearchRequest) ([]dto.CourseSection, error) {
	page := *req
	page.PageOffset = 0

	var sections []dto.CourseSection
	for {
		resp, err := c.Search(ctx, &page)
		if err != nil {
			return nil, err
		}
		sections = append(sections, resp.Data...)
		if len(resp.Data) == 0 || len(sections) >= resp.TotalCount {
			return sections, nil
		}
		page.PageOffset = len(sections)
	}
}

var errSessionRejected = fmt.Errorf("banner: session rejected")

func (c *client) searchOnce(ctx context.Context, req *dto.CourseSearchRequest) (*dto.CourseSearchResponse, error) {
	cookies, err := c.sessions.cookiesFor(ctx, c, req.Term)
	if err != nil {
		return nil, err
	}

	q := url.Values{}
	q.Set("txt_subject", req.Subject)
	q.Set("txt_courseNumber", req.CourseNumber)
	q.Set("txt_term", req.Term)
	if req.Level != "" {
		q.Set("txt_level", req.Level)
	}
	q.Set("pageOffset", strconv.Itoa(req.PageOffset))
	q.Set("pageMaxSize", strconv.Itoa(c.pageSize(req.PageMaxSize)))
	q.Set("sortColumn", "subjectDescription")
	q.Set("sortDirection", "asc")

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/searchResults/searchResults?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Cookie", cookies)
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("search sections: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return nil, errSessionRejected
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search sections: HTTP %d", resp.StatusCode)
	}

	var result dto.CourseSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	// Banner answers 200 with success=false when the declared term has
	// gone stale on its side.
	if !result.Success && len(result.Data) == 0 {
		return nil, errSessionRejected
	}

	c.logger.Debug("banner search completed",
		zap.String("term", req.Term),
		zap.String("subject", req.Subject),
		zap.Int("sections", len(result.Data)))

	return &result, nil
}

// GetTerms lists the registration terms Banner currently exposes.
// No session is needed for this endpoint.
func (c *client) GetTerms(ctx context.Context, offset, max int) ([]dto.Term, error) {
	if offset < 1 {
		offset = 1
	}
	if max < 1 {
		max = 10
	}

	q := url.Values{}
	q.Set("offset", strconv.Itoa(offset))
	q.Set("max", strconv.Itoa(max))
	q.Set("searchTerm", "")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/classSearch/getTerms?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch terms: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch terms: HTTP %d", resp.StatusCode)
	}

	var terms []dto.Term
	if err := json.NewDecoder(resp.Body).Decode(&terms); err != nil {
		return nil, fmt.Errorf("decode terms: %w", err)
	}
	return terms, nil
}

func (c *client) pageSize(requested int) int {
	if requested <= 0 || requested > c.maxPage {
		return c.maxPage
	}
	return requested
}
