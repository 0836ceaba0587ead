package banner

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

// session is one term-scoped cookie jar for the registration system.
// Banner's search endpoint only answers for the term most recently
// declared on the session, so sessions are cached per term code.
type session struct {
	cookies   string
	fetchedAt time.Time
}

type sessionStore struct {
	mu       sync.Mutex
	ttl      time.Duration
	sessions map[string]session
}

func newSessionStore(ttl time.Duration) *sessionStore {
	return &sessionStore{
		ttl:      ttl,
		sessions: make(map[string]session),
	}
}

// cookiesFor returns cached session cookies for the term, declaring the
// term upstream when the cache is cold or expired.
func (s *sessionStore) cookiesFor(ctx context.Context, c *client, term string) (string, error) {
	s.mu.Lock()
	cached, ok := s.sessions[term]
	s.mu.Unlock()

	if ok && time.Since(cached.fetchedAt) < s.ttl {
		return cached.cookies, nil
	}

	cookies, err := c.declareTerm(ctx, term)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	s.sessions[term] = session{cookies: cookies, fetchedAt: time.Now()}
	s.mu.Unlock()

	return cookies, nil
}

// invalidate drops the cached session for a term, forcing a fresh
// declaration on the next request.
func (s *sessionStore) invalidate(term string) {
	s.mu.Lock()
	delete(s.sessions, term)
	s.mu.Unlock()
}

// declareTerm POSTs the term selection and captures the Set-Cookie
// headers Banner hands back. Those cookies scope every later search.
func (c *client) declareTerm(ctx context.Context, term string) (string, error) {
	form := url.Values{"term": {term}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/term/search", strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("declare term %s: %w", term, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusFound {
		return "", fmt.Errorf("declare term %s: HTTP %d", term, resp.StatusCode)
	}

	setCookies := resp.Header.Values("Set-Cookie")
	if len(setCookies) == 0 {
		return "", fmt.Errorf("declare term %s: no session cookies received", term)
	}

	parts := make([]string, 0, len(setCookies))
	for _, raw := range setCookies {
		parts = append(parts, strings.SplitN(raw, ";", 2)[0])
	}
	return strings.Join(parts, "; "), nil
}
