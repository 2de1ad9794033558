package openlibrary

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const (
	DefaultBaseURL   = "https://openlibrary.org"
	DefaultCoversURL = "https://covers.openlibrary.org"
	DefaultNoCover   = "no-cover.png"

	searchFields = "key,title,author_name,number_of_pages_median,first_publish_year,cover_i,ratings_average"
)

type Config struct {
	BaseURL    string
	CoversURL  string
	NoCover    string
	UserAgent  string
	RPS        int
	MaxRetries int
	Timeout    time.Duration
	// EscapeQuery switches search terms from the legacy encoding (first
	// space to '+', nothing escaped) to url.QueryEscape.
	EscapeQuery bool
}

type Client struct {
	httpClient  *http.Client
	userAgent   string
	baseURL     string
	coversURL   string
	noCover     string
	limiter     *rate.Limiter
	maxRetries  int
	escapeQuery bool
}

func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.CoversURL == "" {
		cfg.CoversURL = DefaultCoversURL
	}
	if cfg.NoCover == "" {
		cfg.NoCover = DefaultNoCover
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	limit := rate.Inf
	if cfg.RPS > 0 {
		limit = rate.Every(time.Second / time.Duration(cfg.RPS))
	}
	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		userAgent:   cfg.UserAgent,
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		coversURL:   strings.TrimRight(cfg.CoversURL, "/"),
		noCover:     cfg.NoCover,
		limiter:     rate.NewLimiter(limit, 1),
		maxRetries:  cfg.MaxRetries,
		escapeQuery: cfg.EscapeQuery,
	}
}

// SearchDoc is one entry of search.json "docs" restricted to searchFields.
type SearchDoc struct {
	Key                 string   `json:"key"`
	Title               string   `json:"title"`
	AuthorNames         []string `json:"author_name"`
	NumberOfPagesMedian *int     `json:"number_of_pages_median"`
	FirstPublishYear    int      `json:"first_publish_year"`
	CoverID             int      `json:"cover_i"`
	RatingsAverage      *float64 `json:"ratings_average"`
}

// SearchResponse matches search.json
type SearchResponse struct {
	NumFound int         `json:"numFound"`
	Docs     []SearchDoc `json:"docs"`
}

// Work matches {key}.json for works, e.g. /works/OL45883W.json
type Work struct {
	Key              string      `json:"key"`
	Title            string      `json:"title"`
	Description      interface{} `json:"description"` // Can be string or {type: ..., value: ...}
	Subjects         []string    `json:"subjects"`
	Covers           []int       `json:"covers"`
	FirstPublishDate string      `json:"first_publish_date"`
}

// DescriptionText flattens the two shapes Open Library uses for descriptions.
func (w *Work) DescriptionText() string {
	if s, ok := w.Description.(string); ok {
		return s
	}
	if m, ok := w.Description.(map[string]interface{}); ok {
		if v, ok := m["value"].(string); ok {
			return v
		}
	}
	return ""
}

// CoverID returns the first usable cover id; Open Library pads with -1.
func (w *Work) CoverID() int {
	for _, id := range w.Covers {
		if id > 0 {
			return id
		}
	}
	return 0
}

func (c *Client) SearchBooks(ctx context.Context, query string, limit int) (*SearchResponse, error) {
	u := fmt.Sprintf("%s/search.json?q=%s&fields=%s&limit=%d",
		c.baseURL, c.encodeQuery(query), searchFields, limit)

	var res SearchResponse
	if err := c.get(ctx, u, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) GetWork(ctx context.Context, key string) (*Work, error) {
	if !strings.HasPrefix(key, "/") {
		key = "/" + key
	}
	u := fmt.Sprintf("%s%s.json", c.baseURL, key)

	var res Work
	if err := c.get(ctx, u, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// CoverURL builds the large cover image URL, or the placeholder asset when
// the id is absent.
func (c *Client) CoverURL(coverID int) string {
	if coverID <= 0 {
		return c.noCover
	}
	return fmt.Sprintf("%s/b/id/%d-L.jpg", c.coversURL, coverID)
}

func (c *Client) encodeQuery(q string) string {
	if c.escapeQuery {
		return url.QueryEscape(q)
	}
	return LegacyQuery(q)
}

// LegacyQuery reproduces the historical search encoding: only the first
// space becomes '+'. Later spaces end up as %20 once the URL is serialized
// and nothing else is escaped, so "&" or "#" in a term still split the URL.
func LegacyQuery(q string) string {
	q = strings.Replace(q, " ", "+", 1)
	return strings.ReplaceAll(q, " ", "%20")
}

func (c *Client) get(ctx context.Context, url string, target interface{}) error {
	var lastErr error
	for i := 0; i <= c.maxRetries; i++ {
		if i > 0 {
			// Backoff: 1s, 2s, 4s...
			backoff := time.Duration(1<<uint(i-1)) * time.Second
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		retry, err := c.do(ctx, url, target)
		if err == nil {
			return nil
		}
		if !retry {
			return err
		}
		lastErr = err
	}
	if c.maxRetries == 0 {
		return lastErr
	}
	return fmt.Errorf("after %d retries: %w", c.maxRetries, lastErr)
}

func (c *Client) do(ctx context.Context, url string, target interface{}) (retry bool, err error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return false, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false, err
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return true, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("unexpected status code: %d", resp.StatusCode)
		return resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500, err
	}

	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return false, fmt.Errorf("decode %s: %w", req.URL.Path, err)
	}
	return false, nil
}
