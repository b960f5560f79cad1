// Package fetch implements the MediaWiki API client: keyword search and page
// retrieval behind a response cache, a rate limiter, and a retry wrapper.
package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/microcosm-cc/bluemonday"

	"github.com/oakhollow/stardewiki/metrics"
)

// Page is a successfully fetched wiki page.
type Page struct {
	Title      string
	HTML       string
	Categories []string
	URL        string
}

// SearchResult is one search hit.
type SearchResult struct {
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
	URL     string `json:"url"`
	PageID  int    `json:"-"`
}

// SearchResponse is the outcome of one search call. Zero results is a valid
// outcome, not an error.
type SearchResponse struct {
	Query   string
	Count   int
	Results []SearchResult
}

// Config configures the client.
type Config struct {
	APIURL    string // MediaWiki api.php endpoint
	SiteURL   string // base URL for building page links
	UserAgent string
	Timeout   time.Duration // per-attempt HTTP timeout. Default: 10s.

	CacheTTL     time.Duration // Default: 1h.
	CacheMaxSize int           // Default: 100.

	RequestsPerSecond float64 // Default: 5.

	MaxRetries     int           // additional attempts after the first. Default: 3.
	BackoffInitial time.Duration // Default: 1s.
	BackoffFactor  float64       // Default: 2.

	Logger *slog.Logger
}

func (c *Config) defaults() {
	if c.UserAgent == "" {
		c.UserAgent = "stardewiki/1.0"
	}
	if c.Timeout <= 0 {
		c.Timeout = 10 * time.Second
	}
	if c.CacheTTL <= 0 {
		c.CacheTTL = time.Hour
	}
	if c.CacheMaxSize <= 0 {
		c.CacheMaxSize = 100
	}
	if c.RequestsPerSecond <= 0 {
		c.RequestsPerSecond = 5
	}
	if c.MaxRetries < 0 {
		c.MaxRetries = 0
	} else if c.MaxRetries == 0 {
		c.MaxRetries = 3
	}
	if c.BackoffInitial <= 0 {
		c.BackoffInitial = time.Second
	}
	if c.BackoffFactor <= 0 {
		c.BackoffFactor = 2
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

// Client talks to the MediaWiki API. It owns the cache and rate limiter as
// private collaborators; both are safe under concurrent use.
type Client struct {
	config   Config
	http     *http.Client
	cache    *Cache
	limiter  *Limiter
	retry    RetryPolicy
	log      *slog.Logger
	sanitize *bluemonday.Policy
}

// New creates a Client.
func New(cfg Config) *Client {
	cfg.defaults()
	return &Client{
		config:  cfg,
		http:    &http.Client{Timeout: cfg.Timeout},
		cache:   NewCache(cfg.CacheTTL, cfg.CacheMaxSize),
		limiter: NewLimiter(cfg.RequestsPerSecond),
		retry: RetryPolicy{
			MaxRetries: cfg.MaxRetries,
			Initial:    cfg.BackoffInitial,
			Factor:     cfg.BackoffFactor,
		},
		log:      cfg.Logger,
		sanitize: bluemonday.StrictPolicy(),
	}
}

// CacheStats reports the page cache counters.
func (c *Client) CacheStats() Stats { return c.cache.Stats() }

// PageURL builds the canonical site URL for a page title.
func (c *Client) PageURL(title string) string {
	return strings.TrimRight(c.config.SiteURL, "/") + "/" + strings.ReplaceAll(title, " ", "_")
}

// statusError is a non-2xx upstream response. 5xx counts as transient.
type statusError struct {
	code int
}

func (e *statusError) Error() string { return fmt.Sprintf("http %d", e.code) }

// --- search ---

type searchEnvelope struct {
	Query struct {
		Search []struct {
			Title   string `json:"title"`
			Snippet string `json:"snippet"`
			PageID  int    `json:"pageid"`
		} `json:"search"`
	} `json:"query"`
}

// Search issues a keyword search. An empty result set is a success.
func (c *Client) Search(ctx context.Context, query string, limit int) (*SearchResponse, error) {
	if limit < 1 || limit > 50 {
		limit = 10
	}
	params := url.Values{
		"action":   {"query"},
		"list":     {"search"},
		"srsearch": {query},
		"srlimit":  {strconv.Itoa(limit)},
		"format":   {"json"},
	}

	c.limiter.Wait()
	var env searchEnvelope
	err := c.retry.Do(ctx, c.log, "search "+query, func() error {
		return c.getJSON(ctx, "search", params, &env)
	})
	if err != nil {
		metrics.FetchesTotal.WithLabelValues("search", "error").Inc()
		return nil, err
	}
	metrics.FetchesTotal.WithLabelValues("search", "ok").Inc()

	resp := &SearchResponse{Query: query}
	for _, hit := range env.Query.Search {
		resp.Results = append(resp.Results, SearchResult{
			Title:   hit.Title,
			Snippet: strings.TrimSpace(c.sanitize.Sanitize(hit.Snippet)),
			URL:     c.PageURL(hit.Title),
			PageID:  hit.PageID,
		})
	}
	resp.Count = len(resp.Results)
	c.log.Info("fetch: search done", "query", query, "count", resp.Count)
	return resp, nil
}

// --- page ---

type parseEnvelope struct {
	Parse *struct {
		Title      string            `json:"title"`
		Text       map[string]string `json:"text"`
		Categories []struct {
			Name string `json:"*"`
		} `json:"categories"`
	} `json:"parse"`
	Error *struct {
		Code string `json:"code"`
		Info string `json:"info"`
	} `json:"error"`
}

// GetPage retrieves the rendered HTML and categories for an exact page title.
// Cache-first; only successful fetches are cached. Redirect pages surface a
// RedirectError naming the canonical target instead of being followed.
func (c *Client) GetPage(ctx context.Context, title string) (*Page, error) {
	if page, ok := c.cache.Get(title); ok {
		metrics.CacheHits.Inc()
		c.log.Debug("fetch: cache hit", "title", title)
		return page, nil
	}
	metrics.CacheMisses.Inc()
	c.log.Debug("fetch: cache miss", "title", title)

	params := url.Values{
		"action": {"parse"},
		"page":   {title},
		"format": {"json"},
		"prop":   {"text|categories"},
	}

	c.limiter.Wait()
	var page *Page
	err := c.retry.Do(ctx, c.log, "page "+title, func() error {
		var env parseEnvelope
		if err := c.getJSON(ctx, "page", params, &env); err != nil {
			return err
		}
		if env.Error != nil || env.Parse == nil {
			return &NotFoundError{Title: title}
		}
		html := env.Parse.Text["*"]
		if target := redirectTarget(html); target != "" {
			return &RedirectError{From: title, To: target}
		}
		categories := make([]string, 0, len(env.Parse.Categories))
		for _, cat := range env.Parse.Categories {
			categories = append(categories, strings.ReplaceAll(cat.Name, "_", " "))
		}
		page = &Page{
			Title:      title,
			HTML:       html,
			Categories: categories,
			URL:        c.PageURL(title),
		}
		return nil
	})
	if err != nil {
		metrics.FetchesTotal.WithLabelValues("page", statusLabel(err)).Inc()
		return nil, err
	}

	c.cache.Set(title, page)
	metrics.FetchesTotal.WithLabelValues("page", "ok").Inc()
	c.log.Info("fetch: page done", "title", title, "categories", len(page.Categories))
	return page, nil
}

// getJSON performs one GET against the API and decodes the JSON body.
func (c *Client) getJSON(ctx context.Context, op string, params url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.config.APIURL+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("User-Agent", c.config.UserAgent)

	start := time.Now()
	resp, err := c.http.Do(req)
	metrics.UpstreamDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	if err != nil {
		return fmt.Errorf("http get: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		io.Copy(io.Discard, resp.Body)
		return &statusError{code: resp.StatusCode}
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// redirectTarget extracts the canonical title from a MediaWiki redirect
// page's rendered HTML, or "" when the page is not a redirect.
func redirectTarget(html string) string {
	if !strings.Contains(html, "redirectMsg") {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}
	link := doc.Find("div.redirectMsg a").First()
	if title, ok := link.Attr("title"); ok && title != "" {
		return title
	}
	return strings.TrimSpace(link.Text())
}

func statusLabel(err error) string {
	switch err.(type) {
	case *NotFoundError:
		return "not_found"
	case *RedirectError:
		return "redirect"
	default:
		return "error"
	}
}
