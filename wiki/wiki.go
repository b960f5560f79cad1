// Package wiki is the service facade: keyword and strategy-based search,
// structured page extraction, and markdown rendering against a MediaWiki
// site, exposed over MCP and HTTP.
package wiki

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"

	"github.com/oakhollow/stardewiki/wiki/internal/fetch"
	"github.com/oakhollow/stardewiki/wiki/internal/history"
	"github.com/oakhollow/stardewiki/wiki/internal/query"
	"github.com/oakhollow/stardewiki/wiki/internal/wikiparse"
)

// Service ties the fetch client, the extraction pipeline, and the optional
// fetch log together. Safe for concurrent use.
type Service struct {
	config  *Config
	client  *fetch.Client
	md      *converter.Converter
	history *history.Store
	db      *sql.DB
	log     *slog.Logger
}

// New creates a Service from cfg. The fetch log is opened only when
// cfg.HistoryDB is set.
func New(cfg *Config) (*Service, error) {
	cfg.defaults()

	client := fetch.New(fetch.Config{
		APIURL:            cfg.APIURL,
		SiteURL:           cfg.SiteURL,
		UserAgent:         cfg.UserAgent,
		Timeout:           time.Duration(cfg.HTTPTimeoutSeconds) * time.Second,
		CacheTTL:          time.Duration(cfg.CacheTTLSeconds) * time.Second,
		CacheMaxSize:      cfg.CacheMaxSize,
		RequestsPerSecond: cfg.RequestsPerSecond,
		MaxRetries:        cfg.MaxRetries,
		BackoffInitial:    time.Duration(cfg.BackoffInitialSeconds * float64(time.Second)),
		BackoffFactor:     cfg.BackoffFactor,
		Logger:            cfg.Logger,
	})

	s := &Service{
		config: cfg,
		client: client,
		md: converter.NewConverter(
			converter.WithPlugins(
				base.NewBasePlugin(),
				commonmark.NewCommonmarkPlugin(),
				table.NewTablePlugin(),
			),
		),
		log: cfg.Logger,
	}

	if cfg.HistoryDB != "" {
		db, err := history.Open(cfg.HistoryDB)
		if err != nil {
			return nil, err
		}
		store := history.NewStore(db)
		if err := store.Init(); err != nil {
			store.Close()
			db.Close()
			return nil, fmt.Errorf("init history store: %w", err)
		}
		s.db = db
		s.history = store
	}

	return s, nil
}

// Close releases the fetch log resources, if any.
func (s *Service) Close() error {
	if s.history != nil {
		s.history.Close()
	}
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Search runs a raw keyword search with no query rewriting.
func (s *Service) Search(ctx context.Context, q string, limit int) (*SearchResponse, error) {
	start := time.Now()
	resp, err := s.client.Search(ctx, q, limit)
	s.record("search", q, start, false, err)
	if err != nil {
		return nil, err
	}
	return &SearchResponse{
		Success: true,
		Count:   resp.Count,
		Query:   resp.Query,
		Results: results(resp),
	}, nil
}

// SmartSearch rewrites the query into candidate strategies and returns the
// first one with results. When every candidate comes up empty (the raw query
// is always the final candidate), the empty result is still a success. An
// upstream failure aborts the sequence immediately.
func (s *Service) SmartSearch(ctx context.Context, q string, limit int) (*SearchResponse, error) {
	start := time.Now()
	var last *fetch.SearchResponse
	for _, candidate := range query.Candidates(q) {
		resp, err := s.client.Search(ctx, candidate, limit)
		if err != nil {
			s.record("smart_search", q, start, false, err)
			return nil, err
		}
		last = resp
		if resp.Count == 0 {
			continue
		}
		s.record("smart_search", q, start, false, nil)
		out := &SearchResponse{
			Success: true,
			Count:   resp.Count,
			Query:   q,
			Results: results(resp),
		}
		if !strings.EqualFold(candidate, q) {
			out.StrategyUsed = candidate
			s.log.Info("wiki: smart search rewrote query", "query", q, "strategy", candidate, "count", resp.Count)
		}
		return out, nil
	}
	s.record("smart_search", q, start, false, nil)
	return &SearchResponse{Success: true, Query: q, Results: results(last)}, nil
}

// GetPageData fetches a page and extracts its typed record.
func (s *Service) GetPageData(ctx context.Context, title string) (*PageData, error) {
	page, err := s.getPage(ctx, title)
	if err != nil {
		return nil, err
	}
	rec, err := wikiparse.Extract(page.HTML, page.Title, page.Categories)
	if err != nil {
		return nil, err
	}
	return &PageData{
		Success:    true,
		PageTitle:  page.Title,
		PageURL:    page.URL,
		Categories: page.Categories,
		Data:       rec,
	}, nil
}

// GetPageMarkdown fetches a page and renders its full content as markdown.
// Better suited than GetPageData for pages the structured parsers serve
// poorly, like festival and seasonal overview pages.
func (s *Service) GetPageMarkdown(ctx context.Context, title string) (*PageMarkdown, error) {
	page, err := s.getPage(ctx, title)
	if err != nil {
		return nil, err
	}
	md, err := s.md.ConvertString(page.HTML)
	if err != nil {
		return nil, &ParseError{Title: page.Title, Reason: fmt.Sprintf("markdown conversion: %v", err)}
	}
	return &PageMarkdown{
		Success:   true,
		PageTitle: page.Title,
		PageURL:   page.URL,
		Markdown:  md,
	}, nil
}

// CacheStats reports the page cache counters.
func (s *Service) CacheStats() fetch.Stats { return s.client.CacheStats() }

// FetchHistory returns the most recent fetch log entries, newest first. With
// no history database configured it returns an empty list.
func (s *Service) FetchHistory(ctx context.Context, limit int) ([]*history.Entry, error) {
	if s.history == nil {
		return []*history.Entry{}, nil
	}
	entries, err := s.history.Recent(ctx, limit)
	if err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []*history.Entry{}
	}
	return entries, nil
}

func (s *Service) getPage(ctx context.Context, title string) (*fetch.Page, error) {
	start := time.Now()
	before := s.client.CacheStats().Hits
	page, err := s.client.GetPage(ctx, title)
	cacheHit := s.client.CacheStats().Hits > before
	s.record("page", title, start, cacheHit, err)
	return page, err
}

func (s *Service) record(op, key string, start time.Time, cacheHit bool, err error) {
	if s.history == nil {
		return
	}
	e := &history.Entry{
		Op:         op,
		Key:        key,
		Status:     historyStatus(err),
		CacheHit:   cacheHit,
		DurationMs: time.Since(start).Milliseconds(),
	}
	if err != nil {
		e.Error = err.Error()
	}
	s.history.RecordAsync(e)
}

func historyStatus(err error) string {
	if err == nil {
		return "ok"
	}
	var (
		notFound *PageNotFoundError
		network  *NetworkError
		redirect *RedirectError
	)
	switch {
	case errors.As(err, &notFound):
		return "not_found"
	case errors.As(err, &network):
		return "network_error"
	case errors.As(err, &redirect):
		return "redirect"
	default:
		return "error"
	}
}

func results(resp *fetch.SearchResponse) []fetch.SearchResult {
	if resp == nil || resp.Results == nil {
		return []fetch.SearchResult{}
	}
	return resp.Results
}
