// Package history persists a log of upstream wiki operations to SQLite, so
// recent fetch activity can be inspected without scraping the server logs.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// Schema for the fetch_log table. Call Store.Init() or apply manually.
const Schema = `
CREATE TABLE IF NOT EXISTS fetch_log (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	op TEXT NOT NULL,
	key TEXT NOT NULL,
	status TEXT NOT NULL,
	cache_hit INTEGER NOT NULL DEFAULT 0,
	duration_ms INTEGER NOT NULL,
	error TEXT,
	timestamp INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_fetch_log_ts ON fetch_log(timestamp);
`

// Entry is one recorded operation: a search query or a page fetch, with its
// outcome.
type Entry struct {
	ID         int64  `json:"id"`
	Op         string `json:"op"`
	Key        string `json:"key"`
	Status     string `json:"status"`
	CacheHit   bool   `json:"cache_hit"`
	DurationMs int64  `json:"duration_ms"`
	Error      string `json:"error,omitempty"`
	Timestamp  int64  `json:"timestamp"`
}

// Open opens (creating parent directories as needed) the SQLite database at
// path. The caller owns the returned handle.
func Open(path string) (*sql.DB, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create history dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open history db: %w", err)
	}
	return db, nil
}

// Store persists fetch log entries asynchronously. Writes are batched; a full
// buffer drops entries rather than applying backpressure to the fetch path.
type Store struct {
	db   *sql.DB
	ch   chan *Entry
	done chan struct{}
	once sync.Once
}

// NewStore creates a store backed by the given database connection. The
// caller remains responsible for closing db after the store is closed.
func NewStore(db *sql.DB) *Store {
	s := &Store{
		db:   db,
		ch:   make(chan *Entry, 1024),
		done: make(chan struct{}),
	}
	go s.flushLoop()
	return s
}

// Init creates the fetch_log table if it doesn't exist.
func (s *Store) Init() error {
	_, err := s.db.Exec(Schema)
	return err
}

// RecordAsync queues an entry for async persistence. Non-blocking; drops if
// the buffer is full.
func (s *Store) RecordAsync(e *Entry) {
	if e.Timestamp == 0 {
		e.Timestamp = time.Now().UnixMilli()
	}
	select {
	case s.ch <- e:
	default:
	}
}

// Recent returns up to limit entries, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]*Entry, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx, `SELECT id, op, key, status, cache_hit, duration_ms, COALESCE(error, ''), timestamp
		FROM fetch_log ORDER BY timestamp DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query fetch log: %w", err)
	}
	defer rows.Close()

	var entries []*Entry
	for rows.Next() {
		e := &Entry{}
		var cacheHit int
		if err := rows.Scan(&e.ID, &e.Op, &e.Key, &e.Status, &cacheHit, &e.DurationMs, &e.Error, &e.Timestamp); err != nil {
			return nil, fmt.Errorf("scan fetch log row: %w", err)
		}
		e.CacheHit = cacheHit != 0
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Close drains the buffer and stops the flush goroutine.
func (s *Store) Close() error {
	s.once.Do(func() {
		close(s.ch)
		<-s.done
	})
	return nil
}

func (s *Store) flushLoop() {
	defer close(s.done)

	batch := make([]*Entry, 0, 64)
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case e, ok := <-s.ch:
			if !ok {
				s.flushBatch(batch)
				return
			}
			batch = append(batch, e)
			if len(batch) >= 64 {
				s.flushBatch(batch)
				batch = batch[:0]
			}
		case <-ticker.C:
			if len(batch) > 0 {
				s.flushBatch(batch)
				batch = batch[:0]
			}
		}
	}
}

func (s *Store) flushBatch(batch []*Entry) {
	if len(batch) == 0 {
		return
	}

	tx, err := s.db.Begin()
	if err != nil {
		slog.Error("history store: begin tx", "error", err)
		return
	}

	stmt, err := tx.Prepare(`INSERT INTO fetch_log (op, key, status, cache_hit, duration_ms, error, timestamp)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		tx.Rollback()
		slog.Error("history store: prepare", "error", err)
		return
	}
	defer stmt.Close()

	for _, e := range batch {
		cacheHit := 0
		if e.CacheHit {
			cacheHit = 1
		}
		if _, err := stmt.Exec(e.Op, e.Key, e.Status, cacheHit, e.DurationMs, e.Error, e.Timestamp); err != nil {
			slog.Error("history store: insert", "error", err)
		}
	}

	if err := tx.Commit(); err != nil {
		slog.Error("history store: commit", "error", err)
	}
}
