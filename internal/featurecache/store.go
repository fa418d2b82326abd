package featurecache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"emberpipe/internal/audio"
	"emberpipe/internal/config"
)

const schema = `
CREATE TABLE IF NOT EXISTS analysis_cache (
	key        TEXT PRIMARY KEY,
	payload    TEXT NOT NULL,
	created_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_analysis_cache_created ON analysis_cache(created_at);
`

const (
	sqliteBusyCode          = 5
	busyRetryAttempts       = 5
	busyRetryInitialBackoff = 10 * time.Millisecond
	busyRetryMaxBackoff     = 200 * time.Millisecond
)

// Store manages the analysis cache backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
	ttl  time.Duration
	now  func() time.Time
}

// Open initializes or connects to the cache database under the configured
// cache directory.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	dbPath := filepath.Join(cfg.Paths.CacheDir, "analysis.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init cache schema: %w", err)
	}

	return &Store{
		db:   db,
		path: dbPath,
		ttl:  time.Duration(cfg.Analysis.CacheTTLDays) * 24 * time.Hour,
		now:  time.Now,
	}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the cache database location.
func (s *Store) Path() string {
	return s.path
}

// Get returns the cached analysis for key if present and fresh. Stale rows
// are deleted on the way out.
func (s *Store) Get(ctx context.Context, key string) (*audio.AnalysisResult, bool, error) {
	ctx = ensureContext(ctx)

	var payload string
	var createdAt int64
	err := s.db.QueryRowContext(ctx,
		`SELECT payload, created_at FROM analysis_cache WHERE key = ?`, key).
		Scan(&payload, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("query cache: %w", err)
	}

	if s.now().Sub(time.Unix(createdAt, 0)) > s.ttl {
		_ = s.execWithRetry(ctx, `DELETE FROM analysis_cache WHERE key = ?`, key)
		return nil, false, nil
	}

	var result audio.AnalysisResult
	if err := json.Unmarshal([]byte(payload), &result); err != nil {
		// A corrupt row is worse than a miss; drop it.
		_ = s.execWithRetry(ctx, `DELETE FROM analysis_cache WHERE key = ?`, key)
		return nil, false, fmt.Errorf("decode cache payload: %w", err)
	}
	return &result, true, nil
}

// Put stores the analysis result under key, replacing any previous entry.
func (s *Store) Put(ctx context.Context, key string, result *audio.AnalysisResult) error {
	ctx = ensureContext(ctx)
	if result == nil {
		return errors.New("nil analysis result")
	}
	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("encode cache payload: %w", err)
	}
	return s.execWithRetry(ctx,
		`INSERT INTO analysis_cache (key, payload, created_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET payload = excluded.payload, created_at = excluded.created_at`,
		key, string(payload), s.now().Unix())
}

// Prune removes every entry older than the TTL and returns how many rows
// were dropped.
func (s *Store) Prune(ctx context.Context) (int64, error) {
	ctx = ensureContext(ctx)
	cutoff := s.now().Add(-s.ttl).Unix()
	var affected int64
	err := retryOnBusy(ctx, func() error {
		res, execErr := s.db.ExecContext(ctx,
			`DELETE FROM analysis_cache WHERE created_at < ?`, cutoff)
		if execErr != nil {
			return execErr
		}
		affected, _ = res.RowsAffected()
		return nil
	})
	return affected, err
}

// Stats reports entry count and the age of the oldest entry.
type Stats struct {
	Entries   int64
	OldestAge time.Duration
}

// Stats summarizes current cache contents.
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	ctx = ensureContext(ctx)
	var stats Stats
	var oldest sql.NullInt64
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*), MIN(created_at) FROM analysis_cache`).
		Scan(&stats.Entries, &oldest)
	if err != nil {
		return Stats{}, fmt.Errorf("query cache stats: %w", err)
	}
	if oldest.Valid {
		stats.OldestAge = s.now().Sub(time.Unix(oldest.Int64, 0))
	}
	return stats, nil
}

func ensureContext(ctx context.Context) context.Context {
	if ctx != nil {
		return ctx
	}
	return context.Background()
}

func isSQLiteBusy(err error) bool {
	if err == nil {
		return false
	}
	var coder interface{ Code() int }
	if errors.As(err, &coder) && coder.Code() == sqliteBusyCode {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}

func retryOnBusy(ctx context.Context, op func() error) error {
	delay := busyRetryInitialBackoff
	var lastErr error
	for attempt := 0; attempt < busyRetryAttempts; attempt++ {
		lastErr = op()
		if lastErr == nil {
			return nil
		}
		if !isSQLiteBusy(lastErr) || attempt == busyRetryAttempts-1 {
			break
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
		if next := delay * 2; next <= busyRetryMaxBackoff {
			delay = next
		}
	}
	return lastErr
}

func (s *Store) execWithRetry(ctx context.Context, query string, args ...any) error {
	return retryOnBusy(ctx, func() error {
		_, err := s.db.ExecContext(ctx, query, args...)
		return err
	})
}
