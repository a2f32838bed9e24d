// Package store wraps the persistent pinyin -> hanzi index: a single SQLite
// table queried by exact pinyin match or lexicographic prefix range.
package store

import (
	"database/sql"
	"fmt"
	"sync"

	_ "modernc.org/sqlite"
)

// Entry is one (pinyin, hanzi, priority) row of the dict table.
type Entry struct {
	Pinyin   string
	Hanzi    string
	Priority uint64
}

// prefixSentinel is one byte past 'z', used to bound a BETWEEN range so that
// it covers every pinyin string starting with a given prefix.
const prefixSentinel = "{"

// Store wraps a *sql.DB with a mutex so concurrent LSP request handlers
// serialize around a single query at a time, released before the caller
// formats results, per the server's concurrency model.
type Store struct {
	mu sync.Mutex
	db *sql.DB
}

// Open opens (or creates) the SQLite database at path and returns a Store
// ready for querying. The caller is responsible for having run migrations
// against path beforehand; Open does not create the schema.
func Open(path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("store: db path is required")
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("store: open sqlite db: %w", err)
	}
	if _, err := db.Exec(`PRAGMA busy_timeout = 3000;`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("store: set busy timeout: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Exact returns up to limit entries whose pinyin equals k, sorted by
// descending priority.
func (s *Store) Exact(k string, limit uint64) ([]Entry, error) {
	s.mu.Lock()
	rows, err := s.db.Query(
		`SELECT pinyin, hanzi, priority FROM dict WHERE pinyin = ? ORDER BY priority DESC LIMIT ?`,
		k, limit,
	)
	s.mu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("store: exact query: %w", err)
	}
	return scanEntries(rows)
}

// Prefix returns up to limit entries whose pinyin begins with k, excluding
// pinyin == k, sorted by descending priority.
func (s *Store) Prefix(k string, limit uint64) ([]Entry, error) {
	s.mu.Lock()
	rows, err := s.db.Query(
		`SELECT pinyin, hanzi, priority FROM dict
		 WHERE pinyin != ? AND pinyin BETWEEN ? AND ?
		 ORDER BY priority DESC LIMIT ?`,
		k, k, k+prefixSentinel, limit,
	)
	s.mu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("store: prefix query: %w", err)
	}
	return scanEntries(rows)
}

// PrefixInclusive returns up to limit entries whose pinyin begins with k,
// including pinyin == k, sorted by descending priority. It is used by the
// segmenter's fallback pass, which needs the top match across the whole
// BETWEEN range regardless of exact equality.
func (s *Store) PrefixInclusive(k string, limit uint64) ([]Entry, error) {
	s.mu.Lock()
	rows, err := s.db.Query(
		`SELECT pinyin, hanzi, priority FROM dict
		 WHERE pinyin BETWEEN ? AND ?
		 ORDER BY priority DESC LIMIT ?`,
		k, k+prefixSentinel, limit,
	)
	s.mu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("store: prefix-inclusive query: %w", err)
	}
	return scanEntries(rows)
}

func scanEntries(rows *sql.Rows) ([]Entry, error) {
	defer rows.Close()
	var out []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.Pinyin, &e.Hanzi, &e.Priority); err != nil {
			return nil, fmt.Errorf("store: scan row: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: iterate rows: %w", err)
	}
	return out, nil
}

// BulkInsert inserts every entry under a single transaction. Per-row
// insert failures are logged by the caller and skipped; BulkInsert itself
// returns an error only for transaction-level failures (begin/commit).
func (s *Store) BulkInsert(entries []Entry, onRowError func(Entry, error)) (inserted int, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("store: begin transaction: %w", err)
	}

	stmt, err := tx.Prepare(`INSERT INTO dict (pinyin, hanzi, priority) VALUES (?, ?, ?)`)
	if err != nil {
		_ = tx.Rollback()
		return 0, fmt.Errorf("store: prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, e := range entries {
		if _, execErr := stmt.Exec(e.Pinyin, e.Hanzi, e.Priority); execErr != nil {
			if onRowError != nil {
				onRowError(e, execErr)
			}
			continue
		}
		inserted++
	}

	if err := tx.Commit(); err != nil {
		return inserted, fmt.Errorf("store: commit transaction: %w", err)
	}
	return inserted, nil
}
