// Package store implements the per-university passage index on SQLite.
// One database file per university, created by the ingest pipeline and
// opened read-mostly at startup; concurrent readers are safe.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"uniassist/internal/embedding"
	"uniassist/internal/logging"
)

// Passage is one stored chunk of university document text.
type Passage struct {
	ID         int64
	Content    string
	SourceFile string
	Heading    string
	CreatedAt  time.Time
}

// ScoredPassage is a passage with its similarity to a query vector.
type ScoredPassage struct {
	Passage
	Score float64
}

// PassageStore holds one university's indexed passages.
type PassageStore struct {
	db     *sql.DB
	mu     sync.RWMutex
	dbPath string
}

// Open initializes the SQLite database at the given path, creating the
// schema if needed.
func Open(path string) (*PassageStore, error) {
	timer := logging.StartTimer(logging.CategoryStore, "Open")
	defer timer.Stop()

	logging.Store("Opening passage store at %s", path)

	if dir := filepath.Dir(path); dir != "" && dir != ":memory:" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		logging.StoreDebug("Failed to set sqlite busy_timeout: %v", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		logging.StoreDebug("Failed to set sqlite journal_mode=WAL: %v", err)
	}

	s := &PassageStore{db: db, dbPath: path}
	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}

	return s, nil
}

// initialize creates the required tables.
func (s *PassageStore) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS passages (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		content TEXT NOT NULL,
		embedding TEXT,
		source_file TEXT,
		heading TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_passages_source ON passages(source_file);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}
	return nil
}

// AddPassage stores a passage with its embedding vector.
func (s *PassageStore) AddPassage(p Passage, vector []float32) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	embeddingJSON, err := json.Marshal(vector)
	if err != nil {
		return fmt.Errorf("failed to serialize embedding: %w", err)
	}

	_, err = s.db.Exec(
		"INSERT INTO passages (content, embedding, source_file, heading) VALUES (?, ?, ?, ?)",
		p.Content, string(embeddingJSON), p.SourceFile, p.Heading,
	)
	if err != nil {
		logging.Get(logging.CategoryStore).Error("Failed to store passage: %v", err)
		return err
	}

	logging.StoreDebug("Stored passage (len=%d, heading=%q)", len(p.Content), p.Heading)
	return nil
}

// AddPassages stores a batch of passages with their embedding vectors
// in a single transaction.
func (s *PassageStore) AddPassages(passages []Passage, vectors [][]float32) error {
	if len(passages) != len(vectors) {
		return fmt.Errorf("passage/vector count mismatch: %d != %d", len(passages), len(vectors))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	stmt, err := tx.Prepare("INSERT INTO passages (content, embedding, source_file, heading) VALUES (?, ?, ?, ?)")
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, p := range passages {
		embeddingJSON, err := json.Marshal(vectors[i])
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to serialize embedding %d: %w", i, err)
		}
		if _, err := stmt.Exec(p.Content, string(embeddingJSON), p.SourceFile, p.Heading); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to insert passage %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}

	logging.Store("Stored %d passages", len(passages))
	return nil
}

// SearchSimilar returns the top K passages ranked by cosine similarity
// to the query vector. The corpus is small enough for an exact scan.
func (s *PassageStore) SearchSimilar(queryVec []float32, limit int) ([]ScoredPassage, error) {
	timer := logging.StartTimer(logging.CategoryStore, "SearchSimilar")
	defer timer.Stop()

	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 5
	}

	rows, err := s.db.Query(
		"SELECT id, content, embedding, source_file, heading, created_at FROM passages WHERE embedding IS NOT NULL",
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var candidates []ScoredPassage
	for rows.Next() {
		var p Passage
		var embeddingJSON string
		if err := rows.Scan(&p.ID, &p.Content, &embeddingJSON, &p.SourceFile, &p.Heading, &p.CreatedAt); err != nil {
			continue
		}

		var vec []float32
		if err := json.Unmarshal([]byte(embeddingJSON), &vec); err != nil {
			continue
		}

		score, err := embedding.CosineSimilarity(queryVec, vec)
		if err != nil {
			continue
		}

		candidates = append(candidates, ScoredPassage{Passage: p, Score: score})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	sort.Slice(candidates, func(i, j int) bool { return candidates[i].Score > candidates[j].Score })

	if len(candidates) > limit {
		candidates = candidates[:limit]
	}

	logging.StoreDebug("SearchSimilar returned %d results", len(candidates))
	return candidates, nil
}

// Count returns the number of stored passages.
func (s *PassageStore) Count() (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int64
	if err := s.db.QueryRow("SELECT COUNT(*) FROM passages").Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// Clear removes all stored passages. Used when re-ingesting a corpus.
func (s *PassageStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec("DELETE FROM passages")
	return err
}

// Path returns the database file path.
func (s *PassageStore) Path() string {
	return s.dbPath
}

// Close closes the underlying database.
func (s *PassageStore) Close() error {
	return s.db.Close()
}
