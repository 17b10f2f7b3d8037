// Package memory is the assistant's long-term fact store, backed by a
// local SQLite database.
package memory

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	log "log/slog"

	_ "modernc.org/sqlite"
)

type Fact struct {
	ID        int64
	Text      string
	Tags      []string
	CreatedAt time.Time
}

type Store struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS facts (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	text       TEXT NOT NULL,
	tags       TEXT NOT NULL DEFAULT '',
	created_at INTEGER NOT NULL
);`

// Open creates or opens the memory database at path.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create memory dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open memory db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init memory schema: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error { return s.db.Close() }

// Remember stores a fact.
func (s *Store) Remember(text string, tags []string) (Fact, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Fact{}, fmt.Errorf("nothing to remember")
	}
	now := time.Now()
	res, err := s.db.Exec(
		"INSERT INTO facts (text, tags, created_at) VALUES (?, ?, ?)",
		text, strings.Join(tags, ","), now.Unix(),
	)
	if err != nil {
		return Fact{}, fmt.Errorf("insert fact: %w", err)
	}
	id, _ := res.LastInsertId()
	log.Info("Remembered", "id", id, "text", text)
	return Fact{ID: id, Text: text, Tags: tags, CreatedAt: now}, nil
}

// Recall returns up to limit facts ranked by keyword overlap with the
// query. Facts with no overlapping words are omitted.
func (s *Store) Recall(query string, limit int) ([]Fact, error) {
	if limit <= 0 {
		limit = 3
	}
	all, err := s.All()
	if err != nil {
		return nil, err
	}

	queryWords := wordSet(query)
	type scored struct {
		score int
		fact  Fact
	}
	var matches []scored
	for _, f := range all {
		score := 0
		for w := range wordSet(f.Text) {
			if queryWords[w] {
				score++
			}
		}
		if score > 0 {
			matches = append(matches, scored{score, f})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].score > matches[j].score
	})
	if len(matches) > limit {
		matches = matches[:limit]
	}

	out := make([]Fact, len(matches))
	for i, m := range matches {
		out[i] = m.fact
	}
	return out, nil
}

// All returns every stored fact, oldest first.
func (s *Store) All() ([]Fact, error) {
	rows, err := s.db.Query("SELECT id, text, tags, created_at FROM facts ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("query facts: %w", err)
	}
	defer rows.Close()

	var out []Fact
	for rows.Next() {
		var f Fact
		var tags string
		var created int64
		if err := rows.Scan(&f.ID, &f.Text, &tags, &created); err != nil {
			return nil, fmt.Errorf("scan fact: %w", err)
		}
		if tags != "" {
			f.Tags = strings.Split(tags, ",")
		}
		f.CreatedAt = time.Unix(created, 0)
		out = append(out, f)
	}
	return out, rows.Err()
}

// Clear wipes all facts.
func (s *Store) Clear() error {
	_, err := s.db.Exec("DELETE FROM facts")
	return err
}

func wordSet(s string) map[string]bool {
	set := make(map[string]bool)
	for _, w := range strings.Fields(strings.ToLower(s)) {
		w = strings.Trim(w, ".,!?;:'\"")
		if w != "" {
			set[w] = true
		}
	}
	return set
}
