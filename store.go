package partyhub

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// Store wraps a SQLite database persisting finished creations for the
// showcase gallery.
type Store struct {
	db *sql.DB
}

// NewStore opens (or creates) the SQLite database at path, ensures the
// data directory exists, and runs schema migrations.
func NewStore(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// Enable WAL mode for concurrent read/write access, set a busy timeout
	// so writers wait instead of returning SQLITE_BUSY immediately, and tune
	// performance: synchronous=NORMAL is safe with WAL and avoids an fsync
	// per transaction; larger cache and mmap reduce disk I/O.
	if _, err := db.Exec(`
		PRAGMA journal_mode=WAL;
		PRAGMA busy_timeout=5000;
		PRAGMA synchronous=NORMAL;
		PRAGMA cache_size=-8000;
		PRAGMA mmap_size=268435456;
	`); err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(4)
	s := &Store{db: db}
	if err := s.ensureSchema(); err != nil {
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) ensureSchema() error {
	_, err := s.db.Exec(`
CREATE TABLE IF NOT EXISTS creations (
    id TEXT PRIMARY KEY,
    headline TEXT NOT NULL,
    body TEXT NOT NULL,
    hashtags TEXT NOT NULL,
    brand_color TEXT NOT NULL,
    brand_tone TEXT NOT NULL,
    template TEXT NOT NULL,
    created_at TEXT NOT NULL
);
`)
	return err
}

// SaveCreation upserts a creation. A zero ID is derived from the
// headline and the creation time so gallery links stay stable.
func (s *Store) SaveCreation(c Creation) (Creation, error) {
	if c.CreatedAt == "" {
		c.CreatedAt = time.Now().UTC().Format(time.RFC3339)
	}
	if c.ID == "" {
		slug := Slugify(c.Headline)
		if slug == "" {
			slug = "post"
		}
		c.ID = fmt.Sprintf("%s-%d", slug, time.Now().UnixMilli())
	}
	tagString := "," + strings.Join(c.Hashtags, ",") + ","
	_, err := s.db.Exec(`INSERT OR REPLACE INTO creations (id, headline, body, hashtags, brand_color, brand_tone, template, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.Headline, c.Body, tagString, c.BrandColor, c.BrandTone, string(c.Template), c.CreatedAt)
	if err != nil {
		return Creation{}, err
	}
	return c, nil
}

// ListCreations returns all creations, newest first.
func (s *Store) ListCreations() ([]Creation, error) {
	rows, err := s.db.Query(`SELECT id, headline, body, hashtags, brand_color, brand_tone, template, created_at FROM creations ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var creations []Creation
	for rows.Next() {
		c, err := scanCreation(rows)
		if err != nil {
			return nil, err
		}
		creations = append(creations, c)
	}
	return creations, rows.Err()
}

// GetCreation returns a single creation by id.
func (s *Store) GetCreation(id string) (Creation, error) {
	row := s.db.QueryRow(`SELECT id, headline, body, hashtags, brand_color, brand_tone, template, created_at FROM creations WHERE id = ?`, id)
	c, err := scanCreation(row)
	if err == sql.ErrNoRows {
		return Creation{}, ErrNotFound
	}
	return c, err
}

// DeleteCreation removes a creation by id.
func (s *Store) DeleteCreation(id string) error {
	_, err := s.db.Exec(`DELETE FROM creations WHERE id = ?`, id)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCreation(r rowScanner) (Creation, error) {
	var c Creation
	var hashtags, template string
	if err := r.Scan(&c.ID, &c.Headline, &c.Body, &hashtags, &c.BrandColor, &c.BrandTone, &template, &c.CreatedAt); err != nil {
		return Creation{}, err
	}
	c.Hashtags = ParseTagString(hashtags)
	c.Template = LayoutTemplate(template)
	return c, nil
}

// ParseTagString splits a comma-delimited tag string (e.g. ",#go,#web,")
// into a slice.
func ParseTagString(tagString string) []string {
	tagString = strings.Trim(tagString, ",")
	if tagString == "" {
		return nil
	}
	parts := strings.Split(tagString, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}
