// Package cache keeps recent search results in a local sqlite file.
// Alfred re-runs the workflow on every keystroke; repeated prefixes hit
// the cache instead of another round trip to the daemon.
package cache

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/avhall/alfred-mpd/internal/mpd"
)

const schema = `
CREATE TABLE IF NOT EXISTS results (
	kind       TEXT NOT NULL,
	query      TEXT NOT NULL,
	payload    BLOB NOT NULL,
	created_at INTEGER NOT NULL,
	PRIMARY KEY (kind, query)
);
`

// Store is a TTL cache of track lists keyed by (kind, query).
type Store struct {
	db  *sql.DB
	ttl time.Duration
	now func() time.Time
}

// Open creates the cache file (and its directory) if needed.
func Open(path string, ttl time.Duration) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("cannot create cache dir: %w", err)
	}
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("cannot open cache: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("cannot initialise cache: %w", err)
	}
	return &Store{db: db, ttl: ttl, now: time.Now}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// GetTracks returns the cached result for (kind, query) if it is still
// within the TTL.
func (s *Store) GetTracks(kind, query string) ([]mpd.Track, bool) {
	var payload []byte
	var createdAt int64
	err := s.db.QueryRow(`
		SELECT payload, created_at FROM results WHERE kind = ? AND query = ?
	`, kind, query).Scan(&payload, &createdAt)
	if err != nil {
		return nil, false
	}
	if s.ttl > 0 && s.now().Sub(time.Unix(createdAt, 0)) > s.ttl {
		return nil, false
	}

	var tracks []mpd.Track
	if err := json.Unmarshal(payload, &tracks); err != nil {
		return nil, false
	}
	return tracks, true
}

// PutTracks stores a result, replacing any previous entry for the key.
func (s *Store) PutTracks(kind, query string, tracks []mpd.Track) error {
	payload, err := json.Marshal(tracks)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(`
		INSERT OR REPLACE INTO results (kind, query, payload, created_at)
		VALUES (?, ?, ?, ?)
	`, kind, query, payload, s.now().Unix())
	return err
}

// Clear drops every cached result.
func (s *Store) Clear() error {
	_, err := s.db.Exec(`DELETE FROM results`)
	return err
}

// Prune removes entries older than the TTL.
func (s *Store) Prune() error {
	if s.ttl <= 0 {
		return nil
	}
	cutoff := s.now().Add(-s.ttl).Unix()
	_, err := s.db.Exec(`DELETE FROM results WHERE created_at < ?`, cutoff)
	return err
}
