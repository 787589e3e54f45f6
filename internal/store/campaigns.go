package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/aidanlsb/lonelog/internal/model"
	"github.com/aidanlsb/lonelog/internal/slugs"
)

type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

var filePathTables = []string{"campaigns", "entities"}

func deleteByFilePath(e execer, filePath string) error {
	for _, table := range filePathTables {
		if _, err := e.Exec("DELETE FROM "+table+" WHERE file_path = ?", filePath); err != nil {
			return fmt.Errorf("delete from %s: %w", table, err)
		}
	}
	return nil
}

// Entry is a cached campaign with its bookkeeping columns.
type Entry struct {
	Path      string
	Mtime     int64
	IndexedAt time.Time
	Campaign  *model.Campaign
}

// Put replaces everything cached for c.File. mtime is the file's
// modification time in Unix seconds; 0 records the current time.
func (s *Store) Put(c *model.Campaign, mtime int64) error {
	data, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode campaign %s: %w", c.File, err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := deleteByFilePath(tx, c.File); err != nil {
		return err
	}

	now := time.Now().Unix()
	if mtime <= 0 {
		mtime = now
	}

	_, err = tx.Exec(`
		INSERT INTO campaigns (file_path, title, slug, mtime, indexed_at, data)
		VALUES (?, ?, ?, ?, ?, ?)
	`, c.File, c.Name(), slugs.CampaignSlug(c.File), mtime, now, string(data))
	if err != nil {
		return fmt.Errorf("insert campaign %s: %w", c.File, err)
	}

	if err := insertEntities(tx, c); err != nil {
		return err
	}

	return tx.Commit()
}

func insertEntities(tx *sql.Tx, c *model.Campaign) error {
	stmt, err := tx.Prepare(`
		INSERT INTO entities (file_path, identity, kind, name, mentions)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	insert := func(id, kind, name string, mentions int) error {
		if _, err := stmt.Exec(c.File, id, kind, name, mentions); err != nil {
			return fmt.Errorf("insert entity %s: %w", id, err)
		}
		return nil
	}

	for _, n := range c.NPCs {
		if err := insert(n.ID, model.KindNPC, n.Name, len(n.Mentions)); err != nil {
			return err
		}
	}
	for _, l := range c.Locations {
		if err := insert(l.ID, model.KindLocation, l.Name, len(l.Mentions)); err != nil {
			return err
		}
	}
	for _, t := range c.Threads {
		if err := insert(t.ID, model.KindThread, t.Name, len(t.Mentions)); err != nil {
			return err
		}
	}
	for _, pc := range c.PlayerCharacters {
		if err := insert(pc.ID, model.KindPC, pc.Name, len(pc.Locations)); err != nil {
			return err
		}
	}
	for _, tr := range c.Trackers() {
		if err := insert(tr.ID, tr.Kind, tr.Name, len(tr.Locations)); err != nil {
			return err
		}
	}
	return nil
}

// Delete removes everything cached for a path.
func (s *Store) Delete(filePath string) error {
	return deleteByFilePath(s.db, filePath)
}

// ClearAll removes every cached campaign. Used by a full reindex.
func (s *Store) ClearAll() error {
	for _, table := range filePathTables {
		if _, err := s.db.Exec("DELETE FROM " + table); err != nil {
			return err
		}
	}
	return nil
}

// Get returns the cached campaign for a path, or ErrNotFound.
func (s *Store) Get(filePath string) (*Entry, error) {
	row := s.db.QueryRow(`
		SELECT file_path, mtime, indexed_at, data FROM campaigns WHERE file_path = ?
	`, filePath)
	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", filePath, ErrNotFound)
	}
	return e, err
}

// All returns every cached campaign ordered by path.
func (s *Store) All() ([]*Entry, error) {
	rows, err := s.db.Query(`
		SELECT file_path, mtime, indexed_at, data FROM campaigns ORDER BY file_path
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(r rowScanner) (*Entry, error) {
	var (
		e         Entry
		indexedAt int64
		data      string
	)
	if err := r.Scan(&e.Path, &e.Mtime, &indexedAt, &data); err != nil {
		return nil, err
	}
	e.IndexedAt = time.Unix(indexedAt, 0)

	c := model.NewCampaign(e.Path)
	if err := json.Unmarshal([]byte(data), c); err != nil {
		return nil, fmt.Errorf("decode campaign %s: %w", e.Path, err)
	}
	e.Campaign = c
	return &e, nil
}

// Mtime returns the cached mtime for a path, or 0 if not cached.
func (s *Store) Mtime(filePath string) (int64, error) {
	var mtime int64
	err := s.db.QueryRow(`SELECT mtime FROM campaigns WHERE file_path = ?`, filePath).Scan(&mtime)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return mtime, nil
}

// IsStale reports whether a file modified at mtime needs re-parsing.
func (s *Store) IsStale(filePath string, mtime int64) (bool, error) {
	cached, err := s.Mtime(filePath)
	if err != nil {
		return false, err
	}
	return cached == 0 || mtime > cached, nil
}

// Paths returns all cached file paths.
func (s *Store) Paths() ([]string, error) {
	rows, err := s.db.Query(`SELECT file_path FROM campaigns ORDER BY file_path`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var paths []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, err
		}
		paths = append(paths, p)
	}
	return paths, rows.Err()
}

// PathBySlug resolves a campaign slug to its cached path.
func (s *Store) PathBySlug(slug string) (string, error) {
	var p string
	err := s.db.QueryRow(`SELECT file_path FROM campaigns WHERE slug = ? ORDER BY file_path LIMIT 1`, slug).Scan(&p)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("%s: %w", slug, ErrNotFound)
	}
	return p, err
}

// Stats contains cache statistics.
type Stats struct {
	CampaignCount int            `json:"campaign_count"`
	EntityCount   int            `json:"entity_count"`
	ByKind        map[string]int `json:"by_kind"`
}

// Stats returns statistics about the cache.
func (s *Store) Stats() (*Stats, error) {
	stats := &Stats{ByKind: map[string]int{}}

	if err := s.db.QueryRow("SELECT COUNT(*) FROM campaigns").Scan(&stats.CampaignCount); err != nil {
		return nil, err
	}
	if err := s.db.QueryRow("SELECT COUNT(*) FROM entities").Scan(&stats.EntityCount); err != nil {
		return nil, err
	}

	rows, err := s.db.Query("SELECT kind, COUNT(*) FROM entities GROUP BY kind")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var kind string
		var n int
		if err := rows.Scan(&kind, &n); err != nil {
			return nil, err
		}
		stats.ByKind[kind] = n
	}
	return stats, rows.Err()
}
