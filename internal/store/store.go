// Package store persists parsed campaigns in a SQLite cache so later
// processes can skip re-parsing files that have not changed.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	_ "modernc.org/sqlite"
)

// DirName is the per-workspace directory holding the cache.
const DirName = ".lonelog"

// CurrentVersion is the cache schema version. A database written by another
// version is discarded and rebuilt.
const CurrentVersion = 2

var (
	// ErrNotFound indicates the requested path has no cached campaign.
	ErrNotFound = errors.New("campaign not found in cache")
	// ErrLocked indicates another process is rebuilding the cache.
	ErrLocked = errors.New("cache is locked for rebuild")
)

// Store is the SQLite cache handle.
type Store struct {
	db *sql.DB
}

// Path returns the database file path for a workspace.
func Path(workspace string) string {
	return filepath.Join(workspace, DirName, "index.db")
}

// Open opens or creates the cache for a workspace. An incompatible schema is
// dropped and recreated. Returns (store, wasRebuilt, error).
func Open(workspace string) (*Store, bool, error) {
	dir := filepath.Join(workspace, DirName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, false, fmt.Errorf("failed to create %s directory: %w", DirName, err)
	}

	dbPath := Path(workspace)
	rebuilt := false
	if _, err := os.Stat(dbPath); err == nil {
		compatible, err := isCompatible(dbPath)
		if err != nil {
			return nil, false, err
		}
		if !compatible {
			if err := removeDatabaseFiles(dbPath); err != nil {
				return nil, false, err
			}
			rebuilt = true
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, false, fmt.Errorf("failed to open cache: %w", err)
	}

	s := &Store{db: db}
	if err := s.initialize(true); err != nil {
		db.Close()
		return nil, false, err
	}
	return s, rebuilt, nil
}

// OpenInMemory opens an in-memory cache (for testing).
func OpenInMemory() (*Store, error) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, err
	}
	// Each pooled connection would get its own empty :memory: database.
	db.SetMaxOpenConns(1)

	s := &Store{db: db}
	if err := s.initialize(false); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) initialize(wal bool) error {
	if wal {
		if _, err := s.db.Exec(`PRAGMA journal_mode = WAL; PRAGMA synchronous = NORMAL;`); err != nil {
			return fmt.Errorf("failed to configure cache: %w", err)
		}
	}

	schema := `
		CREATE TABLE IF NOT EXISTS meta (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);

		-- One row per campaign document; data is the JSON-encoded campaign.
		CREATE TABLE IF NOT EXISTS campaigns (
			file_path TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			slug TEXT NOT NULL,
			mtime INTEGER NOT NULL,     -- File modification time (Unix seconds)
			indexed_at INTEGER NOT NULL,
			data TEXT NOT NULL
		);

		-- Flattened entity rows for lookups without decoding campaigns.
		CREATE TABLE IF NOT EXISTS entities (
			file_path TEXT NOT NULL,
			identity TEXT NOT NULL,
			kind TEXT NOT NULL,
			name TEXT NOT NULL,
			mentions INTEGER NOT NULL,
			PRIMARY KEY (file_path, identity)
		);

		CREATE INDEX IF NOT EXISTS idx_campaigns_slug ON campaigns(slug);
		CREATE INDEX IF NOT EXISTS idx_entities_kind ON entities(kind);
		CREATE INDEX IF NOT EXISTS idx_entities_name ON entities(name COLLATE NOCASE);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to initialize cache schema: %w", err)
	}

	_, err := s.db.Exec(`INSERT OR REPLACE INTO meta (key, value) VALUES ('version', ?)`,
		strconv.Itoa(CurrentVersion))
	if err != nil {
		return fmt.Errorf("failed to set cache version: %w", err)
	}
	return nil
}

// isCompatible reports whether an existing database was written with the
// current schema version.
func isCompatible(dbPath string) (bool, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return false, fmt.Errorf("failed to open cache: %w", err)
	}
	defer db.Close()

	var version string
	err = db.QueryRow(`SELECT value FROM meta WHERE key = 'version'`).Scan(&version)
	if err != nil {
		return false, nil
	}
	return version == strconv.Itoa(CurrentVersion), nil
}

func removeDatabaseFiles(dbPath string) error {
	for _, p := range []string{dbPath, dbPath + "-wal", dbPath + "-shm"} {
		if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("failed to remove %s: %w", p, err)
		}
	}
	return nil
}

// Lock is an exclusive advisory lock on a workspace cache.
type Lock struct {
	file *os.File
}

// AcquireLock takes the rebuild lock without blocking. It returns ErrLocked
// when another process holds it.
func AcquireLock(workspace string) (*Lock, error) {
	dir := filepath.Join(workspace, DirName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create %s directory: %w", DirName, err)
	}

	f, err := os.OpenFile(filepath.Join(dir, "index.lock"), os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache lock: %w", err)
	}

	if err := lockFileExclusiveNonBlocking(f); err != nil {
		f.Close()
		if isWouldBlockError(err) {
			return nil, ErrLocked
		}
		return nil, fmt.Errorf("failed to acquire cache lock: %w", err)
	}
	return &Lock{file: f}, nil
}

// Release drops the lock.
func (l *Lock) Release() error {
	if l == nil || l.file == nil {
		return nil
	}
	unlockErr := unlockFile(l.file)
	closeErr := l.file.Close()
	if unlockErr != nil {
		return unlockErr
	}
	return closeErr
}
