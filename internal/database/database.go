package database

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Actions recorded in the history
const (
	ActionRemove = "REMOVE"
	ActionDryRun = "DRY_RUN"
	ActionSkip   = "SKIP"
	ActionError  = "ERROR"
)

// RemovalDB manages the SQLite database for removal history
type RemovalDB struct {
	db *sql.DB
}

// RemovalRecord represents one top-level removal request outcome
type RemovalRecord struct {
	ID           int64
	Timestamp    time.Time
	Action       string
	Path         string
	ObjectType   string // file, symlink, directory
	FilesRemoved int64
	DirsRemoved  int64
	Retries      int64
	Repairs      int64
	Code         string // platform error code, empty on success
	ErrorMessage string
	CreatedAt    time.Time
}

// NewRemovalDB creates a new database connection and initializes the schema
func NewRemovalDB(dbPath string) (*RemovalDB, error) {
	// Create parent directory if it doesn't exist
	dir := filepath.Dir(dbPath)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory %s: %w", dir, err)
		}
	}

	// file: prefix with _loc=auto enables automatic DATETIME parsing
	db, err := sql.Open("sqlite3", "file:"+dbPath+"?_loc=auto")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	defer func() {
		if err != nil {
			db.Close()
		}
	}()

	// A plain exec both probes permissions and creates the file
	if _, err = db.Exec("SELECT 1"); err != nil {
		return nil, fmt.Errorf("failed to initialize database (check permissions on %s): %w", dbPath, err)
	}

	// WAL for concurrent readers while the CLI writes
	if _, err = db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("failed to enable WAL: %w", err)
	}
	if _, err = db.Exec("PRAGMA synchronous=NORMAL"); err != nil {
		return nil, fmt.Errorf("failed to set synchronous mode: %w", err)
	}

	rdb := &RemovalDB{db: db}
	if err = rdb.initSchema(); err != nil {
		return nil, err
	}

	err = nil
	return rdb, nil
}

// initSchema creates tables and indexes if they don't exist
func (d *RemovalDB) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS removals (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		timestamp DATETIME NOT NULL,
		action TEXT NOT NULL,
		path TEXT NOT NULL,
		object_type TEXT NOT NULL,
		files_removed INTEGER NOT NULL DEFAULT 0,
		dirs_removed INTEGER NOT NULL DEFAULT 0,
		retries INTEGER NOT NULL DEFAULT 0,
		repairs INTEGER NOT NULL DEFAULT 0,
		code TEXT,
		error_message TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_timestamp ON removals(timestamp);
	CREATE INDEX IF NOT EXISTS idx_action ON removals(action);
	CREATE INDEX IF NOT EXISTS idx_path ON removals(path);
	CREATE INDEX IF NOT EXISTS idx_code ON removals(code);

	CREATE TABLE IF NOT EXISTS schema_version (
		version INTEGER PRIMARY KEY,
		applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	INSERT OR IGNORE INTO schema_version (version) VALUES (1);
	`

	_, err := d.db.Exec(schema)
	return err
}

// RecordRemoval inserts one removal outcome into the history
func (d *RemovalDB) RecordRemoval(rec RemovalRecord) error {
	if rec.Timestamp.IsZero() {
		rec.Timestamp = time.Now().UTC()
	}

	query := `
	INSERT INTO removals (
		timestamp, action, path, object_type,
		files_removed, dirs_removed, retries, repairs,
		code, error_message
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := d.db.Exec(
		query,
		rec.Timestamp,
		rec.Action,
		rec.Path,
		rec.ObjectType,
		rec.FilesRemoved,
		rec.DirsRemoved,
		rec.Retries,
		rec.Repairs,
		rec.Code,
		rec.ErrorMessage,
	)

	return err
}

// Close closes the database connection
func (d *RemovalDB) Close() error {
	return d.db.Close()
}

// Vacuum optimizes the database (run periodically)
func (d *RemovalDB) Vacuum() error {
	_, err := d.db.Exec("VACUUM")
	return err
}
