// Package entry persists the active branding configuration entry so a
// restart comes back with the same overrides the settings API last
// applied.
package entry

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// Entry is the single persisted branding entry. All override fields are
// optional; empty means no override.
type Entry struct {
	Title           string    `json:"title"`
	IconPath        string    `json:"icon_path"`
	LaunchIconColor string    `json:"launch_icon_color"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Store persists the branding entry to SQLite.
type Store struct {
	db *sql.DB
}

// NewStore opens (or creates) the SQLite database at the given path.
func NewStore(dbPath string) (*Store, error) {
	// Set pragmas via DSN so EVERY connection in the pool gets them.
	// database/sql pools connections — a PRAGMA run via db.Exec only
	// applies to one connection, leaving others without busy_timeout.
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(10000)&_pragma=journal_mode(WAL)", dbPath)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// SQLite supports only one writer at a time. Limit the pool so
	// goroutines queue at the Go level instead of fighting over the lock.
	db.SetMaxOpenConns(4)

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("migrating database: %w", err)
	}

	return s, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	// One branding entry per process, so the table is keyed to a single row.
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS entry (
			id                INTEGER PRIMARY KEY CHECK (id = 1),
			title             TEXT NOT NULL DEFAULT '',
			icon_path         TEXT NOT NULL DEFAULT '',
			launch_icon_color TEXT NOT NULL DEFAULT '',
			created_at        TEXT NOT NULL,
			updated_at        TEXT NOT NULL
		)
	`)
	return err
}

// Save upserts the branding entry, preserving created_at on update.
func (s *Store) Save(e *Entry) error {
	now := time.Now().UTC()
	if e.CreatedAt.IsZero() {
		e.CreatedAt = now
	}
	e.UpdatedAt = now

	_, err := s.db.Exec(`
		INSERT INTO entry (id, title, icon_path, launch_icon_color, created_at, updated_at)
		VALUES (1, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			title=excluded.title,
			icon_path=excluded.icon_path,
			launch_icon_color=excluded.launch_icon_color,
			updated_at=excluded.updated_at`,
		e.Title, e.IconPath, e.LaunchIconColor,
		e.CreatedAt.Format(time.RFC3339), e.UpdatedAt.Format(time.RFC3339),
	)
	return err
}

// Load returns the persisted entry, or nil when none has been saved yet.
func (s *Store) Load() (*Entry, error) {
	var e Entry
	var createdAt, updatedAt string
	err := s.db.QueryRow(`SELECT title, icon_path, launch_icon_color, created_at, updated_at FROM entry WHERE id=1`).
		Scan(&e.Title, &e.IconPath, &e.LaunchIconColor, &createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	e.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	e.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return &e, nil
}

// Delete removes the persisted entry.
func (s *Store) Delete() error {
	_, err := s.db.Exec(`DELETE FROM entry WHERE id=1`)
	return err
}
