// Package index maintains a SQLite index of discovered skills so hosts
// can search names and descriptions without rescanning skill directories.
package index

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	_ "modernc.org/sqlite"

	"github.com/obie/skills/pkg/corpus"
	"github.com/obie/skills/pkg/skill"
)

// Entry is one indexed skill
type Entry struct {
	ID          string    `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Description string    `db:"description" json:"description"`
	Directory   string    `db:"directory" json:"directory"`
	Digest      string    `db:"digest" json:"digest"`
	UpdatedAt   time.Time `db:"updated_at" json:"updatedAt"`
}

// Store implements the skill index on SQLite
type Store struct {
	dbPath string
	db     *sqlx.DB
}

// NewStore opens (and if needed creates) the index database at dbPath
func NewStore(ctx context.Context, dbPath string) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrap(err, "failed to create index directory")
	}

	db, err := sqlx.Open("sqlite", dbPath)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open index database")
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "failed to ping index database")
	}

	if err := configureDatabase(ctx, db); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "failed to configure index database")
	}

	store := &Store{dbPath: dbPath, db: db}

	if err := store.migrate(ctx); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "failed to migrate index schema")
	}

	return store, nil
}

// configureDatabase sets up SQLite pragmas for WAL mode operation
func configureDatabase(ctx context.Context, db *sqlx.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA foreign_keys=ON",
	}

	for _, pragma := range pragmas {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			return errors.Wrapf(err, "failed to execute pragma: %s", pragma)
		}
	}

	db.SetMaxIdleConns(1)
	db.SetMaxOpenConns(1)

	var journalMode string
	if err := db.QueryRowContext(ctx, "PRAGMA journal_mode").Scan(&journalMode); err != nil {
		return errors.Wrap(err, "failed to query journal mode")
	}
	if strings.ToLower(journalMode) != "wal" {
		return errors.Errorf("WAL mode not enabled, current mode: %s", journalMode)
	}

	return nil
}

// Close closes the underlying database
func (s *Store) Close() error {
	return s.db.Close()
}

// Rebuild replaces the index content with the given skills
func (s *Store) Rebuild(ctx context.Context, skills map[string]*skill.Skill) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "failed to begin transaction")
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM skills"); err != nil {
		return errors.Wrap(err, "failed to clear index")
	}

	now := time.Now().UTC()
	for _, sk := range skills {
		digest := ""
		if sk.Directory != "" {
			// Best effort; missing directories leave the digest empty
			if d, err := corpus.DigestDir(sk.Directory); err == nil {
				digest = d
			}
		}

		_, err := tx.ExecContext(ctx, `
			INSERT INTO skills (id, name, description, directory, digest, updated_at)
			VALUES (?, ?, ?, ?, ?, ?)`,
			uuid.NewString(), sk.Name, sk.Description, sk.Directory, digest, now)
		if err != nil {
			return errors.Wrapf(err, "failed to index skill '%s'", sk.Name)
		}
	}

	return errors.Wrap(tx.Commit(), "failed to commit index rebuild")
}

// Search returns entries whose name or description contains the query,
// case-insensitively, ordered by name.
func (s *Store) Search(ctx context.Context, query string) ([]Entry, error) {
	pattern := "%" + strings.ToLower(query) + "%"

	var entries []Entry
	err := s.db.SelectContext(ctx, &entries, `
		SELECT id, name, description, directory, digest, updated_at
		FROM skills
		WHERE lower(name) LIKE ? OR lower(description) LIKE ?
		ORDER BY name`,
		pattern, pattern)
	if err != nil {
		return nil, errors.Wrap(err, "failed to search index")
	}

	return entries, nil
}

// List returns all indexed entries ordered by name
func (s *Store) List(ctx context.Context) ([]Entry, error) {
	var entries []Entry
	err := s.db.SelectContext(ctx, &entries, `
		SELECT id, name, description, directory, digest, updated_at
		FROM skills
		ORDER BY name`)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list index")
	}
	return entries, nil
}

// Count returns the number of indexed skills
func (s *Store) Count(ctx context.Context) (int, error) {
	var count int
	if err := s.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM skills"); err != nil {
		return 0, errors.Wrap(err, "failed to count index")
	}
	return count, nil
}
