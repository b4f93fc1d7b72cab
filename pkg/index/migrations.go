package index

import (
	"context"
	"database/sql"
	"time"

	"github.com/pkg/errors"
)

const (
	// SchemaVersion1 is the initial schema
	SchemaVersion1 = 1
	// SchemaVersion2 adds the name lookup index
	SchemaVersion2 = 2
	// CurrentSchemaVersion is the latest schema version
	CurrentSchemaVersion = SchemaVersion2
)

const createSchemaVersionTable = `
CREATE TABLE IF NOT EXISTS schema_version (
    version INTEGER PRIMARY KEY,
    applied_at DATETIME NOT NULL,
    description TEXT
);
`

const createSkillsTable = `
CREATE TABLE IF NOT EXISTS skills (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    description TEXT NOT NULL,
    directory TEXT NOT NULL,
    digest TEXT,
    updated_at DATETIME NOT NULL
);
`

const createIndexSkillsName = `
CREATE INDEX IF NOT EXISTS idx_skills_name ON skills(name);
`

// migration represents a single schema migration
type migration struct {
	Version     int
	Description string
	Up          func(*sql.Tx) error
}

var migrations = []migration{
	{
		Version:     SchemaVersion1,
		Description: "Initial schema creation",
		Up: func(tx *sql.Tx) error {
			if _, err := tx.Exec(createSchemaVersionTable); err != nil {
				return errors.Wrap(err, "failed to create schema_version table")
			}
			if _, err := tx.Exec(createSkillsTable); err != nil {
				return errors.Wrap(err, "failed to create skills table")
			}
			return nil
		},
	},
	{
		Version:     SchemaVersion2,
		Description: "Add name lookup index",
		Up: func(tx *sql.Tx) error {
			if _, err := tx.Exec(createIndexSkillsName); err != nil {
				return errors.Wrap(err, "failed to create skills name index")
			}
			return nil
		},
	},
}

// migrate applies all pending migrations in order
func (s *Store) migrate(ctx context.Context) error {
	current, err := s.schemaVersion(ctx)
	if err != nil {
		return err
	}

	for _, m := range migrations {
		if m.Version <= current {
			continue
		}

		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return errors.Wrap(err, "failed to begin migration transaction")
		}

		if err := m.Up(tx); err != nil {
			tx.Rollback()
			return errors.Wrapf(err, "migration %d failed", m.Version)
		}

		if _, err := tx.Exec(
			"INSERT INTO schema_version (version, applied_at, description) VALUES (?, ?, ?)",
			m.Version, time.Now().UTC(), m.Description,
		); err != nil {
			tx.Rollback()
			return errors.Wrapf(err, "failed to record migration %d", m.Version)
		}

		if err := tx.Commit(); err != nil {
			return errors.Wrapf(err, "failed to commit migration %d", m.Version)
		}
	}

	return nil
}

// schemaVersion returns the highest applied schema version, or 0 for a
// fresh database.
func (s *Store) schemaVersion(ctx context.Context) (int, error) {
	var exists int
	err := s.db.GetContext(ctx, &exists,
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'")
	if err != nil {
		return 0, errors.Wrap(err, "failed to check schema_version table")
	}
	if exists == 0 {
		return 0, nil
	}

	var version sql.NullInt64
	err = s.db.GetContext(ctx, &version, "SELECT MAX(version) FROM schema_version")
	if err != nil {
		return 0, errors.Wrap(err, "failed to query schema version")
	}
	return int(version.Int64), nil
}
