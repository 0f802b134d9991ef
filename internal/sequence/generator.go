// Package sequence issues human-readable record numbers such as "lead42"
// and "prop7". Numbers come from a persisted per-name counter incremented
// in a single atomic statement, so concurrent creations always receive
// distinct values.
package sequence

import (
	"database/sql"
	"fmt"

	"github.com/rs/zerolog"
)

const schema = `
CREATE TABLE IF NOT EXISTS sequences (
    name TEXT PRIMARY KEY,
    value INTEGER NOT NULL
);
`

// InitSchema ensures the sequences table exists
func InitSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}

// Seed initialises counter name to the current row count of table, so the
// first generated number continues where existing records left off. No-op
// when the counter already exists.
func Seed(db *sql.DB, name, table string) error {
	query := fmt.Sprintf(
		"INSERT OR IGNORE INTO sequences (name, value) SELECT ?, COUNT(*) FROM %s", table)
	if _, err := db.Exec(query, name); err != nil {
		return fmt.Errorf("failed to seed sequence %s: %w", name, err)
	}
	return nil
}

// Generator produces numbers of the form {prefix}{counter} for one entity type
type Generator struct {
	db     *sql.DB
	name   string
	prefix string
	log    zerolog.Logger
}

// New creates a generator for the named counter with the given display prefix
func New(db *sql.DB, name, prefix string, log zerolog.Logger) *Generator {
	return &Generator{
		db:     db,
		name:   name,
		prefix: prefix,
		log:    log.With().Str("component", "sequence").Str("sequence", name).Logger(),
	}
}

// Next atomically increments the counter and returns the formatted number.
// The upsert-and-return runs as one statement, so two concurrent callers
// can never observe the same value.
func (g *Generator) Next() (string, error) {
	query := `
		INSERT INTO sequences (name, value) VALUES (?, 1)
		ON CONFLICT(name) DO UPDATE SET value = value + 1
		RETURNING value
	`

	var value int64
	if err := g.db.QueryRow(query, g.name).Scan(&value); err != nil {
		return "", fmt.Errorf("failed to generate %s number: %w", g.name, err)
	}

	no := fmt.Sprintf("%s%d", g.prefix, value)
	g.log.Debug().Str("no", no).Msg("Generated sequence number")
	return no, nil
}
