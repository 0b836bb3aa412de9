// Package catalog exports the resolved index of an installation into a
// SQLite database, one row per file resource descriptor, so resources
// can be sliced with ad hoc SQL instead of repeated store queries.
package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/holocron-tools/holocron/internal/resource"
)

// Options configures database creation.
type Options struct {
	// Path to the SQLite database file.
	Path string

	// WALMode enables Write-Ahead Logging.
	WALMode bool

	// BusyTimeout sets the timeout for locked database operations.
	BusyTimeout time.Duration

	// BatchSize determines how many rows to insert per transaction.
	BatchSize int
}

// DefaultOptions returns sensible defaults for catalog databases.
func DefaultOptions(path string) *Options {
	return &Options{
		Path:        path,
		WALMode:     true,
		BusyTimeout: 30 * time.Second,
		BatchSize:   1000,
	}
}

// Catalog is an open catalog database.
type Catalog struct {
	db        *sql.DB
	path      string
	batchSize int
}

const schema = `
CREATE TABLE IF NOT EXISTS resources (
	id        INTEGER PRIMARY KEY,
	name      TEXT NOT NULL,
	type      INTEGER NOT NULL,
	ext       TEXT NOT NULL,
	location  TEXT NOT NULL,
	container TEXT NOT NULL,
	path      TEXT NOT NULL,
	offset    INTEGER NOT NULL,
	size      INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_resources_name ON resources(name, type);
CREATE INDEX IF NOT EXISTS idx_resources_location ON resources(location);

CREATE VIEW IF NOT EXISTS summary AS
	SELECT location, COUNT(*) AS resources, SUM(size) AS bytes
	FROM resources GROUP BY location ORDER BY location;
`

// New creates or opens the catalog database at options.Path and ensures
// the schema exists.
func New(options *Options) (*Catalog, error) {
	if options == nil || options.Path == "" {
		return nil, fmt.Errorf("catalog path cannot be empty")
	}
	if dir := filepath.Dir(options.Path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating catalog directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", connectionString(options))
	if err != nil {
		return nil, fmt.Errorf("opening catalog %s: %w", options.Path, err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("testing catalog connection: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating catalog schema: %w", err)
	}

	batchSize := options.BatchSize
	if batchSize <= 0 {
		batchSize = 1000
	}
	return &Catalog{db: db, path: options.Path, batchSize: batchSize}, nil
}

// Close closes the database connection.
func (c *Catalog) Close() error {
	if c.db == nil {
		return nil
	}
	err := c.db.Close()
	c.db = nil
	if err != nil {
		return fmt.Errorf("closing catalog: %w", err)
	}
	return nil
}

// Entry is one resource row to record: a descriptor plus where the
// resolver found it.
type Entry struct {
	Resource  resource.FileResource
	Location  string // search location tag, e.g. "chitin", "override"
	Container string // capsule filename, blob filename, or override subdir
}

// Insert records entries in batched transactions with one prepared
// statement per batch.
func (c *Catalog) Insert(ctx context.Context, entries []Entry) error {
	if c.db == nil {
		return fmt.Errorf("catalog is closed")
	}

	for start := 0; start < len(entries); start += c.batchSize {
		end := start + c.batchSize
		if end > len(entries) {
			end = len(entries)
		}
		if err := c.insertBatch(ctx, entries[start:end]); err != nil {
			return fmt.Errorf("inserting batch at %d: %w", start, err)
		}
	}

	slog.Debug("catalog insert complete", "rows", len(entries), "path", c.path)
	return nil
}

func (c *Catalog) insertBatch(ctx context.Context, entries []Entry) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO resources (name, type, ext, location, container, path, offset, size)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, entry := range entries {
		res := entry.Resource
		_, err := stmt.ExecContext(ctx,
			res.ResName(),
			int(res.Identifier().Type()),
			res.Identifier().Type().Extension(),
			entry.Location,
			entry.Container,
			res.Path(),
			int64(res.Offset()),
			int64(res.Size()),
		)
		if err != nil {
			return fmt.Errorf("inserting %s: %w", res.Identifier(), err)
		}
	}
	return tx.Commit()
}

// Count returns the number of cataloged resources.
func (c *Catalog) Count(ctx context.Context) (int64, error) {
	if c.db == nil {
		return 0, fmt.Errorf("catalog is closed")
	}
	var count int64
	if err := c.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM resources`).Scan(&count); err != nil {
		return 0, fmt.Errorf("counting resources: %w", err)
	}
	return count, nil
}

// Query executes a read-only SQL query against the catalog.
func (c *Catalog) Query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	if c.db == nil {
		return nil, fmt.Errorf("catalog is closed")
	}
	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("executing query: %w", err)
	}
	return rows, nil
}

func connectionString(options *Options) string {
	pragmas := []string{
		"synchronous=NORMAL",
		"temp_store=memory",
	}
	if options.WALMode {
		pragmas = append(pragmas, "journal_mode=WAL")
	}
	if options.BusyTimeout > 0 {
		pragmas = append(pragmas, fmt.Sprintf("busy_timeout=%d", int(options.BusyTimeout.Milliseconds())))
	}
	return options.Path + "?" + strings.Join(pragmas, "&")
}
