package sqlite

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/poiesic/citescout/storage"
	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"
)

const (
	// DefaultTable is the table holding catalog titles.
	DefaultTable = "sources"

	// DefaultColumn is the column holding catalog titles.
	DefaultColumn = "source_title"

	defaultPoolSize = 2
)

// ErrPathRequired is returned when no database path is configured.
var ErrPathRequired = errors.New("sqlite catalog path is required")

// Config holds the parameters for opening a catalog database.
// Path is required; all other fields have defaults.
type Config struct {
	// Path is the filesystem path to an existing SQLite database.
	// The file is opened read-only and never created.
	Path string

	// Table and Column name the title source. Defaults are
	// DefaultTable and DefaultColumn.
	Table  string
	Column string

	// PoolSize is the number of read connections. Defaults to 2.
	PoolSize int

	// Logger receives open/close messages. Defaults to slog.Default().
	Logger *slog.Logger
}

// Catalog implements storage.CatalogRepository over a read-only SQLite database.
// Every call to Titles runs a fresh query.
type Catalog struct {
	pool   *sqlitex.Pool
	query  string
	count  string
	path   string
	logger *slog.Logger
}

var _ storage.CatalogRepository = (*Catalog)(nil)

// OpenCatalog opens the database at cfg.Path read-only.
// Connections are created lazily, so a missing file surfaces on first use
// as an error wrapping storage.ErrCatalogRead.
func OpenCatalog(cfg Config) (*Catalog, error) {
	if cfg.Path == "" {
		return nil, ErrPathRequired
	}
	if cfg.Table == "" {
		cfg.Table = DefaultTable
	}
	if cfg.Column == "" {
		cfg.Column = DefaultColumn
	}
	if cfg.PoolSize <= 0 {
		cfg.PoolSize = defaultPoolSize
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "sqlite-catalog")

	pool, err := sqlitex.NewPool(cfg.Path, sqlitex.PoolOptions{
		PoolSize: cfg.PoolSize,
		Flags:    sqlite.OpenReadOnly | sqlite.OpenURI,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: opening %s: %w", storage.ErrCatalogRead, cfg.Path, err)
	}

	table := quoteIdentifier(cfg.Table)
	column := quoteIdentifier(cfg.Column)

	logger.Debug("catalog opened", "path", cfg.Path, "table", cfg.Table, "column", cfg.Column)

	return &Catalog{
		pool:   pool,
		query:  fmt.Sprintf("SELECT %s FROM %s", column, table),
		count:  fmt.Sprintf("SELECT COUNT(%s) FROM %s", column, table),
		path:   cfg.Path,
		logger: logger,
	}, nil
}

// Titles returns every non-NULL title in table order.
func (c *Catalog) Titles(ctx context.Context) ([]string, error) {
	conn, err := c.pool.Take(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", storage.ErrCatalogRead, err)
	}
	defer c.pool.Put(conn)

	titles := []string{}
	err = sqlitex.Execute(conn, c.query, &sqlitex.ExecOptions{
		ResultFunc: func(stmt *sqlite.Stmt) error {
			if stmt.ColumnType(0) == sqlite.TypeNull {
				return nil
			}
			titles = append(titles, stmt.ColumnText(0))
			return nil
		},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", storage.ErrCatalogRead, err)
	}
	return titles, nil
}

// Count returns the number of non-NULL titles.
func (c *Catalog) Count(ctx context.Context) (int, error) {
	conn, err := c.pool.Take(ctx)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", storage.ErrCatalogRead, err)
	}
	defer c.pool.Put(conn)

	count := 0
	err = sqlitex.Execute(conn, c.count, &sqlitex.ExecOptions{
		ResultFunc: func(stmt *sqlite.Stmt) error {
			count = stmt.ColumnInt(0)
			return nil
		},
	})
	if err != nil {
		return 0, fmt.Errorf("%w: %w", storage.ErrCatalogRead, err)
	}
	return count, nil
}

// Close closes all pooled connections.
func (c *Catalog) Close() error {
	if err := c.pool.Close(); err != nil {
		c.logger.Error("error closing catalog", "path", c.path, "err", err)
		return err
	}
	return nil
}

// quoteIdentifier quotes a table or column name for SQLite.
func quoteIdentifier(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
