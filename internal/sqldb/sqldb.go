// Package sqldb runs learner queries against the sample e-commerce
// database. The database is opened read-only; nothing a learner types can
// change it.
package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	// Pure Go SQLite driver (no CGO).
	_ "modernc.org/sqlite"

	"github.com/abhisek/sqltutor/internal/store"
)

// ErrDatabaseNotFound is returned by Open when the sample database file
// does not exist.
var ErrDatabaseNotFound = errors.New("sample database not found")

// QueryExecutionError wraps any failure reported by the SQL engine while
// running a query. Its message is the engine's message.
type QueryExecutionError struct {
	SQL string
	Err error
}

func (e *QueryExecutionError) Error() string {
	return e.Err.Error()
}

func (e *QueryExecutionError) Unwrap() error { return e.Err }

// ResultSet is the outcome of a successful query: ordered column names and
// rows of driver values. BLOBs are converted to strings.
type ResultSet struct {
	Columns []string
	Rows    [][]any
}

// Len returns the number of rows.
func (r *ResultSet) Len() int {
	if r == nil {
		return 0
	}
	return len(r.Rows)
}

// Records returns the rows as column-name to value maps. When a query
// produces duplicate column names the last one wins.
func (r *ResultSet) Records() []map[string]any {
	out := make([]map[string]any, len(r.Rows))
	for i, row := range r.Rows {
		rec := make(map[string]any, len(r.Columns))
		for j, c := range r.Columns {
			rec[c] = row[j]
		}
		out[i] = rec
	}
	return out
}

// Scalar returns the single value of a one-row, one-column result.
func (r *ResultSet) Scalar() (any, bool) {
	if r == nil || len(r.Columns) != 1 || len(r.Rows) != 1 {
		return nil, false
	}
	return r.Rows[0][0], true
}

// DB is a read-only handle on the sample database.
type DB struct {
	db      *sql.DB
	path    string
	timeout time.Duration
}

// Option configures a DB.
type Option func(*DB)

// WithQueryTimeout bounds the run time of each query. Zero disables it.
func WithQueryTimeout(d time.Duration) Option {
	return func(db *DB) { db.timeout = d }
}

// Open opens the sample database at path read-only.
func Open(path string, opts ...Option) (*DB, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w at %s; run `sqltutor db init` to create it", ErrDatabaseNotFound, path)
		}
		return nil, fmt.Errorf("stat sample database: %w", err)
	}

	dsn := fmt.Sprintf("file:%s?mode=ro&_pragma=query_only(1)&_pragma=busy_timeout(5000)", path)
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sample database: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := sqlDB.Ping(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("open sample database: %w", err)
	}

	d := &DB{db: sqlDB, path: path}
	for _, o := range opts {
		o(d)
	}
	return d, nil
}

// Path returns the database file path.
func (d *DB) Path() string { return d.path }

// Close closes the database.
func (d *DB) Close() error { return d.db.Close() }

// Run executes a single SQL statement and captures its result. A single
// trailing semicolon is accepted. Every engine failure, including an empty
// statement, is reported as *QueryExecutionError.
func (d *DB) Run(ctx context.Context, query string) (*ResultSet, error) {
	stmt := normalizeStatement(query)
	if stmt == "" {
		return nil, &QueryExecutionError{SQL: query, Err: errors.New("empty query")}
	}

	if d.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.timeout)
		defer cancel()
	}

	rows, err := d.db.QueryContext(ctx, stmt)
	if err != nil {
		return nil, &QueryExecutionError{SQL: query, Err: err}
	}
	defer rows.Close()

	rs, err := scanRows(rows)
	if err != nil {
		return nil, &QueryExecutionError{SQL: query, Err: err}
	}
	return rs, nil
}

func normalizeStatement(query string) string {
	s := strings.TrimSpace(query)
	s = strings.TrimSuffix(s, ";")
	return strings.TrimSpace(s)
}

func scanRows(rows *sql.Rows) (*ResultSet, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	rs := &ResultSet{Columns: cols, Rows: [][]any{}}
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		for i, v := range vals {
			if b, ok := v.([]byte); ok {
				vals[i] = string(b)
			}
		}
		rs.Rows = append(rs.Rows, vals)
	}
	return rs, rows.Err()
}

// DefaultSamplePath resolves the sample database path: SQLTUTOR_SAMPLE_DB,
// then $XDG_DATA_HOME/sqltutor/sample.db.
func DefaultSamplePath() (string, error) {
	if p := os.Getenv("SQLTUTOR_SAMPLE_DB"); p != "" {
		return p, nil
	}
	dir, err := store.DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "sample.db"), nil
}
