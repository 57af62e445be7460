package sqldb

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// Column describes one column as reported by PRAGMA table_info.
type Column struct {
	Name       string
	Type       string
	NotNull    bool
	PrimaryKey bool
	Default    string // empty when the column has no default
}

// Constraints renders the column flags the way the schema view shows them,
// e.g. "PK, NOT NULL".
func (c Column) Constraints() string {
	var parts []string
	if c.PrimaryKey {
		parts = append(parts, "PK")
	}
	if c.NotNull {
		parts = append(parts, "NOT NULL")
	}
	if c.Default != "" {
		parts = append(parts, "DEFAULT "+c.Default)
	}
	return strings.Join(parts, ", ")
}

// Table describes a table or view of the sample database.
type Table struct {
	Name     string
	View     bool
	Columns  []Column
	RowCount int64
}

// Tables returns every user table followed by every view, each sorted by
// name, with column metadata and row counts.
func (d *DB) Tables(ctx context.Context) ([]Table, error) {
	objects, err := d.listObjects(ctx, "'table', 'view'")
	if err != nil {
		return nil, err
	}

	tables := make([]Table, 0, len(objects))
	for _, o := range objects {
		t := Table{Name: o.name, View: o.kind == "view"}
		if t.Columns, err = d.columns(ctx, o.name); err != nil {
			return nil, err
		}
		if err := d.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+quoteIdent(o.name)).Scan(&t.RowCount); err != nil {
			return nil, fmt.Errorf("count rows in %s: %w", o.name, err)
		}
		tables = append(tables, t)
	}
	return tables, nil
}

// TableNames returns the names of the base tables, sorted.
func (d *DB) TableNames(ctx context.Context) ([]string, error) {
	objects, err := d.listObjects(ctx, "'table'")
	if err != nil {
		return nil, err
	}
	names := make([]string, len(objects))
	for i, o := range objects {
		names[i] = o.name
	}
	return names, nil
}

type schemaObject struct {
	name string
	kind string
}

func (d *DB) listObjects(ctx context.Context, kinds string) ([]schemaObject, error) {
	rows, err := d.db.QueryContext(ctx, `
		SELECT name, type FROM sqlite_master
		WHERE type IN (`+kinds+`) AND name NOT LIKE 'sqlite_%'
		ORDER BY type = 'view', name`)
	if err != nil {
		return nil, fmt.Errorf("list schema objects: %w", err)
	}
	defer rows.Close()

	var out []schemaObject
	for rows.Next() {
		var o schemaObject
		if err := rows.Scan(&o.name, &o.kind); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func (d *DB) columns(ctx context.Context, table string) ([]Column, error) {
	rows, err := d.db.QueryContext(ctx, "PRAGMA table_info("+quoteIdent(table)+")")
	if err != nil {
		return nil, fmt.Errorf("table_info %s: %w", table, err)
	}
	defer rows.Close()

	var cols []Column
	for rows.Next() {
		var (
			cid     int
			c       Column
			notNull int
			dflt    sql.NullString
			pk      int
		)
		if err := rows.Scan(&cid, &c.Name, &c.Type, &notNull, &dflt, &pk); err != nil {
			return nil, err
		}
		c.NotNull = notNull != 0
		c.PrimaryKey = pk > 0
		c.Default = dflt.String
		cols = append(cols, c)
	}
	return cols, rows.Err()
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
