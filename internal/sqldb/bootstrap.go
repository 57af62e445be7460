package sqldb

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/abhisek/sqltutor/internal/store"
)

//go:embed seed.sql
var seedSQL string

// SeedSQL returns the script used to build the sample database.
func SeedSQL() string { return seedSQL }

// Bootstrap creates the sample database at path from the embedded seed
// script. An existing file is only replaced when overwrite is set. The
// database is built in a temporary file and renamed into place, so a
// failed bootstrap never leaves a half-written database behind.
func Bootstrap(ctx context.Context, path string, overwrite bool) error {
	if _, err := os.Stat(path); err == nil {
		if !overwrite {
			return fmt.Errorf("%s already exists (use --force to recreate it)", path)
		}
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("stat %s: %w", path, err)
	}

	if err := store.EnsureDir(path); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	tmp := path + ".tmp"
	_ = os.Remove(tmp)
	if err := seed(ctx, tmp); err != nil {
		os.Remove(tmp)
		return err
	}

	for _, suffix := range []string{"-wal", "-shm"} {
		_ = os.Remove(path + suffix)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("install sample database: %w", err)
	}
	return nil
}

func seed(ctx context.Context, path string) error {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("create sample database: %w", err)
	}
	defer db.Close()
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
		return fmt.Errorf("enable foreign keys: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin seed: %w", err)
	}
	if _, err := tx.ExecContext(ctx, seedSQL); err != nil {
		tx.Rollback()
		return fmt.Errorf("seed sample database: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit seed: %w", err)
	}

	var violations int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM pragma_foreign_key_check").Scan(&violations); err != nil {
		return fmt.Errorf("check foreign keys: %w", err)
	}
	if violations > 0 {
		return fmt.Errorf("seed data has %d foreign key violations", violations)
	}
	return nil
}
