// Package db embeds the schema migrations shipped with Atlas.
package db

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"sort"
)

//go:embed migrations/postgres/*.sql migrations/sqlite/*.sql
var migrationFiles embed.FS

// SQLiteMigrations returns the SQLite migration scripts in apply order.
func SQLiteMigrations() ([]string, error) {
	return readMigrations("migrations/sqlite")
}

// PostgresMigrations returns the PostgreSQL migration scripts in apply
// order. Production deployments run these through their own migration
// tooling; they are embedded so operators can extract them from the
// binary.
func PostgresMigrations() ([]string, error) {
	return readMigrations("migrations/postgres")
}

// ApplySQLite executes every SQLite migration against the given
// database. Scripts are idempotent, so running them on every startup
// keeps local-mode databases current without a version table.
func ApplySQLite(ctx context.Context, dbConn *sql.DB) error {
	scripts, err := SQLiteMigrations()
	if err != nil {
		return err
	}
	for _, script := range scripts {
		if _, err := dbConn.ExecContext(ctx, script); err != nil {
			return fmt.Errorf("apply migration: %w", err)
		}
	}
	return nil
}

func readMigrations(dir string) ([]string, error) {
	entries, err := fs.ReadDir(migrationFiles, dir)
	if err != nil {
		return nil, fmt.Errorf("read migrations: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	scripts := make([]string, 0, len(names))
	for _, name := range names {
		data, err := fs.ReadFile(migrationFiles, dir+"/"+name)
		if err != nil {
			return nil, fmt.Errorf("read migration %s: %w", name, err)
		}
		scripts = append(scripts, string(data))
	}
	return scripts, nil
}
