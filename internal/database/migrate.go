package database

import (
	"context"
	"database/sql"
	"embed"
	"path"
	"sort"
	"strings"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
)

//go:embed migrations/*.sql
var migrations embed.FS

const schemaMigrationsDDL = `CREATE TABLE IF NOT EXISTS schema_migrations (
    version TEXT PRIMARY KEY,
    applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

// Migrate applies every embedded migration that is not yet recorded in
// schema_migrations. Each file runs in its own transaction.
func Migrate(ctx context.Context, db *sql.DB, logger *zap.SugaredLogger) (int, error) {
	files, err := migrationFiles()
	if err != nil {
		return 0, err
	}
	if _, err := db.ExecContext(ctx, schemaMigrationsDDL); err != nil {
		return 0, errors.Wrap(err, "create schema_migrations")
	}

	applied := 0
	for _, filename := range files {
		version := strings.SplitN(filename, "_", 2)[0]

		var exists bool
		if err := db.QueryRowContext(ctx, "SELECT EXISTS(SELECT 1 FROM schema_migrations WHERE version = $1)", version).Scan(&exists); err != nil {
			return applied, errors.Wrapf(err, "check %s", filename)
		}
		if exists {
			if logger != nil {
				logger.Debugw("skipping migration", "migration", filename, "version", version)
			}
			continue
		}

		body, err := migrations.ReadFile(path.Join("migrations", filename))
		if err != nil {
			return applied, errors.Wrapf(err, "read %s", filename)
		}
		if logger != nil {
			logger.Infow("applying migration", "migration", filename, "version", version)
		}

		tx, err := db.BeginTx(ctx, nil)
		if err != nil {
			return applied, errors.Wrapf(err, "begin tx for %s", filename)
		}
		if _, err := tx.ExecContext(ctx, string(body)); err != nil {
			_ = tx.Rollback()
			return applied, errors.Wrapf(err, "execute %s", filename)
		}
		if _, err := tx.ExecContext(ctx, "INSERT INTO schema_migrations (version) VALUES ($1)", version); err != nil {
			_ = tx.Rollback()
			return applied, errors.Wrapf(err, "record %s", filename)
		}
		if err := tx.Commit(); err != nil {
			return applied, errors.Wrapf(err, "commit %s", filename)
		}
		applied++
	}

	if logger != nil {
		logger.Infow("migrations complete", "total_migrations", len(files), "applied", applied)
	}
	return applied, nil
}

func migrationFiles() ([]string, error) {
	entries, err := migrations.ReadDir("migrations")
	if err != nil {
		return nil, errors.Wrap(err, "read migrations")
	}
	files := make([]string, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".sql") {
			files = append(files, entry.Name())
		}
	}
	sort.Strings(files)
	return files, nil
}
