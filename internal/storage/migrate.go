// Package storage owns the Postgres schema: the campaign tables, the
// search_fuzzy_combined ranking function and the embedding index.
package storage

import (
	"embed"
	"errors"
	"fmt"

	"github.com/MMMikeM/DND-Campaign-sub000/pkg/logger"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// MigrateOptions select the migration source and direction.
type MigrateOptions struct {
	// Dir overrides the embedded migrations with a directory on disk.
	Dir string
	// Steps migrates relative to the current version when non zero.
	// Negative values roll back.
	Steps int
	Down  bool
}

// Migrate applies the schema to the database at databaseURL.
// ErrNoChange is not treated as a failure.
func Migrate(log *logger.Logger, databaseURL string, opts MigrateOptions) error {
	m, err := newMigrator(databaseURL, opts.Dir)
	if err != nil {
		return err
	}
	defer func() {
		srcErr, dbErr := m.Close()
		if srcErr != nil || dbErr != nil {
			log.Warn("Failed to close migrator", "source_err", srcErr, "db_err", dbErr)
		}
	}()

	switch {
	case opts.Steps != 0:
		err = m.Steps(opts.Steps)
	case opts.Down:
		err = m.Down()
	default:
		err = m.Up()
	}
	if errors.Is(err, migrate.ErrNoChange) {
		log.Info("Schema up to date")
		return nil
	}
	if err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	version, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("read schema version: %w", err)
	}
	log.Info("Schema migrated", "version", version, "dirty", dirty)
	return nil
}

func newMigrator(databaseURL, dir string) (*migrate.Migrate, error) {
	if databaseURL == "" {
		return nil, errors.New("database url is required")
	}
	if dir != "" {
		return migrate.New("file://"+dir, databaseURL)
	}
	src, err := iofs.New(migrationFiles, "migrations")
	if err != nil {
		return nil, fmt.Errorf("open embedded migrations: %w", err)
	}
	return migrate.NewWithSourceInstance("iofs", src, databaseURL)
}
