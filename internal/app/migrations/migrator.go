package migrations

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/yigit/eventhub/internal/db"
)

// Conn is a connection able to start transactions, such as *pgxpool.Pool
type Conn interface {
	db.DBTX
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Migration is one versioned SQL file
type Migration struct {
	Version string
	Path    string
	Applied bool
}

// Migrator applies the SQL files of a directory in lexical order, once each
type Migrator struct {
	db     Conn
	dir    string
	logger zerolog.Logger
}

// NewMigrator creates a new migrator for dir
func NewMigrator(conn Conn, dir string, logger zerolog.Logger) *Migrator {
	return &Migrator{db: conn, dir: dir, logger: logger}
}

func (m *Migrator) ensureMigrationTableExists(ctx context.Context) error {
	_, err := m.db.Exec(ctx, `
	CREATE TABLE IF NOT EXISTS schema_migrations (
		version    VARCHAR(255) PRIMARY KEY,
		applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`)
	if err != nil {
		return fmt.Errorf("failed to create migration tracking table: %w", err)
	}
	return nil
}

func (m *Migrator) appliedVersions(ctx context.Context) (map[string]bool, error) {
	rows, err := m.db.Query(ctx, `SELECT version FROM schema_migrations`)
	if err != nil {
		return nil, fmt.Errorf("failed to read applied migrations: %w", err)
	}
	versions, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("failed to scan applied migrations: %w", err)
	}

	applied := make(map[string]bool, len(versions))
	for _, v := range versions {
		applied[v] = true
	}
	return applied, nil
}

// Status lists every migration file and whether it has been applied
func (m *Migrator) Status(ctx context.Context) ([]Migration, error) {
	if err := m.ensureMigrationTableExists(ctx); err != nil {
		return nil, err
	}
	files, err := migrationFiles(m.dir)
	if err != nil {
		return nil, err
	}
	applied, err := m.appliedVersions(ctx)
	if err != nil {
		return nil, err
	}

	for i := range files {
		files[i].Applied = applied[files[i].Version]
	}
	return files, nil
}

// Up applies every pending migration and returns how many ran
func (m *Migrator) Up(ctx context.Context) (int, error) {
	migrations, err := m.Status(ctx)
	if err != nil {
		return 0, err
	}

	ran := 0
	for _, mig := range migrations {
		if mig.Applied {
			m.logger.Debug().Str("version", mig.Version).Msg("Migration already applied, skipping")
			continue
		}
		if err := m.apply(ctx, mig); err != nil {
			return ran, err
		}
		ran++
	}
	return ran, nil
}

// apply runs one file and records it in the same transaction
func (m *Migrator) apply(ctx context.Context, mig Migration) error {
	content, err := os.ReadFile(mig.Path)
	if err != nil {
		return fmt.Errorf("failed to read migration file: %w", err)
	}

	tx, err := m.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, string(content)); err != nil {
		return fmt.Errorf("migration %s failed: %w", filepath.Base(mig.Path), err)
	}
	if _, err := tx.Exec(ctx, `INSERT INTO schema_migrations (version) VALUES ($1)`, mig.Version); err != nil {
		return fmt.Errorf("failed to record migration %s: %w", mig.Version, err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit migration %s: %w", mig.Version, err)
	}

	m.logger.Info().Str("version", mig.Version).Str("file", filepath.Base(mig.Path)).Msg("Migration applied")
	return nil
}

// migrationFiles returns the .sql files of dir sorted by name.
// The version is the file name prefix before the first underscore ("001_init.sql" is "001").
func migrationFiles(dir string) ([]Migration, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read migration directory: %w", err)
	}

	var files []Migration
	seen := make(map[string]string)
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".sql") {
			continue
		}
		version, _, _ := strings.Cut(strings.TrimSuffix(name, ".sql"), "_")
		if other, dup := seen[version]; dup {
			return nil, fmt.Errorf("migrations %s and %s share version %s", other, name, version)
		}
		seen[version] = name
		files = append(files, Migration{Version: version, Path: filepath.Join(dir, name)})
	}

	slices.SortFunc(files, func(a, b Migration) int { return strings.Compare(a.Path, b.Path) })
	return files, nil
}
