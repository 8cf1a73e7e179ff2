package migrations

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFiles(t *testing.T, names ...string) string {
	t.Helper()
	dir := t.TempDir()
	for _, name := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("SELECT 1;"), 0o600))
	}
	return dir
}

func TestMigrationFiles_SortedAndFiltered(t *testing.T) {
	dir := writeFiles(t, "002_events.sql", "001_init.sql", "README.md", "010_audit.sql")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "003_dir.sql"), 0o700))

	files, err := migrationFiles(dir)
	require.NoError(t, err)

	versions := make([]string, 0, len(files))
	for _, f := range files {
		versions = append(versions, f.Version)
	}
	assert.Equal(t, []string{"001", "002", "010"}, versions)
	assert.Equal(t, filepath.Join(dir, "001_init.sql"), files[0].Path)
}

func TestMigrationFiles_DuplicateVersion(t *testing.T) {
	dir := writeFiles(t, "001_init.sql", "001_other.sql")

	_, err := migrationFiles(dir)
	assert.ErrorContains(t, err, "share version 001")
}

func TestMigrationFiles_MissingDir(t *testing.T) {
	_, err := migrationFiles(filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}
