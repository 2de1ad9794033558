package main

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// repoMigrationsDir resolves db/migrations relative to this file, which
// lives two levels below the module root.
func repoMigrationsDir(t *testing.T) string {
	t.Helper()
	_, thisFile, _, ok := runtime.Caller(0)
	require.True(t, ok, "runtime.Caller failed")
	return filepath.Join(filepath.Dir(thisFile), "..", "..", "db", "migrations")
}

func TestMigrations_Parse(t *testing.T) {
	migrations, err := goose.CollectMigrations(repoMigrationsDir(t), 0, goose.MaxVersion)
	require.NoError(t, err)
	assert.NotEmpty(t, migrations)
}

func TestMigrations_HaveUpAndDown(t *testing.T) {
	dir := repoMigrationsDir(t)
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)

	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".sql") {
			continue
		}
		b, err := os.ReadFile(filepath.Join(dir, e.Name()))
		require.NoError(t, err)
		assert.Contains(t, string(b), "-- +goose Up", e.Name())
		assert.Contains(t, string(b), "-- +goose Down", e.Name())
	}
}

func TestMigrations_CreateSlotsTable(t *testing.T) {
	b, err := os.ReadFile(filepath.Join(repoMigrationsDir(t), "00001_create_slots.sql"))
	require.NoError(t, err)

	up, down, ok := strings.Cut(string(b), "-- +goose Down")
	require.True(t, ok)

	// Columns used by store.SlotPG's upsert.
	assert.Contains(t, up, "CREATE TABLE IF NOT EXISTS slots")
	assert.Contains(t, up, "name       TEXT PRIMARY KEY")
	assert.Contains(t, up, "data       JSONB NOT NULL")
	assert.Contains(t, up, "updated_at TIMESTAMPTZ")
	assert.Contains(t, down, "DROP TABLE IF EXISTS slots")
}
