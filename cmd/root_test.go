package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseNow(t *testing.T) {
	now, err := parseNow("2025-03-03T10:00:00+03:00")
	require.NoError(t, err)
	assert.True(t, now.Equal(time.Date(2025, 3, 3, 7, 0, 0, 0, time.UTC)))

	_, err = parseNow("03.03.2025")
	assert.Error(t, err)

	now, err = parseNow("")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now(), now, time.Minute)
}

func TestRootCmd_Subcommands(t *testing.T) {
	cmd := newRootCmd()

	for _, name := range []string{"serve", "remind", "digest", "migrate"} {
		sub, _, err := cmd.Find([]string{name})
		require.NoError(t, err)
		assert.Equal(t, name, sub.Name())
	}
}

func TestMigrateCmd_SQLite(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "appointments.db")
	cfgPath := filepath.Join(dir, "config.toml")

	require.NoError(t, os.WriteFile(cfgPath, []byte(`
[database]
driver = "sqlite"
path = "`+filepath.ToSlash(dbPath)+`"

[logs]
level = "error"
`), 0o600))

	cmd := newRootCmd()
	cmd.SetArgs([]string{"migrate", "--config", cfgPath})
	require.NoError(t, cmd.Execute())

	_, err := os.Stat(dbPath)
	assert.NoError(t, err)
}
