package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefaultIsValid(t *testing.T) {
	c := Default()
	require.NoError(t, c.Validate())
	level, err := c.Level()
	require.NoError(t, err)
	assert.Equal(t, zapcore.InfoLevel, level)
}

func TestLoad(t *testing.T) {
	path := writeFile(t, t.TempDir(), "custom.yaml", `
tolerance: 0.001
workers: 3
skip: [manifold, Adjacency]
log:
  level: debug
`)
	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 0.001, c.Tolerance)
	assert.Equal(t, 3, c.Workers)
	assert.Equal(t, []string{"manifold", "Adjacency"}, c.Skip)
	assert.Equal(t, "debug", c.Log.Level)
	assert.Equal(t, 48, c.Sample.Cells, "unset keys keep their default")

	opts, err := c.InspectOptions()
	require.NoError(t, err)
	assert.Len(t, opts, 3)
}

func TestLoadDefaultFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), c)

	writeFile(t, dir, DefaultFile, "sample:\n  cells: 16\n")
	c, err = Load("")
	require.NoError(t, err)
	assert.Equal(t, 16, c.Sample.Cells)
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name string
		body string
		want string
	}{
		{"unknown key", "tolerence: 1\n", "tolerence"},
		{"negative tolerance", "tolerance: -1\n", "tolerance must be positive"},
		{"negative workers", "workers: -2\n", "workers must not be negative"},
		{"bad level", "log:\n  level: loud\n", "log.level"},
		{"unknown criterion", "skip: [flatness]\n", `unknown criterion "flatness"`},
		{"small sample", "sample:\n  cells: 1\n", "sample.cells"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeFile(t, dir, "bad.yaml", tt.body))
			assert.ErrorContains(t, err, tt.want)
		})
	}

	_, err := Load(filepath.Join(dir, "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestEmptyFileKeepsDefaults(t *testing.T) {
	c, err := Load(writeFile(t, t.TempDir(), "empty.yaml", ""))
	require.NoError(t, err)
	assert.Equal(t, Default(), c)
}
