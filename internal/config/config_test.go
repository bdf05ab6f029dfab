package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schwa-lang/schwa/internal/config"
)

func TestLoadMissingFileReturnsDefault(t *testing.T) {
	dir := t.TempDir()
	cfg, err := config.Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "wasm32", cfg.Compiler.Target)
	assert.Equal(t, 1, cfg.Compiler.MemoryPages)
}

func TestSaveThenLoadRoundTrips(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Default("demo")
	cfg.Compiler.MemoryPages = 4
	cfg.Compiler.WarningsAsErrors = true

	require.NoError(t, config.Save(dir, cfg, false))

	loaded, err := config.Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "demo", loaded.Name)
	assert.Equal(t, 4, loaded.Compiler.MemoryPages)
	assert.True(t, loaded.Compiler.WarningsAsErrors)
}

func TestSaveRefusesOverwriteByDefault(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, config.FileName), []byte("name: existing\n"), 0o644))

	err := config.Save(dir, config.Default("demo"), false)
	assert.Error(t, err)
}

func TestLoadNormalizesZeroMemoryPages(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, config.FileName), []byte("name: demo\ncompiler:\n  target: wasm32\n"), 0o644))

	cfg, err := config.Load(dir)
	require.NoError(t, err)
	assert.Equal(t, 1, cfg.Compiler.MemoryPages)
}
