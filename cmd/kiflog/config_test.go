package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := loadConfig("")
	require.NoError(t, err)
	assert.Equal(t, Config{}, cfg)
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kiflog.yaml")
	content := `
quotes_atoms: true
functor_prefix: gdl_
atom_prefix: a_
helper_clauses: true
workers: 4
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := loadConfig(path)
	require.NoError(t, err)
	assert.True(t, cfg.QuotesAtoms)
	assert.Equal(t, "gdl_", cfg.FunctorPrefix)
	assert.Equal(t, "a_", cfg.AtomPrefix)
	assert.True(t, cfg.HelperClauses)
	assert.Equal(t, 4, cfg.Workers)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := loadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadConfigBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("quotes_atoms: ["), 0o644))
	_, err := loadConfig(path)
	assert.Error(t, err)
}

func TestOutputPath(t *testing.T) {
	assert.Equal(t, "game.pl", outputPath("game.kif"))
	assert.Equal(t, filepath.Join("dir", "game.pl"), outputPath(filepath.Join("dir", "game.kif")))
	assert.Equal(t, "noext.pl", outputPath("noext"))
}
