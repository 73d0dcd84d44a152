package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/docsite/internal/foundation/errors"
)

func TestInit_WritesLoadableExample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", DefaultConfigFile)
	require.NoError(t, Init(path, false))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "jmeter-java-dsl", cfg.Site.Title)
	assert.Equal(t, "/jmeter-java-dsl/", cfg.Site.Base)
	require.Len(t, cfg.Theme.Navbar, 4)
	assert.Equal(t, "/guide/", cfg.Theme.Navbar[0].Link)
	assert.Equal(t, []string{"fab", "discord"}, cfg.Theme.Navbar[2].Icon)
	assert.Equal(t, "https://github.com/abstracta/jmeter-java-dsl", cfg.Links.RepoURL)
}

func TestInit_RefusesOverwriteWithoutForce(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultConfigFile)
	require.NoError(t, os.WriteFile(path, []byte("site: {}\n"), 0o600))

	err := Init(path, false)
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryConfig))

	require.NoError(t, Init(path, true))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "jmeter-java-dsl")
}
