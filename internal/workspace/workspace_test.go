package workspace

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStage_PromoteReplacesTarget(t *testing.T) {
	base := t.TempDir()
	target := filepath.Join(base, "site")
	require.NoError(t, os.MkdirAll(target, 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(target, "stale.html"), []byte("old"), 0o600))

	stage, err := NewStage(target, "0123456789abcdef")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(base, ".site-staging-01234567"), stage.Path())
	assert.Equal(t, target, stage.Target())

	require.NoError(t, os.WriteFile(filepath.Join(stage.Path(), "index.html"), []byte("new"), 0o600))
	require.NoError(t, stage.Promote())

	data, err := os.ReadFile(filepath.Join(target, "index.html"))
	require.NoError(t, err)
	assert.Equal(t, "new", string(data))
	assert.NoFileExists(t, filepath.Join(target, "stale.html"))
	assert.NoDirExists(t, stage.Path())

	entries, err := os.ReadDir(base)
	require.NoError(t, err)
	for _, e := range entries {
		assert.False(t, strings.HasPrefix(e.Name(), ".site-staging"), "leftover %s", e.Name())
	}

	// Promote and Discard are no-ops afterwards.
	require.NoError(t, stage.Promote())
	require.NoError(t, stage.Discard())
	assert.FileExists(t, filepath.Join(target, "index.html"))
}

func TestStage_PromoteWithoutExistingTarget(t *testing.T) {
	target := filepath.Join(t.TempDir(), "nested", "site")

	stage, err := NewStage(target, "abc")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(stage.Path(), "index.html"), []byte("x"), 0o600))
	require.NoError(t, stage.Promote())

	assert.FileExists(t, filepath.Join(target, "index.html"))
}

func TestStage_DiscardKeepsTarget(t *testing.T) {
	base := t.TempDir()
	target := filepath.Join(base, "site")
	require.NoError(t, os.MkdirAll(target, 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(target, "index.html"), []byte("old"), 0o600))

	stage, err := NewStage(target, "")
	require.NoError(t, err)
	assert.Equal(t, ".site-staging-build", filepath.Base(stage.Path()))
	require.NoError(t, os.WriteFile(filepath.Join(stage.Path(), "index.html"), []byte("new"), 0o600))

	require.NoError(t, stage.Discard())
	assert.NoDirExists(t, stage.Path())

	data, err := os.ReadFile(filepath.Join(target, "index.html"))
	require.NoError(t, err)
	assert.Equal(t, "old", string(data))
}

func TestNewStage_ClearsStaleStaging(t *testing.T) {
	base := t.TempDir()
	stale := filepath.Join(base, ".site-staging-deadbeef")
	require.NoError(t, os.MkdirAll(stale, 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(stale, "junk"), []byte("x"), 0o600))

	stage, err := NewStage(filepath.Join(base, "site"), "deadbeef")
	require.NoError(t, err)
	assert.NoFileExists(t, filepath.Join(stage.Path(), "junk"))
}
