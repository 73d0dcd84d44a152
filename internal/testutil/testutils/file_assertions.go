package helpers

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// WriteTree creates files under root from slash-separated relative paths.
func WriteTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		p := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o750))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
	}
}

// FileAssertions checks the files of a generated tree.
type FileAssertions struct {
	t       *testing.T
	baseDir string
}

func NewFileAssertions(t *testing.T, baseDir string) *FileAssertions {
	return &FileAssertions{t: t, baseDir: baseDir}
}

func (fa *FileAssertions) path(rel string) string {
	return filepath.Join(fa.baseDir, filepath.FromSlash(rel))
}

// Exists asserts that rel is a regular file.
func (fa *FileAssertions) Exists(rel string) *FileAssertions {
	fa.t.Helper()
	assert.FileExists(fa.t, fa.path(rel))
	return fa
}

// Missing asserts that nothing exists at rel.
func (fa *FileAssertions) Missing(rel string) *FileAssertions {
	fa.t.Helper()
	assert.NoFileExists(fa.t, fa.path(rel))
	return fa
}

// Contains asserts that the file at rel contains each fragment.
func (fa *FileAssertions) Contains(rel string, fragments ...string) *FileAssertions {
	fa.t.Helper()
	content, err := os.ReadFile(fa.path(rel))
	if !assert.NoError(fa.t, err) {
		return fa
	}
	for _, f := range fragments {
		assert.Contains(fa.t, string(content), f, "file %s", rel)
	}
	return fa
}

// NotContains asserts that the file at rel contains none of the fragments.
func (fa *FileAssertions) NotContains(rel string, fragments ...string) *FileAssertions {
	fa.t.Helper()
	content, err := os.ReadFile(fa.path(rel))
	if !assert.NoError(fa.t, err) {
		return fa
	}
	for _, f := range fragments {
		assert.NotContains(fa.t, string(content), f, "file %s", rel)
	}
	return fa
}
