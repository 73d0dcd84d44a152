package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/docsite/internal/foundation/errors"
	"git.home.luguber.info/inful/docsite/internal/linkrewrite"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, DefaultConfigFile)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_AppliesDefaults(t *testing.T) {
	path := writeConfig(t, "site:\n  title: Docs\n")

	cfg, err := Load(path)
	require.NoError(t, err)

	dir := filepath.Dir(path)
	assert.Equal(t, "Docs", cfg.Site.Title)
	assert.Equal(t, "en-US", cfg.Site.Lang)
	assert.Equal(t, "/", cfg.Site.Base)
	assert.Equal(t, filepath.Join(dir, "docs"), cfg.Pages.Directory)
	assert.Equal(t, DefaultPagePatterns, cfg.Pages.Patterns)
	assert.Equal(t, []int{2, 3, 4}, cfg.Markdown.HeaderLevels)
	assert.Equal(t, 3, cfg.Theme.SidebarDepthValue())
	assert.Equal(t, linkrewrite.DefaultBranch, cfg.Links.Branch)
	assert.Equal(t, []string{linkrewrite.RuleRepoRoot, linkrewrite.RuleIncludedRelative}, cfg.Links.Rules)
	assert.True(t, cfg.Include.IsDeep())
	assert.True(t, cfg.Include.ShouldResolvePaths())
	assert.True(t, cfg.Output.ShouldClean())
	assert.Equal(t, filepath.Join(dir, "site"), cfg.Output.Directory)
	assert.Equal(t, LogLevelInfo, cfg.Logging.Level)
	assert.Equal(t, LogFormatText, cfg.Logging.Format)
	assert.Equal(t, "/health", cfg.Monitoring.HealthPath)
	assert.Equal(t, "/metrics", cfg.Monitoring.Metrics.Path)
	assert.Equal(t, 8080, cfg.Preview.Port)
}

func TestLoad_ExplicitZeroValuesSurviveDefaults(t *testing.T) {
	path := writeConfig(t, `
theme:
  sidebar_depth: 0
include:
  deep: false
  resolve_paths: false
output:
  directory: /tmp/out
  clean: false
links:
  rules: []
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 0, cfg.Theme.SidebarDepthValue())
	assert.False(t, cfg.Include.IsDeep())
	assert.False(t, cfg.Include.ShouldResolvePaths())
	assert.False(t, cfg.Output.ShouldClean())
	assert.Equal(t, "/tmp/out", cfg.Output.Directory)
	assert.Empty(t, cfg.Links.Rules)
}

func TestLoad_ExpandsEnvironment(t *testing.T) {
	t.Setenv("DOCSITE_TEST_REPO", "https://github.com/abstracta/jmeter-java-dsl")
	path := writeConfig(t, "links:\n  repo_url: ${DOCSITE_TEST_REPO}\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://github.com/abstracta/jmeter-java-dsl", cfg.Links.RepoURL)
}

func TestLoad_DotEnvDoesNotOverrideEnvironment(t *testing.T) {
	t.Setenv("DOCSITE_TEST_TITLE", "from-env")
	path := writeConfig(t, "site:\n  title: ${DOCSITE_TEST_TITLE}\n  description: ${DOCSITE_TEST_DESC}\n")
	dir := filepath.Dir(path)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"),
		[]byte("DOCSITE_TEST_TITLE=from-file\nDOCSITE_TEST_DESC=described\n"), 0o600))
	t.Cleanup(func() { _ = os.Unsetenv("DOCSITE_TEST_DESC") })

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Site.Title)
	assert.Equal(t, "described", cfg.Site.Description)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryConfig))
}

func TestLoad_RejectsUnknownKeys(t *testing.T) {
	path := writeConfig(t, "site:\n  titel: typo\n")
	_, err := Load(path)
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryConfig))
}

func TestParse_EmptyDocument(t *testing.T) {
	cfg, err := Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestParse_NormalizesLogging(t *testing.T) {
	cfg, err := Parse([]byte("logging:\n  level: WARNING\n  format: JSON\n"))
	require.NoError(t, err)
	assert.Equal(t, LogLevelWarn, cfg.Logging.Level)
	assert.Equal(t, LogFormatJSON, cfg.Logging.Format)
}

func TestPageRewriter(t *testing.T) {
	t.Run("with repository URL", func(t *testing.T) {
		cfg := Default()
		cfg.Links.RepoURL = "https://github.com/abstracta/jmeter-java-dsl"

		r, err := cfg.PageRewriter()
		require.NoError(t, err)
		assert.Equal(t, []string{linkrewrite.RuleRepoRoot, linkrewrite.RuleIncludedRelative}, r.Rules())
		assert.Equal(t, "https://github.com/abstracta/jmeter-java-dsl/tree/master/guide/", r.Rewrite("/guide/", nil))
	})

	t.Run("without repository URL drops repository rules", func(t *testing.T) {
		cfg := Default()

		r, err := cfg.PageRewriter()
		require.NoError(t, err)
		assert.Equal(t, []string{linkrewrite.RuleIncludedRelative}, r.Rules())
		assert.Equal(t, "/guide/", r.Rewrite("/guide/", nil))
	})

	t.Run("repository rule set", func(t *testing.T) {
		cfg := Default()
		cfg.Links.RepoURL = "https://example.com/o/r"
		cfg.Links.Branch = "main"

		r, err := cfg.RepositoryRewriter()
		require.NoError(t, err)
		assert.Equal(t, "https://example.com/o/r/tree/main/x", r.Rewrite("/x", nil))
		assert.Equal(t, "./a.md#b", r.Rewrite("./a.md#b", nil))
	})
}
