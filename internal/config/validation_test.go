package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/docsite/internal/foundation/errors"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"base without leading slash", func(c *Config) { c.Site.Base = "docs/" }},
		{"base without trailing slash", func(c *Config) { c.Site.Base = "/docs" }},
		{"head tag without name", func(c *Config) { c.Site.Head = []HeadTag{{}} }},
		{"only excluding patterns", func(c *Config) { c.Pages.Patterns = []string{"!node_modules"} }},
		{"empty pattern", func(c *Config) { c.Pages.Patterns = []string{"*.md", " "} }},
		{"header level too deep", func(c *Config) { c.Markdown.HeaderLevels = []int{2, 7} }},
		{"negative sidebar depth", func(c *Config) { d := -1; c.Theme.SidebarDepth = &d }},
		{"navbar without link", func(c *Config) { c.Theme.Navbar = []NavLink{{Text: "Guide"}} }},
		{"unknown rule", func(c *Config) { c.Links.Rules = []string{"absolute"} }},
		{"duplicate rule", func(c *Config) { c.Links.Rules = []string{"repo-root", "repo-root"} }},
		{"repo url without scheme", func(c *Config) { c.Links.RepoURL = "github.com/o/r" }},
		{"branch with spaces", func(c *Config) { c.Links.Branch = "my branch" }},
		{"health path relative", func(c *Config) { c.Monitoring.HealthPath = "health" }},
		{"metrics path relative", func(c *Config) {
			c.Monitoring.Metrics.Enabled = true
			c.Monitoring.Metrics.Path = "metrics"
		}},
		{"metrics shadows health", func(c *Config) {
			c.Monitoring.Metrics.Enabled = true
			c.Monitoring.Metrics.Path = "/health"
		}},
		{"port too large", func(c *Config) { c.Preview.Port = 70000 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := Validate(cfg)
			require.Error(t, err)
			assert.True(t, errors.HasCategory(err, errors.CategoryValidation))
		})
	}
}

func TestValidate_DefaultsAndExampleAreValid(t *testing.T) {
	require.NoError(t, Validate(Default()))
	require.NoError(t, Validate(Example()))
}
