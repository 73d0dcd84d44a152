package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/docsite/internal/foundation/errors"
	"git.home.luguber.info/inful/docsite/internal/linkrewrite"
)

// Example returns the starter configuration written by Init.
func Example() *Config {
	depth := defaultSidebarDepth
	deep := true
	resolve := true
	clean := true
	return &Config{
		Site: SiteConfig{
			Title:       "jmeter-java-dsl",
			Description: "Simple JMeter performance tests API",
			Lang:        "en-US",
			Base:        "/jmeter-java-dsl/",
			Head: []HeadTag{
				{Tag: "link", Attrs: map[string]string{"rel": "shortcut icon", "href": "/jmeter-java-dsl/favicon.ico"}},
			},
		},
		Pages:    PagesConfig{Directory: "docs", Patterns: append([]string(nil), DefaultPagePatterns...), Public: DefaultPublicDir},
		Markdown: MarkdownConfig{HeaderLevels: []int{2, 3, 4}},
		Theme: ThemeConfig{
			Logo:         "/logo.svg",
			SidebarDepth: &depth,
			Navbar: []NavLink{
				{Text: "Guide", Link: "/guide/"},
				{Text: "Motivation", Link: "/motivation/"},
				{Link: "https://discord.gg/WNSn5hqmSd", Icon: []string{"fab", "discord"}},
				{Link: "https://github.com/abstracta/jmeter-java-dsl", Icon: []string{"fab", "github"}},
			},
		},
		Links: LinksConfig{
			RepoURL: "https://github.com/abstracta/jmeter-java-dsl",
			Branch:  linkrewrite.DefaultBranch,
			Rules:   []string{linkrewrite.RuleRepoRoot, linkrewrite.RuleIncludedRelative},
		},
		Include: IncludeConfig{Deep: &deep, ResolvePaths: &resolve},
		Output:  OutputConfig{Directory: "site", Clean: &clean},
		Logging: LoggingConfig{Level: LogLevelInfo, Format: LogFormatText},
		Monitoring: MonitoringConfig{
			Metrics:    MetricsConfig{Enabled: true, Path: "/metrics"},
			HealthPath: "/health",
		},
		Preview: PreviewConfig{Port: defaultPreviewPort},
	}
}

// Init writes the example configuration to configPath. An existing file is only
// replaced when force is set.
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return errors.ConfigError("configuration file already exists (use --force to overwrite)").
			WithContext("path", configPath).
			Build()
	}

	data, err := yaml.Marshal(Example())
	if err != nil {
		return errors.WrapError(err, errors.CategoryInternal, "failed to marshal example config").Build()
	}

	if dir := filepath.Dir(configPath); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return errors.WrapError(err, errors.CategoryFileSystem, "failed to create config directory").
				WithContext("path", dir).
				Build()
		}
	}
	if err := os.WriteFile(configPath, data, 0o600); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to write config file").
			WithContext("path", configPath).
			Build()
	}
	return nil
}
