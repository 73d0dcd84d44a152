package config

import "git.home.luguber.info/inful/docsite/internal/linkrewrite"

const (
	defaultSidebarDepth = 3
	defaultPreviewPort  = 8080
)

// DefaultPublicDir holds static assets such as the logo and favicon.
const DefaultPublicDir = ".vuepress/public"

// DefaultPagePatterns keep included fragments and tooling directories out of the page set.
var DefaultPagePatterns = []string{"*.md", "*/index.md", "!.vuepress", "!node_modules"}

func applyDefaults(cfg *Config) {
	if cfg.Site.Title == "" {
		cfg.Site.Title = "Documentation"
	}
	if cfg.Site.Lang == "" {
		cfg.Site.Lang = "en-US"
	}
	if cfg.Site.Base == "" {
		cfg.Site.Base = "/"
	}
	if cfg.Pages.Directory == "" {
		cfg.Pages.Directory = "docs"
	}
	if cfg.Pages.Public == "" {
		cfg.Pages.Public = DefaultPublicDir
	}
	if len(cfg.Pages.Patterns) == 0 {
		cfg.Pages.Patterns = append([]string(nil), DefaultPagePatterns...)
	}
	if len(cfg.Markdown.HeaderLevels) == 0 {
		cfg.Markdown.HeaderLevels = []int{2, 3, 4}
	}
	if cfg.Theme.SidebarDepth == nil {
		depth := defaultSidebarDepth
		cfg.Theme.SidebarDepth = &depth
	}
	if cfg.Links.Branch == "" {
		cfg.Links.Branch = linkrewrite.DefaultBranch
	}
	if cfg.Links.Rules == nil {
		cfg.Links.Rules = []string{linkrewrite.RuleRepoRoot, linkrewrite.RuleIncludedRelative}
	}
	if cfg.Include.Deep == nil {
		deep := true
		cfg.Include.Deep = &deep
	}
	if cfg.Include.ResolvePaths == nil {
		resolve := true
		cfg.Include.ResolvePaths = &resolve
	}
	if cfg.Output.Directory == "" {
		cfg.Output.Directory = "site"
	}
	if cfg.Output.Clean == nil {
		clean := true
		cfg.Output.Clean = &clean
	}
	cfg.Logging.Level = NormalizeLogLevel(string(cfg.Logging.Level))
	cfg.Logging.Format = NormalizeLogFormat(string(cfg.Logging.Format))
	if cfg.Monitoring.HealthPath == "" {
		cfg.Monitoring.HealthPath = "/health"
	}
	if cfg.Monitoring.Metrics.Path == "" {
		cfg.Monitoring.Metrics.Path = "/metrics"
	}
	if cfg.Preview.Port == 0 {
		cfg.Preview.Port = defaultPreviewPort
	}
}

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}
