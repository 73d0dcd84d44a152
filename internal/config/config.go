package config

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/docsite/internal/foundation/errors"
)

// DefaultConfigFile is the configuration path used when none is given.
const DefaultConfigFile = "docsite.yaml"

// Config represents the site configuration.
type Config struct {
	Site       SiteConfig       `yaml:"site"`
	Pages      PagesConfig      `yaml:"pages"`
	Markdown   MarkdownConfig   `yaml:"markdown"`
	Theme      ThemeConfig      `yaml:"theme"`
	Links      LinksConfig      `yaml:"links"`
	Include    IncludeConfig    `yaml:"include"`
	Output     OutputConfig     `yaml:"output"`
	Logging    LoggingConfig    `yaml:"logging"`
	Monitoring MonitoringConfig `yaml:"monitoring"`
	Preview    PreviewConfig    `yaml:"preview"`
}

// SiteConfig holds site metadata.
type SiteConfig struct {
	Title       string    `yaml:"title"`
	Description string    `yaml:"description,omitempty"`
	Lang        string    `yaml:"lang,omitempty"`
	Base        string    `yaml:"base,omitempty"` // URL prefix the site is served under, e.g. /jmeter-java-dsl/
	Head        []HeadTag `yaml:"head,omitempty"`
}

// HeadTag is an extra element injected into every page's <head>.
type HeadTag struct {
	Tag     string            `yaml:"tag" json:"tag"`
	Attrs   map[string]string `yaml:"attrs,omitempty" json:"attrs,omitempty"`
	Content string            `yaml:"content,omitempty" json:"content,omitempty"`
}

// PagesConfig selects which markdown files become pages.
type PagesConfig struct {
	Directory string   `yaml:"directory"`
	Patterns  []string `yaml:"patterns,omitempty"`
	// Public is copied verbatim to the output root; relative to Directory.
	Public string `yaml:"public,omitempty"`
}

// MarkdownConfig controls rendering.
type MarkdownConfig struct {
	HeaderLevels []int `yaml:"header_levels,omitempty"`
}

// ThemeConfig holds navigation settings.
type ThemeConfig struct {
	Logo         string    `yaml:"logo,omitempty"`
	SidebarDepth *int      `yaml:"sidebar_depth,omitempty"`
	Navbar       []NavLink `yaml:"navbar,omitempty"`
}

// NavLink is one navbar entry; Icon names an icon pack and glyph, e.g. [fab, github].
type NavLink struct {
	Text string   `yaml:"text,omitempty" json:"text,omitempty"`
	Link string   `yaml:"link" json:"link"`
	Icon []string `yaml:"icon,omitempty" json:"icon,omitempty"`
}

// LinksConfig configures link rewriting.
type LinksConfig struct {
	RepoURL string   `yaml:"repo_url,omitempty"`
	Branch  string   `yaml:"branch,omitempty"`
	Rules   []string `yaml:"rules,omitempty"`
}

// IncludeConfig configures file transclusion.
type IncludeConfig struct {
	Deep *bool `yaml:"deep,omitempty"`
	// ResolvePaths rebases relative link and image paths of included files onto the
	// including file's directory.
	ResolvePaths *bool `yaml:"resolve_paths,omitempty"`
}

// OutputConfig represents output configuration.
type OutputConfig struct {
	Directory string `yaml:"directory"`
	Clean     *bool  `yaml:"clean,omitempty"`
}

// LoggingConfig selects log level and format.
type LoggingConfig struct {
	Level  LogLevel  `yaml:"level,omitempty"`
	Format LogFormat `yaml:"format,omitempty"`
}

// MonitoringConfig configures preview server endpoints.
type MonitoringConfig struct {
	Metrics    MetricsConfig `yaml:"metrics"`
	HealthPath string        `yaml:"health_path,omitempty"`
}

type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path,omitempty"`
}

type PreviewConfig struct {
	Port int `yaml:"port,omitempty"`
}

// SidebarDepthValue returns the configured sidebar depth.
func (t ThemeConfig) SidebarDepthValue() int {
	if t.SidebarDepth == nil {
		return defaultSidebarDepth
	}
	return *t.SidebarDepth
}

// IsDeep reports whether nested includes are expanded.
func (i IncludeConfig) IsDeep() bool {
	return i.Deep == nil || *i.Deep
}

// ShouldResolvePaths reports whether included relative paths are rebased.
func (i IncludeConfig) ShouldResolvePaths() bool {
	return i.ResolvePaths == nil || *i.ResolvePaths
}

// ShouldClean reports whether the output directory is wiped before a build.
func (o OutputConfig) ShouldClean() bool {
	return o.Clean == nil || *o.Clean
}

// Load reads, expands, defaults and validates the configuration at configPath.
// Relative directories in the file resolve against the file's directory.
func Load(configPath string) (*Config, error) {
	loadEnvFiles(filepath.Dir(configPath))

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.ConfigError("configuration file not found").
				WithContext("path", configPath).
				Build()
		}
		return nil, errors.WrapError(err, errors.CategoryConfig, "failed to read config file").
			WithContext("path", configPath).
			Fatal().
			Build()
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, err
	}
	cfg.resolvePaths(filepath.Dir(configPath))
	return cfg, nil
}

// Parse decodes configuration bytes after environment expansion, then applies defaults
// and validates. Unknown keys are rejected.
func Parse(data []byte) (*Config, error) {
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader([]byte(expanded)))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && err != io.EOF {
		return nil, errors.WrapError(err, errors.CategoryConfig, "failed to unmarshal config").
			Fatal().
			Build()
	}

	applyDefaults(&cfg)
	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) resolvePaths(base string) {
	if c.Pages.Directory != "" && !filepath.IsAbs(c.Pages.Directory) {
		c.Pages.Directory = filepath.Join(base, c.Pages.Directory)
	}
	if c.Output.Directory != "" && !filepath.IsAbs(c.Output.Directory) {
		c.Output.Directory = filepath.Join(base, c.Output.Directory)
	}
}

// String renders the effective configuration as YAML for debugging.
func (c *Config) String() string {
	out, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Sprintf("config: %v", err)
	}
	return string(out)
}
