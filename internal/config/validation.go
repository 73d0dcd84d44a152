package config

import (
	"slices"
	"strings"

	"git.home.luguber.info/inful/docsite/internal/foundation/errors"
	"git.home.luguber.info/inful/docsite/internal/linkrewrite"
)

// Validate checks a defaulted configuration.
func Validate(cfg *Config) error {
	v := &configurationValidator{config: cfg}
	return v.validate()
}

type configurationValidator struct {
	config *Config
}

func (v *configurationValidator) validate() error {
	for _, step := range []func() error{
		v.validateSite,
		v.validatePages,
		v.validateMarkdown,
		v.validateTheme,
		v.validateLinks,
		v.validateMonitoring,
		v.validatePreview,
	} {
		if err := step(); err != nil {
			return err
		}
	}
	return nil
}

func (v *configurationValidator) validateSite() error {
	base := v.config.Site.Base
	if !strings.HasPrefix(base, "/") || !strings.HasSuffix(base, "/") {
		return errors.ValidationError("site.base must start and end with '/'").
			WithContext("base", base).
			Build()
	}
	for i, tag := range v.config.Site.Head {
		if strings.TrimSpace(tag.Tag) == "" {
			return errors.ValidationError("site.head entry has no tag").
				WithContext("index", i).
				Build()
		}
	}
	return nil
}

func (v *configurationValidator) validatePages() error {
	positive := 0
	for _, p := range v.config.Pages.Patterns {
		if strings.TrimSpace(p) == "" {
			return errors.ValidationError("pages.patterns contains an empty pattern").Build()
		}
		if !strings.HasPrefix(p, "!") {
			positive++
		}
	}
	if positive == 0 {
		return errors.ValidationError("pages.patterns needs at least one including pattern").
			WithContext("patterns", v.config.Pages.Patterns).
			Build()
	}
	return nil
}

func (v *configurationValidator) validateMarkdown() error {
	for _, level := range v.config.Markdown.HeaderLevels {
		if level < 1 || level > 6 {
			return errors.ValidationError("markdown.header_levels must be between 1 and 6").
				WithContext("level", level).
				Build()
		}
	}
	return nil
}

func (v *configurationValidator) validateTheme() error {
	if v.config.Theme.SidebarDepthValue() < 0 {
		return errors.ValidationError("theme.sidebar_depth cannot be negative").
			WithContext("sidebar_depth", v.config.Theme.SidebarDepthValue()).
			Build()
	}
	for i, item := range v.config.Theme.Navbar {
		if item.Link == "" {
			return errors.ValidationError("theme.navbar entry has no link").
				WithContext("index", i).
				WithContext("text", item.Text).
				Build()
		}
	}
	return nil
}

func (v *configurationValidator) validateLinks() error {
	known := linkrewrite.KnownRules()
	seen := make(map[string]bool, len(v.config.Links.Rules))
	for _, rule := range v.config.Links.Rules {
		if !slices.Contains(known, rule) {
			return errors.ValidationError("unknown link rule").
				WithContext("rule", rule).
				WithContext("valid", known).
				Build()
		}
		if seen[rule] {
			return errors.ValidationError("duplicate link rule").
				WithContext("rule", rule).
				Build()
		}
		seen[rule] = true
	}
	if u := v.config.Links.RepoURL; u != "" && !strings.HasPrefix(u, "http://") && !strings.HasPrefix(u, "https://") {
		return errors.ValidationError("links.repo_url must be an http(s) URL").
			WithContext("repo_url", u).
			Build()
	}
	if strings.ContainsAny(v.config.Links.Branch, " \t") {
		return errors.ValidationError("links.branch cannot contain whitespace").
			WithContext("branch", v.config.Links.Branch).
			Build()
	}
	return nil
}

func (v *configurationValidator) validateMonitoring() error {
	m := v.config.Monitoring
	if !strings.HasPrefix(m.HealthPath, "/") {
		return errors.ValidationError("monitoring.health_path must start with '/'").
			WithContext("health_path", m.HealthPath).
			Build()
	}
	if m.Metrics.Enabled && !strings.HasPrefix(m.Metrics.Path, "/") {
		return errors.ValidationError("monitoring.metrics.path must start with '/'").
			WithContext("path", m.Metrics.Path).
			Build()
	}
	if m.Metrics.Enabled && m.Metrics.Path == m.HealthPath {
		return errors.ValidationError("metrics and health endpoints must differ").
			WithContext("path", m.HealthPath).
			Build()
	}
	return nil
}

func (v *configurationValidator) validatePreview() error {
	if p := v.config.Preview.Port; p < 1 || p > 65535 {
		return errors.ValidationError("preview.port out of range").
			WithContext("port", p).
			Build()
	}
	return nil
}
