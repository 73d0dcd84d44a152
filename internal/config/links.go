package config

import (
	"log/slog"

	"git.home.luguber.info/inful/docsite/internal/foundation/errors"
	"git.home.luguber.info/inful/docsite/internal/linkrewrite"
	"git.home.luguber.info/inful/docsite/internal/logfields"
)

// ResolveRepoURL fills links.repo_url from the origin remote of the repository that
// holds the pages directory. A failed detection leaves it empty.
func (c *Config) ResolveRepoURL() {
	if c.Links.RepoURL != "" {
		return
	}
	detected, err := DetectRepoURL(c.Pages.Directory)
	if err != nil {
		slog.Debug("Repository URL detection failed", logfields.Path(c.Pages.Directory), logfields.Error(err))
		return
	}
	slog.Debug("Detected repository URL", logfields.RepoURL(detected))
	c.Links.RepoURL = detected
}

// RewriterConfig returns the immutable rewriter configuration.
func (c *Config) RewriterConfig() linkrewrite.Config {
	return linkrewrite.Config{RepoURL: c.Links.RepoURL, Branch: c.Links.Branch}
}

// PageRewriter builds the rewriter for site pages from links.rules. Rules that need a
// repository URL are dropped with a warning when none is known.
func (c *Config) PageRewriter() (*linkrewrite.Rewriter, error) {
	return c.rewriterFor(c.Links.Rules)
}

// RepositoryRewriter builds the repository-only rule set.
func (c *Config) RepositoryRewriter() (*linkrewrite.Rewriter, error) {
	return c.rewriterFor([]string{linkrewrite.RuleRepoRoot})
}

func (c *Config) rewriterFor(names []string) (*linkrewrite.Rewriter, error) {
	usable := make([]string, 0, len(names))
	for _, name := range names {
		if linkrewrite.NeedsRepoURL(name) && c.Links.RepoURL == "" {
			slog.Warn("Dropping link rule without repository URL", logfields.Rule(name))
			continue
		}
		usable = append(usable, name)
	}
	r, err := linkrewrite.FromNames(usable, c.RewriterConfig())
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryConfig, "invalid link rules").
			WithContext("rules", names).
			Build()
	}
	return r, nil
}
