package commands

import (
	"fmt"
	"os"
	"text/tabwriter"

	"git.home.luguber.info/inful/docsite/internal/config"
	"git.home.luguber.info/inful/docsite/internal/foundation/errors"
	"git.home.luguber.info/inful/docsite/internal/linkrewrite"
)

// RewriteCmd implements the 'rewrite' command.
type RewriteCmd struct {
	Links   []string `arg:"" help:"Links to rewrite"`
	Set     string   `help:"Rule set used when --rules is not given" enum:"page,repository" default:"page"`
	Rules   []string `help:"Rule names to apply in order (default: links.rules)" sep:","`
	RepoURL string   `name:"repo-url" help:"Repository URL (overrides links.repo_url)"`
	Branch  string   `help:"Repository branch (overrides links.branch)"`
}

func (r *RewriteCmd) Run(g *Global, root *CLI) error {
	cfg, err := r.config(root)
	if err != nil {
		return err
	}
	rewriter, err := r.rewriter(cfg)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(g.out(), 0, 0, 2, ' ', 0)
	for _, link := range r.Links {
		rewritten, rule := rewriter.Apply(link, nil)
		if rule == "" {
			rule = "-"
		}
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\n", link, rewritten, rule)
	}
	return tw.Flush()
}

// config loads the configuration file when present; without one the defaults apply and
// the repository URL comes from the git checkout around the working directory.
func (r *RewriteCmd) config(root *CLI) (*config.Config, error) {
	var cfg *config.Config
	if _, err := os.Stat(root.Config); err == nil {
		if cfg, err = loadConfig(root); err != nil {
			return nil, err
		}
	} else {
		cfg = config.Default()
		cfg.Pages.Directory = "."
	}
	if r.RepoURL != "" {
		cfg.Links.RepoURL = r.RepoURL
	}
	if r.Branch != "" {
		cfg.Links.Branch = r.Branch
	}
	cfg.ResolveRepoURL()
	return cfg, nil
}

func (r *RewriteCmd) rewriter(cfg *config.Config) (*linkrewrite.Rewriter, error) {
	if len(r.Rules) == 0 {
		if r.Set == "repository" {
			return cfg.RepositoryRewriter()
		}
		return cfg.PageRewriter()
	}
	rw, err := linkrewrite.FromNames(r.Rules, cfg.RewriterConfig())
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryValidation, "invalid --rules").
			WithContext("rules", r.Rules).
			WithContext("valid", linkrewrite.KnownRules()).
			Build()
	}
	return rw, nil
}
