package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"

	"git.home.luguber.info/inful/docsite/internal/config"
	"git.home.luguber.info/inful/docsite/internal/foundation/errors"
	"git.home.luguber.info/inful/docsite/internal/frontmatter"
	"git.home.luguber.info/inful/docsite/internal/include"
	"git.home.luguber.info/inful/docsite/internal/markdown"
)

// LinksCmd implements the 'links' command.
type LinksCmd struct {
	File     string `arg:"" help:"Markdown file" type:"existingfile"`
	Includes bool   `help:"Expand include directives first" default:"true" negatable:""`
}

func (l *LinksCmd) Run(g *Global, root *CLI) error {
	cfg, err := l.config(root)
	if err != nil {
		return err
	}
	rewriter, err := cfg.PageRewriter()
	if err != nil {
		return err
	}

	source, err := os.ReadFile(l.File)
	if err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to read markdown file").
			WithContext("path", l.File).
			Build()
	}
	_, body, err := frontmatter.Parse(source)
	if err != nil {
		return err
	}
	if l.Includes {
		abs, err := filepath.Abs(l.File)
		if err != nil {
			return errors.WrapError(err, errors.CategoryFileSystem, "failed to resolve path").Build()
		}
		if body, _, err = include.New(include.Options{
			Deep:         cfg.Include.IsDeep(),
			ResolvePaths: cfg.Include.ShouldResolvePaths(),
		}).Expand(body, abs); err != nil {
			return err
		}
	}

	links, err := markdown.ExtractLinks(body, markdown.Options{Rewriter: rewriter})
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(g.out(), 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "KIND\tLINK\tREWRITTEN\tRULE")
	for _, link := range links {
		rule := link.Rule
		if rule == "" {
			rule = "-"
		}
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", link.Kind, link.Destination, link.Rewritten, rule)
	}
	return tw.Flush()
}

func (l *LinksCmd) config(root *CLI) (*config.Config, error) {
	if _, err := os.Stat(root.Config); err == nil {
		return loadConfig(root)
	}
	cfg := config.Default()
	cfg.Pages.Directory = filepath.Dir(l.File)
	cfg.ResolveRepoURL()
	return cfg, nil
}
