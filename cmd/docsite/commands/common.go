package commands

import (
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/docsite/internal/config"
)

// Global carries state shared by every subcommand.
type Global struct {
	Out io.Writer
}

// CLI definition & global flags.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path" default:"docsite.yaml" type:"path"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Build   BuildCmd   `cmd:"" help:"Build the documentation site"`
	Serve   ServeCmd   `cmd:"" help:"Serve the site locally and rebuild on changes"`
	Init    InitCmd    `cmd:"" help:"Initialize a new configuration file"`
	Rewrite RewriteCmd `cmd:"" help:"Show how links are rewritten"`
	Links   LinksCmd   `cmd:"" help:"List the links of a markdown file and their rewritten form"`
}

// AfterApply runs after flag parsing; setup logging once.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	slog.SetDefault(config.NewLogger(config.LoggingConfig{}, c.Verbose, os.Stderr))
	return nil
}

// loadConfig reads the configuration, switches logging to its settings and fills in the
// repository URL from git when it is not configured.
func loadConfig(root *CLI) (*config.Config, error) {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return nil, err
	}
	slog.SetDefault(config.NewLogger(cfg.Logging, root.Verbose, os.Stderr))
	cfg.ResolveRepoURL()
	slog.Debug("Effective configuration", slog.String("config", cfg.String()))
	return cfg, nil
}

func (g *Global) out() io.Writer {
	if g == nil || g.Out == nil {
		return os.Stdout
	}
	return g.Out
}
