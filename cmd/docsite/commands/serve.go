package commands

import (
	"context"
	"os/signal"
	"syscall"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"git.home.luguber.info/inful/docsite/internal/metrics"
	"git.home.luguber.info/inful/docsite/internal/preview"
	"git.home.luguber.info/inful/docsite/internal/site"
)

// ServeCmd implements the 'serve' command.
type ServeCmd struct {
	Port int `short:"p" help:"Port to listen on (overrides preview.port)"`
}

func (s *ServeCmd) Run(_ *Global, root *CLI) error {
	cfg, err := loadConfig(root)
	if err != nil {
		return err
	}
	if s.Port > 0 {
		cfg.Preview.Port = s.Port
	}

	var (
		recorder metrics.Recorder = metrics.NoopRecorder{}
		opts     []preview.Option
	)
	if cfg.Monitoring.Metrics.Enabled {
		reg := prom.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		recorder = metrics.NewPrometheusRecorder(reg)
		opts = append(opts, preview.WithRegistry(reg))
	}

	builder, err := site.NewBuilder(cfg, site.WithRecorder(recorder))
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	return preview.New(cfg, builder, opts...).Run(ctx)
}
