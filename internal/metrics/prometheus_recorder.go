package metrics

import (
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

const namespace = "docsite"

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	buildDuration  prom.Histogram
	buildOutcome   *prom.CounterVec
	pagesRendered  prom.Counter
	linkRewrites   *prom.CounterVec
	anchorWarnings prom.Counter
}

// NewPrometheusRecorder constructs the metrics and registers them on reg.
// A nil reg gets a private registry.
func NewPrometheusRecorder(reg prom.Registerer) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		buildDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "build_duration_seconds",
			Help:      "Total site build duration",
			Buckets:   prom.DefBuckets,
		}),
		buildOutcome: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "build_outcomes_total",
			Help:      "Build outcomes by final status",
		}, []string{"outcome"}),
		pagesRendered: prom.NewCounter(prom.CounterOpts{
			Namespace: namespace,
			Name:      "pages_rendered_total",
			Help:      "Pages rendered across all builds",
		}),
		linkRewrites: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "link_rewrites_total",
			Help:      "Links changed by the rewriter, by rule",
		}, []string{"rule"}),
		anchorWarnings: prom.NewCounter(prom.CounterOpts{
			Namespace: namespace,
			Name:      "anchor_warnings_total",
			Help:      "Same-page links whose fragment has no target",
		}),
	}
	reg.MustRegister(pr.buildDuration, pr.buildOutcome, pr.pagesRendered, pr.linkRewrites, pr.anchorWarnings)
	return pr
}

func (p *PrometheusRecorder) ObserveBuildDuration(d time.Duration) {
	if p == nil {
		return
	}
	p.buildDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncBuildOutcome(outcome BuildOutcome) {
	if p == nil {
		return
	}
	p.buildOutcome.WithLabelValues(string(outcome)).Inc()
}

func (p *PrometheusRecorder) IncPagesRendered(n int) {
	if p == nil || n <= 0 {
		return
	}
	p.pagesRendered.Add(float64(n))
}

func (p *PrometheusRecorder) IncLinkRewrite(rule string) {
	if p == nil {
		return
	}
	p.linkRewrites.WithLabelValues(rule).Inc()
}

func (p *PrometheusRecorder) IncAnchorWarnings(n int) {
	if p == nil || n <= 0 {
		return
	}
	p.anchorWarnings.Add(float64(n))
}
