package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrometheusRecorder(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)

	pr.ObserveBuildDuration(500 * time.Millisecond)
	pr.IncBuildOutcome(OutcomeSuccess)
	pr.IncBuildOutcome(OutcomeWarning)
	pr.IncPagesRendered(3)
	pr.IncPagesRendered(0)
	pr.IncLinkRewrite("repo-root")
	pr.IncLinkRewrite("repo-root")
	pr.IncLinkRewrite("included-relative")
	pr.IncAnchorWarnings(2)

	assert.InDelta(t, 3, counterValue(t, reg, "docsite_pages_rendered_total", ""), 0)
	assert.InDelta(t, 2, counterValue(t, reg, "docsite_link_rewrites_total", "repo-root"), 0)
	assert.InDelta(t, 1, counterValue(t, reg, "docsite_link_rewrites_total", "included-relative"), 0)
	assert.InDelta(t, 2, counterValue(t, reg, "docsite_anchor_warnings_total", ""), 0)
	assert.InDelta(t, 1, counterValue(t, reg, "docsite_build_outcomes_total", "warning"), 0)

	mfs, err := reg.Gather()
	require.NoError(t, err)
	assert.Len(t, mfs, 5)
}

func TestPrometheusRecorder_NilReceiver(t *testing.T) {
	var pr *PrometheusRecorder
	assert.NotPanics(t, func() {
		pr.ObserveBuildDuration(time.Second)
		pr.IncBuildOutcome(OutcomeFailed)
		pr.IncPagesRendered(1)
		pr.IncLinkRewrite("repo-root")
		pr.IncAnchorWarnings(1)
	})
}

func TestNoopRecorderSatisfiesRecorder(t *testing.T) {
	var r Recorder = NoopRecorder{}
	r.IncLinkRewrite("repo-root")
	r.ObserveBuildDuration(time.Second)
}

func TestHTTPHandler(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)
	pr.IncLinkRewrite("repo-root")

	srv := httptest.NewServer(HTTPHandler(reg))
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `docsite_link_rewrites_total{rule="repo-root"} 1`)
}

func counterValue(t *testing.T, reg *prom.Registry, name, label string) float64 {
	t.Helper()
	mfs, err := reg.Gather()
	require.NoError(t, err)
	for _, mf := range mfs {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.GetMetric() {
			if label == "" || (len(m.GetLabel()) > 0 && m.GetLabel()[0].GetValue() == label) {
				return m.GetCounter().GetValue()
			}
		}
	}
	t.Fatalf("metric %s{%s} not found", name, label)
	return 0
}
