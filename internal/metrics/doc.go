// Package metrics provides build observability hooks.
//
// Components receive a Recorder and default to NoopRecorder, so callers never check
// for nil. The preview server swaps in a PrometheusRecorder and exposes it through
// HTTPHandler:
//
//	reg := prometheus.NewRegistry()
//	rec := metrics.NewPrometheusRecorder(reg)
//	mux.Handle("/metrics", metrics.HTTPHandler(reg))
package metrics
