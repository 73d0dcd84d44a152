package metrics

import (
	"log/slog"
	"net/http"

	prom "github.com/prometheus/client_golang/prometheus"
	promhttp "github.com/prometheus/client_golang/prometheus/promhttp"
)

// HTTPHandler serves the metrics gathered from reg. A nil registry falls back to the
// process-wide default gatherer. Collection errors are logged and the rest is still served.
func HTTPHandler(reg *prom.Registry) http.Handler {
	var gatherer prom.Gatherer = prom.DefaultGatherer
	if reg != nil {
		gatherer = reg
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
		ErrorHandling:     promhttp.ContinueOnError,
		ErrorLog:          slog.NewLogLogger(slog.Default().Handler(), slog.LevelWarn),
	})
}
