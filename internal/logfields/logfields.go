package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyBuildID    = "build_id"
	KeyPage       = "page"
	KeyRoute      = "route"
	KeyPath       = "path"
	KeyLink       = "link"
	KeyRewritten  = "rewritten"
	KeyRule       = "rule"
	KeyFragment   = "fragment"
	KeyRepoURL    = "repo_url"
	KeyCount      = "count"
	KeyDurationMS = "duration_ms"
	KeyPort       = "port"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func BuildID(id string) slog.Attr     { return slog.String(KeyBuildID, id) }
func Page(p string) slog.Attr         { return slog.String(KeyPage, p) }
func Route(r string) slog.Attr        { return slog.String(KeyRoute, r) }
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func Link(l string) slog.Attr         { return slog.String(KeyLink, l) }
func Rewritten(l string) slog.Attr    { return slog.String(KeyRewritten, l) }
func Rule(name string) slog.Attr      { return slog.String(KeyRule, name) }
func Fragment(f string) slog.Attr     { return slog.String(KeyFragment, f) }
func RepoURL(u string) slog.Attr      { return slog.String(KeyRepoURL, u) }
func Count(n int) slog.Attr           { return slog.Int(KeyCount, n) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }
func Port(p int) slog.Attr            { return slog.Int(KeyPort, p) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
