package site

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"git.home.luguber.info/inful/docsite/internal/anchors"
	"git.home.luguber.info/inful/docsite/internal/metrics"
)

// PageSummary identifies a written page.
type PageSummary struct {
	Key    string `json:"key"`
	Route  string `json:"route"`
	Source string `json:"source"`
	Title  string `json:"title"`
}

// Report describes one build.
type Report struct {
	BuildID        string               `json:"build_id"`
	Started        time.Time            `json:"started"`
	Duration       time.Duration        `json:"duration"`
	Outcome        metrics.BuildOutcome `json:"outcome"`
	Pages          []PageSummary        `json:"pages"`
	Rewrites       map[string]int       `json:"rewrites"`
	AnchorWarnings []anchors.Warning    `json:"anchor_warnings,omitempty"`

	mu sync.Mutex
}

func newReport(id string, started time.Time) *Report {
	return &Report{BuildID: id, Started: started, Rewrites: map[string]int{}}
}

func (r *Report) countRewrite(rule string) {
	r.mu.Lock()
	r.Rewrites[rule]++
	r.mu.Unlock()
}

// TotalRewrites sums rewrites over every rule.
func (r *Report) TotalRewrites() int {
	total := 0
	for _, n := range r.Rewrites {
		total += n
	}
	return total
}

// Summary is a human readable multi-line description of the build.
func (r *Report) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Build %s: %s in %s\n", r.BuildID, r.Outcome, r.Duration.Round(time.Millisecond))
	fmt.Fprintf(&b, "  pages:   %d\n", len(r.Pages))

	rules := make([]string, 0, len(r.Rewrites))
	for rule := range r.Rewrites {
		rules = append(rules, rule)
	}
	sort.Strings(rules)
	parts := make([]string, 0, len(rules))
	for _, rule := range rules {
		parts = append(parts, fmt.Sprintf("%s=%d", rule, r.Rewrites[rule]))
	}
	fmt.Fprintf(&b, "  links:   %d rewritten", r.TotalRewrites())
	if len(parts) > 0 {
		fmt.Fprintf(&b, " (%s)", strings.Join(parts, ", "))
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "  anchors: %d warnings\n", len(r.AnchorWarnings))
	for _, w := range r.AnchorWarnings {
		fmt.Fprintf(&b, "    %s: #%s\n", w.Page, w.Fragment)
	}
	return b.String()
}
