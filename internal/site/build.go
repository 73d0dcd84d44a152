package site

import (
	"context"
	stdErrors "errors"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"git.home.luguber.info/inful/docsite/internal/anchors"
	"git.home.luguber.info/inful/docsite/internal/config"
	"git.home.luguber.info/inful/docsite/internal/foundation/errors"
	"git.home.luguber.info/inful/docsite/internal/frontmatter"
	"git.home.luguber.info/inful/docsite/internal/include"
	"git.home.luguber.info/inful/docsite/internal/linkrewrite"
	"git.home.luguber.info/inful/docsite/internal/logfields"
	"git.home.luguber.info/inful/docsite/internal/markdown"
	"git.home.luguber.info/inful/docsite/internal/metrics"
	"git.home.luguber.info/inful/docsite/internal/workspace"
)

// Builder renders the configured docs tree into the output directory.
type Builder struct {
	cfg         *config.Config
	rewriter    *linkrewrite.Rewriter
	recorder    metrics.Recorder
	concurrency int
	layout      *Layout
}

// Option configures a Builder.
type Option func(*Builder)

// WithRecorder sets the metrics recorder.
func WithRecorder(r metrics.Recorder) Option {
	return func(b *Builder) {
		if r != nil {
			b.recorder = r
		}
	}
}

// WithConcurrency caps the number of pages rendered at once.
func WithConcurrency(n int) Option {
	return func(b *Builder) {
		if n > 0 {
			b.concurrency = n
		}
	}
}

// WithRewriter replaces the rewriter derived from links.rules.
func WithRewriter(r *linkrewrite.Rewriter) Option {
	return func(b *Builder) { b.rewriter = r }
}

// NewBuilder prepares a Builder. The page rewriter is built once here and shared by
// every page of every build.
func NewBuilder(cfg *config.Config, opts ...Option) (*Builder, error) {
	layout, err := NewLayout(cfg)
	if err != nil {
		return nil, err
	}
	b := &Builder{
		cfg:         cfg,
		recorder:    metrics.NoopRecorder{},
		concurrency: runtime.GOMAXPROCS(0),
		layout:      layout,
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.rewriter == nil {
		r, err := cfg.PageRewriter()
		if err != nil {
			return nil, err
		}
		b.rewriter = r
	}
	return b, nil
}

// Build renders every page. The report is returned even when the build fails.
func (b *Builder) Build(ctx context.Context) (*Report, error) {
	start := time.Now()
	report := newReport(uuid.NewString(), start)
	log := slog.With(logfields.BuildID(report.BuildID))
	log.Info("Starting build", logfields.Path(b.cfg.Pages.Directory))

	err := b.build(ctx, report, log)

	report.Duration = time.Since(start)
	report.Outcome = outcome(err, report)
	b.recorder.ObserveBuildDuration(report.Duration)
	b.recorder.IncBuildOutcome(report.Outcome)

	if err != nil {
		log.Error("Build failed", logfields.Error(err), logfields.DurationMS(float64(report.Duration.Milliseconds())))
		return report, err
	}
	log.Info("Build completed",
		logfields.Count(len(report.Pages)),
		slog.Int("rewrites", report.TotalRewrites()),
		slog.Int("anchor_warnings", len(report.AnchorWarnings)),
		logfields.DurationMS(float64(report.Duration.Milliseconds())))
	return report, nil
}

func outcome(err error, report *Report) metrics.BuildOutcome {
	switch {
	case err == nil && len(report.AnchorWarnings) > 0:
		return metrics.OutcomeWarning
	case err == nil:
		return metrics.OutcomeSuccess
	case stdErrors.Is(err, context.Canceled), stdErrors.Is(err, context.DeadlineExceeded):
		return metrics.OutcomeCanceled
	default:
		return metrics.OutcomeFailed
	}
}

func (b *Builder) build(ctx context.Context, report *Report, log *slog.Logger) error {
	root := b.cfg.Pages.Directory
	out := b.cfg.Output.Directory
	if err := checkOutputDir(root, out); err != nil {
		return err
	}

	sources, err := Discover(root, ParsePatterns(b.cfg.Pages.Patterns))
	if err != nil {
		return err
	}
	log.Debug("Discovered pages", logfields.Count(len(sources)))

	if !b.cfg.Output.ShouldClean() {
		return b.render(ctx, report, log, root, out, sources)
	}

	stage, err := workspace.NewStage(out, report.BuildID)
	if err != nil {
		return err
	}
	defer func() {
		if err := stage.Discard(); err != nil {
			log.Warn("Failed to discard staged output", logfields.Error(err))
		}
	}()
	if err := b.render(ctx, report, log, root, stage.Path(), sources); err != nil {
		return err
	}
	return stage.Promote()
}

// render writes every page of sources plus the site data into out.
func (b *Builder) render(ctx context.Context, report *Report, log *slog.Logger, root, out string, sources []string) error {
	renderer := markdown.NewRenderer(markdown.RenderOptions{
		Rewriter:     b.rewriter,
		HeaderLevels: b.cfg.Markdown.HeaderLevels,
		Observers: []linkrewrite.Observer{func(rw linkrewrite.Rewrite) {
			report.countRewrite(rw.Rule)
			b.recorder.IncLinkRewrite(rw.Rule)
			log.Debug("Rewrote link",
				logfields.Page(linkrewrite.DocumentOf(rw.Env)),
				logfields.Rule(rw.Rule),
				logfields.Link(rw.Link),
				logfields.Rewritten(rw.Rewritten))
		}},
	})
	expander := include.New(include.Options{
		Deep:         b.cfg.Include.IsDeep(),
		ResolvePaths: b.cfg.Include.ShouldResolvePaths(),
	})

	pages := make([]*Page, len(sources))
	warnings := make([][]anchors.Warning, len(sources))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.concurrency)
	for i, rel := range sources {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			page, pageWarnings, err := b.buildPage(renderer, expander, root, out, rel)
			if err != nil {
				return err
			}
			for _, w := range pageWarnings {
				log.Warn("Link target not found", logfields.Page(w.Page), logfields.Fragment(w.Fragment))
			}
			pages[i] = page
			warnings[i] = pageWarnings
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		if ctx.Err() != nil {
			return errors.WrapError(ctx.Err(), errors.CategoryRuntime, "build canceled").Build()
		}
		return err
	}

	for i, p := range pages {
		report.Pages = append(report.Pages, PageSummary{Key: p.Key, Route: p.Route, Source: p.Source, Title: p.Title})
		report.AnchorWarnings = append(report.AnchorWarnings, warnings[i]...)
	}
	b.recorder.IncPagesRendered(len(pages))
	b.recorder.IncAnchorWarnings(len(report.AnchorWarnings))

	if err := writeJSON(out, "site.json", siteDataFrom(b.cfg)); err != nil {
		return err
	}
	if err := copyAssets(root, out, pages, log); err != nil {
		return err
	}
	return copyPublic(filepath.Join(root, b.cfg.Pages.Public), out)
}

func (b *Builder) buildPage(renderer *markdown.Renderer, expander *include.Expander, root, out, rel string) (*Page, []anchors.Warning, error) {
	abs := filepath.Join(root, filepath.FromSlash(rel))
	source, err := os.ReadFile(abs) // #nosec G304 -- discovered under the docs root
	if err != nil {
		return nil, nil, errors.WrapError(err, errors.CategoryFileSystem, "failed to read page").
			ForPage(rel).
			Build()
	}

	matter, body, err := frontmatter.Parse(source)
	if err != nil {
		return nil, nil, errors.AttachPage(err, rel)
	}
	body, included, err := expander.Expand(body, abs)
	if err != nil {
		return nil, nil, errors.AttachPage(err, rel)
	}
	result, err := renderer.Render(body, rel)
	if err != nil {
		return nil, nil, errors.AttachPage(err, rel)
	}

	route := Route(rel)
	page := &Page{
		Key:         Key(route),
		Route:       route,
		Source:      rel,
		Title:       firstNonEmpty(matter.Title, result.Title, b.cfg.Site.Title),
		Lang:        firstNonEmpty(matter.Lang, b.cfg.Site.Lang),
		Frontmatter: matter.Fields,
		Headers:     result.Headers,
		Content:     result.HTML,
		Included:    included,
		Assets:      pageAssets(root, abs, result.References),
	}

	doc, err := b.layout.Render(page)
	if err != nil {
		return nil, nil, err
	}
	warnings, err := anchors.VerifyBytes(doc, rel)
	if err != nil {
		return nil, nil, errors.AttachPage(err, rel)
	}

	if err := writeFile(filepath.Join(out, filepath.FromSlash(OutputPath(route))), doc); err != nil {
		return nil, nil, err
	}
	if err := writeJSON(out, page.Key+".json", page.Data()); err != nil {
		return nil, nil, err
	}
	slog.Debug("Rendered page", logfields.Page(rel), logfields.Route(route), logfields.Count(len(included)))
	return page, warnings, nil
}

// checkOutputDir refuses output locations that would wipe the sources.
func checkOutputDir(root, out string) error {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to resolve docs directory").Build()
	}
	absOut, err := filepath.Abs(out)
	if err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to resolve output directory").Build()
	}
	if info, err := os.Stat(absRoot); err != nil || !info.IsDir() {
		return errors.NotFoundError("docs directory not found").
			WithContext("path", root).
			Build()
	}
	rel, err := filepath.Rel(absOut, absRoot)
	if err == nil && (rel == "." || !strings.HasPrefix(rel, "..")) {
		return errors.ValidationError("output directory must not contain the docs directory").
			WithContext("output", out).
			WithContext("docs", root).
			Build()
	}
	return nil
}

// copyPublic mirrors the static assets directory into the output root.
func copyPublic(src, out string) error {
	info, err := os.Stat(src)
	if err != nil || !info.IsDir() {
		return nil
	}
	err = filepath.WalkDir(src, func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		rel, err := filepath.Rel(src, p)
		if err != nil {
			return err
		}
		data, err := os.ReadFile(p) // #nosec G304 -- walking the configured public directory
		if err != nil {
			return err
		}
		return writeFile(filepath.Join(out, rel), data)
	})
	if err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to copy public assets").
			WithContext("path", src).
			Build()
	}
	return nil
}

// pageAssets maps the relative references of the page at abs to docs-root paths. Links to
// markdown or HTML pages and paths leaving the docs root are not assets.
func pageAssets(root, abs string, refs []string) []string {
	var assets []string
	for _, ref := range refs {
		switch strings.ToLower(path.Ext(ref)) {
		case "", ".md", ".markdown", ".html":
			continue
		}
		rel, err := filepath.Rel(root, filepath.Join(filepath.Dir(abs), filepath.FromSlash(ref)))
		if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			continue
		}
		assets = append(assets, filepath.ToSlash(rel))
	}
	return assets
}

// copyAssets copies every file referenced by a page into the same place under out, so
// relative URLs resolve as they do in the sources. Missing files are logged.
func copyAssets(root, out string, pages []*Page, log *slog.Logger) error {
	seen := make(map[string]bool)
	for _, p := range pages {
		for _, asset := range p.Assets {
			if seen[asset] {
				continue
			}
			seen[asset] = true
			src := filepath.Join(root, filepath.FromSlash(asset))
			info, err := os.Stat(src)
			if err != nil || !info.Mode().IsRegular() {
				log.Warn("Referenced asset not found", logfields.Page(p.Source), logfields.Path(asset))
				continue
			}
			data, err := os.ReadFile(src) // #nosec G304 -- resolved under the docs root
			if err != nil {
				return errors.WrapError(err, errors.CategoryFileSystem, "failed to read asset").
					ForPage(p.Source).
					WithContext("path", asset).
					Build()
			}
			if err := writeFile(filepath.Join(out, filepath.FromSlash(asset)), data); err != nil {
				return err
			}
		}
	}
	log.Debug("Copied page assets", logfields.Count(len(seen)))
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
