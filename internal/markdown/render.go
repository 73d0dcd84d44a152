package markdown

import (
	"bytes"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"

	"git.home.luguber.info/inful/docsite/internal/foundation/errors"
	"git.home.luguber.info/inful/docsite/internal/linkrewrite"
)

// RenderOptions configures a Renderer.
type RenderOptions struct {
	// Rewriter applied to link and image destinations. Nil leaves links untouched.
	Rewriter *linkrewrite.Rewriter
	// Observers receive every link a rule changed.
	Observers []linkrewrite.Observer
	// HeaderLevels selects the headings collected into Result.Headers.
	HeaderLevels []int
}

// Result is a rendered document.
type Result struct {
	HTML    []byte
	Title   string
	Headers []Header
	// References are the relative ("./", "../") link and image paths left after
	// rewriting, without query or fragment.
	References []string
}

// Renderer converts markdown bodies to HTML. It is safe for concurrent use.
type Renderer struct {
	md     goldmark.Markdown
	levels []int
}

// NewRenderer builds a goldmark pipeline with GFM tables, strikethrough, task lists,
// heading ids and the link rewriter.
func NewRenderer(opts RenderOptions) *Renderer {
	extOpts := make([]linkrewrite.ExtensionOption, 0, len(opts.Observers))
	for _, o := range opts.Observers {
		extOpts = append(extOpts, linkrewrite.WithObserver(o))
	}
	levels := opts.HeaderLevels
	if len(levels) == 0 {
		levels = DefaultHeaderLevels
	}

	md := goldmark.New(
		goldmark.WithExtensions(
			extension.Table,
			extension.Strikethrough,
			extension.TaskList,
			linkrewrite.NewExtension(opts.Rewriter, extOpts...),
		),
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		// documentation sources are trusted and embed raw HTML
		goldmark.WithRendererOptions(html.WithUnsafe()),
	)
	return &Renderer{md: md, levels: levels}
}

// Render converts body (frontmatter already removed). document identifies the source in
// the link rewriter environment.
func (r *Renderer) Render(body []byte, document string) (*Result, error) {
	pc := parser.NewContext(parser.WithIDs(newSlugIDs()))
	pc.Set(linkrewrite.DocumentKey, document)

	doc := r.md.Parser().Parse(text.NewReader(body), parser.WithContext(pc))
	title, headers := collectHeadings(doc, body, r.levels)

	var buf bytes.Buffer
	if err := r.md.Renderer().Render(&buf, body, doc); err != nil {
		return nil, errors.WrapError(err, errors.CategoryMarkdown, "render markdown").
			WithContext("document", document).
			Build()
	}
	return &Result{HTML: buf.Bytes(), Title: title, Headers: headers, References: relativeReferences(doc)}, nil
}
