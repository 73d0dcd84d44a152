package linkrewrite

import (
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// DocumentKey stores the identity of the document being parsed in the parser context.
// It is informational only; rules never read it.
var DocumentKey = parser.NewContextKey()

// DocumentOf returns the document identity recorded in env, if any.
func DocumentOf(env Env) string {
	pc, ok := env.(parser.Context)
	if !ok || pc == nil {
		return ""
	}
	if doc, ok := pc.Get(DocumentKey).(string); ok {
		return doc
	}
	return ""
}

// Rewrite describes one link that a rule changed.
type Rewrite struct {
	Rule      string
	Link      string
	Rewritten string
	Env       Env
}

// Observer is notified for every link a rule changed.
type Observer func(Rewrite)

// Extension is a goldmark.Extender applying a Rewriter to link and image destinations.
type Extension struct {
	rewriter  *Rewriter
	observers []Observer
}

// ExtensionOption configures an Extension.
type ExtensionOption func(*Extension)

// WithObserver registers a callback for changed links.
func WithObserver(o Observer) ExtensionOption {
	return func(e *Extension) {
		if o != nil {
			e.observers = append(e.observers, o)
		}
	}
}

// NewExtension wraps r for use with goldmark.WithExtensions.
func NewExtension(r *Rewriter, opts ...ExtensionOption) *Extension {
	e := &Extension{rewriter: r}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extend implements goldmark.Extender.
func (e *Extension) Extend(m goldmark.Markdown) {
	m.Parser().AddOptions(parser.WithASTTransformers(util.Prioritized(&transformer{ext: e}, 500)))
}

type transformer struct {
	ext *Extension
}

// Transform implements parser.ASTTransformer. The parser context doubles as the
// document environment passed to the rewriter.
func (t *transformer) Transform(doc *ast.Document, _ text.Reader, pc parser.Context) {
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *ast.Link:
			node.Destination = t.rewrite(node.Destination, pc)
		case *ast.Image:
			node.Destination = t.rewrite(node.Destination, pc)
		}
		return ast.WalkContinue, nil
	})
}

func (t *transformer) rewrite(dest []byte, pc parser.Context) []byte {
	link := string(dest)
	out, rule := t.ext.rewriter.Apply(link, pc)
	if rule == "" || out == link {
		return dest
	}
	for _, o := range t.ext.observers {
		o(Rewrite{Rule: rule, Link: link, Rewritten: out, Env: pc})
	}
	return []byte(out)
}
