package markdown

import (
	"sort"

	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"

	"git.home.luguber.info/inful/docsite/internal/linkrewrite"
)

// Options controls link analysis.
type Options struct {
	// Rewriter, when set, fills Link.Rewritten and Link.Rule.
	Rewriter *linkrewrite.Rewriter
}

type LinkKind string

const (
	LinkKindInline              LinkKind = "inline"
	LinkKindImage               LinkKind = "image"
	LinkKindAuto                LinkKind = "auto"
	LinkKindReferenceDefinition LinkKind = "reference_definition"
)

type Link struct {
	Kind        LinkKind
	Destination string
	// Rewritten is the href that rendering would emit; equal to Destination when no rule changed it.
	Rewritten string
	Rule      string
}

// ExtractLinks parses a Markdown body and lists its link-like constructs in document order,
// followed by reference definitions sorted by label.
//
// This is an analysis API; it does not render. Autolinks and reference definitions are
// reported but never rewritten, matching what rendering does.
func ExtractLinks(body []byte, opts Options) ([]Link, error) {
	md := goldmark.New()
	ctx := parser.NewContext()
	root := md.Parser().Parse(text.NewReader(body), parser.WithContext(ctx))

	links := make([]Link, 0)
	add := func(kind LinkKind, dest string, rewrite bool) {
		l := Link{Kind: kind, Destination: dest, Rewritten: dest}
		if rewrite {
			l.Rewritten, l.Rule = opts.Rewriter.Apply(dest, ctx)
		}
		links = append(links, l)
	}

	_ = gmast.Walk(root, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *gmast.AutoLink:
			add(LinkKindAuto, string(node.URL(body)), false)
		case *gmast.Image:
			add(LinkKindImage, string(node.Destination), true)
		case *gmast.Link:
			// Reference-style links resolve to Link nodes with a Destination.
			add(LinkKindInline, string(node.Destination), true)
		}
		return gmast.WalkContinue, nil
	})

	// Reference definitions live in the parse context, not in the AST.
	refs := ctx.References()
	sort.Slice(refs, func(i, j int) bool {
		return string(refs[i].Label()) < string(refs[j].Label())
	})
	for _, ref := range refs {
		add(LinkKindReferenceDefinition, string(ref.Destination()), false)
	}

	return links, nil
}
