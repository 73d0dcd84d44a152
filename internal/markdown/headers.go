package markdown

import (
	"bytes"
	"slices"

	gmast "github.com/yuin/goldmark/ast"
)

// Header is one entry of a page's table of contents.
type Header struct {
	Level    int      `json:"level"`
	Title    string   `json:"title"`
	Slug     string   `json:"slug"`
	Link     string   `json:"link"`
	Children []Header `json:"children"`
}

// DefaultHeaderLevels are the heading levels collected into page data.
var DefaultHeaderLevels = []int{2, 3, 4}

type headerNode struct {
	h        Header
	children []*headerNode
}

// collectHeadings walks the document and returns the first level-1 heading text plus the
// nested headers tree restricted to levels.
func collectHeadings(doc gmast.Node, source []byte, levels []int) (string, []Header) {
	title := ""
	var roots []*headerNode
	var stack []*headerNode

	_ = gmast.Walk(doc, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		heading, ok := n.(*gmast.Heading)
		if !ok {
			return gmast.WalkContinue, nil
		}
		text := plainText(heading, source)
		if heading.Level == 1 && title == "" {
			title = text
		}
		if !slices.Contains(levels, heading.Level) {
			return gmast.WalkSkipChildren, nil
		}

		slug := ""
		if id, ok := heading.AttributeString("id"); ok {
			if b, ok := id.([]byte); ok {
				slug = string(b)
			}
		}
		node := &headerNode{h: Header{Level: heading.Level, Title: text, Slug: slug, Link: "#" + slug}}

		for len(stack) > 0 && stack[len(stack)-1].h.Level >= heading.Level {
			stack = stack[:len(stack)-1]
		}
		if len(stack) == 0 {
			roots = append(roots, node)
		} else {
			parent := stack[len(stack)-1]
			parent.children = append(parent.children, node)
		}
		stack = append(stack, node)
		return gmast.WalkSkipChildren, nil
	})

	return title, flatten(roots)
}

func flatten(nodes []*headerNode) []Header {
	out := make([]Header, 0, len(nodes))
	for _, n := range nodes {
		h := n.h
		h.Children = flatten(n.children)
		out = append(out, h)
	}
	return out
}

// plainText concatenates the text content of n's inline children.
func plainText(n gmast.Node, source []byte) string {
	var buf bytes.Buffer
	_ = gmast.Walk(n, func(c gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		switch t := c.(type) {
		case *gmast.Text:
			buf.Write(t.Segment.Value(source))
			if t.SoftLineBreak() || t.HardLineBreak() {
				buf.WriteByte(' ')
			}
		case *gmast.String:
			buf.Write(t.Value)
		}
		return gmast.WalkContinue, nil
	})
	return buf.String()
}
