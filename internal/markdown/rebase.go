package markdown

import (
	"regexp"
	"strings"

	gmast "github.com/yuin/goldmark/ast"
)

// IsRelative reports whether dest is a "./" or "../" path.
func IsRelative(dest string) bool {
	return strings.HasPrefix(dest, "./") || strings.HasPrefix(dest, "../")
}

// StripQuery drops the query and fragment of a destination.
func StripQuery(dest string) string {
	if i := strings.IndexAny(dest, "?#"); i >= 0 {
		return dest[:i]
	}
	return dest
}

// RebaseLinks replaces the destinations of inline links, images and reference definitions
// for which rebase reports a change. Only the destination bytes are edited, so titles and
// surrounding formatting are kept. Autolinks are never passed to rebase.
func RebaseLinks(body []byte, rebase func(dest string) (string, bool)) ([]byte, error) {
	links, err := ExtractLinks(body, Options{})
	if err != nil {
		return nil, err
	}

	targets := make(map[string]string)
	order := make([]string, 0, len(links))
	for _, l := range links {
		if l.Kind == LinkKindAuto || l.Destination == "" {
			continue
		}
		if _, seen := targets[l.Destination]; seen {
			continue
		}
		if to, ok := rebase(l.Destination); ok {
			targets[l.Destination] = to
			order = append(order, l.Destination)
		}
	}

	var edits []Edit
	for _, from := range order {
		edits = append(edits, destinationEdits(body, from, targets[from])...)
	}
	return ApplyEdits(body, edits)
}

// destinationEdits locates dest after "](" (inline links and images) or after "[label]:"
// at a line start (reference definitions), optionally wrapped in angle brackets.
func destinationEdits(body []byte, dest, replacement string) []Edit {
	re := regexp.MustCompile(`(?m)(?:\]\(\s*|^[ \t]{0,3}\[[^\]\n]+\]:[ \t]*(?:\r?\n[ \t]*)?)<?(` +
		regexp.QuoteMeta(dest) + `)(?:>|\s|\)|$)`)
	matches := re.FindAllSubmatchIndex(body, -1)
	edits := make([]Edit, 0, len(matches))
	for _, m := range matches {
		edits = append(edits, Edit{Start: m[2], End: m[3], Replacement: []byte(replacement)})
	}
	return edits
}

// relativeReferences lists the relative image and link destinations of a transformed
// document without query or fragment, first occurrence first.
func relativeReferences(doc gmast.Node) []string {
	var refs []string
	seen := make(map[string]bool)
	add := func(dest []byte) {
		d := string(dest)
		if !IsRelative(d) {
			return
		}
		d = StripQuery(d)
		if d == "" || seen[d] {
			return
		}
		seen[d] = true
		refs = append(refs, d)
	}
	_ = gmast.Walk(doc, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *gmast.Image:
			add(node.Destination)
		case *gmast.Link:
			add(node.Destination)
		}
		return gmast.WalkContinue, nil
	})
	return refs
}
