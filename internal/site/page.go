package site

import (
	"encoding/hex"
	"path"
	"strings"

	"github.com/zeebo/blake3"

	"git.home.luguber.info/inful/docsite/internal/markdown"
)

// Page is one rendered documentation page.
type Page struct {
	Key         string
	Route       string
	Source      string // relative to the docs root, slash-separated
	Title       string
	Lang        string
	Frontmatter map[string]any
	Headers     []markdown.Header
	Content     []byte
	Included    []string
	// Assets are relatively referenced non-page files, slash-separated and relative to
	// the docs root.
	Assets []string
}

// Route maps a source path to the URL path of its page: index.md and README.md become
// their directory ("guide/index.md" -> "/guide/"), other files get ".html".
func Route(rel string) string {
	dir, file := path.Split(rel)
	base := strings.TrimSuffix(file, path.Ext(file))
	if strings.EqualFold(base, "index") || strings.EqualFold(base, "readme") {
		return "/" + dir
	}
	return "/" + dir + base + ".html"
}

// OutputPath is the file, relative to the output root, a route is written to.
func OutputPath(route string) string {
	rel := strings.TrimPrefix(route, "/")
	if rel == "" || strings.HasSuffix(rel, "/") {
		return rel + "index.html"
	}
	return rel
}

// Key derives the stable page key from a route.
func Key(route string) string {
	sum := blake3.Sum256([]byte(route))
	return "v-" + hex.EncodeToString(sum[:4])
}
