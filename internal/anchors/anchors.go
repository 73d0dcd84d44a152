// Package anchors checks that same-page links in rendered HTML point at existing ids.
package anchors

import (
	"bytes"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/net/html"

	"git.home.luguber.info/inful/docsite/internal/foundation/errors"
)

// Warning is a same-page link whose fragment has no target.
type Warning struct {
	Page     string `json:"page"`
	Fragment string `json:"fragment"`
	Text     string `json:"text,omitempty"`
}

type sameLink struct {
	fragment string
	text     string
}

// VerifyFile checks the rendered page at htmlPath. page labels the warnings.
func VerifyFile(htmlPath, page string) ([]Warning, error) {
	file, err := os.Open(filepath.Clean(htmlPath))
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "failed to open HTML file").
			WithContext("html_path", htmlPath).
			Build()
	}
	defer func() {
		_ = file.Close()
	}()
	return Verify(file, page)
}

// VerifyBytes checks an in-memory page.
func VerifyBytes(content []byte, page string) ([]Warning, error) {
	return Verify(bytes.NewReader(content), page)
}

// Verify parses HTML from r and reports every "#fragment" link with no element carrying
// that id (or an anchor with that name). Warnings keep document order.
func Verify(r io.Reader, page string) ([]Warning, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryValidation, "failed to parse HTML").
			ForPage(page).
			Build()
	}

	targets := map[string]bool{}
	var links []sameLink

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if id := getAttr(n, "id"); id != "" {
				targets[id] = true
			}
			if n.Data == "a" {
				if name := getAttr(n, "name"); name != "" {
					targets[name] = true
				}
				if href, ok := hasAttr(n, "href"); ok {
					if frag, same := sameDocumentFragment(href); same {
						links = append(links, sameLink{fragment: frag, text: extractText(n)})
					}
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	var warnings []Warning
	for _, l := range links {
		if targets[l.fragment] {
			continue
		}
		warnings = append(warnings, Warning{Page: page, Fragment: l.fragment, Text: l.text})
	}
	return warnings, nil
}

// sameDocumentFragment returns the decoded fragment of an href that points into the
// current document. A bare "#" refers to the top of the page and is not checked.
func sameDocumentFragment(href string) (string, bool) {
	if !strings.HasPrefix(href, "#") || len(href) == 1 {
		return "", false
	}
	frag := href[1:]
	if decoded, err := url.PathUnescape(frag); err == nil {
		frag = decoded
	}
	return frag, true
}

func hasAttr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

func getAttr(n *html.Node, key string) string {
	v, _ := hasAttr(n, key)
	return v
}

func extractText(n *html.Node) string {
	var b strings.Builder
	var collect func(*html.Node)
	collect = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			collect(c)
		}
	}
	collect(n)
	return strings.TrimSpace(b.String())
}
