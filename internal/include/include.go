// Package include expands file transclusion directives in markdown sources.
//
// A directive is a line of the form
//
//	<!-- @include: ./relative/file.md -->
//	<!-- @include: ./code/Test.java{3-20} -->
//
// The optional {start-end} suffix keeps a 1-based inclusive line range; either bound may be
// omitted. Paths resolve against the directory of the file holding the directive.
//
// With ResolvePaths, relative link and image destinations of included markdown files are
// rebased onto the including file's directory, so "./img/d.png" in guide/distributed/part.md
// becomes "./distributed/img/d.png" when guide/index.md includes it.
package include

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"git.home.luguber.info/inful/docsite/internal/foundation/errors"
	"git.home.luguber.info/inful/docsite/internal/markdown"
)

var directive = regexp.MustCompile(`(?m)^[ \t]*<!--\s*@include:\s*(.+?)\s*-->[ \t]*\r?$`)

var lineRange = regexp.MustCompile(`\{(\d*)-(\d*)\}$`)

// Options controls expansion.
type Options struct {
	// Deep expands directives found inside included files.
	Deep bool
	// ResolvePaths rebases relative destinations of included markdown files.
	ResolvePaths bool
	// ReadFile defaults to os.ReadFile.
	ReadFile func(string) ([]byte, error)
}

// Expander expands include directives.
type Expander struct {
	deep         bool
	resolvePaths bool
	readFile     func(string) ([]byte, error)
}

// New returns an Expander.
func New(opts Options) *Expander {
	rf := opts.ReadFile
	if rf == nil {
		rf = os.ReadFile
	}
	return &Expander{deep: opts.Deep, resolvePaths: opts.ResolvePaths, readFile: rf}
}

// Expand replaces every directive in source with the referenced content. path is the
// absolute path of the file source came from. The returned list names every included file.
func (e *Expander) Expand(source []byte, path string) ([]byte, []string, error) {
	path = filepath.Clean(path)
	var included []string
	out, err := e.expand(source, path, []string{path}, &included, true)
	return out, included, err
}

func (e *Expander) expand(source []byte, path string, chain []string, included *[]string, top bool) ([]byte, error) {
	if !top && !e.deep {
		return source, nil
	}
	matches := directive.FindAllSubmatchIndex(source, -1)
	if len(matches) == 0 {
		return source, nil
	}

	edits := make([]markdown.Edit, 0, len(matches))
	for _, m := range matches {
		target := string(source[m[2]:m[3]])
		content, err := e.resolve(target, path, chain, included)
		if err != nil {
			return nil, err
		}
		end := m[1]
		// keep a CR matched by the directive pattern
		if end > m[0] && source[end-1] == '\r' {
			end--
		}
		edits = append(edits, markdown.Edit{Start: m[0], End: end, Replacement: content})
	}
	return markdown.ApplyEdits(source, edits)
}

func (e *Expander) resolve(target, from string, chain []string, included *[]string) ([]byte, error) {
	file, start, end, err := parseTarget(target)
	if err != nil {
		return nil, errors.ValidationError("invalid include directive").
			WithContext("directive", target).
			WithContext("file", from).
			WithCause(err).
			Build()
	}
	resolved := filepath.Join(filepath.Dir(from), filepath.FromSlash(file))

	for _, seen := range chain {
		if seen == resolved {
			return nil, errors.ValidationError("include cycle detected").
				WithContext("path", resolved).
				WithContext("chain", strings.Join(append(chain, resolved), " -> ")).
				Build()
		}
	}

	data, err := e.readFile(resolved)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NotFoundError(fmt.Sprintf("File %s not found.", resolved)).
				WithContext("path", resolved).
				WithContext("included_from", from).
				Build()
		}
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "read included file").
			WithContext("path", resolved).
			Build()
	}
	*included = append(*included, resolved)

	data = selectLines(data, start, end)
	data, err = e.expand(data, resolved, append(chain[:len(chain):len(chain)], resolved), included, false)
	if err != nil {
		return nil, err
	}
	if !e.resolvePaths || !isMarkdown(resolved) {
		return data, nil
	}
	rebased, err := markdown.RebaseLinks(data, func(dest string) (string, bool) {
		return rebase(dest, filepath.Dir(resolved), filepath.Dir(from))
	})
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryMarkdown, "failed to rebase included links").
			WithContext("path", resolved).
			Build()
	}
	return rebased, nil
}

func isMarkdown(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".md" || ext == ".markdown"
}

// rebase moves a relative destination written in fromDir so it resolves the same from
// toDir. The result keeps a "./" or "../" prefix, and any query or fragment.
func rebase(dest, fromDir, toDir string) (string, bool) {
	if !markdown.IsRelative(dest) || fromDir == toDir {
		return dest, false
	}
	target := markdown.StripQuery(dest)
	suffix := dest[len(target):]

	rel, err := filepath.Rel(toDir, filepath.Join(fromDir, filepath.FromSlash(target)))
	if err != nil {
		return dest, false
	}
	rel = filepath.ToSlash(rel)
	switch {
	case rel == ".":
		rel = "./"
	case !strings.HasPrefix(rel, "../"):
		rel = "./" + rel
	}
	if strings.HasSuffix(target, "/") && !strings.HasSuffix(rel, "/") {
		rel += "/"
	}
	out := rel + suffix
	return out, out != dest
}

// parseTarget splits "file{a-b}" into its parts. Zero bounds mean open ended.
func parseTarget(target string) (string, int, int, error) {
	m := lineRange.FindStringSubmatchIndex(target)
	if m == nil {
		return target, 0, 0, nil
	}
	file := strings.TrimSpace(target[:m[0]])
	var start, end int
	var err error
	if m[3] > m[2] {
		if start, err = strconv.Atoi(target[m[2]:m[3]]); err != nil {
			return "", 0, 0, err
		}
	}
	if m[5] > m[4] {
		if end, err = strconv.Atoi(target[m[4]:m[5]]); err != nil {
			return "", 0, 0, err
		}
	}
	if end > 0 && start > end {
		return "", 0, 0, fmt.Errorf("line range %d-%d is reversed", start, end)
	}
	return file, start, end, nil
}

// selectLines keeps lines start..end (1-based, inclusive) and drops a final newline so the
// directive line's own terminator is preserved.
func selectLines(data []byte, start, end int) []byte {
	text := strings.TrimSuffix(string(data), "\n")
	text = strings.TrimSuffix(text, "\r")
	if start == 0 && end == 0 {
		return []byte(text)
	}
	lines := strings.SplitAfter(text, "\n")
	if start < 1 {
		start = 1
	}
	if end == 0 || end > len(lines) {
		end = len(lines)
	}
	if start > end {
		return []byte{}
	}
	selected := strings.Join(lines[start-1:end], "")
	selected = strings.TrimSuffix(selected, "\n")
	return []byte(strings.TrimSuffix(selected, "\r"))
}
