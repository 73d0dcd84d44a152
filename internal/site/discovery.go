package site

import (
	"io/fs"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"git.home.luguber.info/inful/docsite/internal/foundation/errors"
)

// Patterns selects page sources. Include patterns match the slash-separated path relative
// to the docs root; exclude names ("!name") drop any file or directory with that name.
type Patterns struct {
	include []string
	exclude []string
}

// ParsePatterns splits configured patterns into include globs and exclude names.
func ParsePatterns(raw []string) Patterns {
	var p Patterns
	for _, r := range raw {
		r = strings.TrimSpace(r)
		switch {
		case r == "":
		case strings.HasPrefix(r, "!"):
			p.exclude = append(p.exclude, strings.Trim(r[1:], "/"))
		default:
			p.include = append(p.include, r)
		}
	}
	return p
}

// Excluded reports whether a single path segment is excluded.
func (p Patterns) Excluded(name string) bool {
	for _, ex := range p.exclude {
		if ok, _ := path.Match(ex, name); ok {
			return true
		}
	}
	return false
}

// Match reports whether rel (slash-separated, relative to the root) is a page.
func (p Patterns) Match(rel string) bool {
	for _, seg := range strings.Split(rel, "/") {
		if p.Excluded(seg) {
			return false
		}
	}
	for _, inc := range p.include {
		if matchGlob(inc, rel) {
			return true
		}
	}
	return false
}

// matchGlob is path.Match plus a leading "**/" matching any number of directories.
func matchGlob(pattern, rel string) bool {
	if rest, ok := strings.CutPrefix(pattern, "**/"); ok {
		for {
			if matchGlob(rest, rel) {
				return true
			}
			i := strings.IndexByte(rel, '/')
			if i < 0 {
				return false
			}
			rel = rel[i+1:]
		}
	}
	ok, _ := path.Match(pattern, rel)
	return ok
}

// Discover walks root and returns the sorted relative paths of markdown pages.
func Discover(root string, patterns Patterns) ([]string, error) {
	var pages []string
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if p == root {
			return nil
		}
		if patterns.Excluded(d.Name()) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || !strings.EqualFold(filepath.Ext(p), ".md") {
			return nil
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if patterns.Match(rel) {
			pages = append(pages, rel)
		}
		return nil
	})
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "failed to discover pages").
			WithContext("root", root).
			Build()
	}
	sort.Strings(pages)
	return pages, nil
}
