package site

import (
	"encoding/json"
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/docsite/internal/config"
	"git.home.luguber.info/inful/docsite/internal/foundation/errors"
	"git.home.luguber.info/inful/docsite/internal/markdown"
)

const assetsDir = "assets"

// PageData is the client-side data of a page.
type PageData struct {
	Key              string            `json:"key"`
	Path             string            `json:"path"`
	Title            string            `json:"title"`
	Lang             string            `json:"lang"`
	Frontmatter      map[string]any    `json:"frontmatter"`
	Headers          []markdown.Header `json:"headers"`
	FilePathRelative string            `json:"filePathRelative"`
}

// SiteData is the client-side data shared by every page.
type SiteData struct {
	Base         string           `json:"base"`
	Lang         string           `json:"lang"`
	Title        string           `json:"title"`
	Description  string           `json:"description"`
	Head         []config.HeadTag `json:"head"`
	Navbar       []config.NavLink `json:"navbar"`
	Logo         string           `json:"logo,omitempty"`
	SidebarDepth int              `json:"sidebarDepth"`
}

func (p *Page) Data() PageData {
	headers := p.Headers
	if headers == nil {
		headers = []markdown.Header{}
	}
	fm := p.Frontmatter
	if fm == nil {
		fm = map[string]any{}
	}
	return PageData{
		Key:              p.Key,
		Path:             p.Route,
		Title:            p.Title,
		Lang:             p.Lang,
		Frontmatter:      fm,
		Headers:          headers,
		FilePathRelative: p.Source,
	}
}

func siteDataFrom(cfg *config.Config) SiteData {
	head := cfg.Site.Head
	if head == nil {
		head = []config.HeadTag{}
	}
	navbar := cfg.Theme.Navbar
	if navbar == nil {
		navbar = []config.NavLink{}
	}
	return SiteData{
		Base:         cfg.Site.Base,
		Lang:         cfg.Site.Lang,
		Title:        cfg.Site.Title,
		Description:  cfg.Site.Description,
		Head:         head,
		Navbar:       navbar,
		Logo:         cfg.Theme.Logo,
		SidebarDepth: cfg.Theme.SidebarDepthValue(),
	}
}

func writeJSON(outDir, name string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errors.WrapError(err, errors.CategoryInternal, "failed to encode page data").
			WithContext("file", name).
			Build()
	}
	return writeFile(filepath.Join(outDir, assetsDir, name), data)
}

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil { //nolint:gosec // public site output
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to create output directory").
			WithContext("path", filepath.Dir(path)).
			Build()
	}
	if err := os.WriteFile(path, data, 0o644); err != nil { //nolint:gosec // public site output
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to write output file").
			WithContext("path", path).
			Build()
	}
	return nil
}
