package site

import (
	"bytes"
	"html"
	"html/template"
	"regexp"
	"sort"
	"strings"

	"git.home.luguber.info/inful/docsite/internal/config"
	"git.home.luguber.info/inful/docsite/internal/foundation/errors"
	"git.home.luguber.info/inful/docsite/internal/markdown"
)

const layoutSource = `<!DOCTYPE html>
<html lang="{{.Lang}}">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width,initial-scale=1">
<title>{{.Title}}{{if ne .Title .SiteTitle}} | {{.SiteTitle}}{{end}}</title>
{{- with .Description}}
<meta name="description" content="{{.}}">
{{- end}}
{{.HeadTags}}
</head>
<body>
<div class="theme-container" data-page-key="{{.Key}}">
<header class="navbar">
<a class="home-link" href="{{withBase "/"}}">
{{- with .Logo}}<img class="logo" src="{{withBase .}}" alt="{{$.SiteTitle}}">{{end -}}
<span class="site-name">{{.SiteTitle}}</span></a>
<nav class="navbar-items">
{{- range .Navbar}}
<a class="navbar-item{{range .Icon}} {{.}}{{end}}" href="{{withBase .Link}}"{{if isExternal .Link}} target="_blank" rel="noopener noreferrer"{{end}}>{{if .Text}}{{.Text}}{{else}}{{.Link}}{{end}}</a>
{{- end}}
</nav>
</header>
{{- if .Sidebar}}
<aside class="sidebar">
{{template "headers" .Sidebar}}
</aside>
{{- end}}
<main class="page">
<div class="theme-default-content">
{{.Content}}
</div>
</main>
</div>
</body>
</html>
{{define "headers"}}<ul class="sidebar-items">
{{- range .}}
<li><a class="sidebar-item" href="{{.Link}}">{{.Title}}</a>{{if .Children}}{{template "headers" .Children}}{{end}}</li>
{{- end}}
</ul>{{end}}
`

var tagName = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9-]*$`)

// voidTags never carry content or a closing tag.
var voidTags = map[string]bool{"base": true, "link": true, "meta": true}

type layoutData struct {
	Key         string
	Lang        string
	Title       string
	SiteTitle   string
	Description string
	HeadTags    template.HTML
	Logo        string
	Navbar      []config.NavLink
	Sidebar     []markdown.Header
	Content     template.HTML
}

// Layout wraps rendered page content into a complete HTML document.
type Layout struct {
	tmpl         *template.Template
	site         config.SiteConfig
	logo         string
	navbar       []config.NavLink
	sidebarDepth int
	head         template.HTML
}

// NewLayout parses the page template for the given site configuration.
func NewLayout(cfg *config.Config) (*Layout, error) {
	head, err := renderHeadTags(cfg.Site.Head)
	if err != nil {
		return nil, err
	}
	base := cfg.Site.Base
	tmpl, err := template.New("layout").Funcs(template.FuncMap{
		"withBase":   func(link string) string { return withBase(base, link) },
		"isExternal": isExternal,
	}).Parse(layoutSource)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryInternal, "failed to parse layout").Build()
	}
	return &Layout{
		tmpl:         tmpl,
		site:         cfg.Site,
		logo:         cfg.Theme.Logo,
		navbar:       cfg.Theme.Navbar,
		sidebarDepth: cfg.Theme.SidebarDepthValue(),
		head:         head,
	}, nil
}

// Render produces the HTML document of p.
func (l *Layout) Render(p *Page) ([]byte, error) {
	data := layoutData{
		Key:         p.Key,
		Lang:        p.Lang,
		Title:       p.Title,
		SiteTitle:   l.site.Title,
		Description: l.site.Description,
		HeadTags:    l.head,
		Logo:        l.logo,
		Navbar:      l.navbar,
		Sidebar:     limitDepth(p.Headers, l.sidebarDepth),
		Content:     template.HTML(p.Content), // #nosec G203 -- rendered from trusted docs sources
	}
	var buf bytes.Buffer
	if err := l.tmpl.Execute(&buf, data); err != nil {
		return nil, errors.WrapError(err, errors.CategoryBuild, "failed to render layout").
			ForPage(p.Source).
			Build()
	}
	return buf.Bytes(), nil
}

// limitDepth trims the headers tree to depth levels; 0 removes the sidebar.
func limitDepth(headers []markdown.Header, depth int) []markdown.Header {
	if depth <= 0 || len(headers) == 0 {
		return nil
	}
	out := make([]markdown.Header, len(headers))
	for i, h := range headers {
		h.Children = limitDepth(h.Children, depth-1)
		out[i] = h
	}
	return out
}

func withBase(base, link string) string {
	if !strings.HasPrefix(link, "/") || strings.HasPrefix(link, "//") {
		return link
	}
	return strings.TrimSuffix(base, "/") + link
}

func isExternal(link string) bool {
	return strings.HasPrefix(link, "http://") || strings.HasPrefix(link, "https://") || strings.HasPrefix(link, "//")
}

func renderHeadTags(tags []config.HeadTag) (template.HTML, error) {
	var b strings.Builder
	for _, t := range tags {
		if !tagName.MatchString(t.Tag) {
			return "", errors.ValidationError("invalid head tag name").
				WithContext("tag", t.Tag).
				Build()
		}
		keys := make([]string, 0, len(t.Attrs))
		for k := range t.Attrs {
			if !tagName.MatchString(k) {
				return "", errors.ValidationError("invalid head tag attribute").
					WithContext("tag", t.Tag).
					WithContext("attribute", k).
					Build()
			}
			keys = append(keys, k)
		}
		sort.Strings(keys)

		b.WriteString("<" + t.Tag)
		for _, k := range keys {
			b.WriteString(" " + k + `="` + html.EscapeString(t.Attrs[k]) + `"`)
		}
		b.WriteString(">")
		if !voidTags[strings.ToLower(t.Tag)] {
			b.WriteString(html.EscapeString(t.Content))
			b.WriteString("</" + t.Tag + ">")
		}
		b.WriteString("\n")
	}
	return template.HTML(b.String()), nil // #nosec G203 -- names validated, values escaped
}
