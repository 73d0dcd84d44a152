package markdown

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/docsite/internal/linkrewrite"
)

const guideSource = `# User guide

Intro with a [source link](/jmeter-java-dsl/src/test/java/PerformanceTest.java).

## Setup

Use [maven](./setup.md#maven).

## Simple HTTP test plan

### Correlations

#### Deep

##### Too deep

## Run test at scale

### BlazeMeter

| a | b |
|---|---|
| 1 | 2 |
`

func TestRenderer_RenderProducesHeadersAndRewrites(t *testing.T) {
	var mu sync.Mutex
	var rewrites []linkrewrite.Rewrite
	r := NewRenderer(RenderOptions{
		Rewriter: linkrewrite.PageRules(linkrewrite.Config{RepoURL: "https://github.com/abstracta/jmeter-java-dsl"}),
		Observers: []linkrewrite.Observer{func(rw linkrewrite.Rewrite) {
			mu.Lock()
			defer mu.Unlock()
			rewrites = append(rewrites, rw)
		}},
	})

	res, err := r.Render([]byte(guideSource), "guide/index.md")
	require.NoError(t, err)

	html := string(res.HTML)
	assert.Equal(t, "User guide", res.Title)
	assert.Contains(t, html, `<h2 id="setup">Setup</h2>`)
	assert.Contains(t, html, `<h2 id="simple-http-test-plan">`)
	assert.Contains(t, html, `href="https://github.com/abstracta/jmeter-java-dsl/tree/master/jmeter-java-dsl/src/test/java/PerformanceTest.java"`)
	assert.Contains(t, html, `href="#maven"`)
	assert.Contains(t, html, "<table>")

	require.Len(t, res.Headers, 3)
	assert.Equal(t, Header{Level: 2, Title: "Setup", Slug: "setup", Link: "#setup", Children: []Header{}}, res.Headers[0])

	plan := res.Headers[1]
	assert.Equal(t, "simple-http-test-plan", plan.Slug)
	require.Len(t, plan.Children, 1)
	assert.Equal(t, "Correlations", plan.Children[0].Title)
	require.Len(t, plan.Children[0].Children, 1)
	assert.Equal(t, 4, plan.Children[0].Children[0].Level)
	assert.Empty(t, plan.Children[0].Children[0].Children, "level 5 is not collected")

	require.Len(t, rewrites, 2)
	assert.Equal(t, "guide/index.md", linkrewrite.DocumentOf(rewrites[0].Env))
}

func TestRenderer_CustomLevelsAndDuplicateSlugs(t *testing.T) {
	r := NewRenderer(RenderOptions{HeaderLevels: []int{2}})

	res, err := r.Render([]byte("## Example\n\n### Sub\n\n## Example\n"), "x.md")
	require.NoError(t, err)

	require.Len(t, res.Headers, 2)
	assert.Equal(t, "example", res.Headers[0].Slug)
	assert.Equal(t, "example-1", res.Headers[1].Slug)
	assert.Empty(t, res.Headers[0].Children)
	assert.Empty(t, res.Title)
}

func TestRenderer_NilRewriterLeavesLinks(t *testing.T) {
	r := NewRenderer(RenderOptions{})
	res, err := r.Render([]byte("[a](/guide/)\n"), "x.md")
	require.NoError(t, err)
	assert.Contains(t, string(res.HTML), `href="/guide/"`)
}

func TestRenderer_HeadingIDsAreScopedPerDocument(t *testing.T) {
	r := NewRenderer(RenderOptions{})
	for range 2 {
		res, err := r.Render([]byte("## Setup\n"), "x.md")
		require.NoError(t, err)
		assert.Equal(t, "setup", res.Headers[0].Slug)
	}
}
