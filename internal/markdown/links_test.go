package markdown

import (
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/docsite/internal/linkrewrite"
)

func TestExtractLinks_InlineLink(t *testing.T) {
	links, err := ExtractLinks([]byte("See [API](api.md) for details."), Options{})
	require.NoError(t, err)
	require.Len(t, links, 1)
	require.Equal(t, LinkKindInline, links[0].Kind)
	require.Equal(t, "api.md", links[0].Destination)
	require.Equal(t, "api.md", links[0].Rewritten)
	require.Empty(t, links[0].Rule)
}

func TestExtractLinks_ImageLink(t *testing.T) {
	links, err := ExtractLinks([]byte("![Diagram](diagram.png)"), Options{})
	require.NoError(t, err)
	require.Len(t, links, 1)
	require.Equal(t, LinkKindImage, links[0].Kind)
	require.Equal(t, "diagram.png", links[0].Destination)
}

func TestExtractLinks_AutoLink(t *testing.T) {
	links, err := ExtractLinks([]byte("<https://example.com/path>"), Options{})
	require.NoError(t, err)
	require.Len(t, links, 1)
	require.Equal(t, LinkKindAuto, links[0].Kind)
	require.Equal(t, "https://example.com/path", links[0].Destination)
}

func TestExtractLinks_ReferenceLinkUsageAndDefinition(t *testing.T) {
	src := []byte("See [API][ref].\n\n[ref]: api.md\n")
	links, err := ExtractLinks(src, Options{})
	require.NoError(t, err)

	require.Len(t, links, 2)
	require.Equal(t, LinkKindInline, links[0].Kind)
	require.Equal(t, "api.md", links[0].Destination)
	require.Equal(t, LinkKindReferenceDefinition, links[1].Kind)
	require.Equal(t, "api.md", links[1].Destination)
}

func TestExtractLinks_SkipsInlineCodeAndCodeBlocks(t *testing.T) {
	src := []byte("" +
		"Inline code: `[Link](./ignored-inline.md)`\n" +
		"\n" +
		"```\n" +
		"[Link](./ignored-fence.md)\n" +
		"```\n" +
		"\n" +
		"Real: [OK](./real.md)\n")

	links, err := ExtractLinks(src, Options{})
	require.NoError(t, err)
	require.Len(t, links, 1)
	require.Equal(t, "./real.md", links[0].Destination)
}

func TestExtractLinks_ReportsRewrites(t *testing.T) {
	rw := linkrewrite.PageRules(linkrewrite.Config{RepoURL: "https://github.com/abstracta/jmeter-java-dsl"})
	src := []byte("[test](/src/Test.java) [sec](./setup.md#maven) [keep](./x.md)\n")

	links, err := ExtractLinks(src, Options{Rewriter: rw})
	require.NoError(t, err)
	require.Len(t, links, 3)

	require.Equal(t, "https://github.com/abstracta/jmeter-java-dsl/tree/master/src/Test.java", links[0].Rewritten)
	require.Equal(t, linkrewrite.RuleRepoRoot, links[0].Rule)
	require.Equal(t, "#maven", links[1].Rewritten)
	require.Equal(t, linkrewrite.RuleIncludedRelative, links[1].Rule)
	require.Equal(t, "./x.md", links[2].Rewritten)
	require.Equal(t, linkrewrite.RuleIncludedRelative, links[2].Rule)
}
