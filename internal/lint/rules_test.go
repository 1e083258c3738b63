package lint

import (
	"fmt"
	"testing"

	"github.com/inful/mdfp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/docsflow/internal/findings"
)

// check runs a single rule against text and returns its findings.
func check(t *testing.T, rule Rule, text string) []findings.Finding {
	t.Helper()
	return rule.Check(NewDocument("docs/page.md", text))
}

func TestHeadingOrderRule(t *testing.T) {
	rule := &HeadingOrderRule{}

	t.Run("level jump", func(t *testing.T) {
		got := check(t, rule, "# Title\n## A\n#### B\n")
		require.Len(t, got, 1)
		assert.Equal(t, "heading-order", got[0].RuleID)
		assert.Equal(t, findings.SeverityError, got[0].Severity)
		assert.Equal(t, 3, got[0].Line)
		assert.Equal(t, "heading level jumps from H2 (line 2) to H4 (line 3)", got[0].Message)
	})

	t.Run("going back up is allowed", func(t *testing.T) {
		assert.Empty(t, check(t, rule, "# Title\n## A\n### B\n## C\n"))
	})

	t.Run("no headings", func(t *testing.T) {
		got := check(t, rule, "Just prose.\n")
		require.Len(t, got, 1)
		assert.Equal(t, 0, got[0].Line)
		assert.False(t, got[0].HasLine())
	})

	t.Run("missing H1", func(t *testing.T) {
		got := check(t, rule, "## Only a section\n")
		require.Len(t, got, 1)
		assert.Contains(t, got[0].Message, "no top-level (H1) heading")
	})

	t.Run("multiple H1", func(t *testing.T) {
		got := check(t, rule, "# One\n\n# Two\n\n# Three\n")
		require.Len(t, got, 2)
		assert.Equal(t, 3, got[0].Line)
		assert.Equal(t, 5, got[1].Line)
	})

	t.Run("setext headings", func(t *testing.T) {
		assert.Empty(t, check(t, rule, "Title\n=====\n\nSection\n-------\n"))
	})

	t.Run("headings inside code are ignored", func(t *testing.T) {
		assert.Empty(t, check(t, rule, "# Title\n\n```sh\n#### not a heading\n```\n"))
	})

	t.Run("frontmatter shifts lines", func(t *testing.T) {
		got := check(t, rule, "---\ntitle: x\n---\n# T\n## A\n#### B\n")
		require.Len(t, got, 1)
		assert.Equal(t, 6, got[0].Line)
		assert.Equal(t, "heading level jumps from H2 (line 5) to H4 (line 6)", got[0].Message)
	})
}

func TestRequiredSectionsRule(t *testing.T) {
	rule := &RequiredSectionsRule{Titles: []string{"Overview", "Usage", "usage"}}

	got := check(t, rule, "# Title\n## overview:\n### Usage\n")
	require.Len(t, got, 1)
	assert.Equal(t, findings.SeverityWarning, got[0].Severity)
	assert.Equal(t, `missing required section "Usage"`, got[0].Message)

	assert.Empty(t, check(t, rule, "# Title\n\n## Overview\n\n## USAGE\n"))
	assert.Empty(t, check(t, &RequiredSectionsRule{}, "no headings\n"))
}

func TestCodeBlockLanguageRule(t *testing.T) {
	rule := &CodeBlockLanguageRule{}

	got := check(t, rule, "# T\n\n```\ncode\n```\n\n~~~python\nx = 1\n~~~\n")
	require.Len(t, got, 1)
	assert.Equal(t, 3, got[0].Line)
	assert.Equal(t, "fenced code block opened with ``` has no language tag", got[0].Message)

	assert.Empty(t, check(t, rule, "# T\n\n````md\n```\ninner\n```\n````\n"))
}

func TestUnclosedCodeBlockRule(t *testing.T) {
	rule := &UnclosedCodeBlockRule{}

	got := check(t, rule, "# T\n\n```go\nfunc main() {}\n")
	require.Len(t, got, 1)
	assert.Equal(t, findings.SeverityError, got[0].Severity)
	assert.Equal(t, 3, got[0].Line)

	// A shorter run does not close a longer fence.
	got = check(t, rule, "# T\n\n````md\n```\n")
	require.Len(t, got, 1)
	assert.Contains(t, got[0].Message, "````")

	assert.Empty(t, check(t, rule, "# T\n\n```go\nx\n```\n"))
}

func TestLinkTextRule(t *testing.T) {
	rule := NewLinkTextRule(DefaultLinkDenyList)

	got := check(t, rule, "# T\n\nSee [click here](https://example.com/a).\n\n[Read More!](b.md)\n\n[Installation guide](install.md)\n")
	require.Len(t, got, 2)
	assert.Equal(t, 3, got[0].Line)
	assert.Contains(t, got[0].Message, `"click here"`)
	assert.Contains(t, got[0].Message, "https://example.com/a")
	assert.Equal(t, 5, got[1].Line)

	got = check(t, rule, "# T\n\n[](empty.md)\n")
	require.Len(t, got, 1)
	assert.Equal(t, `link to "empty.md" has no visible text`, got[0].Message)

	// Full-width and case variants normalise onto the deny-list.
	got = check(t, rule, "# T\n\n[ＨＥＲＥ](x.md)\n")
	require.Len(t, got, 1)

	custom := NewLinkTextRule([]string{"docs"})
	assert.Len(t, check(t, custom, "# T\n\n[Docs](x.md) and [here](y.md)\n"), 1)
}

func TestImageAltTextRule(t *testing.T) {
	rule := &ImageAltTextRule{}

	got := check(t, rule, "# T\n\n![](img/diagram.png)\n\n![Architecture](img/arch.png)\n")
	require.Len(t, got, 1)
	assert.Equal(t, "missing-alt-text", got[0].RuleID)
	assert.Equal(t, `image "img/diagram.png" has no alt text`, got[0].Message)
}

func TestTextlessLinksReportTheirOwnLine(t *testing.T) {
	text := "---\ntitle: T\n---\n# Title\n\nfirst line of paragraph\nsecond line\nthird with ![](diagram.png)\nsee [](guide.md)\n"

	got := check(t, &ImageAltTextRule{}, text)
	require.Len(t, got, 1)
	assert.Equal(t, 8, got[0].Line)

	got = check(t, NewLinkTextRule(DefaultLinkDenyList), text)
	require.Len(t, got, 1)
	assert.Equal(t, `link to "guide.md" has no visible text`, got[0].Message)
	assert.Equal(t, 9, got[0].Line)
}

func TestBrokenLinkRule(t *testing.T) {
	rule := NewBrokenLinkRule([]string{"docs/page.md", "docs/guide/setup.md", "./docs/index.md", "README.md"})

	text := "# T\n\n" +
		"[Setup](guide/setup.md#install) and [Home](./index.md)\n" +
		"[Readme](../README.md) and [Spaced](guide/setup%2Emd)\n" +
		"[Missing](missing.md)\n" +
		"[Deep](guide/../guide/gone.markdown?x=1)\n" +
		"[Site](https://example.com/x.md) [Abs](/docs/page.md) [Anchor](#top) [Img](pic.png)\n" +
		"`[Code](nowhere.md)`\n"
	got := check(t, rule, text)
	require.Len(t, got, 2, "%v", got)
	assert.Equal(t, "broken-link", got[0].RuleID)
	assert.Equal(t, findings.SeverityError, got[0].Severity)
	assert.Equal(t, 5, got[0].Line)
	assert.Equal(t, `broken internal link "missing.md": docs/missing.md does not exist`, got[0].Message)
	assert.Equal(t, 6, got[1].Line)
	assert.Contains(t, got[1].Message, "docs/guide/gone.markdown")

	assert.Empty(t, check(t, NewBrokenLinkRule(nil), text), "nil known paths disables the check")
}

func TestBarePathRule(t *testing.T) {
	rule := &BarePathRule{}

	got := check(t, rule, "# T\n\nEdit config/settings.yaml now.\n")
	require.Len(t, got, 1)
	assert.Equal(t, findings.SeverityInfo, got[0].Severity)
	assert.Equal(t, 3, got[0].Line)
	assert.Equal(t, `path "config/settings.yaml" should be wrapped in backticks`, got[0].Message)

	got = check(t, rule, "# T\n\nRun ./scripts/build and open README.md or __init__.py.\n")
	var paths []string
	for _, f := range got {
		paths = append(paths, f.Message)
	}
	assert.Equal(t, []string{
		`path "./scripts/build" should be wrapped in backticks`,
		`path "README.md" should be wrapped in backticks`,
		`path "__init__.py" should be wrapped in backticks`,
	}, paths)

	clean := []string{
		"# T\n\nEdit `config/settings.yaml` now.\n",
		"# T\n\nSee [the settings](config/settings.yaml).\n",
		"# T\n\nVisit https://example.com/docs/index.html today.\n",
		"# T\n\n```yaml\nfile: config/settings.yaml\n```\n",
		"# T\n\n    indented/code/path.txt\n",
		"# T\n\nThis and/or that, version 1.2.3 and e.g. this.\n",
		"# T\n\n[ref]: docs/guide.md\n",
		"# T\n\nMail me@example.com for help.\n",
	}
	for _, text := range clean {
		assert.Empty(t, check(t, rule, text), text)
	}
}

func TestTrailingNewlineRule(t *testing.T) {
	rule := &TrailingNewlineRule{}

	got := check(t, rule, "# T")
	require.Len(t, got, 1)
	assert.Equal(t, findings.SeverityError, got[0].Severity)
	assert.Equal(t, 0, got[0].Line)

	assert.Empty(t, check(t, rule, "# T\n"))
	assert.Empty(t, check(t, rule, ""))
}

func TestListMarkerRule(t *testing.T) {
	rule := &ListMarkerRule{}

	got := check(t, rule, "# T\n\n* item\n- ok\n  * nested\n\n* * *\n\n**bold** text\n\n```md\n* in code\n```\n")
	require.Len(t, got, 2)
	assert.Equal(t, 3, got[0].Line)
	assert.Equal(t, 5, got[1].Line)
	assert.Equal(t, findings.SeverityWarning, got[0].Severity)
}

func TestFrontmatterRule(t *testing.T) {
	rule := &FrontmatterRule{}

	t.Run("unterminated", func(t *testing.T) {
		got := check(t, rule, "---\ntitle: x\n# T\n")
		require.Len(t, got, 1)
		assert.Equal(t, 1, got[0].Line)
		assert.Equal(t, findings.SeverityError, got[0].Severity)
	})

	t.Run("invalid yaml", func(t *testing.T) {
		got := check(t, rule, "---\ntitle: ok\ntags: [a\n---\n# T\n")
		require.Len(t, got, 1)
		assert.Greater(t, got[0].Line, 1)
		assert.Contains(t, got[0].Message, "frontmatter is not valid YAML")
	})

	t.Run("valid", func(t *testing.T) {
		assert.Empty(t, check(t, rule, "---\ntitle: ok\n---\n# T\n"))
		assert.Empty(t, check(t, rule, "# T\n"))
	})
}

func TestFrontmatterFingerprintRule(t *testing.T) {
	rule := &FrontmatterFingerprintRule{}
	body := "# Guide\n\nSome text.\n"

	fp, err := ComputeFingerprint(map[string]any{"title": "Guide", "lastmod": "2024-01-01"}, []byte(body))
	require.NoError(t, err)
	require.NotEmpty(t, fp)

	doc := func(body string) string {
		return fmt.Sprintf("---\ntitle: Guide\n%s: %q\nlastmod: \"2025-02-02\"\n---\n%s", mdfp.FingerprintField, fp, body)
	}

	assert.Empty(t, check(t, rule, doc(body)), "lastmod must not affect the fingerprint")

	got := check(t, rule, doc("# Guide\n\nEdited text.\n"))
	require.Len(t, got, 1)
	assert.Equal(t, findings.SeverityWarning, got[0].Severity)
	assert.Equal(t, 3, got[0].Line)
	assert.Contains(t, got[0].Message, fp)

	assert.Empty(t, check(t, rule, "---\ntitle: Guide\n---\n"+body), "documents without a fingerprint are not checked")
}
