package lint

import (
	"fmt"
	"path"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"

	"git.home.luguber.info/inful/docsflow/internal/findings"
	"git.home.luguber.info/inful/docsflow/internal/markdown"
)

// DefaultLinkDenyList holds link texts that carry no information about the target.
var DefaultLinkDenyList = []string{
	"click here",
	"here",
	"this link",
	"link",
	"read more",
	"more",
	"this",
}

// LinkTextRule flags links whose visible text is a low-information phrase.
type LinkTextRule struct {
	deny map[string]bool
}

// NewLinkTextRule creates the rule for the given deny-list; entries are matched
// after the same normalisation applied to link text.
func NewLinkTextRule(denyList []string) *LinkTextRule {
	deny := make(map[string]bool, len(denyList))
	for _, phrase := range denyList {
		if key := normalizeLinkText(phrase); key != "" {
			deny[key] = true
		}
	}
	return &LinkTextRule{deny: deny}
}

func (r *LinkTextRule) ID() string { return "link-text" }

func (r *LinkTextRule) Description() string {
	return "link text must describe its target (no \"click here\")"
}

func (r *LinkTextRule) Check(doc *Document) []findings.Finding {
	var out []findings.Finding
	for _, l := range doc.Links {
		if l.Kind != markdown.LinkKindInline {
			continue
		}
		line := doc.FileLine(l.Line)
		if strings.TrimSpace(l.Text) == "" {
			out = append(out, doc.finding(r, findings.SeverityWarning, line,
				fmt.Sprintf("link to %q has no visible text", l.Destination)))
			continue
		}
		if r.deny[normalizeLinkText(l.Text)] {
			out = append(out, doc.finding(r, findings.SeverityWarning, line,
				fmt.Sprintf("link text %q (target %q) is not descriptive; describe where the link goes",
					l.Text, l.Destination)))
		}
	}
	return out
}

// normalizeLinkText applies NFKC, Unicode case folding, whitespace collapsing
// and strips trailing punctuation.
func normalizeLinkText(s string) string {
	s = cases.Fold().String(norm.NFKC.String(s))
	s = strings.Join(strings.Fields(s), " ")
	return strings.TrimRightFunc(s, unicode.IsPunct)
}

// ImageAltTextRule requires images to carry alternative text.
type ImageAltTextRule struct{}

func (r *ImageAltTextRule) ID() string { return "missing-alt-text" }

func (r *ImageAltTextRule) Description() string {
	return "images must have alt text"
}

func (r *ImageAltTextRule) Check(doc *Document) []findings.Finding {
	var out []findings.Finding
	for _, l := range doc.Links {
		if l.Kind != markdown.LinkKindImage || strings.TrimSpace(l.Text) != "" {
			continue
		}
		out = append(out, doc.finding(r, findings.SeverityWarning, doc.FileLine(l.Line),
			fmt.Sprintf("image %q has no alt text", l.Destination)))
	}
	return out
}

var (
	inlineLinkPattern = regexp.MustCompile(`!?\[[^\]]*\](?:\([^)]*\)|\[[^\]]*\])`)
	refDefPattern     = regexp.MustCompile(`^\s{0,3}\[[^\]]+\]:\s*\S+`)
	htmlTagPattern    = regexp.MustCompile(`<[^>\s][^>]*>`)
	urlPattern        = regexp.MustCompile(`[A-Za-z][A-Za-z0-9+.-]*://\S+`)
	pathCharsPattern  = regexp.MustCompile(`^[A-Za-z0-9_.~@+/-]+$`)

	pathExtensions = map[string]bool{
		"md": true, "markdown": true, "yml": true, "yaml": true, "json": true, "toml": true,
		"txt": true, "sh": true, "py": true, "go": true, "mod": true, "sum": true,
		"conf": true, "cfg": true, "ini": true, "env": true, "html": true, "css": true,
		"png": true, "jpg": true, "jpeg": true, "gif": true, "svg": true, "pdf": true,
		"zip": true, "xml": true, "lock": true, "log": true, "tf": true, "sql": true, "csv": true,
	}
)

// BarePathRule flags file and directory names written as plain prose; they
// belong in backticks.
type BarePathRule struct{}

func (r *BarePathRule) ID() string { return "bare-path" }

func (r *BarePathRule) Description() string {
	return "file paths outside code should be wrapped in backticks"
}

func (r *BarePathRule) Check(doc *Document) []findings.Finding {
	var out []findings.Finding
	for i, line := range doc.Outline.Lines {
		n := i + 1
		if doc.Outline.InFence(n) || isIndentedCode(line) || refDefPattern.MatchString(line) {
			continue
		}
		for _, tok := range pathTokens(line) {
			out = append(out, doc.finding(r, findings.SeverityInfo, doc.FileLine(n),
				fmt.Sprintf("path %q should be wrapped in backticks", tok)))
		}
	}
	return out
}

func isIndentedCode(line string) bool {
	return strings.HasPrefix(line, "    ") || strings.HasPrefix(line, "\t")
}

// pathTokens returns path-like tokens of a prose line, skipping inline code,
// links, HTML and URLs.
func pathTokens(line string) []string {
	line = markdown.MaskInlineCode(line)
	line = inlineLinkPattern.ReplaceAllString(line, " ")
	line = htmlTagPattern.ReplaceAllString(line, " ")
	line = urlPattern.ReplaceAllString(line, " ")

	var out []string
	for _, field := range strings.Fields(line) {
		tok := strings.Trim(field, "\"'()[]{},;:!?*")
		tok = strings.TrimRight(tok, ".")
		if isPathLike(tok) {
			out = append(out, tok)
		}
	}
	return out
}

func isPathLike(tok string) bool {
	if tok == "" || !pathCharsPattern.MatchString(tok) || strings.Contains(tok, "@") {
		return false
	}
	if !strings.ContainsFunc(tok, unicode.IsLetter) {
		return false
	}

	if strings.Contains(tok, "/") {
		return strings.HasPrefix(tok, "./") || strings.HasPrefix(tok, "../") ||
			strings.HasPrefix(tok, "/") || strings.HasPrefix(tok, "~/") ||
			strings.HasSuffix(tok, "/") || strings.Count(tok, "/") >= 2 ||
			hasKnownExtension(tok)
	}
	return hasKnownExtension(tok)
}

func hasKnownExtension(tok string) bool {
	ext := strings.ToLower(strings.TrimPrefix(path.Ext(tok), "."))
	base := strings.TrimSuffix(path.Base(tok), path.Ext(tok))
	return pathExtensions[ext] && base != ""
}
