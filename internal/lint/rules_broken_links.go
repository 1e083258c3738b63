package lint

import (
	"fmt"
	"net/url"
	"path"
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/docsflow/internal/findings"
	"git.home.luguber.info/inful/docsflow/internal/markdown"
)

// BrokenLinkRule reports relative links to Markdown documents that are not in
// the known document set. Targets resolve against the linking document's
// directory. A nil set disables the rule.
type BrokenLinkRule struct {
	known map[string]bool
}

// NewBrokenLinkRule creates the rule for the given document paths. Paths use
// the same form as Input.Path.
func NewBrokenLinkRule(known []string) *BrokenLinkRule {
	if known == nil {
		return &BrokenLinkRule{}
	}
	set := make(map[string]bool, len(known))
	for _, p := range known {
		set[cleanDocPath(p)] = true
	}
	return &BrokenLinkRule{known: set}
}

func (r *BrokenLinkRule) ID() string { return "broken-link" }

func (r *BrokenLinkRule) Description() string {
	return "relative links to Markdown documents must point at existing documents"
}

func (r *BrokenLinkRule) Check(doc *Document) []findings.Finding {
	if r.known == nil {
		return nil
	}
	var out []findings.Finding
	for _, l := range doc.Links {
		if l.Kind != markdown.LinkKindInline {
			continue
		}
		target, ok := linkedDocument(l.Destination)
		if !ok {
			continue
		}
		resolved := cleanDocPath(path.Join(path.Dir(filepath.ToSlash(doc.Path)), target))
		if r.known[resolved] {
			continue
		}
		out = append(out, doc.finding(r, findings.SeverityError, doc.FileLine(l.Line),
			fmt.Sprintf("broken internal link %q: %s does not exist", l.Destination, resolved)))
	}
	return out
}

// linkedDocument returns the relative Markdown path a link destination points
// at, without anchor or query. URLs, site-absolute paths and non-Markdown
// targets are not document links.
func linkedDocument(dest string) (string, bool) {
	dest = strings.TrimSpace(dest)
	if dest == "" || strings.HasPrefix(dest, "#") || strings.HasPrefix(dest, "/") {
		return "", false
	}
	if u, err := url.Parse(dest); err != nil || u.Scheme != "" || u.Host != "" {
		return "", false
	}
	if i := strings.IndexAny(dest, "#?"); i >= 0 {
		dest = dest[:i]
	}
	if unescaped, err := url.PathUnescape(dest); err == nil {
		dest = unescaped
	}
	lower := strings.ToLower(dest)
	if !strings.HasSuffix(lower, ".md") && !strings.HasSuffix(lower, ".markdown") {
		return "", false
	}
	return dest, true
}

func cleanDocPath(p string) string {
	return strings.TrimPrefix(path.Clean(filepath.ToSlash(p)), "./")
}
