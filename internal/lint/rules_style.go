package lint

import (
	"regexp"
	"strings"

	"git.home.luguber.info/inful/docsflow/internal/findings"
)

// TrailingNewlineRule requires non-empty documents to end with a newline.
type TrailingNewlineRule struct{}

func (r *TrailingNewlineRule) ID() string { return "trailing-newline" }

func (r *TrailingNewlineRule) Description() string {
	return "files must end with a newline"
}

func (r *TrailingNewlineRule) Check(doc *Document) []findings.Finding {
	if doc.Text == "" || strings.HasSuffix(doc.Text, "\n") {
		return nil
	}
	return []findings.Finding{doc.finding(r, findings.SeverityError, 0, "file does not end with a newline")}
}

var (
	asteriskBullet = regexp.MustCompile(`^\s*\*\s+\S`)
	thematicBreak  = regexp.MustCompile(`^\s*(?:\*\s*){3,}$`)
)

// ListMarkerRule requires "-" as the bullet list marker.
type ListMarkerRule struct{}

func (r *ListMarkerRule) ID() string { return "list-marker" }

func (r *ListMarkerRule) Description() string {
	return "bullet lists use '-' rather than '*'"
}

func (r *ListMarkerRule) Check(doc *Document) []findings.Finding {
	var out []findings.Finding
	for i, line := range doc.Outline.Lines {
		n := i + 1
		if doc.Outline.InFence(n) || thematicBreak.MatchString(line) || !asteriskBullet.MatchString(line) {
			continue
		}
		out = append(out, doc.finding(r, findings.SeverityWarning, doc.FileLine(n),
			"bullet list item uses '*'; use '-' instead"))
	}
	return out
}
