package lint

import (
	"fmt"
	"strings"

	"git.home.luguber.info/inful/docsflow/internal/findings"
)

// HeadingOrderRule requires exactly one top-level heading and forbids skipping
// heading levels on the way down.
type HeadingOrderRule struct{}

func (r *HeadingOrderRule) ID() string { return "heading-order" }

func (r *HeadingOrderRule) Description() string {
	return "exactly one H1 per document; headings never skip a level going deeper"
}

func (r *HeadingOrderRule) Check(doc *Document) []findings.Finding {
	headings := doc.Outline.Headings
	if len(headings) == 0 {
		return []findings.Finding{doc.finding(r, findings.SeverityError, 0,
			"document has no headings; expected exactly one top-level (H1) heading")}
	}

	var out []findings.Finding

	var h1Lines []int
	for _, h := range headings {
		if h.Level == 1 {
			h1Lines = append(h1Lines, h.Line)
		}
	}
	switch {
	case len(h1Lines) == 0:
		out = append(out, doc.finding(r, findings.SeverityError, 0,
			"document has no top-level (H1) heading; expected exactly one"))
	case len(h1Lines) > 1:
		first := doc.FileLine(h1Lines[0])
		for _, line := range h1Lines[1:] {
			out = append(out, doc.finding(r, findings.SeverityError, doc.FileLine(line),
				fmt.Sprintf("found %d top-level (H1) headings, expected exactly one; the first is on line %d",
					len(h1Lines), first)))
		}
	}

	for i := 1; i < len(headings); i++ {
		prev, cur := headings[i-1], headings[i]
		if cur.Level > prev.Level+1 {
			out = append(out, doc.finding(r, findings.SeverityError, doc.FileLine(cur.Line),
				fmt.Sprintf("heading level jumps from H%d (line %d) to H%d (line %d)",
					prev.Level, doc.FileLine(prev.Line), cur.Level, doc.FileLine(cur.Line))))
		}
	}

	return out
}

// RequiredSectionsRule requires configured section titles to appear as top-level
// headings (H1 or H2). Matching is case-insensitive and ignores extra spaces.
type RequiredSectionsRule struct {
	Titles []string
}

func (r *RequiredSectionsRule) ID() string { return "required-sections" }

func (r *RequiredSectionsRule) Description() string {
	return "configured section titles must be present as H1/H2 headings"
}

func (r *RequiredSectionsRule) Check(doc *Document) []findings.Finding {
	if len(r.Titles) == 0 {
		return nil
	}

	present := make(map[string]bool)
	for _, h := range doc.Outline.Headings {
		if h.Level <= 2 {
			present[normalizeTitle(h.Text)] = true
		}
	}

	var out []findings.Finding
	seen := make(map[string]bool)
	for _, title := range r.Titles {
		key := normalizeTitle(title)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		if !present[key] {
			out = append(out, doc.finding(r, findings.SeverityWarning, 0,
				fmt.Sprintf("missing required section %q", strings.TrimSpace(title))))
		}
	}
	return out
}

func normalizeTitle(s string) string {
	s = strings.TrimRight(strings.TrimSpace(s), ":")
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}
