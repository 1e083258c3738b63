package lint

import (
	"fmt"

	"git.home.luguber.info/inful/docsflow/internal/findings"
)

// CodeBlockLanguageRule requires fenced code blocks to declare a language.
type CodeBlockLanguageRule struct{}

func (r *CodeBlockLanguageRule) ID() string { return "code-block-language" }

func (r *CodeBlockLanguageRule) Description() string {
	return "fenced code blocks must declare a language tag"
}

func (r *CodeBlockLanguageRule) Check(doc *Document) []findings.Finding {
	var out []findings.Finding
	for _, f := range doc.Outline.Fences {
		if f.Language() != "" {
			continue
		}
		out = append(out, doc.finding(r, findings.SeverityWarning, doc.FileLine(f.OpenLine),
			fmt.Sprintf("fenced code block opened with %s has no language tag", f.Token)))
	}
	return out
}

// UnclosedCodeBlockRule reports fences that are still open at the end of the
// document; everything after them renders as code.
type UnclosedCodeBlockRule struct{}

func (r *UnclosedCodeBlockRule) ID() string { return "unclosed-code-block" }

func (r *UnclosedCodeBlockRule) Description() string {
	return "every fenced code block must be closed with the same delimiter"
}

func (r *UnclosedCodeBlockRule) Check(doc *Document) []findings.Finding {
	var out []findings.Finding
	for _, f := range doc.Outline.Fences {
		if f.Closed() {
			continue
		}
		out = append(out, doc.finding(r, findings.SeverityError, doc.FileLine(f.OpenLine),
			fmt.Sprintf("code block opened with %s is never closed", f.Token)))
	}
	return out
}
