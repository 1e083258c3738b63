// Package lint applies an ordered list of stateless rules to Markdown documents
// and reports the violations as findings.
package lint

import (
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/docsflow/internal/findings"
	"git.home.luguber.info/inful/docsflow/internal/frontmatter"
	"git.home.luguber.info/inful/docsflow/internal/markdown"
)

// Input is one document handed to the linter: an identifier and its full raw
// UTF-8 content, frontmatter included.
type Input struct {
	Path string
	Text string
}

// Rule defines a linting rule applied to a single document.
//
// Rules are stateless: Check depends only on the document, never on another
// rule's outcome, so rules can be tested alone and documents linted in parallel.
type Rule interface {
	// ID returns the stable identifier reported in findings.
	ID() string

	// Description returns a one-line summary of what the rule checks.
	Description() string

	// Check returns the violations found in doc.
	Check(doc *Document) []findings.Finding
}

// Document is the parsed, read-only view of an Input that rules operate on.
type Document struct {
	Path string
	Text string

	// Frontmatter is the split result; when splitting failed, Body holds the
	// whole text and FrontmatterErr is set.
	Frontmatter    frontmatter.Block
	FrontmatterErr error

	// Fields holds the parsed frontmatter (nil when absent or invalid).
	Fields    map[string]any
	FieldsErr error

	Outline *markdown.Outline
	Links   []markdown.Link
}

// NewDocument parses raw text into a Document. It never fails: problems are
// recorded on the Document for rules to report.
func NewDocument(path, text string) *Document {
	doc := &Document{Path: path, Text: text}

	block, err := frontmatter.Split([]byte(text))
	doc.Frontmatter = block
	doc.FrontmatterErr = err

	if block.Present {
		doc.Fields, doc.FieldsErr = frontmatter.ParseYAML(block.Raw)
	}

	doc.Outline = markdown.Scan(block.Body)
	doc.Links = markdown.ExtractLinks(block.Body, markdown.Options{})
	return doc
}

// FileLine converts a 1-based body line into a 1-based file line.
func (d *Document) FileLine(bodyLine int) int {
	if bodyLine <= 0 {
		return 0
	}
	return d.Frontmatter.LineOffset() + bodyLine
}

// finding creates a finding for this document.
func (d *Document) finding(rule Rule, sev findings.Severity, fileLine int, msg string) findings.Finding {
	return findings.Finding{
		FilePath: d.Path,
		Line:     fileLine,
		Severity: sev,
		RuleID:   rule.ID(),
		Message:  msg,
	}
}

// IsDocFile returns true if the file is a Markdown documentation file.
func IsDocFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".md" || ext == ".markdown"
}
