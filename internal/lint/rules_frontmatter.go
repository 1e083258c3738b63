package lint

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/inful/mdfp"

	"git.home.luguber.info/inful/docsflow/internal/findings"
	"git.home.luguber.info/inful/docsflow/internal/frontmatter"
)

// FrontmatterRule reports frontmatter blocks that are unterminated or not valid
// YAML mappings.
type FrontmatterRule struct{}

func (r *FrontmatterRule) ID() string { return "frontmatter" }

func (r *FrontmatterRule) Description() string {
	return "YAML frontmatter must be closed and parse as a mapping"
}

func (r *FrontmatterRule) Check(doc *Document) []findings.Finding {
	if errors.Is(doc.FrontmatterErr, frontmatter.ErrMissingClosingDelimiter) {
		return []findings.Finding{doc.finding(r, findings.SeverityError, 1,
			"frontmatter opened with '---' on line 1 is never closed")}
	}
	if doc.FieldsErr == nil {
		return nil
	}

	line := 1
	if n, ok := frontmatter.ErrorLine(doc.FieldsErr); ok {
		line = 1 + n
	}
	return []findings.Finding{doc.finding(r, findings.SeverityError, line,
		fmt.Sprintf("frontmatter is not valid YAML: %v", doc.FieldsErr))}
}

// Fields excluded from the content fingerprint: they change when the
// fingerprint does, or carry identity rather than content.
var fingerprintExcluded = []string{mdfp.FingerprintField, "lastmod", "uid", "aliases"}

// FrontmatterFingerprintRule verifies a content fingerprint stored in the
// frontmatter, when present. Documents without one are not checked.
//
// It uses github.com/inful/mdfp over the canonical frontmatter (see
// frontmatter.Canonical) and the body.
type FrontmatterFingerprintRule struct{}

func (r *FrontmatterFingerprintRule) ID() string { return "frontmatter-fingerprint" }

func (r *FrontmatterFingerprintRule) Description() string {
	return "a frontmatter fingerprint, when present, must match the content"
}

func (r *FrontmatterFingerprintRule) Check(doc *Document) []findings.Finding {
	if doc.Fields == nil {
		return nil
	}
	raw, ok := doc.Fields[mdfp.FingerprintField]
	if !ok {
		return nil
	}
	line := doc.fieldLine(mdfp.FingerprintField)

	stored, ok := raw.(string)
	if !ok {
		return []findings.Finding{doc.finding(r, findings.SeverityWarning, line,
			fmt.Sprintf("frontmatter field %q must be a string, got %T", mdfp.FingerprintField, raw))}
	}

	expected, err := ComputeFingerprint(doc.Fields, doc.Frontmatter.Body)
	if err != nil {
		return []findings.Finding{doc.finding(r, findings.SeverityInfo, line,
			fmt.Sprintf("cannot compute content fingerprint: %v", err))}
	}
	if strings.TrimSpace(stored) == expected {
		return nil
	}
	return []findings.Finding{doc.finding(r, findings.SeverityWarning, line,
		fmt.Sprintf("frontmatter fingerprint %q does not match the content (expected %q)", stored, expected))}
}

// ComputeFingerprint computes the canonical content fingerprint of a document
// from its frontmatter fields and body.
func ComputeFingerprint(fields map[string]any, body []byte) (string, error) {
	hashed := make(map[string]any, len(fields))
	for k, v := range fields {
		hashed[k] = v
	}
	for _, k := range fingerprintExcluded {
		delete(hashed, k)
	}

	canonical, err := frontmatter.Canonical(hashed)
	if err != nil {
		return "", err
	}
	fm := strings.TrimSuffix(string(canonical), "\n")
	return mdfp.CalculateFingerprintFromParts(fm, string(body)), nil
}

// fieldLine returns the file line of a top-level frontmatter key, or 1.
func (d *Document) fieldLine(key string) int {
	for i, line := range bytes.Split(d.Frontmatter.Raw, []byte("\n")) {
		if bytes.HasPrefix(line, []byte(key+":")) {
			return i + 2
		}
	}
	return 1
}
