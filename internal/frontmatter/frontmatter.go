// Package frontmatter separates a leading YAML frontmatter block from a Markdown
// document and parses it.
package frontmatter

import (
	"bytes"
	"errors"
	"regexp"
	"strconv"

	"gopkg.in/yaml.v3"
)

// ErrMissingClosingDelimiter indicates the document started with a YAML
// frontmatter delimiter but did not contain a closing delimiter.
var ErrMissingClosingDelimiter = errors.New("yaml frontmatter start delimiter found but closing delimiter is missing")

// Block is a Markdown document split into its frontmatter and body.
type Block struct {
	// Raw is the YAML between the delimiters (nil when Present is false).
	Raw []byte
	// Body is everything after the closing delimiter, or the whole input.
	Body []byte
	// Present reports whether the document opened with a frontmatter block.
	Present bool
	// Newline is the detected line terminator ("\n" or "\r\n").
	Newline string
}

// LineOffset returns how many file lines precede the body, so that
// fileLine = LineOffset() + bodyLine.
func (b Block) LineOffset() int {
	if !b.Present {
		return 0
	}
	// opening delimiter + raw lines + closing delimiter
	return 2 + bytes.Count(b.Raw, []byte("\n"))
}

// Split separates YAML frontmatter (`---` delimited) from the Markdown body.
//
// A document that does not start with a delimiter line is returned whole as the
// body. A document that opens a block but never closes it returns
// ErrMissingClosingDelimiter together with a Block whose Body is the full input.
func Split(content []byte) (Block, error) {
	nl := detectNewline(content)
	whole := Block{Body: content, Newline: nl}

	open := []byte("---" + nl)
	if !bytes.HasPrefix(content, open) {
		return whole, nil
	}

	start := len(open)
	if bytes.HasPrefix(content[start:], open) {
		return Block{Raw: []byte{}, Body: content[start+len(open):], Present: true, Newline: nl}, nil
	}

	closeSeq := []byte(nl + "---" + nl)
	idx := bytes.Index(content[start:], closeSeq)
	if idx < 0 {
		// Tolerate a closing delimiter on the very last line without a newline.
		closeEOF := []byte(nl + "---")
		if bytes.HasSuffix(content, closeEOF) && len(content)-len(closeEOF) >= start {
			end := len(content) - len(closeEOF) + len(nl)
			return Block{Raw: content[start:end], Body: []byte{}, Present: true, Newline: nl}, nil
		}
		return whole, ErrMissingClosingDelimiter
	}

	end := start + idx + len(nl)
	return Block{
		Raw:     content[start:end],
		Body:    content[start+idx+len(closeSeq):],
		Present: true,
		Newline: nl,
	}, nil
}

// ParseYAML parses raw YAML frontmatter (without --- delimiters) into a map.
func ParseYAML(raw []byte) (map[string]any, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return map[string]any{}, nil
	}

	var fields map[string]any
	if err := yaml.Unmarshal(raw, &fields); err != nil {
		return nil, err
	}
	if fields == nil {
		fields = map[string]any{}
	}
	return fields, nil
}

var yamlErrorLine = regexp.MustCompile(`line (\d+)`)

// ErrorLine extracts the 1-based line number yaml.v3 reports in a parse or
// decode error, relative to the parsed input.
func ErrorLine(err error) (int, bool) {
	if err == nil {
		return 0, false
	}
	m := yamlErrorLine.FindStringSubmatch(err.Error())
	if m == nil {
		return 0, false
	}
	n, convErr := strconv.Atoi(m[1])
	if convErr != nil || n < 1 {
		return 0, false
	}
	return n, true
}

func detectNewline(content []byte) string {
	if i := bytes.IndexByte(content, '\n'); i > 0 && content[i-1] == '\r' {
		return "\r\n"
	}
	return "\n"
}
