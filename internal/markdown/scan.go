package markdown

import (
	"regexp"
	"strings"
)

// Fence is a fenced code block found by Scan.
type Fence struct {
	OpenLine  int    // 1-based body line of the opening delimiter
	CloseLine int    // 1-based body line of the closing delimiter, 0 if unclosed
	Token     string // exact delimiter run, e.g. "```" or "~~~~"
	Info      string // info string after the opening delimiter (language tag first)
}

// Closed reports whether a matching closing delimiter was found.
func (f Fence) Closed() bool { return f.CloseLine > 0 }

// Language returns the first word of the info string.
func (f Fence) Language() string {
	if fields := strings.Fields(f.Info); len(fields) > 0 {
		return fields[0]
	}
	return ""
}

// Heading is an ATX or setext heading outside fenced code.
type Heading struct {
	Level int
	Text  string
	Line  int
}

// Outline is the line-level structure of a Markdown body.
type Outline struct {
	Lines    []string
	Fences   []Fence
	Headings []Heading
	fenced   []bool
}

var (
	atxHeading    = regexp.MustCompile(`^ {0,3}(#{1,6})(?:[ \t]+(.*?))?[ \t]*$`)
	atxClosing    = regexp.MustCompile(`(?:^|[ \t]+)#+$`)
	setextLine    = regexp.MustCompile(`^ {0,3}(=+|-+)[ \t]*$`)
	listItemStart = regexp.MustCompile(`^\s*(?:[-*+]|\d+[.)])(?:\s|$)`)
)

// Scan splits body into lines and records fenced code blocks and headings.
//
// A fence opens on any run of three or more backticks or tildes (indented at
// most three spaces) and closes only on a line starting with the exact same
// run. Other delimiter lines inside the block are plain text, which is how a
// ``` block nests inside a ```` block.
func Scan(body []byte) *Outline {
	lines := strings.Split(string(body), "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}

	o := &Outline{Lines: lines, fenced: make([]bool, len(lines))}

	var open *Fence
	for i, line := range lines {
		n := i + 1
		token, info, isFence := fenceDelimiter(line)

		if open != nil {
			o.fenced[i] = true
			if isFence && token == open.Token {
				open.CloseLine = n
				o.Fences = append(o.Fences, *open)
				open = nil
			}
			continue
		}

		if isFence && !(token[0] == '`' && strings.Contains(info, "`")) {
			open = &Fence{OpenLine: n, Token: token, Info: info}
			o.fenced[i] = true
			continue
		}

		if h, ok := atxHeadingAt(line, n); ok {
			o.Headings = append(o.Headings, h)
			continue
		}
		if h, ok := o.setextHeadingAt(i); ok {
			o.Headings = append(o.Headings, h)
		}
	}
	if open != nil {
		o.Fences = append(o.Fences, *open)
	}

	return o
}

// InFence reports whether the 1-based body line belongs to a fenced block,
// delimiters included.
func (o *Outline) InFence(line int) bool {
	if line < 1 || line > len(o.fenced) {
		return false
	}
	return o.fenced[line-1]
}

func fenceDelimiter(line string) (token, info string, ok bool) {
	indent := len(line) - len(strings.TrimLeft(line, " "))
	if indent > 3 {
		return "", "", false
	}
	rest := line[indent:]
	if rest == "" || (rest[0] != '`' && rest[0] != '~') {
		return "", "", false
	}
	run := len(rest) - len(strings.TrimLeft(rest, rest[:1]))
	if run < 3 {
		return "", "", false
	}
	return rest[:run], strings.TrimSpace(rest[run:]), true
}

func atxHeadingAt(line string, n int) (Heading, bool) {
	m := atxHeading.FindStringSubmatch(line)
	if m == nil {
		return Heading{}, false
	}
	title := strings.TrimSpace(atxClosing.ReplaceAllString(m[2], ""))
	return Heading{Level: len(m[1]), Text: title, Line: n}, true
}

// setextHeadingAt treats an `===` or `---` underline as a heading when the line
// above is paragraph text.
func (o *Outline) setextHeadingAt(i int) (Heading, bool) {
	m := setextLine.FindStringSubmatch(o.Lines[i])
	if m == nil || i == 0 {
		return Heading{}, false
	}
	prev := o.Lines[i-1]
	if strings.TrimSpace(prev) == "" || o.fenced[i-1] || listItemStart.MatchString(prev) ||
		atxHeading.MatchString(prev) || setextLine.MatchString(prev) ||
		strings.HasPrefix(prev, "    ") || strings.HasPrefix(strings.TrimSpace(prev), ">") {
		return Heading{}, false
	}
	level := 2
	if m[1][0] == '=' {
		level = 1
	}
	return Heading{Level: level, Text: strings.TrimSpace(prev), Line: i}, true
}

// MaskInlineCode replaces inline code spans in a single line with spaces,
// keeping byte offsets stable. Unterminated spans are left untouched.
func MaskInlineCode(line string) string {
	b := []byte(line)
	for i := 0; i < len(b); {
		if b[i] != '`' {
			i++
			continue
		}
		run := 1
		for i+run < len(b) && b[i+run] == '`' {
			run++
		}
		delim := strings.Repeat("`", run)
		end := -1
		for j := i + run; j < len(b); {
			k := strings.Index(string(b[j:]), delim)
			if k < 0 {
				break
			}
			k += j
			after := k + run
			if after < len(b) && b[after] == '`' {
				// Longer run; not our closer.
				for after < len(b) && b[after] == '`' {
					after++
				}
				j = after
				continue
			}
			end = after
			break
		}
		if end < 0 {
			i += run
			continue
		}
		for k := i; k < end; k++ {
			b[k] = ' '
		}
		i = end
	}
	return string(b)
}
