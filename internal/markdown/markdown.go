package markdown

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// ExtractLinks parses a Markdown body and extracts link-like constructs with
// their visible text and body line.
//
// This is an analysis API; it does not attempt to re-render Markdown.
func ExtractLinks(body []byte, _ Options) []Link {
	root := goldmark.New().Parser().Parse(text.NewReader(body))

	links := make([]Link, 0)
	_ = gmast.Walk(root, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}

		switch node := n.(type) {
		case *gmast.AutoLink:
			url := string(node.URL(body))
			links = append(links, Link{
				Kind:        LinkKindAuto,
				Destination: url,
				Text:        string(node.Label(body)),
				Line:        nodeLine(node, body),
			})
		case *gmast.Image:
			links = append(links, Link{
				Kind:        LinkKindImage,
				Destination: string(node.Destination),
				Text:        inlineText(node, body),
				Line:        nodeLine(node, body),
			})
			return gmast.WalkSkipChildren, nil
		case *gmast.Link:
			// Goldmark resolves reference-style links to a Link node with a Destination.
			links = append(links, Link{
				Kind:        LinkKindInline,
				Destination: string(node.Destination),
				Text:        inlineText(node, body),
				Line:        nodeLine(node, body),
			})
		}
		return gmast.WalkContinue, nil
	})

	return links
}

func inlineText(n gmast.Node, source []byte) string {
	var buf bytes.Buffer
	collectText(n, source, &buf)
	return strings.TrimSpace(buf.String())
}

func collectText(n gmast.Node, source []byte, buf *bytes.Buffer) {
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch t := c.(type) {
		case *gmast.Text:
			buf.Write(t.Segment.Value(source))
			if t.SoftLineBreak() || t.HardLineBreak() {
				buf.WriteByte(' ')
			}
		case *gmast.String:
			buf.Write(t.Value)
		default:
			collectText(c, source, buf)
		}
	}
}

// nodeLine returns the body line an inline node starts on. Nodes without text
// of their own (an image with empty alt text, a link with empty text) are
// located from the text that precedes them in the same block.
func nodeLine(n gmast.Node, source []byte) int {
	if t := firstText(n); t != nil {
		return lineAt(source, t.Segment.Start)
	}
	for c := n; c != nil && c.Type() != gmast.TypeBlock; c = c.Parent() {
		for s := c.PreviousSibling(); s != nil; s = s.PreviousSibling() {
			t := lastText(s)
			if t == nil {
				continue
			}
			line := lineAt(source, t.Segment.Stop)
			if t.SoftLineBreak() || t.HardLineBreak() {
				line++
			}
			return line
		}
	}
	for p := n.Parent(); p != nil; p = p.Parent() {
		if p.Type() == gmast.TypeBlock && p.Lines().Len() > 0 {
			return lineAt(source, p.Lines().At(0).Start)
		}
	}
	return 1
}

func firstText(n gmast.Node) *gmast.Text {
	var found *gmast.Text
	_ = gmast.Walk(n, func(c gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if t, ok := c.(*gmast.Text); ok && entering {
			found = t
			return gmast.WalkStop, nil
		}
		return gmast.WalkContinue, nil
	})
	return found
}

func lastText(n gmast.Node) *gmast.Text {
	var found *gmast.Text
	_ = gmast.Walk(n, func(c gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if t, ok := c.(*gmast.Text); ok && entering {
			found = t
		}
		return gmast.WalkContinue, nil
	})
	return found
}

func lineAt(source []byte, offset int) int {
	if offset > len(source) {
		offset = len(source)
	}
	if offset < 0 {
		offset = 0
	}
	return 1 + bytes.Count(source[:offset], []byte("\n"))
}
