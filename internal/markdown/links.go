package markdown

// Options controls how Markdown is parsed for internal analysis.
//
// For now this is intentionally small; it exists so we can evolve parsing behavior
// (extensions/settings) without rewriting call sites.
type Options struct{}

type LinkKind string

const (
	LinkKindInline LinkKind = "inline"
	LinkKindImage  LinkKind = "image"
	LinkKindAuto   LinkKind = "auto"
)

// Link is a link-like construct found in a Markdown body.
type Link struct {
	Kind        LinkKind
	Destination string
	// Text is the visible text (alt text for images).
	Text string
	// Line is the 1-based body line where the link starts.
	Line int
}
