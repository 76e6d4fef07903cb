package fragments

import (
	"errors"
	"strings"
)

// ErrNilLinkResolver is the panic value raised when rendering is attempted
// without a link resolver.
var ErrNilLinkResolver = errors.New("fragments: link resolver must be a non-nil function")

// LinkResolver turns a document link into the URL it should point to.
type LinkResolver func(link *DocumentLink) string

// Element is a structured-text block or span, as handed to an HTMLSerializer.
// The concrete types are *Heading, *Paragraph, *Preformatted, *ListItem,
// *ImageBlock and *EmbedBlock for blocks, and *Em, *Strong, *Hyperlink and
// *LabelSpan for spans.
type Element interface {
	isElement()
}

// HTMLSerializer overrides the markup of a single element. content is the
// already rendered inner HTML of the element. Returning false keeps the
// built-in markup.
type HTMLSerializer func(element Element, content string) (string, bool)

func requireResolver(resolver LinkResolver) {
	if resolver == nil {
		panic(ErrNilLinkResolver)
	}
}

var (
	textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	attrEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")
)

func escapeText(s string) string {
	return textEscaper.Replace(s)
}

func escapeAttr(s string) string {
	return attrEscaper.Replace(s)
}

// writeEscapedRune appends r to sb, escaping the characters that are
// significant in HTML text.
func writeEscapedRune(sb *strings.Builder, r rune) {
	switch r {
	case '&':
		sb.WriteString("&amp;")
	case '<':
		sb.WriteString("&lt;")
	case '>':
		sb.WriteString("&gt;")
	default:
		sb.WriteRune(r)
	}
}

func classAttr(classes ...string) string {
	var names []string
	for _, c := range classes {
		if c != "" {
			names = append(names, c)
		}
	}
	if len(names) == 0 {
		return ""
	}
	return ` class="` + escapeAttr(strings.Join(names, " ")) + `"`
}
