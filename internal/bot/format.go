package bot

import (
	"fmt"
	"html"
	"strconv"
	"strings"
	"unicode/utf8"

	"contentkit/pkg/fragments"
	"contentkit/pkg/prismic"
)

// MaxMessageLength is the longest text Telegram accepts in one message.
const MaxMessageLength = 4096

// TelegramFormatter renders documents in the HTML subset understood by
// Telegram: <b>, <i>, <a> and <pre>.
type TelegramFormatter struct {
	Resolver fragments.LinkResolver
}

// NewTelegramFormatter returns a formatter resolving document links with
// resolver.
func NewTelegramFormatter(resolver fragments.LinkResolver) *TelegramFormatter {
	return &TelegramFormatter{Resolver: resolver}
}

// Title returns the main heading of doc, falling back to its type and id.
func Title(doc *prismic.Document) string {
	for _, name := range doc.Fields() {
		if st, ok := doc.Get(name).(*fragments.StructuredText); ok {
			if h := st.Title(); h != nil {
				return h.Text
			}
		}
	}
	return doc.Type + " " + doc.ID
}

// Format renders doc and splits the result into messages.
func (f *TelegramFormatter) Format(doc *prismic.Document) []string {
	parts := []string{"<b>" + html.EscapeString(Title(doc)) + "</b>"}
	parts = append(parts, f.container(doc.Container)...)
	if url := f.Resolver(doc.AsLink()); url != "" {
		parts = append(parts, `<a href="`+html.EscapeString(url)+`">Open</a>`)
	}
	return Split(strings.Join(parts, "\n\n"), MaxMessageLength)
}

func (f *TelegramFormatter) container(c *fragments.Container) []string {
	var parts []string
	for _, name := range c.Fields() {
		if s := f.fragment(c.Get(name)); s != "" {
			parts = append(parts, s)
		}
	}
	return parts
}

func (f *TelegramFormatter) fragment(frag fragments.Fragment) string {
	switch v := frag.(type) {
	case *fragments.StructuredText:
		return f.structuredText(v)
	case *fragments.Image:
		return f.view(v.Main)
	case fragments.Link:
		url := v.Resolve(f.Resolver)
		return `<a href="` + html.EscapeString(url) + `">` + html.EscapeString(url) + `</a>`
	case *fragments.Embed:
		return f.embed(v)
	case *fragments.GeoPoint:
		return fmt.Sprintf("%f, %f", v.Latitude, v.Longitude)
	case *fragments.Group:
		var parts []string
		for _, entry := range v.Value {
			parts = append(parts, f.container(entry)...)
		}
		return strings.Join(parts, "\n\n")
	case *fragments.SliceZone:
		var parts []string
		for _, s := range v.Slices {
			switch s := s.(type) {
			case *fragments.SimpleSlice:
				if s.Body != nil {
					parts = append(parts, f.fragment(s.Body))
				}
			case *fragments.CompositeSlice:
				parts = append(parts, f.container(s.NonRepeat)...)
				if s.Repeat != nil {
					parts = append(parts, f.fragment(s.Repeat))
				}
			}
		}
		return strings.Join(parts, "\n\n")
	case fmt.Stringer:
		return html.EscapeString(v.String())
	}
	return ""
}

func (f *TelegramFormatter) structuredText(st *fragments.StructuredText) string {
	var sb strings.Builder
	ordinal := 0
	for i, b := range st.Blocks {
		_, isItem := b.(*fragments.ListItem)
		if i > 0 {
			_, prevItem := st.Blocks[i-1].(*fragments.ListItem)
			if isItem && prevItem {
				sb.WriteString("\n")
			} else {
				sb.WriteString("\n\n")
			}
		}
		if !isItem {
			ordinal = 0
		}

		switch b := b.(type) {
		case *fragments.Heading:
			sb.WriteString("<b>" + f.spans(&b.TextBlock) + "</b>")
		case *fragments.Paragraph:
			sb.WriteString(f.spans(&b.TextBlock))
		case *fragments.Preformatted:
			sb.WriteString("<pre>" + html.EscapeString(b.Text) + "</pre>")
		case *fragments.ListItem:
			if !b.Ordered {
				ordinal = 0
			}
			if b.Ordered {
				ordinal++
				sb.WriteString(strconv.Itoa(ordinal) + ". ")
			} else {
				sb.WriteString("• ")
			}
			sb.WriteString(f.spans(&b.TextBlock))
		case *fragments.ImageBlock:
			sb.WriteString(f.view(b.View))
		case *fragments.EmbedBlock:
			sb.WriteString(f.embed(b.Embed))
		}
	}
	return sb.String()
}

func (f *TelegramFormatter) spans(tb *fragments.TextBlock) string {
	return fragments.SpansAsHTML(tb.Text, tb.Spans, f.Resolver, f.serialize)
}

// serialize maps spans onto Telegram tags. Labels have no Telegram
// equivalent and keep only their content.
func (f *TelegramFormatter) serialize(element fragments.Element, content string) (string, bool) {
	switch e := element.(type) {
	case *fragments.Em:
		return "<i>" + content + "</i>", true
	case *fragments.Strong:
		return "<b>" + content + "</b>", true
	case *fragments.Hyperlink:
		if e.Link == nil {
			return content, true
		}
		return `<a href="` + html.EscapeString(e.Link.Resolve(f.Resolver)) + `">` + content + `</a>`, true
	case *fragments.LabelSpan:
		return content, true
	}
	return "", false
}

func (f *TelegramFormatter) view(v *fragments.View) string {
	if v == nil {
		return ""
	}
	label := v.Alt
	if label == "" {
		label = "image"
	}
	return `<a href="` + html.EscapeString(v.URL) + `">` + html.EscapeString(label) + `</a>`
}

func (f *TelegramFormatter) embed(e *fragments.Embed) string {
	if e == nil {
		return ""
	}
	label := e.Provider
	if label == "" {
		label = e.URL
	}
	return `<a href="` + html.EscapeString(e.URL) + `">` + html.EscapeString(label) + `</a>`
}

// Split cuts text into chunks of at most limit characters, preferring
// paragraph then line boundaries. A single line longer than limit is cut
// at the limit.
func Split(text string, limit int) []string {
	if utf8.RuneCountInString(text) <= limit {
		return []string{text}
	}
	var chunks []string
	var current strings.Builder
	currentLen := 0

	flush := func() {
		if currentLen > 0 {
			// Telegram rejects empty messages.
			if chunk := strings.TrimRight(current.String(), "\n"); chunk != "" {
				chunks = append(chunks, chunk)
			}
			current.Reset()
			currentLen = 0
		}
	}

	for _, line := range strings.SplitAfter(text, "\n") {
		n := utf8.RuneCountInString(line)
		if currentLen+n > limit {
			flush()
		}
		for n > limit {
			runes := []rune(line)
			chunks = append(chunks, string(runes[:limit]))
			line = string(runes[limit:])
			n -= limit
		}
		current.WriteString(line)
		currentLen += n
	}
	flush()
	return chunks
}
