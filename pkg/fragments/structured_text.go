package fragments

import (
	"strconv"
	"strings"

	jsoniter "github.com/json-iterator/go"
)

// StructuredText is rich text made of blocks.
type StructuredText struct {
	Blocks []Block
}

func newStructuredText(r *Registry, value []byte) (Fragment, error) {
	var raws []jsoniter.RawMessage
	if err := json.Unmarshal(value, &raws); err != nil {
		return nil, err
	}
	st := &StructuredText{Blocks: make([]Block, 0, len(raws))}
	for _, raw := range raws {
		b, err := parseBlock(r, raw)
		if err != nil {
			log().WithError(err).Warn("Skipping malformed block")
			continue
		}
		if b == nil {
			log().WithField("block_type", jsoniter.Get(raw, "type").ToString()).Warn("Block type not found")
			continue
		}
		st.Blocks = append(st.Blocks, b)
	}
	return st, nil
}

// Title returns the heading of the highest level, the first one on ties.
func (st *StructuredText) Title() *Heading {
	var title *Heading
	for _, b := range st.Blocks {
		if h, ok := b.(*Heading); ok && (title == nil || h.Level < title.Level) {
			title = h
		}
	}
	return title
}

// FirstParagraph returns the first paragraph block, or nil.
func (st *StructuredText) FirstParagraph() *Paragraph {
	for _, b := range st.Blocks {
		if p, ok := b.(*Paragraph); ok {
			return p
		}
	}
	return nil
}

// FirstImage returns the view of the first image block, or nil.
func (st *StructuredText) FirstImage() *View {
	for _, b := range st.Blocks {
		if img, ok := b.(*ImageBlock); ok {
			return img.View
		}
	}
	return nil
}

// PlainText joins the text of every textual block with newlines. It
// reports false when there is no textual block.
func (st *StructuredText) PlainText() (string, bool) {
	var parts []string
	for _, b := range st.Blocks {
		if tb := textBlockOf(b); tb != nil {
			parts = append(parts, tb.Text)
		}
	}
	return strings.Join(parts, "\n"), len(parts) > 0
}

// blockGroup is a run of blocks sharing a list wrapper. tag is empty for a
// single non list block.
type blockGroup struct {
	tag    string
	blocks []Block
}

func groupBlocks(blocks []Block) []blockGroup {
	var groups []blockGroup
	for _, b := range blocks {
		tag := ""
		if li, ok := b.(*ListItem); ok {
			tag = "ul"
			if li.Ordered {
				tag = "ol"
			}
		}
		if n := len(groups); tag != "" && n > 0 && groups[n-1].tag == tag {
			groups[n-1].blocks = append(groups[n-1].blocks, b)
			continue
		}
		groups = append(groups, blockGroup{tag: tag, blocks: []Block{b}})
	}
	return groups
}

// AsHTML implements Fragment.
func (st *StructuredText) AsHTML(resolver LinkResolver, serializer HTMLSerializer) string {
	requireResolver(resolver)
	var sb strings.Builder
	for _, g := range groupBlocks(st.Blocks) {
		if g.tag != "" {
			sb.WriteString("<" + g.tag + ">")
		}
		for _, b := range g.blocks {
			sb.WriteString(blockAsHTML(b, resolver, serializer))
		}
		if g.tag != "" {
			sb.WriteString("</" + g.tag + ">")
		}
	}
	return sb.String()
}

func blockAsHTML(b Block, resolver LinkResolver, serializer HTMLSerializer) string {
	var content string
	switch b := b.(type) {
	case *ImageBlock:
		content = b.View.AsHTML(resolver)
	case *EmbedBlock:
		content = b.Embed.HTML
	default:
		if tb := textBlockOf(b); tb != nil {
			content = SpansAsHTML(tb.Text, tb.Spans, resolver, serializer)
		}
	}
	if serializer != nil {
		if html, ok := serializer(b, content); ok {
			return html
		}
	}
	switch b := b.(type) {
	case *Heading:
		tag := "h" + strconv.Itoa(b.Level)
		return "<" + tag + classAttr(b.Label) + ">" + content + "</" + tag + ">"
	case *Paragraph:
		return "<p" + classAttr(b.Label) + ">" + content + "</p>"
	case *Preformatted:
		return "<pre" + classAttr(b.Label) + ">" + content + "</pre>"
	case *ListItem:
		return "<li" + classAttr(b.Label) + ">" + content + "</li>"
	case *ImageBlock:
		return `<p` + classAttr("block-img", b.Label) + `>` + content + `</p>`
	case *EmbedBlock:
		return b.Embed.wrap(content, b.Label)
	}
	return ""
}
