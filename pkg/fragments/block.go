package fragments

import (
	"fmt"
	"strconv"
	"strings"
)

// Block is one block of a structured text.
type Block interface {
	Element
	isBlock()
}

// TextBlock is the content shared by every textual block.
type TextBlock struct {
	Text  string
	Spans []Span
	Label string
}

func (TextBlock) isElement() {}
func (TextBlock) isBlock()   {}

// Heading is a title block of level 1 to 6.
type Heading struct {
	TextBlock
	Level int
}

// Paragraph is a plain paragraph.
type Paragraph struct{ TextBlock }

// Preformatted is a paragraph whose whitespace is significant.
type Preformatted struct{ TextBlock }

// ListItem is an item of an ordered or unordered list.
type ListItem struct {
	TextBlock
	Ordered bool
}

// ImageBlock is an image inside a structured text.
type ImageBlock struct {
	View  *View
	Label string
}

func (*ImageBlock) isElement() {}
func (*ImageBlock) isBlock()   {}

// EmbedBlock is an oEmbed inside a structured text.
type EmbedBlock struct {
	Embed *Embed
	Label string
}

func (*EmbedBlock) isElement() {}
func (*EmbedBlock) isBlock()   {}

// textBlockOf returns the textual part of b, or nil for media blocks.
func textBlockOf(b Block) *TextBlock {
	switch b := b.(type) {
	case *Heading:
		return &b.TextBlock
	case *Paragraph:
		return &b.TextBlock
	case *Preformatted:
		return &b.TextBlock
	case *ListItem:
		return &b.TextBlock
	}
	return nil
}

type wireBlock struct {
	Type  string     `json:"type"`
	Text  string     `json:"text"`
	Spans []wireSpan `json:"spans"`
	Label string     `json:"label"`
}

func parseBlock(r *Registry, raw []byte) (Block, error) {
	var w wireBlock
	if err := json.Unmarshal(raw, &w); err != nil {
		return nil, fmt.Errorf("block: %w", err)
	}
	text := func() TextBlock {
		tb := TextBlock{Text: w.Text, Label: w.Label, Spans: make([]Span, 0, len(w.Spans))}
		for _, s := range w.Spans {
			tb.Spans = append(tb.Spans, parseSpan(r, s))
		}
		return tb
	}
	switch {
	case strings.HasPrefix(w.Type, "heading"):
		level, err := strconv.Atoi(strings.TrimPrefix(w.Type, "heading"))
		if err != nil || level < 1 || level > 6 {
			return nil, nil
		}
		return &Heading{TextBlock: text(), Level: level}, nil
	case w.Type == "paragraph":
		return &Paragraph{text()}, nil
	case w.Type == "preformatted":
		return &Preformatted{text()}, nil
	case w.Type == "list-item":
		return &ListItem{TextBlock: text()}, nil
	case w.Type == "o-list-item":
		return &ListItem{TextBlock: text(), Ordered: true}, nil
	case w.Type == "image":
		v, err := parseView(r, raw)
		if err != nil {
			return nil, err
		}
		return &ImageBlock{View: v, Label: w.Label}, nil
	case w.Type == "embed":
		e, err := parseEmbed(raw)
		if err != nil {
			return nil, err
		}
		return &EmbedBlock{Embed: e, Label: w.Label}, nil
	}
	return nil, nil
}
