package fragments

import (
	jsoniter "github.com/json-iterator/go"
)

// Span is an inline annotation over the [Start, End) code point range of a
// text block.
type Span interface {
	Element
	Bounds() (start, end int)
}

// SpanBounds holds the code point offsets of a span.
type SpanBounds struct {
	Start int
	End   int
}

// Bounds implements Span.
func (b SpanBounds) Bounds() (start, end int) { return b.Start, b.End }

func (SpanBounds) isElement() {}

// Em is emphasised text.
type Em struct{ SpanBounds }

// Strong is strongly emphasised text.
type Strong struct{ SpanBounds }

// Hyperlink links the covered text. Link is nil when the link payload
// could not be understood.
type Hyperlink struct {
	SpanBounds
	Link Link
}

// LabelSpan tags the covered text with a custom label, rendered as a CSS
// class.
type LabelSpan struct {
	SpanBounds
	Label string
}

type wireSpan struct {
	Type  string              `json:"type"`
	Start int                 `json:"start"`
	End   int                 `json:"end"`
	Data  jsoniter.RawMessage `json:"data"`
}

func parseSpan(r *Registry, w wireSpan) Span {
	bounds := SpanBounds{Start: w.Start, End: w.End}
	switch w.Type {
	case "em":
		return &Em{bounds}
	case "strong":
		return &Strong{bounds}
	case "hyperlink":
		h := &Hyperlink{SpanBounds: bounds}
		if l := parseLink(r, w.Data); l != nil {
			h.Link = l
		} else {
			log().WithField("span_type", w.Type).Warn("Hyperlink span without a usable link")
		}
		return h
	default:
		var data struct {
			Label string `json:"label"`
		}
		if !isNull(w.Data) {
			if err := json.Unmarshal(w.Data, &data); err != nil {
				log().WithError(err).WithField("span_type", w.Type).Debug("Ignoring span data")
			}
		}
		if w.Type != "label" {
			log().WithField("span_type", w.Type).Debug("Unknown span type, rendering as label")
		}
		return &LabelSpan{SpanBounds: bounds, Label: data.Label}
	}
}
