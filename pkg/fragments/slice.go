package fragments

import (
	"errors"
	"fmt"
	"strings"

	jsoniter "github.com/json-iterator/go"
)

// ErrMalformedSlice reports a slice-zone entry carrying neither a "value"
// nor "repeat"/"non-repeat" members.
var ErrMalformedSlice = errors.New("malformed slice")

// Slice is one entry of a slice zone.
type Slice interface {
	Fragment
	SliceType() string
	SliceLabel() string
}

// SimpleSlice is the legacy slice shape: a single fragment as body.
type SimpleSlice struct {
	Type  string
	Label string
	Body  Fragment
}

// SliceType implements Slice.
func (s *SimpleSlice) SliceType() string { return s.Type }

// SliceLabel implements Slice.
func (s *SimpleSlice) SliceLabel() string { return s.Label }

// AsHTML implements Fragment.
func (s *SimpleSlice) AsHTML(resolver LinkResolver, serializer HTMLSerializer) string {
	body := ""
	if s.Body != nil {
		body = s.Body.AsHTML(resolver, serializer)
	}
	return sliceWrap(s.Type, s.Label, body)
}

// CompositeSlice has a non-repeatable zone and a repeatable group.
type CompositeSlice struct {
	Type      string
	Label     string
	NonRepeat *Container
	Repeat    *Group
}

// SliceType implements Slice.
func (s *CompositeSlice) SliceType() string { return s.Type }

// SliceLabel implements Slice.
func (s *CompositeSlice) SliceLabel() string { return s.Label }

// AsHTML implements Fragment.
func (s *CompositeSlice) AsHTML(resolver LinkResolver, serializer HTMLSerializer) string {
	return sliceWrap(s.Type, s.Label, s.NonRepeat.AsHTML(resolver, serializer)+s.Repeat.AsHTML(resolver, serializer))
}

func sliceWrap(sliceType, label, body string) string {
	return `<div data-slicetype="` + escapeAttr(sliceType) + `"` + classAttr("slice", label) + `>` + body + `</div>`
}

// SliceZone is an ordered list of slices.
type SliceZone struct {
	Slices []Slice
}

type wireSlice struct {
	SliceType  string              `json:"slice_type"`
	SliceLabel string              `json:"slice_label"`
	Value      jsoniter.RawMessage `json:"value"`
	NonRepeat  jsoniter.RawMessage `json:"non-repeat"`
	Repeat     jsoniter.RawMessage `json:"repeat"`
}

func parseSlice(r *Registry, raw []byte) (Slice, error) {
	var w wireSlice
	if err := json.Unmarshal(raw, &w); err != nil {
		return nil, fmt.Errorf("slice: %w", err)
	}
	switch {
	case !isNull(w.NonRepeat) || !isNull(w.Repeat):
		repeat := &Group{}
		if !isNull(w.Repeat) {
			f, err := newGroup(r, w.Repeat)
			if err != nil {
				return nil, fmt.Errorf("slice %s repeat: %w", w.SliceType, err)
			}
			repeat = f.(*Group)
		}
		return &CompositeSlice{
			Type:      w.SliceType,
			Label:     w.SliceLabel,
			NonRepeat: r.ParseFields("", w.NonRepeat),
			Repeat:    repeat,
		}, nil
	case !isNull(w.Value):
		return &SimpleSlice{
			Type:  w.SliceType,
			Label: w.SliceLabel,
			Body:  r.FromJSON(w.Value),
		}, nil
	default:
		return nil, fmt.Errorf("slice %q: %w", w.SliceType, ErrMalformedSlice)
	}
}

func newSliceZone(r *Registry, value []byte) (Fragment, error) {
	var entries []jsoniter.RawMessage
	if err := json.Unmarshal(value, &entries); err != nil {
		return nil, fmt.Errorf("slice zone: %w", err)
	}
	z := &SliceZone{Slices: make([]Slice, 0, len(entries))}
	for i, e := range entries {
		s, err := parseSlice(r, e)
		if err != nil {
			log().WithError(err).WithField("index", i).Warn("Skipping slice")
			continue
		}
		z.Slices = append(z.Slices, s)
	}
	return z, nil
}

// AsHTML implements Fragment. Slices are separated by a newline.
func (z *SliceZone) AsHTML(resolver LinkResolver, serializer HTMLSerializer) string {
	requireResolver(resolver)
	parts := make([]string, 0, len(z.Slices))
	for _, s := range z.Slices {
		parts = append(parts, s.AsHTML(resolver, serializer))
	}
	return strings.Join(parts, "\n")
}
