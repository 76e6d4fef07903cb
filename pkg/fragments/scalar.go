package fragments

import (
	"fmt"
	"strconv"
	"time"

	"github.com/araddon/dateparse"
)

// Text is a plain text field. Select fields are read as Text as well.
type Text struct {
	Value string
}

func newText(_ *Registry, value []byte) (Fragment, error) {
	var s string
	if err := json.Unmarshal(value, &s); err != nil {
		return nil, fmt.Errorf("text: %w", err)
	}
	return &Text{Value: s}, nil
}

func (t *Text) String() string { return t.Value }

// AsHTML implements Fragment.
func (t *Text) AsHTML(resolver LinkResolver, _ HTMLSerializer) string {
	requireResolver(resolver)
	return `<span class="text">` + escapeText(t.Value) + `</span>`
}

// Number is a numeric field.
type Number struct {
	Value float64
}

func newNumber(_ *Registry, value []byte) (Fragment, error) {
	var n float64
	if err := json.Unmarshal(value, &n); err != nil {
		// Some repositories store numbers as strings.
		parsed, perr := strconv.ParseFloat(rawScalar(value), 64)
		if perr != nil {
			return nil, fmt.Errorf("number: %w", err)
		}
		n = parsed
	}
	return &Number{Value: n}, nil
}

func (n *Number) String() string {
	return strconv.FormatFloat(n.Value, 'f', -1, 64)
}

// AsHTML implements Fragment.
func (n *Number) AsHTML(resolver LinkResolver, _ HTMLSerializer) string {
	requireResolver(resolver)
	return `<span class="number">` + strconv.FormatFloat(n.Value, 'g', -1, 64) + `</span>`
}

// Color is a hexadecimal color such as "#ffeacd".
type Color struct {
	Value string
}

func newColor(_ *Registry, value []byte) (Fragment, error) {
	var s string
	if err := json.Unmarshal(value, &s); err != nil {
		return nil, fmt.Errorf("color: %w", err)
	}
	return &Color{Value: s}, nil
}

func (c *Color) String() string { return c.Value }

// AsHTML implements Fragment.
func (c *Color) AsHTML(resolver LinkResolver, _ HTMLSerializer) string {
	requireResolver(resolver)
	return `<span class="color">` + escapeText(c.Value) + `</span>`
}

// Range holds the raw value of a range field.
type Range struct {
	Value string
}

func newRange(_ *Registry, value []byte) (Fragment, error) {
	return &Range{Value: rawScalar(value)}, nil
}

func (r *Range) String() string { return r.Value }

// AsHTML implements Fragment.
func (r *Range) AsHTML(resolver LinkResolver, _ HTMLSerializer) string {
	requireResolver(resolver)
	return `<span class="range">` + escapeText(r.Value) + `</span>`
}

// Date is a calendar date field. Raw keeps the value as sent by the API.
type Date struct {
	Value time.Time
	Raw   string
}

func newDate(_ *Registry, value []byte) (Fragment, error) {
	raw := rawScalar(value)
	t, err := dateparse.ParseIn(raw, time.UTC)
	if err != nil {
		return nil, fmt.Errorf("date %q: %w", raw, err)
	}
	return &Date{Value: t, Raw: raw}, nil
}

func (d *Date) String() string { return d.Raw }

// AsHTML implements Fragment.
func (d *Date) AsHTML(resolver LinkResolver, _ HTMLSerializer) string {
	requireResolver(resolver)
	return `<time>` + escapeText(d.Raw) + `</time>`
}

// Timestamp is a date and time field.
type Timestamp struct {
	Value time.Time
	Raw   string
}

func newTimestamp(_ *Registry, value []byte) (Fragment, error) {
	raw := rawScalar(value)
	t, err := dateparse.ParseIn(raw, time.UTC)
	if err != nil {
		return nil, fmt.Errorf("timestamp %q: %w", raw, err)
	}
	return &Timestamp{Value: t, Raw: raw}, nil
}

func (t *Timestamp) String() string { return t.Raw }

// AsHTML implements Fragment.
func (t *Timestamp) AsHTML(resolver LinkResolver, _ HTMLSerializer) string {
	requireResolver(resolver)
	return `<time datetime="` + t.Value.Format(time.RFC3339) + `">` + escapeText(t.Raw) + `</time>`
}

// GeoPoint is a latitude/longitude pair.
type GeoPoint struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

func newGeoPoint(_ *Registry, value []byte) (Fragment, error) {
	var g GeoPoint
	if err := json.Unmarshal(value, &g); err != nil {
		return nil, fmt.Errorf("geopoint: %w", err)
	}
	return &g, nil
}

// AsHTML implements Fragment.
func (g *GeoPoint) AsHTML(resolver LinkResolver, _ HTMLSerializer) string {
	requireResolver(resolver)
	return fmt.Sprintf(`<div class="geopoint"><span class="latitude">%f</span><span class="longitude">%f</span></div>`,
		g.Latitude, g.Longitude)
}
