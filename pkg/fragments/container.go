package fragments

import (
	"fmt"
	"regexp"
	"strings"
)

// Field is a named fragment, used to build containers by hand.
type Field struct {
	Name     string
	Fragment Fragment
}

// Container is an ordered set of named fragments. Documents, fetched
// document links, group entries and slice zones all expose their content
// through one. A nil *Container behaves as an empty one.
type Container struct {
	names     []string
	fragments map[string]Fragment
}

// NewContainer returns a container holding fields in the given order.
func NewContainer(fields ...Field) *Container {
	c := &Container{fragments: make(map[string]Fragment, len(fields))}
	for _, f := range fields {
		c.add(f.Name, f.Fragment)
	}
	return c
}

func (c *Container) add(name string, f Fragment) {
	if f == nil {
		return
	}
	if _, exists := c.fragments[name]; !exists {
		c.names = append(c.names, name)
	}
	c.fragments[name] = f
}

// Len returns the number of fields.
func (c *Container) Len() int {
	if c == nil {
		return 0
	}
	return len(c.names)
}

// Fields returns the field names in source order.
func (c *Container) Fields() []string {
	if c == nil {
		return nil
	}
	return append([]string(nil), c.names...)
}

// Get returns the fragment stored under field, or nil.
func (c *Container) Get(field string) Fragment {
	if c == nil {
		return nil
	}
	return c.fragments[field]
}

// GetAll returns the fragments stored under field and under its indexed
// variants field[0], field[1], ... in container order.
func (c *Container) GetAll(field string) []Fragment {
	if c == nil {
		return nil
	}
	pattern := regexp.MustCompile(`^` + regexp.QuoteMeta(field) + `(\[\d+\])?$`)
	var all []Fragment
	for _, name := range c.names {
		if pattern.MatchString(name) {
			all = append(all, c.fragments[name])
		}
	}
	return all
}

// GetText returns the text of a field. Structured text yields its text
// blocks joined by newlines; scalar fragments yield their raw value.
func (c *Container) GetText(field string) (string, bool) {
	switch f := c.Get(field).(type) {
	case *StructuredText:
		return f.PlainText()
	case fmt.Stringer:
		return f.String(), true
	default:
		return "", false
	}
}

// GetNumber returns the Number stored under field, or nil.
func (c *Container) GetNumber(field string) *Number {
	n, _ := c.Get(field).(*Number)
	return n
}

// GetColor returns the Color stored under field, or nil.
func (c *Container) GetColor(field string) *Color {
	v, _ := c.Get(field).(*Color)
	return v
}

// GetDate returns the Date stored under field, or nil.
func (c *Container) GetDate(field string) *Date {
	v, _ := c.Get(field).(*Date)
	return v
}

// GetTimestamp returns the Timestamp stored under field, or nil.
func (c *Container) GetTimestamp(field string) *Timestamp {
	v, _ := c.Get(field).(*Timestamp)
	return v
}

// GetGeoPoint returns the GeoPoint stored under field, or nil.
func (c *Container) GetGeoPoint(field string) *GeoPoint {
	v, _ := c.Get(field).(*GeoPoint)
	return v
}

// GetLink returns the link stored under field, or nil.
func (c *Container) GetLink(field string) Link {
	v, _ := c.Get(field).(Link)
	return v
}

// GetEmbed returns the Embed stored under field, or nil.
func (c *Container) GetEmbed(field string) *Embed {
	v, _ := c.Get(field).(*Embed)
	return v
}

// GetGroup returns the Group stored under field, or nil.
func (c *Container) GetGroup(field string) *Group {
	v, _ := c.Get(field).(*Group)
	return v
}

// GetStructuredText returns the StructuredText stored under field, or nil.
func (c *Container) GetStructuredText(field string) *StructuredText {
	v, _ := c.Get(field).(*StructuredText)
	return v
}

// GetSliceZone returns the SliceZone stored under field, or nil.
func (c *Container) GetSliceZone(field string) *SliceZone {
	v, _ := c.Get(field).(*SliceZone)
	return v
}

// GetImage returns the named view of an image field. For a structured
// text field and the "main" view, the first image block is returned.
func (c *Container) GetImage(field, view string) *View {
	switch f := c.Get(field).(type) {
	case *Image:
		return f.View(view)
	case *StructuredText:
		if view == "main" {
			return f.FirstImage()
		}
	}
	return nil
}

// GetHTML renders a single field, or returns "" when it is absent. It
// panics with ErrNilLinkResolver when resolver is nil, whatever the field.
func (c *Container) GetHTML(field string, resolver LinkResolver, serializer HTMLSerializer) string {
	requireResolver(resolver)
	f := c.Get(field)
	if f == nil {
		return ""
	}
	return f.AsHTML(resolver, serializer)
}

// LinkedDocuments collects every document link reachable from the
// container: direct fields, group entries, slices and hyperlinks inside
// structured text.
func (c *Container) LinkedDocuments() []*DocumentLink {
	if c == nil {
		return nil
	}
	var links []*DocumentLink
	for _, name := range c.names {
		links = append(links, linkedDocuments(c.fragments[name])...)
	}
	return links
}

func linkedDocuments(f Fragment) []*DocumentLink {
	switch f := f.(type) {
	case *DocumentLink:
		return []*DocumentLink{f}
	case *Group:
		var links []*DocumentLink
		for _, entry := range f.Value {
			links = append(links, entry.LinkedDocuments()...)
		}
		return links
	case *SliceZone:
		var links []*DocumentLink
		for _, s := range f.Slices {
			links = append(links, linkedDocuments(s)...)
		}
		return links
	case *SimpleSlice:
		return linkedDocuments(f.Body)
	case *CompositeSlice:
		return append(f.NonRepeat.LinkedDocuments(), linkedDocuments(f.Repeat)...)
	case *StructuredText:
		var links []*DocumentLink
		for _, b := range f.Blocks {
			tb := textBlockOf(b)
			if tb == nil {
				continue
			}
			for _, s := range tb.Spans {
				if h, ok := s.(*Hyperlink); ok {
					if dl, ok := h.Link.(*DocumentLink); ok {
						links = append(links, dl)
					}
				}
			}
		}
		return links
	}
	return nil
}

// AsHTML renders every field wrapped in <section data-field="name">, in
// container order.
func (c *Container) AsHTML(resolver LinkResolver, serializer HTMLSerializer) string {
	requireResolver(resolver)
	if c == nil {
		return ""
	}
	var sb strings.Builder
	for _, name := range c.names {
		sb.WriteString(`<section data-field="` + escapeAttr(name) + `">`)
		sb.WriteString(c.fragments[name].AsHTML(resolver, serializer))
		sb.WriteString(`</section>`)
	}
	return sb.String()
}
