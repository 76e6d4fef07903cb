package fragments

import (
	"fmt"
	"sort"
	"sync"

	jsoniter "github.com/json-iterator/go"
)

// Fragment is one typed value of a document field.
type Fragment interface {
	// AsHTML renders the fragment. serializer may be nil.
	AsHTML(resolver LinkResolver, serializer HTMLSerializer) string
}

// Constructor builds a fragment from the "value" member of a fragment node.
// r is the registry dispatching the node and must be used for nested content.
type Constructor func(r *Registry, value []byte) (Fragment, error)

// Registry maps wire type tags to fragment constructors.
type Registry struct {
	mu    sync.RWMutex
	types map[string]Constructor
}

// NewRegistry returns a registry preloaded with every built-in fragment type.
func NewRegistry() *Registry {
	r := &Registry{types: make(map[string]Constructor)}
	r.Register("Text", newText)
	r.Register("Select", newText)
	r.Register("Number", newNumber)
	r.Register("Color", newColor)
	r.Register("Range", newRange)
	r.Register("Date", newDate)
	r.Register("Timestamp", newTimestamp)
	r.Register("GeoPoint", newGeoPoint)
	r.Register("Image", newImage)
	r.Register("Embed", newEmbed)
	r.Register("Link.web", newWebLink)
	r.Register("Link.file", newMediaLink)
	r.Register("Link.image", newImageLink)
	r.Register("Link.document", newDocumentLink)
	r.Register("Group", newGroup)
	r.Register("SliceZone", newSliceZone)
	r.Register("StructuredText", newStructuredText)
	return r
}

// Register binds tag to c, replacing any previous binding.
func (r *Registry) Register(tag string, c Constructor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.types[tag] = c
}

// Lookup returns the constructor bound to tag.
func (r *Registry) Lookup(tag string) (Constructor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.types[tag]
	return c, ok
}

// Tags lists the registered type tags in lexical order.
func (r *Registry) Tags() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	tags := make([]string, 0, len(r.types))
	for t := range r.types {
		tags = append(tags, t)
	}
	sort.Strings(tags)
	return tags
}

// FromJSON builds the fragment described by a {"type", "value"} node.
// Unknown types and malformed values are logged and yield nil.
func (r *Registry) FromJSON(raw []byte) Fragment {
	var n node
	if err := json.Unmarshal(raw, &n); err != nil {
		log().WithError(err).Warn("Unreadable fragment node")
		return nil
	}
	c, ok := r.Lookup(n.Type)
	if !ok {
		log().WithField("fragment_type", n.Type).Warn("Fragment type not found")
		return nil
	}
	f, err := c(r, n.Value)
	if err != nil {
		log().WithError(err).WithField("fragment_type", n.Type).Warn("Malformed fragment value")
		return nil
	}
	return f
}

// ParseFields reads a JSON object of fragment nodes into a container. Keys
// are prefixed with "<prefix>." unless prefix is empty. A member holding an
// array of nodes (legacy repeatable fields) is stored as "<key>[<n>]".
func (r *Registry) ParseFields(prefix string, raw []byte) *Container {
	c := NewContainer()
	if isNull(raw) {
		return c
	}
	err := eachField(raw, func(key string, value []byte) error {
		name := key
		if prefix != "" {
			name = prefix + "." + key
		}
		switch {
		case isArray(value):
			var items []jsoniter.RawMessage
			if err := json.Unmarshal(value, &items); err != nil {
				return fmt.Errorf("field %s: %w", name, err)
			}
			for i, item := range items {
				if f := r.FromJSON(item); f != nil {
					c.add(fmt.Sprintf("%s[%d]", name, i), f)
				}
			}
		case isObject(value):
			if f := r.FromJSON(value); f != nil {
				c.add(name, f)
			}
		}
		return nil
	})
	if err != nil {
		log().WithError(err).WithField("prefix", prefix).Warn("Unreadable fragment fields")
	}
	return c
}

var defaultRegistry = NewRegistry()

// DefaultRegistry returns the registry used by the package-level helpers.
func DefaultRegistry() *Registry {
	return defaultRegistry
}

// Register binds tag to c in the default registry.
func Register(tag string, c Constructor) {
	defaultRegistry.Register(tag, c)
}

// FromJSON builds a fragment with the default registry.
func FromJSON(raw []byte) Fragment {
	return defaultRegistry.FromJSON(raw)
}

// ParseFields reads a JSON object of fragment nodes with the default registry.
func ParseFields(prefix string, raw []byte) *Container {
	return defaultRegistry.ParseFields(prefix, raw)
}
