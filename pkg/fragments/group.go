package fragments

import (
	"fmt"
	"strings"

	jsoniter "github.com/json-iterator/go"
)

// Group is a repeatable set of sub-fields. Each entry is its own container
// keyed by bare field names.
type Group struct {
	Value []*Container
}

func newGroup(r *Registry, value []byte) (Fragment, error) {
	var entries []jsoniter.RawMessage
	if err := json.Unmarshal(value, &entries); err != nil {
		return nil, fmt.Errorf("group: %w", err)
	}
	g := &Group{Value: make([]*Container, 0, len(entries))}
	for _, e := range entries {
		g.Value = append(g.Value, r.ParseFields("", e))
	}
	return g, nil
}

// Len returns the number of entries.
func (g *Group) Len() int {
	if g == nil {
		return 0
	}
	return len(g.Value)
}

// AsHTML implements Fragment. Entries are separated by a newline.
func (g *Group) AsHTML(resolver LinkResolver, serializer HTMLSerializer) string {
	requireResolver(resolver)
	parts := make([]string, 0, len(g.Value))
	for _, entry := range g.Value {
		parts = append(parts, entry.AsHTML(resolver, serializer))
	}
	return strings.Join(parts, "\n")
}
