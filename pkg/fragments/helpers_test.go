package fragments

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func init() {
	quiet := logrus.New()
	quiet.SetOutput(io.Discard)
	SetLogger(quiet)
}

// testResolver links documents the way a typical site would, sending broken
// links to an anchor.
func testResolver(l *DocumentLink) string {
	if l.IsBroken {
		return "#broken"
	}
	return "/document/" + l.ID + "/" + l.Slug
}

// testSerializer renders image blocks without their paragraph and tags
// hyperlinks with a class. Everything else keeps the built-in markup.
func testSerializer(element Element, content string) (string, bool) {
	switch e := element.(type) {
	case *ImageBlock:
		return e.View.AsHTML(testResolver), true
	case *Hyperlink:
		return `<a class="some-link" href="` + e.Link.Resolve(testResolver) + `">` + content + `</a>`, true
	}
	return "", false
}

func loadFixture(t *testing.T, name string) []byte {
	t.Helper()
	raw, err := os.ReadFile(filepath.Join("testdata", name+".json"))
	require.NoError(t, err, "Failed to read fixture %s", name)
	return raw
}

// loadFields parses the "data.<type>" member of a document fixture.
func loadFields(t *testing.T, raw []byte) *Container {
	t.Helper()
	var doc struct {
		Type string                         `json:"type"`
		Data map[string]jsoniter.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(raw, &doc))
	return ParseFields(doc.Type, doc.Data[doc.Type])
}

// loadStructuredText parses a {"type": "StructuredText", "value": [...]}
// fixture.
func loadStructuredText(t *testing.T, name string) *StructuredText {
	t.Helper()
	st, ok := FromJSON(loadFixture(t, name)).(*StructuredText)
	require.True(t, ok, "fixture %s is not a structured text", name)
	return st
}

func paragraph(t *testing.T, raw string) *StructuredText {
	t.Helper()
	f, err := newStructuredText(DefaultRegistry(), []byte(raw))
	require.NoError(t, err)
	return f.(*StructuredText)
}
