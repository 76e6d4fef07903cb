package fragments

import (
	"fmt"

	jsoniter "github.com/json-iterator/go"
)

// Embed is an oEmbed payload (video, tweet, ...) with its provider markup.
type Embed struct {
	Type     string
	Provider string
	URL      string
	Width    int
	Height   int
	HTML     string
}

func parseEmbed(raw []byte) (*Embed, error) {
	var w struct {
		OEmbed struct {
			Type     string              `json:"type"`
			Provider string              `json:"provider_name"`
			URL      string              `json:"embed_url"`
			Width    jsoniter.RawMessage `json:"width"`
			Height   jsoniter.RawMessage `json:"height"`
			HTML     string              `json:"html"`
		} `json:"oembed"`
	}
	if err := json.Unmarshal(raw, &w); err != nil {
		return nil, fmt.Errorf("embed: %w", err)
	}
	o := w.OEmbed
	return &Embed{
		Type:     o.Type,
		Provider: o.Provider,
		URL:      o.URL,
		Width:    int(rawInt(o.Width)),
		Height:   int(rawInt(o.Height)),
		HTML:     o.HTML,
	}, nil
}

func newEmbed(_ *Registry, value []byte) (Fragment, error) {
	return parseEmbed(value)
}

func (e *Embed) wrap(content, label string) string {
	return `<div data-oembed="` + escapeAttr(e.URL) + `" data-oembed-type="` + escapeAttr(e.Type) +
		`" data-oembed-provider="` + escapeAttr(e.Provider) + `"` + classAttr(label) + `>` + content + `</div>`
}

// AsHTML implements Fragment. The provider markup is trusted and emitted
// as is.
func (e *Embed) AsHTML(resolver LinkResolver, _ HTMLSerializer) string {
	requireResolver(resolver)
	return e.wrap(e.HTML, "")
}
