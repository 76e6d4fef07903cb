package fragments

import (
	"fmt"

	jsoniter "github.com/json-iterator/go"
)

// Link is any fragment pointing somewhere: web pages, media files, images
// or other documents.
type Link interface {
	Fragment
	// Resolve returns the destination URL. Only document links consult the
	// resolver.
	Resolve(resolver LinkResolver) string
}

// WebLink points to an arbitrary URL.
type WebLink struct {
	URL    string `json:"url"`
	Target string `json:"target,omitempty"`
}

func newWebLink(_ *Registry, value []byte) (Fragment, error) {
	var l WebLink
	if err := json.Unmarshal(value, &l); err != nil {
		return nil, fmt.Errorf("web link: %w", err)
	}
	return &l, nil
}

// Resolve implements Link.
func (l *WebLink) Resolve(LinkResolver) string { return l.URL }

// AsHTML implements Fragment.
func (l *WebLink) AsHTML(resolver LinkResolver, _ HTMLSerializer) string {
	requireResolver(resolver)
	return `<a href="` + escapeAttr(l.URL) + `"` + targetAttr(l.Target) + `>` + escapeText(l.URL) + `</a>`
}

func targetAttr(target string) string {
	if target == "" {
		return ""
	}
	return ` target="` + escapeAttr(target) + `" rel="noopener"`
}

// MediaLink points to a file uploaded to the media library.
type MediaLink struct {
	URL  string
	Name string
	Kind string
	Size int64
}

type wireFile struct {
	URL  string              `json:"url"`
	Name string              `json:"name"`
	Kind string              `json:"kind"`
	Size jsoniter.RawMessage `json:"size"`
}

func newMediaLink(_ *Registry, value []byte) (Fragment, error) {
	var w struct {
		File wireFile `json:"file"`
	}
	if err := json.Unmarshal(value, &w); err != nil {
		return nil, fmt.Errorf("media link: %w", err)
	}
	return &MediaLink{
		URL:  w.File.URL,
		Name: w.File.Name,
		Kind: w.File.Kind,
		Size: rawInt(w.File.Size),
	}, nil
}

// Resolve implements Link.
func (l *MediaLink) Resolve(LinkResolver) string { return l.URL }

// AsHTML implements Fragment.
func (l *MediaLink) AsHTML(resolver LinkResolver, _ HTMLSerializer) string {
	requireResolver(resolver)
	return `<a href="` + escapeAttr(l.URL) + `">` + escapeText(l.Name) + `</a>`
}

// ImageLink points to an image of the media library.
type ImageLink struct {
	URL    string
	Alt    string
	Name   string
	Size   int64
	Width  int
	Height int
}

func newImageLink(_ *Registry, value []byte) (Fragment, error) {
	var w struct {
		Image struct {
			wireFile
			Alt        string         `json:"alt"`
			Dimensions wireDimensions `json:"dimensions"`
		} `json:"image"`
	}
	if err := json.Unmarshal(value, &w); err != nil {
		return nil, fmt.Errorf("image link: %w", err)
	}
	return &ImageLink{
		URL:    w.Image.URL,
		Alt:    w.Image.Alt,
		Name:   w.Image.Name,
		Size:   rawInt(w.Image.Size),
		Width:  int(rawInt(w.Image.Dimensions.Width)),
		Height: int(rawInt(w.Image.Dimensions.Height)),
	}, nil
}

// Resolve implements Link.
func (l *ImageLink) Resolve(LinkResolver) string { return l.URL }

// AsHTML implements Fragment.
func (l *ImageLink) AsHTML(resolver LinkResolver, _ HTMLSerializer) string {
	requireResolver(resolver)
	return `<a href="` + escapeAttr(l.URL) + `"><img src="` + escapeAttr(l.URL) + `" alt="` + escapeAttr(l.Alt) + `" /></a>`
}

// DocumentLink references another document of the repository. When the
// query asked for fetched links, the linked document's own fields are
// available through the embedded Container.
type DocumentLink struct {
	ID       string
	UID      string
	Type     string
	Tags     []string
	Slug     string
	Lang     string
	IsBroken bool
	*Container
}

func newDocumentLink(r *Registry, value []byte) (Fragment, error) {
	var w struct {
		Document struct {
			ID   string              `json:"id"`
			UID  string              `json:"uid"`
			Type string              `json:"type"`
			Tags []string            `json:"tags"`
			Slug string              `json:"slug"`
			Lang string              `json:"lang"`
			Data jsoniter.RawMessage `json:"data"`
		} `json:"document"`
		IsBroken bool `json:"isBroken"`
	}
	if err := json.Unmarshal(value, &w); err != nil {
		return nil, fmt.Errorf("document link: %w", err)
	}
	d := w.Document
	fields := NewContainer()
	if isObject(d.Data) {
		var byType map[string]jsoniter.RawMessage
		if err := json.Unmarshal(d.Data, &byType); err != nil {
			return nil, fmt.Errorf("document link %s data: %w", d.ID, err)
		}
		fields = r.ParseFields(d.Type, byType[d.Type])
	}
	return &DocumentLink{
		ID:        d.ID,
		UID:       d.UID,
		Type:      d.Type,
		Tags:      d.Tags,
		Slug:      d.Slug,
		Lang:      d.Lang,
		IsBroken:  w.IsBroken,
		Container: fields,
	}, nil
}

// HasTag reports whether the linked document carries tag.
func (l *DocumentLink) HasTag(tag string) bool {
	for _, t := range l.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Resolve implements Link. It panics with ErrNilLinkResolver when resolver
// is nil.
func (l *DocumentLink) Resolve(resolver LinkResolver) string {
	requireResolver(resolver)
	return resolver(l)
}

// AsHTML implements Fragment. It renders the link itself, not the fetched
// fields of the linked document.
func (l *DocumentLink) AsHTML(resolver LinkResolver, _ HTMLSerializer) string {
	return `<a href="` + escapeAttr(l.Resolve(resolver)) + `">` + escapeText(l.Slug) + `</a>`
}

// parseLink reads a {"type", "value"} link node. Nodes that are not links
// yield nil.
func parseLink(r *Registry, raw []byte) Link {
	if isNull(raw) {
		return nil
	}
	f := r.FromJSON(raw)
	if f == nil {
		return nil
	}
	l, ok := f.(Link)
	if !ok {
		log().WithField("fragment", fmt.Sprintf("%T", f)).Warn("Expected a link fragment")
		return nil
	}
	return l
}
