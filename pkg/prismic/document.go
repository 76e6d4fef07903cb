package prismic

import (
	"fmt"
	"net/url"
	"time"

	"github.com/araddon/dateparse"
	jsoniter "github.com/json-iterator/go"

	"contentkit/pkg/fragments"
)

// AlternateLanguage points to a translation of a document.
type AlternateLanguage struct {
	ID   string `json:"id"`
	UID  string `json:"uid"`
	Type string `json:"type"`
	Lang string `json:"lang"`
}

// Document is a content item. Its fields are reachable through the
// embedded Container under "<type>.<field>" keys.
type Document struct {
	ID                   string
	UID                  string
	Type                 string
	Href                 string
	Tags                 []string
	Slugs                []string
	Lang                 string
	FirstPublicationDate time.Time
	LastPublicationDate  time.Time
	AlternateLanguages   []AlternateLanguage
	*fragments.Container

	raw map[string]jsoniter.RawMessage
}

type wireDocument struct {
	ID                   string                         `json:"id"`
	UID                  string                         `json:"uid"`
	Type                 string                         `json:"type"`
	Href                 string                         `json:"href"`
	Tags                 []string                       `json:"tags"`
	Slugs                []string                       `json:"slugs"`
	Lang                 string                         `json:"lang"`
	FirstPublicationDate string                         `json:"first_publication_date"`
	LastPublicationDate  string                         `json:"last_publication_date"`
	AlternateLanguages   []AlternateLanguage            `json:"alternate_languages"`
	Data                 map[string]jsoniter.RawMessage `json:"data"`
}

// ParseDocument reads a document with the default fragment registry.
func ParseDocument(raw []byte) (*Document, error) {
	return ParseDocumentWith(fragments.DefaultRegistry(), raw)
}

// ParseDocumentWith reads a document, building its fragments with r.
func ParseDocumentWith(r *fragments.Registry, raw []byte) (*Document, error) {
	var w wireDocument
	if err := json.Unmarshal(raw, &w); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	var members map[string]jsoniter.RawMessage
	if err := json.Unmarshal(raw, &members); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	doc := &Document{
		ID:                   w.ID,
		UID:                  w.UID,
		Type:                 w.Type,
		Href:                 w.Href,
		Tags:                 w.Tags,
		Lang:                 w.Lang,
		FirstPublicationDate: parseTime(w.FirstPublicationDate),
		LastPublicationDate:  parseTime(w.LastPublicationDate),
		AlternateLanguages:   w.AlternateLanguages,
		Container:            r.ParseFields(w.Type, w.Data[w.Type]),
		raw:                  members,
	}
	for _, s := range w.Slugs {
		if unescaped, err := url.PathUnescape(s); err == nil {
			s = unescaped
		}
		doc.Slugs = append(doc.Slugs, s)
	}
	return doc, nil
}

func parseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := dateparse.ParseIn(s, time.UTC)
	if err != nil {
		return time.Time{}
	}
	return t
}

// Slug returns the most recent slug, or "-" when the document has none.
func (d *Document) Slug() string {
	if len(d.Slugs) == 0 {
		return "-"
	}
	return d.Slugs[0]
}

// AsLink returns a link to the document, suitable for a LinkResolver.
func (d *Document) AsLink() *fragments.DocumentLink {
	return &fragments.DocumentLink{
		ID:        d.ID,
		UID:       d.UID,
		Type:      d.Type,
		Tags:      d.Tags,
		Slug:      d.Slug(),
		Lang:      d.Lang,
		Container: d.Container,
	}
}

// RawField returns a top-level member of the document JSON as sent by the
// API, for metadata this type does not model.
func (d *Document) RawField(name string) (jsoniter.RawMessage, bool) {
	v, ok := d.raw[name]
	return v, ok
}
