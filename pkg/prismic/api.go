package prismic

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strings"

	"contentkit/pkg/fragments"
)

// Ref is a content release. The master ref points at published content.
type Ref struct {
	ID          string `json:"id"`
	Ref         string `json:"ref"`
	Label       string `json:"label"`
	IsMasterRef bool   `json:"isMasterRef"`
	ScheduledAt int64  `json:"scheduledAt"`
}

// FieldSpec describes one field of a form.
type FieldSpec struct {
	Type     string `json:"type"`
	Multiple bool   `json:"multiple"`
	Default  string `json:"default"`
}

// FormSpec is a search form as declared by the repository.
type FormSpec struct {
	Name    string               `json:"name"`
	Method  string               `json:"method"`
	Rel     string               `json:"rel"`
	Enctype string               `json:"enctype"`
	Action  string               `json:"action"`
	Fields  map[string]FieldSpec `json:"fields"`
}

// API is a repository description: its refs, forms and metadata. Use Get
// to fetch one.
type API struct {
	Refs          []Ref
	Bookmarks     map[string]string
	Types         map[string]string
	Tags          []string
	Forms         map[string]FormSpec
	Experiments   *Experiments
	OAuthInitiate string
	OAuthToken    string

	master *Ref
	conn   *connection
}

type wireAPI struct {
	Refs          []Ref               `json:"refs"`
	Bookmarks     map[string]string   `json:"bookmarks"`
	Types         map[string]string   `json:"types"`
	Tags          []string            `json:"tags"`
	Forms         map[string]FormSpec `json:"forms"`
	Experiments   *Experiments        `json:"experiments"`
	OAuthInitiate string              `json:"oauth_initiate"`
	OAuthToken    string              `json:"oauth_token"`
}

// Get fetches the repository description at endpoint. The description is
// cached for a few seconds.
func Get(ctx context.Context, endpoint string, opts ...Option) (*API, error) {
	conn := newConnection(opts...)
	body, err := conn.getJSON(ctx, endpoint, nil, apiTTL)
	if err != nil {
		return nil, fmt.Errorf("fetch api %s: %w", endpoint, err)
	}
	return newAPI(conn, body)
}

func newAPI(conn *connection, body []byte) (*API, error) {
	var w wireAPI
	if err := json.Unmarshal(body, &w); err != nil {
		return nil, fmt.Errorf("decode api: %w", err)
	}
	api := &API{
		Refs:          w.Refs,
		Bookmarks:     w.Bookmarks,
		Types:         w.Types,
		Tags:          w.Tags,
		Forms:         w.Forms,
		Experiments:   w.Experiments,
		OAuthInitiate: w.OAuthInitiate,
		OAuthToken:    w.OAuthToken,
		conn:          conn,
	}
	if api.Experiments == nil {
		api.Experiments = &Experiments{}
	}
	if api.Forms == nil {
		api.Forms = map[string]FormSpec{}
	}
	// The query field always accumulates predicates.
	for name, form := range api.Forms {
		if q, ok := form.Fields["q"]; ok {
			q.Multiple = true
			form.Fields["q"] = q
			api.Forms[name] = form
		}
	}
	for i := range api.Refs {
		if api.Refs[i].IsMasterRef {
			api.master = &api.Refs[i]
			break
		}
	}
	if api.master == nil {
		conn.log.Error("No master reference found")
	}
	return api, nil
}

// Master returns the master ref, or nil.
func (a *API) Master() *Ref {
	return a.master
}

// Ref returns the ref with the given label, or nil.
func (a *API) Ref(label string) *Ref {
	for i := range a.Refs {
		if a.Refs[i].Label == label {
			return &a.Refs[i]
		}
	}
	return nil
}

// Form returns a new search form built from the named form declaration.
func (a *API) Form(name string) (*SearchForm, error) {
	spec, ok := a.Forms[name]
	if !ok {
		names := make([]string, 0, len(a.Forms))
		for n := range a.Forms {
			names = append(names, n)
		}
		sort.Strings(names)
		return nil, fmt.Errorf("%w %q, valid form names are: %s", ErrUnknownForm, name, strings.Join(names, ", "))
	}
	return newSearchForm(spec, a.conn), nil
}

// QueryOption tunes the form built by the query helpers.
type QueryOption func(*SearchForm)

// WithRef queries a ref other than master.
func WithRef(ref string) QueryOption {
	return func(f *SearchForm) { f.Ref(ref) }
}

// WithPage selects the result page, starting at 1.
func WithPage(page int) QueryOption {
	return func(f *SearchForm) { f.Page(page) }
}

// WithPageSize sets the number of results per page.
func WithPageSize(size int) QueryOption {
	return func(f *SearchForm) { f.PageSize(size) }
}

// WithOrderings sets the orderings, e.g. "[my.product.price desc]".
func WithOrderings(orderings string) QueryOption {
	return func(f *SearchForm) { f.Orderings(orderings) }
}

// WithAfter starts results after the given document id.
func WithAfter(id string) QueryOption {
	return func(f *SearchForm) { f.After(id) }
}

// WithFetchLinks includes the given fields in document links.
func WithFetchLinks(fields ...string) QueryOption {
	return func(f *SearchForm) { f.FetchLinks(fields...) }
}

// WithLang restricts results to a locale.
func WithLang(lang string) QueryOption {
	return func(f *SearchForm) { f.Lang(lang) }
}

// Query submits predicates on the "everything" form, against master
// unless WithRef is given.
func (a *API) Query(ctx context.Context, predicates []Predicate, opts ...QueryOption) (*Response, error) {
	form, err := a.Form("everything")
	if err != nil {
		return nil, err
	}
	if a.master != nil {
		form.Ref(a.master.Ref)
	}
	for _, opt := range opts {
		opt(form)
	}
	if _, ok := form.data["ref"]; !ok {
		return nil, ErrNoMasterRef
	}
	return form.Query(predicates...).Submit(ctx)
}

// QueryFirst returns the first document matching predicates, or nil.
func (a *API) QueryFirst(ctx context.Context, predicates []Predicate, opts ...QueryOption) (*Document, error) {
	opts = append(append([]QueryOption(nil), opts...), WithPageSize(1), WithPage(1))
	resp, err := a.Query(ctx, predicates, opts...)
	if err != nil {
		return nil, err
	}
	if len(resp.Results) == 0 {
		return nil, nil
	}
	return resp.Results[0], nil
}

// GetByID returns the document with the given id, or nil.
func (a *API) GetByID(ctx context.Context, id string, opts ...QueryOption) (*Document, error) {
	return a.QueryFirst(ctx, []Predicate{At("document.id", id)}, opts...)
}

// GetByUID returns the document of type docType with the given uid, or nil.
func (a *API) GetByUID(ctx context.Context, docType, uid string, opts ...QueryOption) (*Document, error) {
	return a.QueryFirst(ctx, []Predicate{At("my."+docType+".uid", uid)}, opts...)
}

// GetByIDs returns the documents with the given ids.
func (a *API) GetByIDs(ctx context.Context, ids []string, opts ...QueryOption) (*Response, error) {
	return a.Query(ctx, []Predicate{In("document.id", ids)}, opts...)
}

// GetSingle returns the document of a singleton type, or nil.
func (a *API) GetSingle(ctx context.Context, docType string, opts ...QueryOption) (*Document, error) {
	return a.QueryFirst(ctx, []Predicate{At("document.type", docType)}, opts...)
}

// PreviewSession returns the URL to redirect to when previewing with token,
// the preview ref sent by the writing room. defaultURL is returned when
// the preview has no main document.
func (a *API) PreviewSession(ctx context.Context, token string, resolver fragments.LinkResolver, defaultURL string) (string, error) {
	body, err := a.conn.getJSON(ctx, token, url.Values{}, 0)
	if err != nil {
		return "", fmt.Errorf("fetch preview session: %w", err)
	}
	var session struct {
		MainDocument string `json:"mainDocument"`
	}
	if err := json.Unmarshal(body, &session); err != nil {
		return "", fmt.Errorf("decode preview session: %w", err)
	}
	if session.MainDocument == "" {
		return defaultURL, nil
	}
	doc, err := a.GetByID(ctx, session.MainDocument, WithRef(token))
	if err != nil {
		return "", err
	}
	if doc == nil {
		return defaultURL, nil
	}
	return resolver(doc.AsLink()), nil
}
