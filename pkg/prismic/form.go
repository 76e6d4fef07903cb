package prismic

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// SearchForm accumulates the parameters of a search. Setters return the
// form so calls can be chained; none of them performs I/O.
type SearchForm struct {
	spec FormSpec
	data url.Values
	conn *connection
}

func newSearchForm(spec FormSpec, conn *connection) *SearchForm {
	f := &SearchForm{spec: spec, data: url.Values{}, conn: conn}
	for name, field := range spec.Fields {
		if field.Default != "" {
			f.Set(name, field.Default)
		}
	}
	return f
}

// Set assigns a parameter. Fields declared multiple accumulate values,
// others are replaced.
func (f *SearchForm) Set(field, value string) *SearchForm {
	if spec, ok := f.spec.Fields[field]; ok && spec.Multiple {
		f.data.Add(field, value)
	} else {
		f.data.Set(field, value)
	}
	return f
}

// Data returns a copy of the parameters set so far.
func (f *SearchForm) Data() url.Values {
	out := make(url.Values, len(f.data))
	for k, vs := range f.data {
		out[k] = append([]string(nil), vs...)
	}
	return out
}

// Ref sets the content release to query.
func (f *SearchForm) Ref(ref string) *SearchForm {
	return f.Set("ref", ref)
}

// Query adds predicates, serialised as one query. No predicates is a no-op.
func (f *SearchForm) Query(predicates ...Predicate) *SearchForm {
	if len(predicates) == 0 {
		return f
	}
	return f.Set("q", QueryString(predicates...))
}

// QueryString adds a query written by hand, e.g. `[[:d = at(document.type, "blog")]]`.
func (f *SearchForm) QueryString(q string) *SearchForm {
	return f.Set("q", q)
}

// Page selects the result page, starting at 1.
func (f *SearchForm) Page(page int) *SearchForm {
	return f.Set("page", strconv.Itoa(page))
}

// PageSize sets the number of results per page.
func (f *SearchForm) PageSize(size int) *SearchForm {
	return f.Set("pageSize", strconv.Itoa(size))
}

// After starts the results after the given document id.
func (f *SearchForm) After(id string) *SearchForm {
	return f.Set("after", id)
}

// Orderings sets the sort order, e.g. "[my.product.price desc]".
func (f *SearchForm) Orderings(orderings string) *SearchForm {
	return f.Set("orderings", orderings)
}

// Fetch restricts the returned documents to the given fields.
func (f *SearchForm) Fetch(fields ...string) *SearchForm {
	return f.Set("fetch", strings.Join(fields, ","))
}

// FetchLinks includes the given fields of linked documents in document
// links, e.g. "author.name".
func (f *SearchForm) FetchLinks(fields ...string) *SearchForm {
	return f.Set("fetchLinks", strings.Join(fields, ","))
}

// Lang restricts the results to a locale. "*" selects every locale.
func (f *SearchForm) Lang(lang string) *SearchForm {
	return f.Set("lang", lang)
}

// Clone returns an independent copy of the form.
func (f *SearchForm) Clone() *SearchForm {
	return &SearchForm{spec: f.spec, data: f.Data(), conn: f.conn}
}

// Submit runs the search.
func (f *SearchForm) Submit(ctx context.Context) (*Response, error) {
	if f.data.Get("ref") == "" {
		return nil, ErrRefMissing
	}
	body, err := f.conn.getJSON(ctx, f.spec.Action, f.data, 0)
	if err != nil {
		return nil, fmt.Errorf("submit search: %w", err)
	}
	return parseResponse(f.conn, body)
}

// Count returns the total number of documents matching the form, fetching
// a single result.
func (f *SearchForm) Count(ctx context.Context) (int, error) {
	resp, err := f.Clone().PageSize(1).Submit(ctx)
	if err != nil {
		return 0, err
	}
	return resp.TotalResultsSize, nil
}
