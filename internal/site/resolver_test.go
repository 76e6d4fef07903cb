package site

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"contentkit/pkg/fragments"
)

func TestResolver(t *testing.T) {
	link := &fragments.DocumentLink{
		ID:   "UlfoxUnM0wkXYXbm",
		UID:  "tips",
		Type: "blog-post",
		Slug: "tips-to-dress-a-pastry",
		Lang: "en-us",
	}

	tests := []struct {
		name    string
		pattern string
		link    *fragments.DocumentLink
		want    string
	}{
		{"id and slug", "/document/{id}/{slug}", link, "/document/UlfoxUnM0wkXYXbm/tips-to-dress-a-pastry"},
		{"all placeholders", "/{lang}/{type}/{uid}", link, "/en-us/blog-post/tips"},
		{"repeated placeholder", "/{id}/{id}", link, "/UlfoxUnM0wkXYXbm/UlfoxUnM0wkXYXbm"},
		{"no placeholders", "/static", link, "/static"},
		{"escaped", "/doc/{slug}", &fragments.DocumentLink{Slug: "a b/c"}, "/doc/a%20b%2Fc"},
		{"missing slug", "/doc/{id}/{slug}", &fragments.DocumentLink{ID: "x"}, "/doc/x/-"},
		{"broken", "/doc/{id}", &fragments.DocumentLink{ID: "x", IsBroken: true}, BrokenLink},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Resolver(tt.pattern)(tt.link))
		})
	}
}
