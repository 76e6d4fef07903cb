package prismic

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPredicates(t *testing.T) {
	tests := []struct {
		name  string
		preds []Predicate
		want  string
	}{
		{"at", []Predicate{At("document.id", "UlfoxUnM0wkXYXbZ")}, `[[:d = at(document.id, "UlfoxUnM0wkXYXbZ")]]`},
		{"not", []Predicate{Not("document.id", "UlfoxUnM0wkXYXbZ")}, `[[:d = not(document.id, "UlfoxUnM0wkXYXbZ")]]`},
		{"any", []Predicate{Any("document.type", []string{"article", "form-post"})}, `[[:d = any(document.type, ["article", "form-post"])]]`},
		{"in", []Predicate{In("document.id", []string{"a", "b"})}, `[[:d = in(document.id, ["a", "b"])]]`},
		{"similar", []Predicate{Similar("idOfSomeDocument", 10)}, `[[:d = similar("idOfSomeDocument", 10)]]`},
		{"fulltext on document", []Predicate{Fulltext("document", "macaron")}, `[[:d = fulltext(document, "macaron")]]`},
		{"has", []Predicate{Has("my.article.author")}, `[[:d = has(my.article.author)]]`},
		{"missing", []Predicate{Missing("my.article.author")}, `[[:d = missing(my.article.author)]]`},
		{
			"multiple",
			[]Predicate{
				MonthAfter("my.form-post.publication-date", 4),
				MonthBefore("my.form-post.publication-date", "December"),
			},
			`[[:d = date.month-after(my.form-post.publication-date, 4)][:d = date.month-before(my.form-post.publication-date, "December")]]`,
		},
		{"number lt", []Predicate{LessThan("my.form-post.publication-date", 4)}, `[[:d = number.lt(my.form-post.publication-date, 4)]]`},
		{"number gt", []Predicate{GreaterThan("my.product.price", 2.5)}, `[[:d = number.gt(my.product.price, 2.5)]]`},
		{"in range", []Predicate{InRange("my.product.price", 2, 4.5)}, `[[:d = number.inRange(my.product.price, 2, 4.5)]]`},
		{"date between", []Predicate{DateBetween("my.post.date", "2014-01-01", "2014-12-31")}, `[[:d = date.between(my.post.date, "2014-01-01", "2014-12-31")]]`},
		{"day of week", []Predicate{DayOfWeek("my.post.date", "Tuesday")}, `[[:d = date.day-of-week(my.post.date, "Tuesday")]]`},
		{"year", []Predicate{Year("my.post.date", 2014)}, `[[:d = date.year(my.post.date, 2014)]]`},
		{"hour after", []Predicate{HourAfter("my.post.date", 12)}, `[[:d = date.hour-after(my.post.date, 12)]]`},
		{"near", []Predicate{Near("my.store.coordinates", 40.689757, -74.0451453, 15)}, `[[:d = geopoint.near(my.store.coordinates, 40.689757, -74.0451453, 15)]]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, QueryString(tt.preds...))
		})
	}
}
