package fragments

import (
	"fmt"
	"math/rand"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func staticResolver(*DocumentLink) string { return "/x" }

func TestSpansAsHTML(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		spans []Span
		want  string
	}{
		{
			name: "no spans escapes text",
			text: "a&b 42 > 41",
			want: "a&amp;b 42 &gt; 41",
		},
		{
			name: "equal ranges, last listed is outer",
			text: "To be or not to be ?",
			spans: []Span{
				&Strong{SpanBounds{3, 5}},
				&Strong{SpanBounds{16, 18}},
				&Em{SpanBounds{3, 5}},
			},
			want: "To <em><strong>be</strong></em> or not to <strong>be</strong> ?",
		},
		{
			name: "longer span opens first",
			text: "Two spans with the same start",
			spans: []Span{
				&Em{SpanBounds{4, 9}},
				&Strong{SpanBounds{4, 14}},
			},
			want: "Two <strong><em>spans</em> with</strong> the same start",
		},
		{
			name: "crossing spans are split",
			text: "abcdef",
			spans: []Span{
				&Strong{SpanBounds{0, 4}},
				&Em{SpanBounds{2, 6}},
			},
			want: "<strong>ab<em>cd</em></strong><em>ef</em>",
		},
		{
			name: "nested span sharing the end",
			text: "abcdef",
			spans: []Span{
				&Strong{SpanBounds{0, 6}},
				&Em{SpanBounds{3, 6}},
			},
			want: "<strong>abc<em>def</em></strong>",
		},
		{
			name:  "zero length span",
			text:  "ab",
			spans: []Span{&Em{SpanBounds{1, 1}}},
			want:  "a<em></em>b",
		},
		{
			name:  "end past the text is flushed",
			text:  "abc",
			spans: []Span{&Strong{SpanBounds{1, 10}}},
			want:  "a<strong>bc</strong>",
		},
		{
			name:  "offsets count code points",
			text:  "été là",
			spans: []Span{&Em{SpanBounds{4, 6}}},
			want:  "été <em>là</em>",
		},
		{
			name:  "escaping inside spans",
			text:  "<b>",
			spans: []Span{&Em{SpanBounds{0, 3}}},
			want:  "<em>&lt;b&gt;</em>",
		},
		{
			name:  "label span",
			text:  "Span till the end",
			spans: []Span{&LabelSpan{SpanBounds: SpanBounds{14, 17}, Label: "tip"}},
			want:  `Span till the <span class="tip">end</span>`,
		},
		{
			name:  "label span without label",
			text:  "end",
			spans: []Span{&LabelSpan{SpanBounds: SpanBounds{0, 3}}},
			want:  `<span>end</span>`,
		},
		{
			name:  "hyperlink without link",
			text:  "end",
			spans: []Span{&Hyperlink{SpanBounds: SpanBounds{0, 3}}},
			want:  `<span>end</span>`,
		},
		{
			name: "web hyperlink with target",
			text: "go",
			spans: []Span{&Hyperlink{
				SpanBounds: SpanBounds{0, 2},
				Link:       &WebLink{URL: "https://example.com/?a=1&b=2", Target: "_blank"},
			}},
			want: `<a href="https://example.com/?a=1&amp;b=2" target="_blank" rel="noopener">go</a>`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SpansAsHTML(tt.text, tt.spans, staticResolver, nil))
		})
	}
}

func TestSpansAsHTML_DocumentHyperlink(t *testing.T) {
	spans := []Span{
		&Hyperlink{
			SpanBounds: SpanBounds{0, 3},
			Link:       &DocumentLink{ID: "UbiYbN_mqXkBOgE2", Type: "article", Slug: "-"},
		},
		&Strong{SpanBounds{0, 3}},
	}
	assert.Equal(t, `<strong><a href="/document/UbiYbN_mqXkBOgE2/-">bye</a></strong>`,
		SpansAsHTML("bye", spans, testResolver, nil))
}

func TestSpansAsHTML_Serializer(t *testing.T) {
	serializer := func(e Element, content string) (string, bool) {
		if _, ok := e.(*Strong); ok {
			return "<b>" + content + "</b>", true
		}
		return "", false
	}
	spans := []Span{&Strong{SpanBounds{0, 1}}, &Em{SpanBounds{2, 3}}}
	assert.Equal(t, "<b>a</b> <em>c</em>", SpansAsHTML("a c", spans, staticResolver, serializer))
}

func TestSpansAsHTML_NilResolverPanics(t *testing.T) {
	assert.PanicsWithValue(t, ErrNilLinkResolver, func() {
		SpansAsHTML("text", nil, nil, nil)
	})
}

var (
	anyTag = regexp.MustCompile(`<[^>]*>`)
	tagRe  = regexp.MustCompile(`<(/?)([a-z]+)[^>]*>`)
)

// assertBalanced checks that every opening tag is closed by the matching
// closing tag, innermost first.
func assertBalanced(t *testing.T, html string) {
	t.Helper()
	var open []string
	for _, m := range tagRe.FindAllStringSubmatch(html, -1) {
		if m[1] == "" {
			open = append(open, m[2])
			continue
		}
		require.NotEmpty(t, open, "closing </%s> without an opening tag in %q", m[2], html)
		assert.Equal(t, open[len(open)-1], m[2], "misnested tags in %q", html)
		open = open[:len(open)-1]
	}
	assert.Empty(t, open, "unclosed tags in %q", html)
}

func randomSpan(rng *rand.Rand, n int) Span {
	start := rng.Intn(n + 1)
	end := start + rng.Intn(n-start+3) // occasionally past the text
	b := SpanBounds{start, end}
	switch rng.Intn(4) {
	case 0:
		return &Em{b}
	case 1:
		return &Strong{b}
	case 2:
		return &LabelSpan{SpanBounds: b, Label: "tip"}
	default:
		return &Hyperlink{SpanBounds: b, Link: &WebLink{URL: "https://example.com/?a=1&b=2"}}
	}
}

func TestSpansAsHTML_GeneratedSpans(t *testing.T) {
	texts := []string{
		"a&b 42 > 41",
		"Two spans with the same start",
		"café <crème> & brûlée",
		"x",
		"",
	}
	rng := rand.New(rand.NewSource(20131017))
	for _, text := range texts {
		n := len([]rune(text))
		for i := 0; i < 200; i++ {
			count := rng.Intn(6)
			spans := make([]Span, count)
			for j := range spans {
				spans[j] = randomSpan(rng, n)
			}
			t.Run(fmt.Sprintf("%q/%d", text, i), func(t *testing.T) {
				html := SpansAsHTML(text, spans, staticResolver, nil)
				assert.Equal(t, escapeText(text), anyTag.ReplaceAllString(html, ""))
				assertBalanced(t, html)
			})
		}
	}
}
