package fragments

import (
	"sort"
	"strings"
)

// spanFrame is an open span accumulating its inner HTML.
type spanFrame struct {
	span Span
	end  int
	buf  strings.Builder
}

// SpansAsHTML renders text with its inline spans. Spans may nest, overlap
// or share boundaries; the output is always well nested:
//
//   - spans opening at the same offset open longest first, and among equal
//     lengths the span listed last becomes the outer element;
//   - a span closes only once every span opened after it has closed; spans
//     crossing its end are closed with it and re-opened right after;
//   - zero-length spans render as empty elements;
//   - spans ending past the text are closed at its end.
//
// Each span is offered to serializer first. Text is escaped once.
func SpansAsHTML(text string, spans []Span, resolver LinkResolver, serializer HTMLSerializer) string {
	requireResolver(resolver)
	runes := []rune(text)
	n := len(runes)

	// Spans indexed by start offset, in opening order.
	starts := make(map[int][]int)
	for i, s := range spans {
		start, _ := clampBounds(s, n)
		starts[start] = append(starts[start], i)
	}
	for _, idx := range starts {
		sort.SliceStable(idx, func(a, b int) bool {
			la, lb := spanLength(spans[idx[a]], n), spanLength(spans[idx[b]], n)
			if la != lb {
				return la > lb
			}
			return idx[a] > idx[b]
		})
	}

	var out strings.Builder
	var stack []*spanFrame

	emit := func(html string) {
		if len(stack) == 0 {
			out.WriteString(html)
		} else {
			stack[len(stack)-1].buf.WriteString(html)
		}
	}
	closeTop := func() *spanFrame {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		emit(spanAsHTML(top.span, top.buf.String(), resolver, serializer))
		return top
	}

	for i := 0; i <= n; i++ {
		// Close the spans ending here, unwinding the stack down to the
		// deepest of them and re-opening survivors in their original order.
		if deepest := deepestEnding(stack, i); deepest >= 0 {
			var survivors []*spanFrame
			for len(stack) > deepest {
				if top := closeTop(); top.end != i {
					survivors = append(survivors, top)
				}
			}
			for j := len(survivors) - 1; j >= 0; j-- {
				stack = append(stack, &spanFrame{span: survivors[j].span, end: survivors[j].end})
			}
		}
		for _, idx := range starts[i] {
			s := spans[idx]
			_, end := clampBounds(s, n)
			if end == i {
				emit(spanAsHTML(s, "", resolver, serializer))
				continue
			}
			stack = append(stack, &spanFrame{span: s, end: end})
		}
		if i < n {
			var sb strings.Builder
			writeEscapedRune(&sb, runes[i])
			emit(sb.String())
		}
	}
	for len(stack) > 0 {
		closeTop()
	}
	return out.String()
}

// deepestEnding returns the lowest stack position of a frame ending at i,
// or -1.
func deepestEnding(stack []*spanFrame, i int) int {
	for pos, f := range stack {
		if f.end == i {
			return pos
		}
	}
	return -1
}

// clampBounds keeps the start inside the text and the end at or after the
// start. Ends past the text are kept so they are flushed after the scan.
func clampBounds(s Span, n int) (start, end int) {
	start, end = s.Bounds()
	if start < 0 {
		start = 0
	}
	if start > n {
		start = n
	}
	if end < start {
		end = start
	}
	return start, end
}

func spanLength(s Span, n int) int {
	start, end := clampBounds(s, n)
	return end - start
}

// spanAsHTML wraps content in the markup of a single span.
func spanAsHTML(s Span, content string, resolver LinkResolver, serializer HTMLSerializer) string {
	if serializer != nil {
		if html, ok := serializer(s, content); ok {
			return html
		}
	}
	switch s := s.(type) {
	case *Em:
		return "<em>" + content + "</em>"
	case *Strong:
		return "<strong>" + content + "</strong>"
	case *Hyperlink:
		if s.Link == nil {
			return "<span>" + content + "</span>"
		}
		target := ""
		if wl, ok := s.Link.(*WebLink); ok {
			target = targetAttr(wl.Target)
		}
		return `<a href="` + escapeAttr(s.Link.Resolve(resolver)) + `"` + target + `>` + content + `</a>`
	case *LabelSpan:
		return "<span" + classAttr(s.Label) + ">" + content + "</span>"
	default:
		return "<span>" + content + "</span>"
	}
}
