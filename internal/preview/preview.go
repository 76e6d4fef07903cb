// Package preview renders document HTML in a headless browser.
package preview

import (
	"context"
	"html"
)

// Previewer captures an image of rendered HTML.
type Previewer interface {
	// Snapshot loads the HTML document page into a blank tab and returns a
	// full-page PNG.
	Snapshot(ctx context.Context, page string) ([]byte, error)
}

// Page wraps a rendered HTML fragment into a standalone document so the
// browser applies sane defaults to it.
func Page(title, body string) string {
	return `<!DOCTYPE html><html><head><meta charset="utf-8"><title>` + html.EscapeString(title) +
		`</title><style>body{font-family:sans-serif;max-width:48em;margin:2em auto;padding:0 1em}img{max-width:100%}</style></head><body>` +
		body + `</body></html>`
}
