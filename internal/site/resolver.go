// Package site maps repository documents to the URLs of the site that
// publishes them.
package site

import (
	"net/url"
	"strings"

	"contentkit/pkg/fragments"
)

// BrokenLink is where links to deleted or unpublished documents point.
const BrokenLink = "#broken"

// Resolver returns a link resolver expanding pattern. The placeholders
// {id}, {uid}, {type}, {slug} and {lang} are replaced by the path-escaped
// attributes of the linked document. A missing slug becomes "-".
func Resolver(pattern string) fragments.LinkResolver {
	return func(link *fragments.DocumentLink) string {
		if link.IsBroken {
			return BrokenLink
		}
		slug := link.Slug
		if slug == "" {
			slug = "-"
		}
		r := strings.NewReplacer(
			"{id}", url.PathEscape(link.ID),
			"{uid}", url.PathEscape(link.UID),
			"{type}", url.PathEscape(link.Type),
			"{slug}", url.PathEscape(slug),
			"{lang}", url.PathEscape(link.Lang),
		)
		return r.Replace(pattern)
	}
}
