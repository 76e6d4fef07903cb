// Package fragments holds the typed content model returned by the documents
// API and the HTML rendering engine built on top of it.
//
// Raw JSON fragment nodes of the form {"type": ..., "value": ...} are
// dispatched through a Registry to one concrete Fragment implementation per
// wire type. Documents, fetched document links, group entries and slice
// non-repeat zones all expose their fragments through a Container, which
// keeps fields in source order and offers typed accessors.
//
// Rich text (StructuredText) is rendered block by block. Inline spans may
// overlap arbitrarily; SpansAsHTML resolves them into well-nested markup.
// Callers can override the markup of any block or span with an
// HTMLSerializer, and must supply a LinkResolver to turn document links into
// URLs.
package fragments
