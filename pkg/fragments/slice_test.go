package fragments

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSliceZone_Simple(t *testing.T) {
	zone := loadFields(t, loadFixture(t, "slices")).GetSliceZone("article.blocks")
	require.NotNil(t, zone)
	require.Len(t, zone.Slices, 2)

	assert.Equal(t, "features", zone.Slices[0].SliceType())
	assert.Equal(t,
		`<div data-slicetype="features" class="slice"><section data-field="illustration">`+
			`<img src="https://wroomdev.s3.amazonaws.com/toto/db3775edb44f9818c54baa72bbfc8d3d6394b6ef_hsf_evilsquall.jpg" alt="" width="4285" height="709" /></section>`+
			`<section data-field="title"><span class="text">c'est un bloc features</span></section></div>`+"\n"+
			`<div data-slicetype="text" class="slice"><p>C'est un bloc content</p></div>`,
		zone.AsHTML(testResolver, nil))
}

func TestSliceZone_Composite(t *testing.T) {
	zone := loadFields(t, loadFixture(t, "composite_slices")).GetSliceZone("test.body")
	require.NotNil(t, zone)
	require.Len(t, zone.Slices, 2)

	a, ok := zone.Slices[0].(*CompositeSlice)
	require.True(t, ok)
	assert.Equal(t, 2, a.NonRepeat.Len())
	assert.Equal(t, 2, a.Repeat.Len())

	assert.Equal(t,
		`<div data-slicetype="slice-a" class="slice">`+
			`<section data-field="non-repeat-text"><p>Slice A non-repeat text</p></section>`+
			`<section data-field="non-repeat-title"><h1>Slice A non-repeat title</h1></section>`+
			`<section data-field="repeat-text"><p>Repeatable text A</p></section>`+
			`<section data-field="repeat-title"><h1>Repeatable title A</h1></section>`+"\n"+
			`<section data-field="repeat-text"><p>Repeatable text B</p></section>`+
			`<section data-field="repeat-title"><h1>Repeatable title B</h1></section></div>`+"\n"+
			`<div data-slicetype="slice-b" class="slice">`+
			`<section data-field="image"><img src="https://prismic-io.s3.amazonaws.com/tails/014c1fe46e3ceaf04b7cc925b2ea7e8027dc607a_mobile_header_tp.png" alt="" width="800" height="500" /></section>`+
			`<section data-field="title"><h1>Slice A non-repeat title</h1></section></div>`,
		zone.AsHTML(testResolver, nil))
}

func TestSliceZone_LabelAndMalformed(t *testing.T) {
	f, err := newSliceZone(DefaultRegistry(), []byte(`[
		{"slice_type": "quote", "slice_label": "wide", "value": {"type": "Text", "value": "q"}},
		{"slice_type": "broken"},
		{"slice_type": "nulls", "value": null, "repeat": null, "non-repeat": null}]`))
	require.NoError(t, err)
	zone := f.(*SliceZone)
	require.Len(t, zone.Slices, 1)
	assert.Equal(t, "wide", zone.Slices[0].SliceLabel())
	assert.Equal(t, `<div data-slicetype="quote" class="slice wide"><span class="text">q</span></div>`, zone.AsHTML(staticResolver, nil))

	_, err = parseSlice(DefaultRegistry(), []byte(`{"slice_type": "broken"}`))
	assert.ErrorIs(t, err, ErrMalformedSlice)
}
