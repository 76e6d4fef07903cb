package prismic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const experimentsJSON = `{
	"draft": [{"id": "xxxxxxxxxxoGelsX", "name": "Exp 2", "variations": [
		{"id": "VDUBBawGAKoGelsZ", "label": "Base", "ref": "VDUBBawGALAGelsa"},
		{"id": "VDUE-awGALAGemME", "label": "var 1", "ref": "VDUUmHIKAZQKk9uq"}]}],
	"running": [{"googleId": "_UQtin7EQAOH5M34RQq6Dg", "id": "VDUBBawGAKoGelsX", "name": "Exp 1", "variations": [
		{"id": "VDUBBawGAKoGelsZ", "label": "Base", "ref": "VDUBBawGALAGelsa"},
		{"id": "VDUE-awGALAGemME", "label": "var 1", "ref": "VDUUmHIKAZQKk9uq"}]}]
}`

func parseExperiments(t *testing.T) *Experiments {
	t.Helper()
	var e Experiments
	require.NoError(t, json.Unmarshal([]byte(experimentsJSON), &e))
	return &e
}

func TestExperiments_Current(t *testing.T) {
	e := parseExperiments(t)
	require.Len(t, e.Draft, 1)

	first := e.Current()
	require.NotNil(t, first)
	assert.Equal(t, "VDUBBawGAKoGelsX", first.ID)
	assert.Equal(t, "_UQtin7EQAOH5M34RQq6Dg", first.GoogleID)
	assert.Equal(t, "Exp 1", first.Name)

	assert.Nil(t, (&Experiments{}).Current())
}

func TestExperiments_RefFromCookie(t *testing.T) {
	e := parseExperiments(t)

	tests := []struct {
		cookie string
		want   string
	}{
		{"", ""},
		{"Ponies are awesome", ""},
		{"_UQtin7EQAOH5M34RQq6Dg%200", "VDUBBawGALAGelsa"},
		{" _UQtin7EQAOH5M34RQq6Dg%201 ", "VDUUmHIKAZQKk9uq"},
		{"_UQtin7EQAOH5M34RQq6Dg%209", ""},
		{"_UQtin7EQAOH5M34RQq6Dg%20-1", ""},
		{"_UQtin7EQAOH5M34RQq6Dg%20x", ""},
		{"NotAGoodLookingId%200", ""},
		{"NotAGoodLookingId%201", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, e.RefFromCookie(tt.cookie), "cookie %q", tt.cookie)
	}
}
