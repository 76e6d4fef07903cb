package prismic

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_RefetchesDescription(t *testing.T) {
	server := newFakeServer()
	server.handle("/api", http.StatusOK, string(loadFixture(t, "api")))
	server.handle("/api/documents/search", http.StatusOK, searchResponse(t, string(loadFixture(t, "search")), 3))
	client := NewClient("http://micro.wroom.io/api", WithTransport(server), WithLogger(quietLogger()))
	ctx := context.Background()

	doc, err := client.GetByID(ctx, "UdUkXt_mqZBObPeS")
	require.NoError(t, err)
	require.NotNil(t, doc)
	assert.Equal(t, "UdUkXt_mqZBObPeS", doc.ID)
	assert.Equal(t, "UgjWQN_mqa8HvPJY", server.lastRequest(t).Query().Get("ref"))

	server.handle("/api", http.StatusOK, `{"refs": [{"id": "master", "ref": "newref", "label": "Master", "isMasterRef": true}],
		"forms": {"everything": {"method": "GET", "action": "http://micro.wroom.io/api/documents/search",
		"fields": {"ref": {"type": "String"}, "q": {"type": "String", "multiple": true}}}}}`)

	_, err = client.GetByUID(ctx, "product", "vanilla")
	require.NoError(t, err)
	q := server.lastRequest(t).Query()
	assert.Equal(t, "newref", q.Get("ref"), "New master ref should be used")
	assert.Equal(t, `[[:d = at(my.product.uid, "vanilla")]]`, q.Get("q"))

	resp, err := client.Query(ctx, []Predicate{At("document.type", "product")})
	require.NoError(t, err)
	assert.Len(t, resp.Results, 3)
}

func TestClient_APIError(t *testing.T) {
	server := newFakeServer()
	client := NewClient("http://micro.wroom.io/api", WithTransport(server), WithLogger(quietLogger()))

	_, err := client.GetByID(context.Background(), "x")
	var httpErr *HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusNotFound, httpErr.Code)
}
