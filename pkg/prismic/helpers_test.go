package prismic

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func loadFixture(t *testing.T, name string) []byte {
	t.Helper()
	raw, err := os.ReadFile(filepath.Join("testdata", name+".json"))
	require.NoError(t, err, "Failed to read fixture %s", name)
	return raw
}

// memoryCache records what the connection stores.
type memoryCache struct {
	mu      sync.Mutex
	entries map[string][]byte
	ttls    map[string]time.Duration
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: map[string][]byte{}, ttls: map[string]time.Duration{}}
}

func (c *memoryCache) Get(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.entries[key]
	return v, ok
}

func (c *memoryCache) Set(key string, value []byte, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = value
	c.ttls[key] = ttl
}

// fakeServer answers fetches by path and records the requested URLs.
type fakeServer struct {
	mu       sync.Mutex
	requests []*url.URL
	routes   map[string]func(q url.Values) (int, string, http.Header)
}

func newFakeServer() *fakeServer {
	return &fakeServer{routes: map[string]func(url.Values) (int, string, http.Header){}}
}

func (s *fakeServer) handle(path string, status int, body string) {
	s.routes[path] = func(url.Values) (int, string, http.Header) { return status, body, http.Header{} }
}

func (s *fakeServer) Fetch(_ context.Context, raw string) (int, []byte, http.Header, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return 0, nil, nil, err
	}
	s.mu.Lock()
	s.requests = append(s.requests, u)
	s.mu.Unlock()
	route, ok := s.routes[u.Path]
	if !ok {
		return http.StatusNotFound, []byte("not found"), http.Header{}, nil
	}
	status, body, header := route(u.Query())
	return status, []byte(body), header, nil
}

func (s *fakeServer) lastRequest(t *testing.T) *url.URL {
	t.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()
	require.NotEmpty(t, s.requests)
	return s.requests[len(s.requests)-1]
}

// fixtureAPI returns an API bootstrapped from the api fixture, talking to
// server. Form actions of the fixture live under /api/documents/search.
func fixtureAPI(t *testing.T, server *fakeServer, opts ...Option) *API {
	t.Helper()
	server.handle("/api", http.StatusOK, string(loadFixture(t, "api")))
	opts = append([]Option{WithTransport(server), WithLogger(quietLogger())}, opts...)
	api, err := Get(context.Background(), "http://micro.wroom.io/api", opts...)
	require.NoError(t, err)
	return api
}
