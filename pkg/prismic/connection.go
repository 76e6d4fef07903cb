package prismic

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"contentkit/pkg/fragments"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// apiTTL is how long the repository description is cached.
const apiTTL = 5 * time.Second

// connection carries what every request needs: credentials, transport,
// cache and logger. It is shared by an API and the forms it creates.
type connection struct {
	accessToken string
	transport   Transport
	cache       Cache
	registry    *fragments.Registry
	log         *logrus.Entry
	inflight    singleflight.Group
}

// Option configures Get.
type Option func(*connection)

// WithAccessToken authenticates requests against private repositories.
func WithAccessToken(token string) Option {
	return func(c *connection) { c.accessToken = token }
}

// WithCache sets the response cache. The default is NoCache.
func WithCache(cache Cache) Option {
	return func(c *connection) {
		if cache == nil {
			cache = NoCache{}
		}
		c.cache = cache
	}
}

// WithTransport replaces the default HTTPTransport.
func WithTransport(t Transport) Option {
	return func(c *connection) { c.transport = t }
}

// WithLogger sets the logger.
func WithLogger(l logrus.FieldLogger) Option {
	return func(c *connection) { c.log = l.WithField("component", "prismic") }
}

// WithRegistry sets the fragment registry used to parse documents, for
// repositories using custom fragment types.
func WithRegistry(r *fragments.Registry) Option {
	return func(c *connection) { c.registry = r }
}

func newConnection(opts ...Option) *connection {
	c := &connection{
		cache:    NoCache{},
		registry: fragments.DefaultRegistry(),
		log:      logrus.StandardLogger().WithField("component", "prismic"),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.transport == nil {
		c.transport = NewHTTPTransport(WithTransportLogger(c.log))
	}
	return c
}

// getJSON fetches endpoint with params and the access token, going through
// the cache. Successful answers are cached for ttl, or for the max-age the
// server announced when ttl is zero. Concurrent requests for one URL share
// a single fetch, which outlives the cancellation of any one caller; each
// caller still stops waiting when its own ctx is done.
func (c *connection) getJSON(ctx context.Context, endpoint string, params url.Values, ttl time.Duration) ([]byte, error) {
	u, err := url.Parse(endpoint)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidURL, endpoint)
	}
	query := u.Query()
	for k, vs := range params {
		for _, v := range vs {
			query.Add(k, v)
		}
	}
	if c.accessToken != "" {
		query.Set("access_token", c.accessToken)
	}
	u.RawQuery = query.Encode()
	fullURL := u.String()

	key := cacheKey(fullURL)
	if cached, ok := c.cache.Get(key); ok {
		c.log.WithField("url", endpoint).Debug("Content API cache hit")
		return cached, nil
	}

	shared := context.WithoutCancel(ctx)
	ch := c.inflight.DoChan(key, func() (any, error) {
		status, body, header, err := c.transport.Fetch(shared, fullURL)
		if err != nil {
			return nil, err
		}
		switch status {
		case http.StatusOK:
			if !json.Valid(body) {
				return nil, fmt.Errorf("decode %s: invalid JSON", endpoint)
			}
			expire := ttl
			if expire <= 0 {
				expire, _ = MaxAge(header)
			}
			if expire > 0 {
				c.cache.Set(key, body, expire)
			}
			return body, nil
		case http.StatusUnauthorized:
			if c.accessToken == "" {
				return nil, ErrAuthorizationNeeded
			}
			return nil, ErrInvalidToken
		default:
			return nil, &HTTPError{Code: status, Message: string(body)}
		}
	})

	var res singleflight.Result
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res = <-ch:
	}
	if err := res.Err; err != nil {
		var httpErr *HTTPError
		if !errors.As(err, &httpErr) {
			c.log.WithError(err).WithField("url", endpoint).Debug("Content API request failed")
		}
		return nil, err
	}
	return res.Val.([]byte), nil
}

var maxAgePattern = regexp.MustCompile(`max-age=(\d+)`)

// MaxAge reads the max-age directive of a Cache-Control header.
func MaxAge(header http.Header) (time.Duration, bool) {
	m := maxAgePattern.FindStringSubmatch(header.Get("Cache-Control"))
	if m == nil {
		return 0, false
	}
	secs, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return time.Duration(secs) * time.Second, true
}
