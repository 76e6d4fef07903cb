package prismic

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// Transport performs GET requests against the content API.
type Transport interface {
	Fetch(ctx context.Context, url string) (status int, body []byte, header http.Header, err error)
}

// TransportFunc adapts a function to the Transport interface.
type TransportFunc func(ctx context.Context, url string) (int, []byte, http.Header, error)

// Fetch implements Transport.
func (f TransportFunc) Fetch(ctx context.Context, url string) (int, []byte, http.Header, error) {
	return f(ctx, url)
}

// DefaultUserAgent is sent when no other user agent is configured.
const DefaultUserAgent = "contentkit-go/1.0"

// HTTPTransport is the net/http based Transport. Network errors and 5xx
// responses are retried with exponential backoff when retries are enabled.
type HTTPTransport struct {
	client     *http.Client
	userAgent  string
	maxElapsed time.Duration
	limiter    *rate.Limiter
	log        *logrus.Entry
}

// TransportOption configures an HTTPTransport.
type TransportOption func(*HTTPTransport)

// WithHTTPClient replaces the default client.
func WithHTTPClient(c *http.Client) TransportOption {
	return func(t *HTTPTransport) { t.client = c }
}

// WithRetry retries failed requests for at most maxElapsed. Zero disables
// retries.
func WithRetry(maxElapsed time.Duration) TransportOption {
	return func(t *HTTPTransport) { t.maxElapsed = maxElapsed }
}

// WithRateLimit caps outgoing requests per second. Zero or less means
// unlimited.
func WithRateLimit(rps float64) TransportOption {
	return func(t *HTTPTransport) {
		if rps <= 0 {
			t.limiter = nil
			return
		}
		t.limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) TransportOption {
	return func(t *HTTPTransport) { t.userAgent = ua }
}

// WithTransportLogger sets the logger used to report retries.
func WithTransportLogger(l logrus.FieldLogger) TransportOption {
	return func(t *HTTPTransport) { t.log = l.WithField("component", "prismic-transport") }
}

// NewHTTPTransport returns a transport with a 10 second timeout and no
// retries unless configured otherwise.
func NewHTTPTransport(opts ...TransportOption) *HTTPTransport {
	t := &HTTPTransport{
		client:    &http.Client{Timeout: 10 * time.Second},
		userAgent: DefaultUserAgent,
		log:       logrus.StandardLogger().WithField("component", "prismic-transport"),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

type fetchResult struct {
	status int
	body   []byte
	header http.Header
}

// errRetryableStatus marks a 5xx answer worth another attempt.
var errRetryableStatus = errors.New("retryable status")

// Fetch implements Transport.
func (t *HTTPTransport) Fetch(ctx context.Context, url string) (int, []byte, http.Header, error) {
	var last fetchResult
	op := func() (fetchResult, error) {
		if t.limiter != nil {
			if err := t.limiter.Wait(ctx); err != nil {
				return fetchResult{}, backoff.Permanent(err)
			}
		}
		res, err := t.do(ctx, url)
		if err != nil {
			return res, err
		}
		last = res
		if res.status >= http.StatusInternalServerError {
			return res, fmt.Errorf("%w: %d", errRetryableStatus, res.status)
		}
		return res, nil
	}

	var policy backoff.BackOff = &backoff.StopBackOff{}
	if t.maxElapsed > 0 {
		eb := backoff.NewExponentialBackOff()
		eb.MaxElapsedTime = t.maxElapsed
		policy = eb
	}
	notify := func(err error, wait time.Duration) {
		t.log.WithError(err).WithField("url", url).WithField("wait", wait).Warn("Retrying content API request")
	}

	res, err := backoff.RetryNotifyWithData(op, backoff.WithContext(policy, ctx), notify)
	if errors.Is(err, errRetryableStatus) {
		// Out of retries: hand the last server answer to the caller.
		return last.status, last.body, last.header, nil
	}
	if err != nil {
		return 0, nil, nil, err
	}
	return res.status, res.body, res.header, nil
}

func (t *HTTPTransport) do(ctx context.Context, url string) (fetchResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fetchResult{}, backoff.Permanent(fmt.Errorf("%w: %v", ErrInvalidURL, err))
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", t.userAgent)

	resp, err := t.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return fetchResult{}, backoff.Permanent(ctx.Err())
		}
		return fetchResult{}, fmt.Errorf("request %s: %w", url, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fetchResult{}, fmt.Errorf("read response body: %w", err)
	}
	return fetchResult{status: resp.StatusCode, body: body, header: resp.Header}, nil
}
