package prismic

import (
	"context"
	"fmt"
)

// Client is a long-lived handle on a repository. Unlike an *API, it
// fetches the repository description again on every call so that a newly
// published master ref is picked up; the description is cached for a few
// seconds by the configured Cache.
type Client struct {
	endpoint string
	conn     *connection
}

// NewClient returns a client for the repository API at endpoint.
func NewClient(endpoint string, opts ...Option) *Client {
	return &Client{endpoint: endpoint, conn: newConnection(opts...)}
}

// API fetches the current repository description.
func (c *Client) API(ctx context.Context) (*API, error) {
	body, err := c.conn.getJSON(ctx, c.endpoint, nil, apiTTL)
	if err != nil {
		return nil, fmt.Errorf("fetch api %s: %w", c.endpoint, err)
	}
	return newAPI(c.conn, body)
}

// Query runs API.Query against the current description.
func (c *Client) Query(ctx context.Context, predicates []Predicate, opts ...QueryOption) (*Response, error) {
	api, err := c.API(ctx)
	if err != nil {
		return nil, err
	}
	return api.Query(ctx, predicates, opts...)
}

// GetByID returns the document with the given id, or nil.
func (c *Client) GetByID(ctx context.Context, id string, opts ...QueryOption) (*Document, error) {
	api, err := c.API(ctx)
	if err != nil {
		return nil, err
	}
	return api.GetByID(ctx, id, opts...)
}

// GetByUID returns the document of type docType with the given uid, or nil.
func (c *Client) GetByUID(ctx context.Context, docType, uid string, opts ...QueryOption) (*Document, error) {
	api, err := c.API(ctx)
	if err != nil {
		return nil, err
	}
	return api.GetByUID(ctx, docType, uid, opts...)
}
