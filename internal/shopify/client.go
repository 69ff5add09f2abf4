package shopify

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	goshopify "github.com/bold-commerce/go-shopify/v3"
	"go.uber.org/zap"
)

// ClientConfig configures the Admin GraphQL client.
type ClientConfig struct {
	ShopDomain  string
	AccessToken string
	APIVersion  string
	Timeout     time.Duration
	// Transport replaces http.DefaultTransport.
	Transport http.RoundTripper
}

// Client calls the Shopify Admin GraphQL API through go-shopify.
type Client struct {
	shop      string
	token     string
	version   string
	timeout   time.Duration
	transport http.RoundTripper
	log       *zap.Logger
}

func NewClient(cfg ClientConfig, log *zap.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	transport := cfg.Transport
	if transport == nil {
		transport = http.DefaultTransport
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		shop:      cfg.ShopDomain,
		token:     cfg.AccessToken,
		version:   cfg.APIVersion,
		timeout:   timeout,
		transport: transport,
		log:       log,
	}
}

// Endpoint returns the GraphQL URL the client posts to.
func (c *Client) Endpoint() string {
	return fmt.Sprintf("%s/admin/api/%s/graphql.json", goshopify.ShopBaseUrl(c.shop), c.version)
}

// Do posts one query and decodes its "data" object into out. A response with
// top-level errors yields GraphQLErrors even when the HTTP status is 200.
// userErrors inside mutation payloads are left for the caller to inspect.
//
// goshopify.Client keeps per-call state (attempts, rate limits) and its
// GraphQL.Query takes no context, so every call gets its own client whose
// transport is bound to ctx. Retries stay at zero.
func (c *Client) Do(ctx context.Context, query string, variables map[string]any, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	api := goshopify.NewClient(goshopify.App{}, c.shop, c.token,
		goshopify.WithVersion(c.version),
		goshopify.WithHTTPClient(&http.Client{Transport: contextTransport{ctx: ctx, base: c.transport}}),
		goshopify.WithLogger(c.log.Sugar()),
	)

	start := time.Now()
	err := api.GraphQL.Query(query, variables, out)
	c.log.Debug("shopify graphql call",
		zap.Duration("latency", time.Since(start)),
		zap.Bool("ok", err == nil),
	)
	return translate(err)
}

// translate maps go-shopify errors onto this package's error types.
func translate(err error) error {
	if err == nil {
		return nil
	}

	var rateLimited goshopify.RateLimitError
	if errors.As(err, &rateLimited) {
		if rateLimited.Status == http.StatusOK {
			ge := GraphQLError{Message: rateLimited.Message}
			ge.Extensions.Code = "THROTTLED"
			return GraphQLErrors{ge}
		}
		return &StatusError{StatusCode: rateLimited.Status, Body: rateLimited.Error()}
	}

	var respErr goshopify.ResponseError
	if errors.As(err, &respErr) {
		if respErr.Status == http.StatusOK {
			errs := make(GraphQLErrors, 0, len(respErr.Errors))
			for _, msg := range respErr.Errors {
				errs = append(errs, GraphQLError{Message: msg})
			}
			return errs
		}
		return &StatusError{StatusCode: respErr.Status, Body: respErr.Error()}
	}

	var decodeErr goshopify.ResponseDecodingError
	if errors.As(err, &decodeErr) {
		return &StatusError{StatusCode: decodeErr.Status, Body: string(decodeErr.Body)}
	}

	return fmt.Errorf("shopify graphql request failed: %w", err)
}

// contextTransport sends every request under ctx.
type contextTransport struct {
	ctx  context.Context
	base http.RoundTripper
}

func (t contextTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if err := t.ctx.Err(); err != nil {
		return nil, err
	}
	return t.base.RoundTrip(req.WithContext(t.ctx))
}

// Doer is the subset of Client used by repositories.
type Doer interface {
	Do(ctx context.Context, query string, variables map[string]any, out any) error
}

var _ Doer = (*Client)(nil)
