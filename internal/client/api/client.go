package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/dmitrijs2005/portalauth/internal/common"
	"github.com/dmitrijs2005/portalauth/internal/logging"
	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

const DefaultTimeout = 15 * time.Second

// Doer sends HTTP requests; *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client sends built requests and normalizes their responses.
type Client struct {
	builder *RequestBuilder
	norm    *Normalizer
	doer    Doer
	limiter *rate.Limiter
	log     logging.Logger
}

type ClientOption func(*Client)

func WithDoer(d Doer) ClientOption {
	return func(c *Client) {
		c.doer = d
	}
}

func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.doer = &http.Client{Timeout: timeout}
	}
}

// WithRateLimit caps outgoing requests per second. Zero disables the limit.
func WithRateLimit(requestsPerSecond int) ClientOption {
	return func(c *Client) {
		if requestsPerSecond <= 0 {
			c.limiter = nil
			return
		}
		c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond)
	}
}

func WithLogger(l logging.Logger) ClientOption {
	return func(c *Client) {
		c.log = l
	}
}

func NewClient(builder *RequestBuilder, norm *Normalizer, opts ...ClientOption) *Client {
	c := &Client{
		builder: builder,
		norm:    norm,
		doer:    &http.Client{Timeout: DefaultTimeout},
		log:     logging.Discard(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Call builds, sends and normalizes one request. Network failures come back
// as *TransportError; expiry handling has already run when Call returns.
func (c *Client) Call(ctx context.Context, spec RequestSpec) (*Envelope, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, &TransportError{Err: fmt.Errorf("rate limit wait: %w", err)}
		}
	}

	req, err := c.builder.Build(ctx, spec)
	if err != nil {
		return nil, err
	}

	cid := uuid.NewString()
	req.Header.Set(common.HeaderCorrelationID, cid)

	start := time.Now()
	resp, err := c.doer.Do(req)
	if err != nil {
		return nil, &TransportError{Err: err}
	}

	c.log.Debug(ctx, "api call",
		"method", req.Method,
		"path", req.URL.Path,
		"status", resp.StatusCode,
		"correlation_id", cid,
		"elapsed", time.Since(start),
	)

	return c.norm.HandleResponse(ctx, resp)
}
