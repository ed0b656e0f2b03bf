package webhooks

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// Client sends signed post operations to a blog webhook endpoint. The URL and
// secret are fixed at construction; a Client is safe for concurrent use.
type Client struct {
	url        string
	secret     string
	httpClient *http.Client
	now        func() time.Time
	logger     zerolog.Logger
	metrics    *Metrics

	tracing     bool
	tracingOpts []otelhttp.Option
}

// Option configures the client.
type Option func(*Client)

// WithHTTPClient sets the HTTP client used for requests. No timeout is applied
// by the webhook client itself; use the client's Timeout or a context deadline.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithLogger sets the logger for request diagnostics. The secret is never logged.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithClock overrides time.Now, used for the default create date and latency.
func WithClock(now func() time.Time) Option {
	return func(c *Client) {
		if now != nil {
			c.now = now
		}
	}
}

// WithMetrics records request counts and latency on m.
func WithMetrics(m *Metrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// WithTracing wraps the transport with OpenTelemetry client instrumentation.
func WithTracing(opts ...otelhttp.Option) Option {
	return func(c *Client) {
		c.tracing = true
		c.tracingOpts = opts
	}
}

// NewClient creates a client for the webhook at rawURL authenticated with secret.
func NewClient(rawURL, secret string, opts ...Option) (*Client, error) {
	if rawURL == "" {
		return nil, ErrMissingURL
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parsing webhook url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("webhook url must use http or https, got %q", u.Scheme)
	}
	if secret == "" {
		return nil, ErrMissingSecret
	}

	c := &Client{
		url:        u.String(),
		secret:     secret,
		httpClient: http.DefaultClient,
		now:        time.Now,
		logger:     zerolog.Nop(),
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.tracing {
		traced := *c.httpClient
		base := traced.Transport
		if base == nil {
			base = http.DefaultTransport
		}
		traced.Transport = otelhttp.NewTransport(base, c.tracingOpts...)
		c.httpClient = &traced
	}

	return c, nil
}

// URL returns the webhook endpoint.
func (c *Client) URL() string {
	return c.url
}

// Seal serializes and signs payload with the client's secret.
func (c *Client) Seal(payload any) (*Envelope, error) {
	return Seal(c.secret, payload)
}

// CreatePost sends a POST with the create payload.
func (c *Client) CreatePost(ctx context.Context, in CreatePostInput) (*Result, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	env, err := c.Seal(in.payload(c.now()))
	if err != nil {
		return nil, err
	}
	return c.Send(ctx, http.MethodPost, env)
}

// UpdatePost sends a PUT with the update payload.
func (c *Client) UpdatePost(ctx context.Context, in UpdatePostInput) (*Result, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	env, err := c.Seal(in.payload())
	if err != nil {
		return nil, err
	}
	return c.Send(ctx, http.MethodPut, env)
}

// DeletePost sends a DELETE whose body is {"slug": slug}.
func (c *Client) DeletePost(ctx context.Context, slug string) (*Result, error) {
	if slug == "" {
		return nil, fmt.Errorf("%w: slug", ErrMissingField)
	}
	env, err := c.Seal(deletePayload{Slug: slug})
	if err != nil {
		return nil, err
	}
	return c.Send(ctx, http.MethodDelete, env)
}

// Send performs exactly one request carrying env.Body and env.Signature.
// Transport failures are returned as errors wrapping ErrTransport; any
// response that was read, whatever its status, is returned as a Result.
func (c *Client) Send(ctx context.Context, method string, env *Envelope) (*Result, error) {
	requestID := uuid.NewString()
	logger := c.logger.With().
		Str("method", method).
		Str("request_id", requestID).
		Logger()

	req, err := http.NewRequestWithContext(ctx, method, c.url, bytes.NewReader(env.Body))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(SignatureHeader, env.Signature)
	req.Header.Set(RequestIDHeader, requestID)

	start := c.now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.record(method, 0, c.now().Sub(start), len(env.Body))
		logger.Debug().Err(err).Msg("Webhook request failed")
		return nil, fmt.Errorf("%w: %s %s: %w", ErrTransport, method, c.url, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		c.metrics.record(method, 0, c.now().Sub(start), len(env.Body))
		return nil, fmt.Errorf("%w: reading response: %w", ErrTransport, err)
	}
	duration := c.now().Sub(start)
	c.metrics.record(method, resp.StatusCode, duration, len(env.Body))

	result := interpretResponse(resp.StatusCode, raw)

	logger.Debug().
		Int("status", result.StatusCode).
		Bool("success", result.Success).
		Dur("duration", duration).
		Int("body_size", len(env.Body)).
		Msg("Webhook request completed")

	return result, nil
}

// interpretResponse maps a status and body to a Result. A body that is not
// valid JSON (including an empty one) is always a failure.
func interpretResponse(status int, body []byte) *Result {
	var data any
	if err := json.Unmarshal(body, &data); err != nil {
		return &Result{
			StatusCode: status,
			Data:       map[string]any{"error": string(body)},
			Success:    false,
		}
	}

	return &Result{
		StatusCode: status,
		Data:       data,
		Success:    status < http.StatusBadRequest,
	}
}
