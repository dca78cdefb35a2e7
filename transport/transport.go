package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// BasePath is the API prefix every request path is resolved under.
const BasePath = "/api/v1"

// Session is the slice of the session manager the pipeline needs: a token
// for outgoing requests and teardown when the server answers 401.
type Session interface {
	GetAccessToken(ctx context.Context) (string, error)
	Logout()
}

// Notifier receives exactly one user-visible notification per failed
// request, at the interception point rather than at each call site.
type Notifier interface {
	Notify(kind Kind, message string)
}

// NotifierFunc adapts a function to the Notifier interface.
type NotifierFunc func(kind Kind, message string)

func (f NotifierFunc) Notify(kind Kind, message string) { f(kind, message) }

// Request describes one outgoing call. RequiresAuth defaults to false:
// requests are anonymous unless a call site opts in.
type Request struct {
	Method       string
	Path         string
	Query        url.Values
	Body         any
	RequiresAuth bool
}

// Client is the interceptor pipeline over net/http: it attaches bearer
// credentials to requests that ask for them and classifies every failure
// into the Kind taxonomy.
type Client struct {
	base     *url.URL
	http     *http.Client
	session  Session
	notifier Notifier
	log      zerolog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the per-request deadline of the underlying http.Client.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.http.Timeout = timeout
	}
}

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// WithNotifier sets the failure notifier.
func WithNotifier(n Notifier) Option {
	return func(c *Client) {
		c.notifier = n
	}
}

// WithLogger sets the client's logger.
func WithLogger(log zerolog.Logger) Option {
	return func(c *Client) {
		c.log = log
	}
}

// New creates a pipeline client for the given backend base URL.
func New(baseURL string, options ...Option) (*Client, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, errors.Wrap(err, "[transport.New] parse base URL")
	}

	c := &Client{
		base: base,
		http: &http.Client{Timeout: 30 * time.Second},
		log:  zerolog.Nop(),
	}
	for _, opt := range options {
		opt(c)
	}
	return c, nil
}

// BindSession attaches the session manager after construction. The session
// manager itself issues requests through this client, so the two are wired
// in the composition root once both exist.
func (c *Client) BindSession(s Session) {
	c.session = s
}

// Do runs one request through the pipeline. On 2xx the response body is
// decoded into out (when out is non-nil); any failure is classified,
// reported once through the notifier, and returned as *Error.
func (c *Client) Do(ctx context.Context, req Request, out any) error {
	httpReq, err := c.buildRequest(ctx, req)
	if err != nil {
		return err
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		c.notify(KindNetwork)
		c.log.Warn().Err(err).Str("method", req.Method).Str("path", req.Path).Msg("request failed")
		return &Error{Kind: KindNetwork, Cause: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.notify(KindNetwork)
		return &Error{Kind: KindNetwork, Cause: err}
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return c.decode(body, out)
	}

	kind := classify(resp.StatusCode)
	if kind == KindUnauthorized && c.session != nil {
		c.session.Logout()
	}
	c.notify(kind)
	c.log.Debug().Int("status", resp.StatusCode).Str("method", req.Method).Str("path", req.Path).Msg("request rejected")
	return &Error{Kind: kind, Status: resp.StatusCode}
}

// Get issues a GET through the pipeline.
func (c *Client) Get(ctx context.Context, path string, query url.Values, requiresAuth bool, out any) error {
	return c.Do(ctx, Request{Method: http.MethodGet, Path: path, Query: query, RequiresAuth: requiresAuth}, out)
}

// Post issues a POST with a JSON body through the pipeline.
func (c *Client) Post(ctx context.Context, path string, body any, requiresAuth bool, out any) error {
	return c.Do(ctx, Request{Method: http.MethodPost, Path: path, Body: body, RequiresAuth: requiresAuth}, out)
}

// Put issues a PUT with a JSON body through the pipeline.
func (c *Client) Put(ctx context.Context, path string, body any, requiresAuth bool, out any) error {
	return c.Do(ctx, Request{Method: http.MethodPut, Path: path, Body: body, RequiresAuth: requiresAuth}, out)
}

// Delete issues a DELETE through the pipeline.
func (c *Client) Delete(ctx context.Context, path string, query url.Values, requiresAuth bool, out any) error {
	return c.Do(ctx, Request{Method: http.MethodDelete, Path: path, Query: query, RequiresAuth: requiresAuth}, out)
}

func (c *Client) buildRequest(ctx context.Context, req Request) (*http.Request, error) {
	target := *c.base
	target.Path = strings.TrimSuffix(target.Path, "/") + BasePath + req.Path
	if len(req.Query) > 0 {
		target.RawQuery = req.Query.Encode()
	}

	var reader io.Reader
	if req.Body != nil {
		raw, err := json.Marshal(req.Body)
		if err != nil {
			return nil, errors.Wrap(err, "[Client.buildRequest] marshal body")
		}
		reader = bytes.NewReader(raw)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, target.String(), reader)
	if err != nil {
		return nil, errors.Wrap(err, "[Client.buildRequest] new request")
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-Request-Id", uuid.New().String())

	if req.RequiresAuth && c.session != nil {
		token, err := c.session.GetAccessToken(ctx)
		if err != nil {
			return nil, err
		}
		// No token means the request proceeds unauthenticated and the
		// server produces the expected 401.
		if token != "" {
			httpReq.Header.Set("Authorization", "Bearer "+token)
		}
	}

	return httpReq, nil
}

// decode unmarshals a response body. String targets fall back to the raw
// body, since a few endpoints (status version, moderation acks) answer with
// plain text.
func (c *Client) decode(body []byte, out any) error {
	if out == nil || len(body) == 0 {
		return nil
	}

	if err := json.Unmarshal(body, out); err != nil {
		if target, ok := out.(*string); ok {
			*target = string(body)
			return nil
		}
		return &Error{Kind: KindUnknown, Cause: errors.Wrap(err, "[Client.decode] unmarshal")}
	}
	return nil
}

func (c *Client) notify(kind Kind) {
	if c.notifier == nil {
		return
	}
	c.notifier.Notify(kind, kind.Message())
}
