// Package api is the catalog access layer: typed calls against the café's
// REST backend for coffees, foods and admin authentication.
//
// Reads are anonymous. Writes need the session's bearer token and are sent
// as multipart forms so an image can travel with the fields. Updates go out
// as POST with a _method=PUT marker unless WithDirectPUT is set. Nothing is
// cached: every call hits the backend.
package api

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/jrsteele09/go-cafe-storefront/catalog"
	"github.com/jrsteele09/go-cafe-storefront/session"
	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"
)

const (
	DefaultBaseURL = "http://localhost:8080/api"
	defaultTimeout = 15 * time.Second

	// maxResponseBytes bounds how much of a response body is read
	maxResponseBytes = 8 << 20
)

// Config holds client configuration.
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// Client talks to the catalog backend on behalf of one session.
type Client struct {
	baseURL    string
	httpClient *http.Client
	session    *session.Session
	directPUT  bool
	metrics    *Metrics
}

// Option adjusts a Client at construction.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client (its Timeout is kept as-is).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithDirectPUT sends updates as a real multipart PUT instead of POST with
// the _method=PUT override.
func WithDirectPUT(enabled bool) Option {
	return func(c *Client) {
		c.directPUT = enabled
	}
}

func WithMetrics(m *Metrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// New creates a client. A nil session gets a private in-memory one.
func New(cfg Config, sess *session.Session, opts ...Option) *Client {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}
	if sess == nil {
		sess = session.New(nil)
	}

	c := &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		session:    sess,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Session returns the session this client reads its token from.
func (c *Client) Session() *session.Session {
	return c.session
}

// WithSession returns a copy of the client bound to another session. The
// transport and metrics are shared.
func (c *Client) WithSession(sess *session.Session) *Client {
	clone := *c
	clone.session = sess
	return &clone
}

type request struct {
	op          string
	kind        catalog.Kind
	id          int64
	method      string
	path        string
	body        io.Reader
	contentType string
	token       *oauth2.Token
}

// bearer returns the session token or an AuthError when there is none.
func (c *Client) bearer(op string, kind catalog.Kind) (*oauth2.Token, error) {
	tok, err := c.session.TokenSource().Token()
	if err != nil {
		return nil, &AuthError{Op: op, Kind: kind}
	}
	return tok, nil
}

// do performs the request and returns the body of a 2xx response.
func (c *Client) do(ctx context.Context, r request) ([]byte, int, error) {
	httpReq, err := http.NewRequestWithContext(ctx, r.method, c.baseURL+r.path, r.body)
	if err != nil {
		return nil, 0, &FetchError{Op: r.op, Kind: r.kind, ID: r.id, Err: err}
	}
	httpReq.Header.Set("Accept", "application/json")
	if r.contentType != "" {
		httpReq.Header.Set("Content-Type", r.contentType)
	}
	if r.token != nil {
		r.token.SetAuthHeader(httpReq)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.record(r, 0, start)
		return nil, 0, &FetchError{Op: r.op, Kind: r.kind, ID: r.id, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	c.record(r, resp.StatusCode, start)
	if err != nil {
		return nil, resp.StatusCode, &FetchError{Op: r.op, Kind: r.kind, ID: r.id, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, resp.StatusCode, &FetchError{
			Op:         r.op,
			Kind:       r.kind,
			ID:         r.id,
			StatusCode: resp.StatusCode,
			Message:    backendMessage(body),
		}
	}
	return body, resp.StatusCode, nil
}

func (c *Client) record(r request, code int, start time.Time) {
	elapsed := time.Since(start)
	c.metrics.observe(r.op, r.kind, code, elapsed)
	log.Debug().
		Str("op", r.op).
		Str("kind", string(r.kind)).
		Str("method", r.method).
		Str("path", r.path).
		Int("status", code).
		Dur("elapsed", elapsed).
		Msg("backend call")
}

func itemPath(kind catalog.Kind, id int64) string {
	return "/" + kind.String() + "/" + strconv.FormatInt(id, 10)
}

func jsonBody(data []byte) io.Reader {
	return bytes.NewReader(data)
}
