package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrijs2005/ums/internal/logging"
)

// Session is the credential holder a Client is bound to.
type Session interface {
	Token() string
	// Expire drops the session after the backend rejected its token.
	Expire(ctx context.Context)
}

// Envelope is the wrapper every backend response uses.
type Envelope struct {
	Timestamp json.RawMessage            `json:"timestamp,omitempty"`
	Status    int                        `json:"status"`
	Message   string                     `json:"message,omitempty"`
	Error     string                     `json:"error,omitempty"`
	Path      string                     `json:"path,omitempty"`
	Data      map[string]json.RawMessage `json:"data,omitempty"`
}

// PlainText is sent as a text/plain request body instead of JSON.
type PlainText string

const maxErrorBody = 4 << 10

type Client struct {
	baseURL    string
	httpClient *http.Client
	session    Session
	logger     logging.Logger
	metrics    *Metrics
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func WithLogger(l logging.Logger) Option {
	return func(c *Client) { c.logger = l }
}

func WithMetrics(m *Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

// New builds an unbound client. The default transport carries no timeout;
// callers cancel through the context.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: http.DefaultClient,
		logger:     logging.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Bind returns a copy of c that authenticates as s.
func (c *Client) Bind(s Session) *Client {
	bound := *c
	bound.session = s
	return &bound
}

func (c *Client) Get(ctx context.Context, path string, query url.Values) (*Envelope, error) {
	return c.Do(ctx, http.MethodGet, path, query, nil)
}

func (c *Client) Post(ctx context.Context, path string, query url.Values, body any) (*Envelope, error) {
	return c.Do(ctx, http.MethodPost, path, query, body)
}

func (c *Client) Put(ctx context.Context, path string, query url.Values, body any) (*Envelope, error) {
	return c.Do(ctx, http.MethodPut, path, query, body)
}

func (c *Client) Delete(ctx context.Context, path string, query url.Values) (*Envelope, error) {
	return c.Do(ctx, http.MethodDelete, path, query, nil)
}

// Do performs one request. A nil body sends no payload.
func (c *Client) Do(ctx context.Context, method, path string, query url.Values, body any) (*Envelope, error) {
	req, err := c.newRequest(ctx, method, path, query, body)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.observe(method, 0, time.Since(start))
		c.logger.Warn(ctx, "backend call failed", "method", method, "path", path, "error", err)
		return nil, fmt.Errorf("%w: %s %s: %v", ErrUnavailable, method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	c.metrics.observe(method, resp.StatusCode, time.Since(start))
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s %s: %v", ErrUnavailable, method, path, err)
	}
	c.logger.Debug(ctx, "backend call", "method", method, "path", path, "status", resp.StatusCode, "elapsed", time.Since(start))

	if resp.StatusCode == http.StatusUnauthorized {
		if c.session != nil {
			c.session.Expire(ctx)
		}
		return nil, c.apiError(resp.StatusCode, path, raw)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, c.apiError(resp.StatusCode, path, raw)
	}

	env := &Envelope{Status: resp.StatusCode}
	if len(bytes.TrimSpace(raw)) == 0 {
		return env, nil
	}
	if err := json.Unmarshal(raw, env); err != nil {
		return nil, fmt.Errorf("%w: %s %s: %v", ErrInvalidResponse, method, path, err)
	}
	return env, nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, query url.Values, body any) (*http.Request, error) {
	u := c.baseURL + "/" + strings.TrimLeft(path, "/")
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var (
		reader      io.Reader
		contentType string
	)
	switch b := body.(type) {
	case nil:
	case PlainText:
		reader = strings.NewReader(string(b))
		contentType = "text/plain"
	default:
		payload, err := json.Marshal(b)
		if err != nil {
			return nil, fmt.Errorf("encode %s %s body: %w", method, path, err)
		}
		reader = bytes.NewReader(payload)
		contentType = "application/json"
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return nil, fmt.Errorf("build %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.session != nil {
		if token := c.session.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}
	return req, nil
}

// apiError keeps whatever the body says. Non-JSON bodies become the message.
func (c *Client) apiError(status int, path string, raw []byte) *APIError {
	e := &APIError{Status: status, Path: path}
	var env Envelope
	if err := json.Unmarshal(raw, &env); err == nil {
		e.Message = env.Message
		e.Err = env.Error
		if env.Path != "" {
			e.Path = env.Path
		}
		return e
	}
	text := strings.TrimSpace(string(raw))
	if len(text) > maxErrorBody {
		text = text[:maxErrorBody]
	}
	e.Message = text
	return e
}
