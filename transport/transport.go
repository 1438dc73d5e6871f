// Package transport wraps an HTTP client with the base URL, timeout,
// interceptor hooks, and token session state shared by every operation group.
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gofrs/uuid/v5"
	"go.uber.org/zap"

	"github.com/habitloop/client-go/errs"
)

// DefaultTimeout bounds a single request when Config.Timeout is zero.
const DefaultTimeout = 10 * time.Second

// RequestHook runs on every outgoing request before it is sent. Returning an
// error aborts the request.
type RequestHook func(*http.Request) error

// ResponseHook runs on every received response before status mapping. The
// body has already been drained; hooks observe status and headers only.
type ResponseHook func(*http.Response) error

// Config carries construction-time settings. Storage is required: durable
// refresh-token storage is platform-specific and has no usable default.
type Config struct {
	BaseURL string
	Timeout time.Duration
	Storage TokenStorage
	Logger  *zap.Logger

	// HTTPClient overrides the underlying client (tests, custom transports).
	HTTPClient *http.Client

	// RequestHooks and ResponseHooks run after the built-in bearer-attach
	// and 401-invalidation hooks, in order.
	RequestHooks  []RequestHook
	ResponseHooks []ResponseHook
}

// Client issues JSON requests against the configured base URL and owns the
// in-memory access token. It is safe for concurrent use.
type Client struct {
	http      *http.Client
	baseURL   string
	storage   TokenStorage
	log       *zap.Logger
	reqHooks  []RequestHook
	respHooks []ResponseHook

	mu        sync.RWMutex
	access    string
	expiresAt time.Time
}

// Response is the raw transport result; operation groups own the decoding.
type Response struct {
	Status int
	Body   []byte
}

// New constructs a Client with required dependencies.
func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("transport: base URL is required")
	}
	if _, err := url.Parse(cfg.BaseURL); err != nil {
		return nil, fmt.Errorf("transport: bad base URL: %w", err)
	}
	if cfg.Storage == nil {
		return nil, errors.New("transport: token storage is required")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	c := &Client{
		http:    httpClient,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		storage: cfg.Storage,
		log:     logger,
	}
	c.reqHooks = append([]RequestHook{c.attachBearer}, cfg.RequestHooks...)
	c.respHooks = append([]ResponseHook{c.invalidateOn401}, cfg.ResponseHooks...)
	return c, nil
}

// Get issues a GET request.
func (c *Client) Get(ctx context.Context, path string) (*Response, error) {
	return c.do(ctx, http.MethodGet, path, nil)
}

// Post issues a POST request with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body any) (*Response, error) {
	return c.do(ctx, http.MethodPost, path, body)
}

// Put issues a PUT request with a JSON body.
func (c *Client) Put(ctx context.Context, path string, body any) (*Response, error) {
	return c.do(ctx, http.MethodPut, path, body)
}

// Patch issues a PATCH request with a JSON body.
func (c *Client) Patch(ctx context.Context, path string, body any) (*Response, error) {
	return c.do(ctx, http.MethodPatch, path, body)
}

// Delete issues a DELETE request.
func (c *Client) Delete(ctx context.Context, path string) (*Response, error) {
	return c.do(ctx, http.MethodDelete, path, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body any) (*Response, error) {
	var rdr io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("%s %s: encode body: %w", method, path, err)
		}
		rdr = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rdr)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if id, err := uuid.NewV4(); err == nil {
		req.Header.Set("X-Request-ID", id.String())
	}

	for _, hook := range c.reqHooks {
		if err := hook(req); err != nil {
			return nil, fmt.Errorf("%s %s: %w", method, path, err)
		}
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		if isTimeout(err) {
			return nil, fmt.Errorf("%s %s after %s: %w", method, path, time.Since(start), errs.ErrTimeout)
		}
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s %s: read body: %w", method, path, err)
	}

	for _, hook := range c.respHooks {
		if err := hook(resp); err != nil {
			return nil, fmt.Errorf("%s %s: %w", method, path, err)
		}
	}

	c.log.Debug("http",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("dur", time.Since(start)),
	)

	if resp.StatusCode >= 400 {
		return nil, &StatusError{Method: method, Path: path, Status: resp.StatusCode, Body: data}
	}
	return &Response{Status: resp.StatusCode, Body: data}, nil
}

// attachBearer is the built-in request hook: a held access token rides on
// the Authorization header; without one the request goes out unauthenticated.
func (c *Client) attachBearer(req *http.Request) error {
	c.mu.RLock()
	tok := c.access
	c.mu.RUnlock()
	if tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	return nil
}

// invalidateOn401 is the built-in response hook: any 401 ends the session
// locally before the failure propagates. The request is not replayed.
func (c *Client) invalidateOn401(resp *http.Response) error {
	if resp.StatusCode == http.StatusUnauthorized {
		if err := c.ClearTokens(); err != nil {
			c.log.Warn("clear tokens on 401", zap.Error(err))
		}
	}
	return nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ue *url.Error
	return errors.As(err, &ue) && ue.Timeout()
}

// StatusError is a non-2xx response. 401 and 404 map onto the matching
// sentinels for errors.Is.
type StatusError struct {
	Method string
	Path   string
	Status int
	Body   []byte
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: status %d", e.Method, e.Path, e.Status)
}

func (e *StatusError) Unwrap() error {
	switch e.Status {
	case http.StatusUnauthorized:
		return errs.ErrUnauthorized
	case http.StatusNotFound:
		return errs.ErrNotFound
	}
	return nil
}
