// internal/pkg/apiclient/client.go
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"taskdesk/internal/metrics"
	xerrors "taskdesk/internal/pkg/errors"
	"taskdesk/internal/pkg/navigation"
	"taskdesk/internal/pkg/session"
	"taskdesk/internal/pkg/storage"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
)

const (
	// DefaultBaseURL is used when no override is configured.
	DefaultBaseURL = "http://localhost:5027/api"
	// RequestTimeout bounds every backend call.
	RequestTimeout = 10 * time.Second
	// RedirectCooldown is how long a forced logout suppresses further navigations.
	RedirectCooldown = time.Second

	maxResponseBody = 4 << 20
)

// Client sends every backend call through the same two interception points:
// bearer token injection before the request, and 401 handling after it.
type Client struct {
	baseURL   string
	http      *http.Client
	storage   storage.Storage
	session   *session.Store
	navigator navigation.Navigator
	logger    *zap.Logger
	metrics   *metrics.Metrics
	cooldown  time.Duration

	// set while a forced logout navigation is in progress
	redirecting atomic.Bool
}

type Option func(*Client)

// WithTransport swaps the round tripper; the request timeout is kept.
func WithTransport(rt http.RoundTripper) Option {
	return func(c *Client) { c.http.Transport = rt }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

// WithRedirectCooldown overrides RedirectCooldown.
func WithRedirectCooldown(d time.Duration) Option {
	return func(c *Client) { c.cooldown = d }
}

func New(
	baseURL string,
	st storage.Storage,
	sess *session.Store,
	nav navigation.Navigator,
	logger *zap.Logger,
	opts ...Option,
) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	c := &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		http:      &http.Client{Timeout: RequestTimeout},
		storage:   st,
		session:   sess,
		navigator: nav,
		logger:    logger,
		cooldown:  RedirectCooldown,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the resolved backend base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// ========== Verbs ==========

func (c *Client) Get(ctx context.Context, path string, out interface{}) error {
	return c.Do(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) Post(ctx context.Context, path string, body, out interface{}) error {
	return c.Do(ctx, http.MethodPost, path, body, out)
}

func (c *Client) Put(ctx context.Context, path string, body, out interface{}) error {
	return c.Do(ctx, http.MethodPut, path, body, out)
}

func (c *Client) Delete(ctx context.Context, path string, out interface{}) error {
	return c.Do(ctx, http.MethodDelete, path, nil, out)
}

// Do sends one request. A non-2xx status comes back as *APIError; transport
// failures and timeouts wrap xerrors.ErrNetwork. Nothing is retried.
func (c *Client) Do(ctx context.Context, method, path string, body, out interface{}) error {
	req, err := c.newRequest(ctx, method, path, body)
	if err != nil {
		return err
	}

	c.interceptRequest(req)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.metrics.ObserveRequest(method, 0, time.Since(start).Seconds())
		c.logger.Warn("backend request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.String("request_id", req.Header.Get("X-Request-ID")),
			zap.Error(err),
		)
		return fmt.Errorf("%w: %s %s: %v", xerrors.ErrNetwork, method, path, err)
	}
	defer resp.Body.Close()

	c.metrics.ObserveRequest(method, resp.StatusCode, time.Since(start).Seconds())

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return fmt.Errorf("%w: reading %s %s: %v", xerrors.ErrNetwork, method, path, err)
	}

	if err := c.interceptResponse(req, resp.StatusCode, raw); err != nil {
		return err
	}

	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%w: %s %s: %v", xerrors.ErrInvalidServerResponse, method, path, err)
	}
	return nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, body interface{}) (*http.Request, error) {
	var rdr io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		rdr = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.url(path), rdr)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", ulid.Make().String())
	return req, nil
}

func (c *Client) url(path string) string {
	return c.baseURL + "/" + strings.TrimLeft(path, "/")
}

// ========== Interceptors ==========

// interceptRequest attaches the bearer token. The token is read from durable
// storage rather than the session store so it is available before the store
// has rehydrated.
func (c *Client) interceptRequest(req *http.Request) {
	if c.storage == nil {
		return
	}

	tok, ok, err := storage.Lookup(req.Context(), c.storage, storage.KeyToken)
	if err != nil {
		c.logger.Warn("failed to read token, sending unauthenticated", zap.Error(err))
		return
	}
	if ok && tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}
}

// interceptResponse turns non-2xx answers into *APIError and runs the forced
// logout on 401.
func (c *Client) interceptResponse(req *http.Request, status int, raw []byte) error {
	if status >= 200 && status < 300 {
		return nil
	}

	apiErr := newAPIError(req.Method, req.URL.Path, status, raw)
	if status == http.StatusUnauthorized {
		c.handleUnauthorized(req.Context())
	}
	return apiErr
}

// handleUnauthorized clears the session on every 401 (idempotent) but lets
// only one caller per cooldown window navigate to the login route. The guard
// is taken with a CAS before anything else so racing 401s cannot both pass.
func (c *Client) handleUnauthorized(ctx context.Context) {
	won := c.redirecting.CompareAndSwap(false, true)

	if c.session != nil {
		if err := c.session.ClearAuth(context.WithoutCancel(ctx)); err != nil {
			c.logger.Error("failed to clear session after 401", zap.Error(err))
		}
	} else if c.storage != nil {
		_ = c.storage.Delete(context.WithoutCancel(ctx), storage.KeySession, storage.KeyToken)
	}

	if !won {
		return
	}

	c.metrics.ForcedLogout()
	c.logger.Warn("backend rejected the session, redirecting to login")
	if c.navigator != nil {
		c.navigator.Navigate(navigation.RouteLogin)
	}

	time.AfterFunc(c.cooldown, func() {
		c.redirecting.Store(false)
	})
}

// Redirecting reports whether a forced logout navigation is in its cooldown.
func (c *Client) Redirecting() bool {
	return c.redirecting.Load()
}
