package api

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/google/uuid"
	"github.com/mr-tron/base58"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/trace"
)

const (
	defaultUserAgent = "cloud-pos-cli/0.1"
	defaultTimeout   = 30 * time.Second
	defaultMaxTries  = 3
)

// CredentialSource supplies tokens and tenant/store context to the client.
// Values are read at request-send time, never captured earlier, so a
// context switch is visible to every request issued after it.
type CredentialSource interface {
	AccessToken() string
	RefreshToken() string
	TenantID() string
	StoreID() string
	SetTokens(accessToken, refreshToken string) error
	Clear() error
}

// Config wires credentials, base URL, and transport for the API client.
type Config struct {
	BaseURL     string
	Credentials CredentialSource
	HTTPClient  *http.Client
	Timeout     time.Duration
	UserAgent   string

	// MaxTries bounds transport-level retries for GET requests. Values
	// below 2 disable retrying.
	MaxTries uint
}

// Client is the HTTP gateway to the POS API. It injects Authorization and
// tenant/store headers on every request and recovers a 401 once via a
// coalesced refresh-token exchange.
type Client struct {
	baseURL    string
	httpClient *http.Client
	creds      CredentialSource
	userAgent  string
	maxTries   uint

	refreshMu sync.Mutex
	refresh   *refreshCall

	// Grouped service clients.
	Auth      *AuthService
	Tenants   *TenantsService
	Stores    *StoresService
	Users     *UsersService
	Roles     *RolesService
	Dashboard *DashboardService
}

// NewClient validates the configuration and returns a ready-to-use Client.
func NewClient(cfg Config) (*Client, error) {
	if cfg.Credentials == nil {
		return nil, errors.New("api: credential source is required")
	}
	normalized, err := normalizeBaseURL(cfg.BaseURL)
	if err != nil {
		return nil, err
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = defaultUserAgent
	}

	maxTries := cfg.MaxTries
	if maxTries == 0 {
		maxTries = defaultMaxTries
	}

	client := &Client{
		baseURL:    normalized,
		httpClient: httpClient,
		creds:      cfg.Credentials,
		userAgent:  userAgent,
		maxTries:   maxTries,
	}
	client.Auth = &AuthService{client: client}
	client.Tenants = &TenantsService{client: client}
	client.Stores = &StoresService{client: client}
	client.Users = &UsersService{client: client}
	client.Roles = &RolesService{client: client}
	client.Dashboard = &DashboardService{client: client}

	return client, nil
}

func normalizeBaseURL(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", errors.New("api: base URL required")
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return "", fmt.Errorf("api: invalid base URL: %w", err)
	}
	if u.Scheme == "" {
		return "", errors.New("api: base URL missing scheme (http/https)")
	}
	if u.Host == "" {
		return "", errors.New("api: base URL missing host")
	}
	u.Path = strings.TrimSuffix(u.Path, "/")
	return strings.TrimSuffix(u.String(), "/"), nil
}

// requestOptions collects per-request overrides.
type requestOptions struct {
	tenantID      *string
	storeID       *string
	skipAuthRetry bool
	noAuth        bool
}

// RequestOption customises a single request.
type RequestOption func(*requestOptions)

// WithTenantID overrides the X-Tenant-ID header for this request only.
// The store header is suppressed unless also overridden, so a scoped fetch
// never pairs a stale store with a different tenant.
func WithTenantID(id string) RequestOption {
	return func(o *requestOptions) { o.tenantID = &id }
}

// WithStoreID overrides the X-Store-ID header for this request only.
func WithStoreID(id string) RequestOption {
	return func(o *requestOptions) { o.storeID = &id }
}

// skipAuthRetry disables the 401 refresh-and-retry path. Used on auth
// endpoints where a 401 is a terminal answer, not an expired token.
func skipAuthRetry() RequestOption {
	return func(o *requestOptions) { o.skipAuthRetry = true }
}

// withoutAuth omits the Authorization header entirely.
func withoutAuth() RequestOption {
	return func(o *requestOptions) { o.noAuth = true }
}

// Get issues a GET request and decodes the payload into out.
func (c *Client) Get(ctx context.Context, path string, out any, opts ...RequestOption) error {
	return c.do(ctx, http.MethodGet, path, nil, out, opts...)
}

// Post issues a POST request with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body, out any, opts ...RequestOption) error {
	return c.do(ctx, http.MethodPost, path, body, out, opts...)
}

// Put issues a PUT request with a JSON body.
func (c *Client) Put(ctx context.Context, path string, body, out any, opts ...RequestOption) error {
	return c.do(ctx, http.MethodPut, path, body, out, opts...)
}

// Patch issues a PATCH request with a JSON body.
func (c *Client) Patch(ctx context.Context, path string, body, out any, opts ...RequestOption) error {
	return c.do(ctx, http.MethodPatch, path, body, out, opts...)
}

// Delete issues a DELETE request.
func (c *Client) Delete(ctx context.Context, path string, out any, opts ...RequestOption) error {
	return c.do(ctx, http.MethodDelete, path, nil, out, opts...)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any, opts ...RequestOption) error {
	var options requestOptions
	for _, opt := range opts {
		opt(&options)
	}

	var encoded []byte
	if body != nil {
		var err error
		encoded, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("api: failed to encode request body: %w", err)
		}
	}

	resp, err := c.send(ctx, method, path, encoded, options)
	if err != nil {
		return err
	}

	// Recover a 401 once: one coalesced refresh, then a single retry with
	// the renewed token. A failed refresh clears the token store.
	if resp.StatusCode == http.StatusUnauthorized && !options.skipAuthRetry && !options.noAuth {
		drain(resp)

		if _, err := c.refreshAccessToken(ctx); err != nil {
			if clearErr := c.creds.Clear(); clearErr != nil {
				log.Warn().Err(clearErr).Msg("failed to clear token store after refresh failure")
			}
			log.Warn().Str("path", path).Msg("token refresh failed, session expired")
			return &APIError{
				Status:  http.StatusUnauthorized,
				Message: "session expired, please log in again",
				Err:     ErrSessionExpired,
			}
		}

		options.skipAuthRetry = true
		resp, err = c.send(ctx, method, path, encoded, options)
		if err != nil {
			return err
		}
	}

	defer drain(resp)

	if resp.StatusCode >= 400 {
		return decodeError(resp)
	}
	if out == nil {
		return nil
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &APIError{Message: fmt.Sprintf("failed to read response body: %v", err), Err: ErrNetwork}
	}
	return decodePayload(data, out)
}

// send builds and issues a single request. GET requests retry transient
// transport failures with exponential backoff; other methods are not
// assumed idempotent and get one attempt.
func (c *Client) send(ctx context.Context, method, path string, body []byte, options requestOptions) (*http.Response, error) {
	attempt := func() (*http.Response, error) {
		req, err := c.newRequest(ctx, method, path, body, options)
		if err != nil {
			return nil, backoff.Permanent(err)
		}

		start := time.Now()
		resp, err := c.httpClient.Do(req)
		if err != nil {
			log.Debug().Str("method", method).Str("path", path).Err(err).Msg("api request failed")
			return nil, err
		}
		log.Debug().
			Str("method", method).
			Str("path", path).
			Int("status", resp.StatusCode).
			Dur("duration", time.Since(start)).
			Msg("api request")
		return resp, nil
	}

	if method == http.MethodGet && c.maxTries > 1 {
		resp, err := backoff.Retry(ctx, attempt,
			backoff.WithBackOff(backoff.NewExponentialBackOff()),
			backoff.WithMaxTries(c.maxTries),
		)
		if err != nil {
			return nil, asNetworkError(err)
		}
		return resp, nil
	}

	resp, err := attempt()
	if err != nil {
		return nil, asNetworkError(err)
	}
	return resp, nil
}

func asNetworkError(err error) error {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return &APIError{Message: err.Error(), Err: ErrNetwork}
}

// newRequest builds a request with headers read from the credential source
// at call time.
func (c *Client) newRequest(ctx context.Context, method, path string, body []byte, options requestOptions) (*http.Request, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.buildURL(path), reader)
	if err != nil {
		return nil, err
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-ID", uuid.NewString())

	if !options.noAuth {
		if token := c.creds.AccessToken(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	tenantID := c.creds.TenantID()
	storeID := c.creds.StoreID()
	if options.tenantID != nil {
		tenantID = *options.tenantID
		// A tenant override invalidates the ambient store selection.
		storeID = ""
	}
	if options.storeID != nil {
		storeID = *options.storeID
	}
	if tenantID != "" {
		req.Header.Set("X-Tenant-ID", tenantID)
	}
	if storeID != "" {
		req.Header.Set("X-Store-ID", storeID)
	}

	injectTraceparent(ctx, req)

	return req, nil
}

func (c *Client) buildURL(path string) string {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return c.baseURL + path
}

func injectTraceparent(ctx context.Context, req *http.Request) {
	sc := trace.SpanFromContext(ctx).SpanContext()
	if !sc.IsValid() {
		return
	}
	req.Header.Set("Traceparent", fmt.Sprintf("00-%s-%s-01", sc.TraceID().String(), sc.SpanID().String()))
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<16))
	_ = resp.Body.Close()
}

// TokenFingerprint returns a short base58 digest of a token, safe for log
// fields. Tokens are never logged in full.
func TokenFingerprint(token string) string {
	if token == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(token))
	encoded := base58.Encode(sum[:])
	if len(encoded) > 12 {
		encoded = encoded[:12]
	}
	return encoded
}
