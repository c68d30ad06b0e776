package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

const (
	defaultUserAgent = "syna/0.1"
	requestTimeout   = 30 * time.Second

	// maxErrorBody bounds how much of an error response is read when looking
	// for a detail message.
	maxErrorBody = 1 << 20
)

// Client talks to the Sýna platform API. It owns token attachment, the
// 401-triggered refresh flow, and the logout broadcast.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	tokens    *TokenStore
	userAgent string

	// refresh collapses concurrent token-refresh attempts into one call.
	// Concurrent refresh calls against the auth backend can invalidate each
	// other's refresh tokens, so this is a correctness requirement.
	refresh singleflight.Group

	subMu sync.Mutex
	subs  []chan struct{}

	// Resource clients.
	Auth         *AuthClient
	Projects     *ProjectsClient
	MyProjects   *MyProjectsClient
	Competitions *CompetitionsClient
	Reviews      *ReviewsClient
	Tags         *TagsClient
	Users        *UsersClient
}

// NewClient builds a Client for the given API base URL, using tokens for
// credential storage.
func NewClient(rawURL string, tokens *TokenStore) (*Client, error) {
	base, err := parseBaseURL(rawURL)
	if err != nil {
		return nil, err
	}
	c := &Client{
		baseURL: base,
		http: &http.Client{
			Timeout: requestTimeout,
		},
		tokens:    tokens,
		userAgent: defaultUserAgent,
	}
	c.Auth = &AuthClient{c: c}
	c.Projects = &ProjectsClient{c: c}
	c.MyProjects = &MyProjectsClient{c: c}
	c.Competitions = &CompetitionsClient{c: c}
	c.Reviews = &ReviewsClient{c: c}
	c.Tags = &TagsClient{c: c}
	c.Users = &UsersClient{c: c}
	return c, nil
}

// IsAuthenticated reports whether an access token is currently held.
func (c *Client) IsAuthenticated() bool {
	return c.tokens.IsAuthenticated()
}

// SetTokens stores a new access/refresh token pair.
func (c *Client) SetTokens(access, refresh string) error {
	return c.tokens.SetTokens(access, refresh)
}

// ClearTokens removes both tokens. It does not fire the logout broadcast;
// that is reserved for unrecoverable 401s.
func (c *Client) ClearTokens() error {
	return c.tokens.Clear()
}

// LogoutNotifications returns a channel that receives a value whenever the
// client clears tokens because a request irrecoverably failed authentication.
// The channel has a buffer of one; a slow receiver coalesces signals.
func (c *Client) LogoutNotifications() <-chan struct{} {
	ch := make(chan struct{}, 1)
	c.subMu.Lock()
	c.subs = append(c.subs, ch)
	c.subMu.Unlock()
	return ch
}

func (c *Client) broadcastLogout() {
	c.subMu.Lock()
	defer c.subMu.Unlock()
	for _, ch := range c.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// get issues an authenticated GET and decodes the response into out.
func (c *Client) get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

// do issues an authenticated request with a retry budget of one, spent only
// on a 401 that a token refresh recovers from.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	const retryBudget = 1
	var lastErr error
	for attempt := 0; attempt <= retryBudget; attempt++ {
		retryable, err := c.doOnce(ctx, method, path, body, out)
		if err == nil {
			return nil
		}
		lastErr = err
		if !retryable || attempt == retryBudget {
			break
		}
		if !c.attemptTokenRefresh() {
			break
		}
		// Refresh succeeded; loop retries the identical request once.
		continue
	}
	if lastErr == errAuthFailed {
		_ = c.tokens.Clear()
		c.broadcastLogout()
		return ErrUnauthorized
	}
	return lastErr
}

// errAuthFailed is an internal marker for a 401 response. It never escapes
// do(), which converts it to ErrUnauthorized after tearing the session down.
var errAuthFailed = fmt.Errorf("authentication failed")

// doOnce performs a single HTTP exchange. The boolean reports whether the
// failure is a 401 that may be recovered by a token refresh.
func (c *Client) doOnce(ctx context.Context, method, path string, body, out any) (bool, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return false, fmt.Errorf("marshal body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	rel, err := url.Parse(path)
	if err != nil {
		return false, fmt.Errorf("parse endpoint %q: %w", path, err)
	}
	reqURL := c.baseURL.ResolveReference(rel)
	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), reader)
	if err != nil {
		return false, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if token := c.tokens.AccessToken(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return false, fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusUnauthorized {
		return true, errAuthFailed
	}
	if resp.StatusCode >= 400 {
		return false, decodeAPIError(resp)
	}
	if resp.StatusCode == http.StatusNoContent || out == nil {
		return false, nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return false, fmt.Errorf("decode response: %w", err)
	}
	return false, nil
}

// attemptTokenRefresh exchanges the refresh token for a new access token.
// All concurrent callers share one in-flight attempt and observe its outcome.
// On failure the tokens are left in place; the caller decides whether to
// clear them.
func (c *Client) attemptTokenRefresh() bool {
	v, _, _ := c.refresh.Do("refresh", func() (any, error) {
		return c.refreshOnce(), nil
	})
	ok, _ := v.(bool)
	return ok
}

func (c *Client) refreshOnce() bool {
	refreshToken := c.tokens.RefreshToken()
	if refreshToken == "" {
		return false
	}

	payload, err := json.Marshal(map[string]string{"refresh_token": refreshToken})
	if err != nil {
		return false
	}

	// The refresh is shared across all waiters, so it deliberately runs
	// outside any single caller's context; the HTTP client timeout bounds it.
	reqURL := c.baseURL.ResolveReference(&url.URL{Path: "/api/auth/refresh"})
	req, err := http.NewRequest(http.MethodPost, reqURL.String(), bytes.NewReader(payload))
	if err != nil {
		return false
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return false
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 300 {
		return false
	}
	var token struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&token); err != nil || token.AccessToken == "" {
		return false
	}
	return c.tokens.setAccessToken(token.AccessToken) == nil
}

func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil {
		return apiErr
	}
	var payload struct {
		Detail string `json:"detail"`
	}
	if json.Unmarshal(data, &payload) == nil && payload.Detail != "" {
		apiErr.Detail = payload.Detail
	}
	return apiErr
}

func parseBaseURL(rawURL string) (*url.URL, error) {
	trimmed := strings.TrimSpace(rawURL)
	if trimmed == "" {
		return nil, fmt.Errorf("api url is empty")
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse api url %q: %w", rawURL, err)
	}
	u.Path = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
