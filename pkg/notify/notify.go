package notify

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
)

// Endpoint paths relative to the base URL.
const (
	createPath     = "/auth/session/create"
	invalidatePath = "/auth/session/invalidate"
	rotatePath     = "/auth/session/rotate"
)

// CreatePayload announces a new session.
type CreatePayload struct {
	SessionID         string `json:"sessionId"`
	DeviceFingerprint string `json:"deviceFingerprint"`
	LoginMethod       string `json:"loginMethod"`
}

// InvalidatePayload announces a terminated session and why it ended.
type InvalidatePayload struct {
	SessionID string `json:"sessionId"`
	Reason    string `json:"reason"`
}

// RotatePayload announces a session ID rotation.
type RotatePayload struct {
	OldSessionID string `json:"oldSessionId"`
	NewSessionID string `json:"newSessionId"`
}

// DeliveryResult describes one delivery attempt for observability hooks.
type DeliveryResult struct {
	Endpoint   string
	Success    bool
	StatusCode int
	Attempt    int
	Duration   time.Duration
	Error      error
}

// DeliveryHook is called after each delivery attempt.
type DeliveryHook func(result DeliveryResult)

// Client posts session lifecycle notifications to one backend. Safe for
// concurrent use; the underlying HTTP client pools connections across calls.
type Client struct {
	baseURL string
	client  *http.Client

	timeout       time.Duration
	maxRetries    int
	backoff       Backoff
	signingSecret string
	breaker       *CircuitBreaker
	onDelivery    DeliveryHook
	userAgent     string
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the per-attempt request timeout. Default is 10 seconds.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

// WithMaxRetries sets how many times a failed delivery is retried. Default
// is 3; 0 disables retries.
func WithMaxRetries(n int) Option {
	return func(c *Client) {
		if n >= 0 {
			c.maxRetries = n
		}
	}
}

// WithBackoff sets the retry delay strategy. Default is exponential with
// jitter.
func WithBackoff(strategy Backoff) Option {
	return func(c *Client) {
		if strategy != nil {
			c.backoff = strategy
		}
	}
}

// WithSigningSecret enables HMAC-SHA256 request signing.
func WithSigningSecret(secret string) Option {
	return func(c *Client) {
		c.signingSecret = secret
	}
}

// WithCircuitBreaker protects the backend with the given breaker. Without
// one every delivery is attempted regardless of recent failures.
func WithCircuitBreaker(cb *CircuitBreaker) Option {
	return func(c *Client) {
		c.breaker = cb
	}
}

// WithHTTPClient replaces the default pooled HTTP client. Useful for custom
// transports and tests.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.client = client
		}
	}
}

// WithOnDelivery registers a hook invoked after every delivery attempt.
func WithOnDelivery(hook DeliveryHook) Option {
	return func(c *Client) {
		c.onDelivery = hook
	}
}

// NewClient creates a notification client for the given base URL.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidBaseURL, err)
	}
	// http/https only, which also rules out SSRF via exotic schemes
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("%w: only http and https are supported", ErrInvalidBaseURL)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("%w: host is required", ErrInvalidBaseURL)
	}

	c := &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client: &http.Client{
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		timeout:    10 * time.Second,
		maxRetries: 3,
		backoff:    DefaultBackoff(),
		userAgent:  "sessionkit-notify/1.0",
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// SessionCreated announces a freshly created session.
func (c *Client) SessionCreated(ctx context.Context, sessionID, deviceFingerprint, loginMethod string) error {
	return c.send(ctx, createPath, CreatePayload{
		SessionID:         sessionID,
		DeviceFingerprint: deviceFingerprint,
		LoginMethod:       loginMethod,
	})
}

// SessionInvalidated announces a terminated session.
func (c *Client) SessionInvalidated(ctx context.Context, sessionID, reason string) error {
	return c.send(ctx, invalidatePath, InvalidatePayload{
		SessionID: sessionID,
		Reason:    reason,
	})
}

// SessionRotated announces a session ID rotation.
func (c *Client) SessionRotated(ctx context.Context, oldSessionID, newSessionID string) error {
	return c.send(ctx, rotatePath, RotatePayload{
		OldSessionID: oldSessionID,
		NewSessionID: newSessionID,
	})
}

// send runs the retry loop for one notification.
func (c *Client) send(ctx context.Context, path string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("notify: failed to marshal payload: %w", err)
	}

	// Fail fast while the breaker is protecting the backend
	if c.breaker != nil && !c.breaker.Allow() {
		return ErrCircuitOpen
	}

	endpoint := c.baseURL + path

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			delay := c.backoff.NextInterval(attempt)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}

		result, err := c.attempt(ctx, endpoint, body)

		if c.onDelivery != nil {
			result.Endpoint = path
			result.Attempt = attempt + 1
			c.onDelivery(result)
		}

		if c.breaker != nil {
			if err == nil {
				c.breaker.RecordSuccess()
			} else {
				c.breaker.RecordFailure()
			}
		}

		if err == nil {
			return nil
		}
		lastErr = err

		// 4xx responses (minus the rate-limit family) will not improve with retries
		if isPermanentStatus(result.StatusCode) {
			return fmt.Errorf("%w: %w", ErrPermanentFailure, err)
		}
	}

	return fmt.Errorf("%w after %d attempts: %w", ErrDeliveryFailed, c.maxRetries+1, lastErr)
}

// attempt performs a single POST.
func (c *Client) attempt(ctx context.Context, endpoint string, body []byte) (DeliveryResult, error) {
	start := time.Now()
	result := DeliveryResult{}

	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		result.Duration = time.Since(start)
		result.Error = err
		return result, fmt.Errorf("notify: failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	if c.signingSecret != "" {
		sig, err := SignRequest(c.signingSecret, body)
		if err != nil {
			result.Duration = time.Since(start)
			result.Error = err
			return result, fmt.Errorf("notify: failed to sign payload: %w", err)
		}
		sig.Apply(req.Header)
	}

	resp, err := c.client.Do(req)
	result.Duration = time.Since(start)

	if err != nil {
		result.Error = err
		if reqCtx.Err() == context.DeadlineExceeded {
			return result, fmt.Errorf("%w: %w", ErrTimeout, err)
		}
		return result, fmt.Errorf("notify: request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	result.StatusCode = resp.StatusCode
	result.Success = resp.StatusCode >= 200 && resp.StatusCode < 300

	// Bounded read keeps a chatty error response from exhausting memory
	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 64*1024))

	if !result.Success {
		msg := fmt.Sprintf("notify: endpoint returned status %d", resp.StatusCode)
		if len(respBody) > 0 {
			// Flatten newlines so the message is safe to log
			bodyStr := strings.ReplaceAll(string(respBody), "\n", " ")
			if len(bodyStr) > 200 {
				bodyStr = bodyStr[:200] + "..."
			}
			msg += ": " + bodyStr
		}
		result.Error = fmt.Errorf("%s", msg)
		return result, result.Error
	}

	return result, nil
}

// isPermanentStatus reports whether an HTTP status should stop retries.
// 408, 425, and 429 are 4xx codes that describe temporary conditions.
func isPermanentStatus(statusCode int) bool {
	if statusCode >= 400 && statusCode < 500 {
		switch statusCode {
		case http.StatusRequestTimeout, http.StatusTooEarly, http.StatusTooManyRequests:
			return false
		default:
			return true
		}
	}
	return false
}
