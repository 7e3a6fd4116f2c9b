// Package cycletls wraps CycleTLS clients so that every outbound request
// carries a generated user agent and a TLS fingerprint matching its browser
// family. Clients are kept per session so a session keeps one identity.
package cycletls

import (
	"fmt"
	"sync"
	"time"

	"github.com/Danny-Dasilva/CycleTLS/cycletls"
	"github.com/charmbracelet/log"

	"github.com/Danny-Dasilva/fake-useragent/internal/useragent"
)

// Request describes one outbound request.
type Request struct {
	URL     string
	Method  string
	Headers map[string]string
	Body    string

	// Record supplies the User-Agent and selects the JA3 fingerprint
	Record useragent.Record

	// UserAgent overrides Record.UserAgent when set
	UserAgent string

	Proxy      string
	Timeout    time.Duration
	Insecure   bool
	ForceHTTP1 bool
}

// BuildOptions converts a Request into CycleTLS options.
func BuildOptions(req Request) cycletls.Options {
	ua := req.Record.UserAgent
	if req.UserAgent != "" {
		ua = req.UserAgent
	}

	timeout := int(req.Timeout.Seconds())
	if timeout <= 0 {
		timeout = 30
	}

	headers := make(map[string]string, len(req.Headers)+1)
	for k, v := range req.Headers {
		headers[k] = v
	}
	headers["User-Agent"] = ua

	return cycletls.Options{
		Ja3:                JA3For(req.Record.Browser),
		UserAgent:          ua,
		Headers:            headers,
		Body:               req.Body,
		Proxy:              req.Proxy,
		Timeout:            timeout,
		InsecureSkipVerify: req.Insecure,
		ForceHTTP1:         req.ForceHTTP1,
	}
}

// Client wraps a CycleTLS client with session bookkeeping.
type Client struct {
	underlying   *cycletls.CycleTLS
	sessionID    string
	createdAt    time.Time
	lastUsedAt   time.Time
	requestCount int
	mu           sync.RWMutex // protects concurrent access to client state
	closed       bool
	logger       *log.Logger
}

// NewClient creates a client. An empty sessionID marks a one-shot client
// that the caller closes after use.
func NewClient(sessionID string, logger *log.Logger) *Client {
	client := cycletls.Init()
	now := time.Now()

	return &Client{
		underlying: &client,
		sessionID:  sessionID,
		createdAt:  now,
		lastUsedAt: now,
		logger:     logger,
	}
}

// Do performs the request.
func (c *Client) Do(req Request) (cycletls.Response, error) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return cycletls.Response{}, fmt.Errorf("client is closed")
	}
	c.lastUsedAt = time.Now()
	c.requestCount++
	requestNum := c.requestCount
	c.mu.Unlock()

	options := BuildOptions(req)

	c.logger.Debug("Making request",
		"session_id", c.sessionID,
		"request_num", requestNum,
		"method", req.Method,
		"url", req.URL,
		"browser", req.Record.Browser,
		"timeout", options.Timeout,
		"has_proxy", options.Proxy != "",
	)

	start := time.Now()
	response, err := c.underlying.Do(req.URL, options, req.Method)
	duration := time.Since(start)

	if err != nil {
		c.logger.Debug("Request failed",
			"session_id", c.sessionID,
			"request_num", requestNum,
			"error", err,
			"duration_ms", duration.Milliseconds(),
		)
		return response, fmt.Errorf("request failed: %w", err)
	}

	c.logger.Debug("Request completed",
		"session_id", c.sessionID,
		"request_num", requestNum,
		"status", response.Status,
		"duration_ms", duration.Milliseconds(),
	)

	return response, nil
}

// SessionID returns the session ID for this client
func (c *Client) SessionID() string {
	return c.sessionID
}

// RequestCount returns the number of requests made with this client
func (c *Client) RequestCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.requestCount
}

// Age returns how long this client has been active
func (c *Client) Age() time.Duration {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return time.Since(c.createdAt)
}

// IsIdle returns true if the client hasn't been used for the specified duration
func (c *Client) IsIdle(d time.Duration) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return time.Since(c.lastUsedAt) > d
}

// IsClosed returns whether this client has been closed
func (c *Client) IsClosed() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.closed
}

// Close closes the underlying CycleTLS client. Closing twice is a no-op.
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}

	c.logger.Debug("Closing client",
		"session_id", c.sessionID,
		"age_seconds", time.Since(c.createdAt).Seconds(),
		"request_count", c.requestCount,
	)

	c.underlying.Close()
	c.closed = true
}
