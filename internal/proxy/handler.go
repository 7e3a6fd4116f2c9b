// Package proxy serves generated user agents over HTTP and forwards requests
// upstream with a generated user agent and matching TLS fingerprint.
// Request configuration travels in X-* headers, which are never forwarded.
package proxy

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/valyala/fasthttp"
	"golang.org/x/time/rate"

	"github.com/Danny-Dasilva/fake-useragent/internal/cycletls"
	"github.com/Danny-Dasilva/fake-useragent/internal/useragent"
)

// ServerMetrics contains request counters. Requests rejected by the rate
// limiter are counted in RateLimited and not in the other counters.
type ServerMetrics struct {
	TotalRequests  atomic.Int64
	SuccessfulReqs atomic.Int64
	FailedRequests atomic.Int64
	RateLimited    atomic.Int64
	TotalBytes     atomic.Int64
}

// MetricsSnapshot is a point-in-time copy of ServerMetrics
type MetricsSnapshot struct {
	TotalRequests  int64         `json:"total_requests"`
	SuccessfulReqs int64         `json:"successful_requests"`
	FailedRequests int64         `json:"failed_requests"`
	RateLimited    int64         `json:"rate_limited"`
	TotalBytes     int64         `json:"total_bytes"`
	ActiveSessions int           `json:"active_sessions"`
	Uptime         time.Duration `json:"uptime"`
}

// Config configures a Handler.
type Config struct {
	// DefaultTimeout applies when X-TIMEOUT is absent
	DefaultTimeout time.Duration

	// RateLimit is the sustained requests per second; 0 disables limiting
	RateLimit float64
	RateBurst int

	// Clients manages upstream sessions; nil creates one with defaults
	Clients *cycletls.ClientManager
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() Config {
	return Config{
		DefaultTimeout: 30 * time.Second,
	}
}

// Handler handles user agent and proxy requests.
type Handler struct {
	rotator        *useragent.Rotator
	clients        *cycletls.ClientManager
	logger         *log.Logger
	mu             sync.RWMutex // protects defaultTimeout
	defaultTimeout time.Duration
	limiter        *rate.Limiter
	metrics        *ServerMetrics
	startTime      time.Time
}

// NewHandler creates a handler that draws user agents from rotator.
func NewHandler(rotator *useragent.Rotator, logger *log.Logger, cfg Config) *Handler {
	if cfg.DefaultTimeout <= 0 {
		cfg.DefaultTimeout = 30 * time.Second
	}
	clients := cfg.Clients
	if clients == nil {
		mc := cycletls.DefaultManagerConfig()
		mc.Logger = logger
		clients = cycletls.NewClientManager(mc)
	}

	h := &Handler{
		rotator:        rotator,
		clients:        clients,
		logger:         logger,
		defaultTimeout: cfg.DefaultTimeout,
		metrics:        &ServerMetrics{},
		startTime:      time.Now(),
	}
	if cfg.RateLimit > 0 {
		burst := cfg.RateBurst
		if burst <= 0 {
			burst = 1
		}
		h.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)
	}
	return h
}

// HandleRequest routes incoming requests.
//
// Endpoints:
//   - GET /health: health status and basic info
//   - GET /useragent: a generated user agent (see handleUserAgent)
//   - anything else with X-URL: forwarded upstream
//
// Supported headers:
//
//   - X-URL: Target URL to proxy the request to (required for forwarding)
//   - X-IDENTIFIER: Browser name to emulate (optional, defaults to 'random')
//   - X-SESSION-ID: Session identifier; 'new' mints one (optional)
//   - X-USER-AGENT: Custom user agent string (overrides the generated one)
//   - X-PROXY: Proxy server to use (optional)
//   - X-TIMEOUT: Request timeout in seconds (optional, range: 1-300)
//   - X-INSECURE: Skip TLS certificate verification (true/false)
//   - X-FORCE-HTTP1: Force HTTP/1.1 protocol usage (true/false)
func (h *Handler) HandleRequest(ctx *fasthttp.RequestCtx) {
	requestID := uuid.NewString()
	ctx.Response.Header.Set("X-REQUEST-ID", requestID)

	if h.limiter != nil && !h.limiter.Allow() {
		h.metrics.RateLimited.Add(1)
		h.writeError(ctx, fasthttp.StatusTooManyRequests, "rate limit exceeded")
		return
	}

	switch string(ctx.Path()) {
	case "/health":
		h.handleHealthCheck(ctx)
	case "/useragent":
		h.handleUserAgent(ctx)
	default:
		h.handleProxy(ctx, requestID)
	}
}

// RequestHeaders contains all extracted X-* headers for request configuration
type RequestHeaders struct {
	TargetURL       string
	Identifier      string
	SessionID       string
	Proxy           string
	Timeout         time.Duration
	CustomUserAgent string
	Insecure        bool
	ForceHTTP1      bool
}

// extractHeaders extracts and validates all X-* configuration headers from the request
func (h *Handler) extractHeaders(ctx *fasthttp.RequestCtx) (*RequestHeaders, error) {
	headers := &RequestHeaders{}

	headers.TargetURL = string(ctx.Request.Header.Peek("X-URL"))
	if headers.TargetURL == "" {
		return nil, fmt.Errorf("X-URL header is required")
	}

	headers.Identifier = h.identifier(ctx)
	headers.SessionID = h.sessionID(ctx)
	headers.Proxy = string(ctx.Request.Header.Peek("X-PROXY"))
	headers.CustomUserAgent = string(ctx.Request.Header.Peek("X-USER-AGENT"))

	timeoutStr := string(ctx.Request.Header.Peek("X-TIMEOUT"))
	if timeoutStr == "" {
		h.mu.RLock()
		headers.Timeout = h.defaultTimeout
		h.mu.RUnlock()
	} else {
		timeoutSeconds, err := strconv.Atoi(timeoutStr)
		if err != nil {
			return nil, fmt.Errorf("invalid X-TIMEOUT value '%s': must be integer seconds", timeoutStr)
		}
		if timeoutSeconds < 1 || timeoutSeconds > 300 {
			return nil, fmt.Errorf("X-TIMEOUT must be between 1 and 300 seconds, got %d", timeoutSeconds)
		}
		headers.Timeout = time.Duration(timeoutSeconds) * time.Second
	}

	headers.Insecure = strings.EqualFold(string(ctx.Request.Header.Peek("X-INSECURE")), "true")
	headers.ForceHTTP1 = strings.EqualFold(string(ctx.Request.Header.Peek("X-FORCE-HTTP1")), "true")

	return headers, nil
}

// identifier reads the requested browser from X-IDENTIFIER or the browser
// query argument, defaulting to random.
func (h *Handler) identifier(ctx *fasthttp.RequestCtx) string {
	if v := ctx.Request.Header.Peek("X-IDENTIFIER"); len(v) > 0 {
		return string(v)
	}
	if v := ctx.QueryArgs().Peek("browser"); len(v) > 0 {
		return string(v)
	}
	return useragent.RandomKey
}

// sessionID reads X-SESSION-ID or the session query argument. The value
// "new" mints a fresh session ID which is echoed back in X-SESSION-ID.
func (h *Handler) sessionID(ctx *fasthttp.RequestCtx) string {
	id := string(ctx.Request.Header.Peek("X-SESSION-ID"))
	if id == "" {
		id = string(ctx.QueryArgs().Peek("session"))
	}
	if id == "new" {
		id = uuid.NewString()
	}
	if id != "" {
		ctx.Response.Header.Set("X-SESSION-ID", id)
	}
	return id
}

// validateURL validates that the target URL is properly formatted and uses allowed schemes
func (h *Handler) validateURL(targetURL string) error {
	u, err := url.Parse(targetURL)
	if err != nil {
		return fmt.Errorf("malformed URL: %v", err)
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("unsupported scheme '%s': only http and https are allowed", u.Scheme)
	}

	if u.Host == "" {
		return fmt.Errorf("missing host in URL")
	}

	return nil
}

// resolve maps a lookup failure onto an HTTP status.
func (h *Handler) resolve(ctx *fasthttp.RequestCtx, identifier, sessionID string) (useragent.Record, bool) {
	rec, err := h.rotator.ForSession(sessionID, identifier)
	if err == nil {
		return rec, true
	}
	var rerr *useragent.ResolutionError
	if errors.As(err, &rerr) {
		h.sendError(ctx, fasthttp.StatusNotFound, fmt.Sprintf("no user agent matches browser '%s'", rerr.Key))
	} else {
		h.sendError(ctx, fasthttp.StatusInternalServerError, err.Error())
	}
	return useragent.Record{}, false
}

// handleUserAgent returns a generated user agent. The format query argument
// selects "text" (default) or "json" for the full record.
func (h *Handler) handleUserAgent(ctx *fasthttp.RequestCtx) {
	identifier := h.identifier(ctx)
	sessionID := h.sessionID(ctx)

	rec, ok := h.resolve(ctx, identifier, sessionID)
	if !ok {
		return
	}

	switch format := string(ctx.QueryArgs().Peek("format")); format {
	case "", "text":
		ctx.SetContentType("text/plain; charset=utf-8")
		ctx.SetBodyString(rec.UserAgent)
	case "json":
		body, err := json.Marshal(rec)
		if err != nil {
			h.sendError(ctx, fasthttp.StatusInternalServerError, err.Error())
			return
		}
		ctx.SetContentType("application/json")
		ctx.SetBody(body)
	default:
		h.sendError(ctx, fasthttp.StatusBadRequest, fmt.Sprintf("unsupported format '%s': use text or json", format))
		return
	}

	ctx.SetStatusCode(fasthttp.StatusOK)
	h.metrics.TotalRequests.Add(1)
	h.metrics.SuccessfulReqs.Add(1)

	h.logger.Debug("User agent served",
		"identifier", identifier,
		"browser", rec.Browser,
		"session_id", sessionID,
	)
}

// handleProxy forwards the request to X-URL.
func (h *Handler) handleProxy(ctx *fasthttp.RequestCtx, requestID string) {
	start := time.Now()

	headers, err := h.extractHeaders(ctx)
	if err != nil {
		h.sendError(ctx, fasthttp.StatusBadRequest, fmt.Sprintf("Header validation failed: %v", err))
		return
	}

	if err := h.validateURL(headers.TargetURL); err != nil {
		h.sendError(ctx, fasthttp.StatusBadRequest, fmt.Sprintf("Invalid target URL: %v", err))
		return
	}

	rec, ok := h.resolve(ctx, headers.Identifier, headers.SessionID)
	if !ok {
		return
	}

	h.logRequest(ctx, headers, rec, requestID)

	client, release := h.clients.Acquire(headers.SessionID)
	defer release()

	response, err := client.Do(h.buildRequest(ctx, headers, rec))
	if err != nil {
		h.logger.Error("Upstream request failed",
			"error", err,
			"request_id", requestID,
			"target_url", headers.TargetURL,
			"method", string(ctx.Method()),
			"session_id", headers.SessionID)
		h.sendError(ctx, fasthttp.StatusBadGateway, fmt.Sprintf("Request failed: %v", err))
		return
	}

	h.writeResponse(ctx, response.Status, response.Headers, response.Body)

	h.metrics.TotalRequests.Add(1)
	h.metrics.TotalBytes.Add(int64(len(response.Body)))
	if response.Status >= 200 && response.Status < 400 {
		h.metrics.SuccessfulReqs.Add(1)
	} else {
		h.metrics.FailedRequests.Add(1)
	}

	duration := time.Since(start)
	h.logger.Debug("Response completed",
		"request_id", requestID,
		"status", response.Status,
		"content_length", len(response.Body),
		"duration_ms", duration.Milliseconds(),
	)
	if duration > 10*time.Second {
		h.logger.Warn("Slow request detected",
			"duration_ms", duration.Milliseconds(),
			"target_url", headers.TargetURL,
		)
	}
}

// buildRequest collects the upstream request, forwarding every non X-* header.
func (h *Handler) buildRequest(ctx *fasthttp.RequestCtx, headers *RequestHeaders, rec useragent.Record) cycletls.Request {
	req := cycletls.Request{
		URL:        headers.TargetURL,
		Method:     string(ctx.Method()),
		Headers:    make(map[string]string),
		Record:     rec,
		UserAgent:  headers.CustomUserAgent,
		Proxy:      headers.Proxy,
		Timeout:    headers.Timeout,
		Insecure:   headers.Insecure,
		ForceHTTP1: headers.ForceHTTP1,
	}

	ctx.Request.Header.VisitAll(func(key, value []byte) {
		name := string(key)
		if strings.HasPrefix(strings.ToUpper(name), "X-") || strings.EqualFold(name, "User-Agent") {
			return
		}
		req.Headers[name] = string(value)
	})

	switch req.Method {
	case fasthttp.MethodPost, fasthttp.MethodPut, fasthttp.MethodPatch:
		req.Body = string(ctx.Request.Body())
	}
	return req
}

// writeResponse copies the upstream response, skipping headers fasthttp manages.
func (h *Handler) writeResponse(ctx *fasthttp.RequestCtx, status int, headers map[string]string, body string) {
	ctx.SetStatusCode(status)

	for name, value := range headers {
		switch strings.ToLower(name) {
		case "content-length", "transfer-encoding", "connection", "keep-alive":
			continue
		case "set-cookie":
			for _, cookie := range splitCookies(value) {
				ctx.Response.Header.Add(name, cookie)
			}
		default:
			ctx.Response.Header.Set(name, value)
		}
	}

	ctx.SetBodyString(body)
}

// splitCookies separates Set-Cookie values that were joined with commas.
// A comma only starts a new cookie when the next segment opens with a
// name=value pair, so commas inside attributes such as Expires are kept.
func splitCookies(value string) []string {
	var cookies []string
	for _, part := range strings.Split(value, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		head, _, _ := strings.Cut(part, ";")
		if len(cookies) > 0 && !strings.Contains(head, "=") {
			cookies[len(cookies)-1] += "," + part
			continue
		}
		cookies = append(cookies, strings.TrimSpace(part))
	}
	return cookies
}

// logRequest logs the incoming request with relevant details
func (h *Handler) logRequest(ctx *fasthttp.RequestCtx, headers *RequestHeaders, rec useragent.Record, requestID string) {
	h.logger.Info("Processing proxy request",
		"request_id", requestID,
		"method", string(ctx.Method()),
		"target_url", headers.TargetURL,
		"identifier", headers.Identifier,
		"browser", rec.Browser,
		"system", rec.System,
		"session_id", headers.SessionID,
		"has_proxy", headers.Proxy != "",
		"timeout", headers.Timeout,
		"remote_addr", ctx.RemoteAddr(),
	)
}

type errorBody struct {
	Error  string `json:"error"`
	Status int    `json:"status"`
}

// sendError sends a JSON error response and counts the request as failed.
func (h *Handler) sendError(ctx *fasthttp.RequestCtx, statusCode int, message string) {
	h.writeError(ctx, statusCode, message)

	h.metrics.TotalRequests.Add(1)
	h.metrics.FailedRequests.Add(1)
}

// writeError sends a JSON error response without touching the request
// counters. Rejected requests are counted in RateLimited only.
func (h *Handler) writeError(ctx *fasthttp.RequestCtx, statusCode int, message string) {
	body, _ := json.Marshal(errorBody{Error: message, Status: statusCode})
	ctx.SetStatusCode(statusCode)
	ctx.SetContentType("application/json")
	ctx.SetBody(body)

	h.logger.Warn("Request error",
		"status_code", statusCode,
		"error", message,
		"remote_addr", ctx.RemoteAddr(),
		"method", string(ctx.Method()),
		"path", string(ctx.RequestURI()),
	)
}

type healthBody struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Uptime    string `json:"uptime"`
	Dataset   struct {
		Records int              `json:"records"`
		Config  useragent.Config `json:"config"`
	} `json:"dataset"`
	Sessions struct {
		Pinned         int    `json:"pinned"`
		Clients        int    `json:"clients"`
		DefaultTimeout string `json:"default_timeout"`
	} `json:"sessions"`
}

// handleHealthCheck returns health status and basic information
func (h *Handler) handleHealthCheck(ctx *fasthttp.RequestCtx) {
	stats := h.rotator.Stats()

	var body healthBody
	body.Status = "healthy"
	body.Timestamp = time.Now().UTC().Format(time.RFC3339)
	body.Uptime = time.Since(h.startTime).Round(time.Second).String()
	body.Dataset.Records = stats.Records
	body.Dataset.Config = h.rotator.UserAgent().Config()
	body.Sessions.Pinned = stats.ActiveSessions
	body.Sessions.Clients = h.clients.Count()
	h.mu.RLock()
	body.Sessions.DefaultTimeout = h.defaultTimeout.String()
	h.mu.RUnlock()

	data, err := json.MarshalIndent(body, "", "  ")
	if err != nil {
		h.sendError(ctx, fasthttp.StatusInternalServerError, err.Error())
		return
	}

	ctx.SetContentType("application/json")
	ctx.SetStatusCode(fasthttp.StatusOK)
	ctx.SetBody(data)

	h.logger.Debug("Health check requested",
		"remote_addr", ctx.RemoteAddr(),
		"records", stats.Records,
		"pinned_sessions", stats.ActiveSessions,
	)
}

// SetDefaultTimeout sets the default timeout for requests
func (h *Handler) SetDefaultTimeout(timeout time.Duration) {
	h.mu.Lock()
	h.defaultTimeout = timeout
	h.mu.Unlock()
}

// Metrics returns the current request counters
func (h *Handler) Metrics() MetricsSnapshot {
	return MetricsSnapshot{
		TotalRequests:  h.metrics.TotalRequests.Load(),
		SuccessfulReqs: h.metrics.SuccessfulReqs.Load(),
		FailedRequests: h.metrics.FailedRequests.Load(),
		RateLimited:    h.metrics.RateLimited.Load(),
		TotalBytes:     h.metrics.TotalBytes.Load(),
		ActiveSessions: h.clients.Count(),
		Uptime:         time.Since(h.startTime),
	}
}

// Close closes all upstream sessions
func (h *Handler) Close() {
	h.logger.Info("Shutting down handler", "active_sessions", h.clients.Count())
	h.clients.CloseAll()
}
