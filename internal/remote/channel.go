package remote

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
	"time"

	"github.com/google/uuid"

	"github.com/scenegallery/scenegallery/internal/logger"
	"github.com/scenegallery/scenegallery/internal/utils"
)

const (
	// DefaultQueryTimeout is the per-attempt read timeout.
	DefaultQueryTimeout = 60 * time.Second
	// DefaultQueryRetries is how many times a failed read is retried
	// before the error surfaces to the caller.
	DefaultQueryRetries = 2
)

// Channel talks to the spreadsheet-backed remote store. Reads go through
// Query with timeout and bounded retries; writes go through Command,
// which is strictly best-effort: the response body is never interpreted,
// so "success" means "dispatched", not "applied".
type Channel struct {
	baseURL string
	client  *http.Client
	timeout time.Duration
	retries int
	logger  logger.Logger
}

// Options configures a Channel.
type Options struct {
	BaseURL string        // remote store endpoint (required)
	Timeout time.Duration // per-attempt read timeout (0 = default)
	Retries int           // read retry count (<0 = default)
}

// New creates a Channel.
func New(opts Options, log logger.Logger) *Channel {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultQueryTimeout
	}
	retries := opts.Retries
	if retries < 0 {
		retries = DefaultQueryRetries
	}
	return &Channel{
		baseURL: opts.BaseURL,
		client:  &http.Client{},
		timeout: timeout,
		retries: retries,
		logger:  log,
	}
}

// Query issues a read for the given action with bounded retries. Each
// attempt carries a fresh request token and a cache-defeating nonce so
// overlapping queries never collide on an intermediary cache. Payloads
// that encode an error field surface as *RemoteError and are not
// retried; transport failures and timeouts are retried until attempts
// run out, then surface as *TransportError.
func (c *Channel) Query(ctx context.Context, action string, params url.Values) (json.RawMessage, error) {
	attempts := c.retries + 1
	var lastErr error

	for attempt := 1; attempt <= attempts; attempt++ {
		raw, err := c.queryOnce(ctx, action, params)
		if err == nil {
			return raw, nil
		}

		var remoteErr *RemoteError
		if errors.As(err, &remoteErr) {
			return nil, err
		}
		if ctx.Err() != nil {
			return nil, err
		}

		lastErr = err
		if attempt < attempts {
			c.logger.Warn("remote read failed, retrying",
				logger.String("action", action),
				logger.Int("attempt", attempt),
				logger.Error(err))
		}
	}

	c.logger.Error("remote read failed after retries",
		logger.String("action", action),
		logger.Int("attempts", attempts),
		logger.Error(lastErr))
	return nil, lastErr
}

func (c *Channel) queryOnce(ctx context.Context, action string, params url.Values) (json.RawMessage, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	q := url.Values{}
	for k, vs := range params {
		for _, v := range vs {
			q.Add(k, v)
		}
	}
	if action != "" {
		q.Set("action", action)
	}
	token := uuid.NewString()
	q.Set("token", token)
	q.Set("nonce", token[:8]+fmt.Sprintf("%d", time.Now().UnixMilli()))

	sep := "?"
	if strings.Contains(c.baseURL, "?") {
		sep = "&"
	}
	reqURL := c.baseURL + sep + q.Encode()

	req, err := http.NewRequestWithContext(attemptCtx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return nil, &TransportError{Err: err}
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, classifyTransport(attemptCtx, err)
	}
	defer utils.Close(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &TransportError{Err: fmt.Errorf("unexpected status %d", resp.StatusCode)}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, classifyTransport(attemptCtx, err)
	}

	if msg, ok := decodeErrorPayload(body); ok {
		return nil, &RemoteError{Message: msg}
	}
	return body, nil
}

func classifyTransport(ctx context.Context, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return &TransportError{Timeout: true, Err: err}
	}
	return &TransportError{Err: err}
}

// decodeErrorPayload reports whether the body is an object carrying a
// non-empty error field.
func decodeErrorPayload(body []byte) (string, bool) {
	var probe struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &probe); err != nil {
		return "", false
	}
	return probe.Error, probe.Error != ""
}

// Result is the outcome of a write command. Success means the request
// was dispatched; it says nothing about whether the remote store applied
// it. Callers must never block correctness on it.
type Result struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// Command issues a fire-and-forget write. The payload is sent as an
// action-tagged JSON object. Only a failure before or during dispatch
// yields Success=false; the response body is ignored.
func (c *Channel) Command(ctx context.Context, action string, payload map[string]any) Result {
	body := make(map[string]any, len(payload)+1)
	for k, v := range payload {
		body[k] = v
	}
	body["action"] = action

	data, err := json.Marshal(body)
	if err != nil {
		c.logger.Error("failed to encode command",
			logger.String("action", action),
			logger.Error(err))
		return Result{Success: false, Error: err.Error()}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(data))
	if err != nil {
		return Result{Success: false, Error: err.Error()}
	}
	// The remote store expects text/plain to skip its preflight handling.
	req.Header.Set("Content-Type", "text/plain")

	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Warn("command dispatch failed",
			logger.String("action", action),
			logger.Error(err))
		return Result{Success: false, Error: err.Error()}
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	utils.Close(resp.Body)

	c.logger.Debug("command dispatched",
		logger.String("action", action))
	return Result{Success: true}
}
