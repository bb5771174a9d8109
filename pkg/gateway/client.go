package gateway

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
	"go.uber.org/zap"
)

// RequestIDHeader carries a per-request identifier for backend correlation.
const RequestIDHeader = "X-Request-ID"

// Client issues JSON requests against the backend and normalizes every answer
// into an Envelope. GET requests go through a retrying client; mutations are
// sent once.
type Client struct {
	base   *url.URL
	writes *http.Client
	reads  *http.Client
	opts   Options
	logger *zap.Logger
}

// New builds a client rooted at baseURL.
func New(baseURL string, fns ...OptionFn) (*Client, error) {
	base, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrBaseURL, baseURL)
	}
	opts := NewOptions(fns...)

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: opts.Timeout}
	}

	return &Client{
		base:   base,
		writes: httpClient,
		reads:  newReadClient(httpClient, opts),
		opts:   opts,
		logger: opts.Logger.Named("gateway"),
	}, nil
}

// BaseURL returns the configured root.
func (c *Client) BaseURL() string {
	return c.base.String()
}

// Get fetches path with the given query.
func Get[T any](ctx context.Context, c *Client, path string, query url.Values) (Envelope[T], error) {
	return Do[T](ctx, c, http.MethodGet, path, query, nil)
}

// Post sends body as JSON. A nil body sends no content.
func Post[T any](ctx context.Context, c *Client, path string, body any) (Envelope[T], error) {
	return Do[T](ctx, c, http.MethodPost, path, nil, body)
}

// Put sends body as JSON.
func Put[T any](ctx context.Context, c *Client, path string, body any) (Envelope[T], error) {
	return Do[T](ctx, c, http.MethodPut, path, nil, body)
}

// Delete issues a DELETE with an optional JSON body.
func Delete[T any](ctx context.Context, c *Client, path string, body any) (Envelope[T], error) {
	return Do[T](ctx, c, http.MethodDelete, path, nil, body)
}

// Do performs the request and decodes the envelope. The returned error is an
// *Error for domain and transport failures; the envelope is returned in every
// case so callers can inspect Status and Message.
func Do[T any](ctx context.Context, c *Client, method, path string, query url.Values, body any) (Envelope[T], error) {
	var env Envelope[T]
	if c == nil {
		return env, transportError(0, errors.New("gateway: nil client"))
	}

	target := c.base.JoinPath(path)
	if len(query) > 0 {
		target.RawQuery = query.Encode()
	}

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return env, fmt.Errorf("gateway: encode body: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, target.String(), reader)
	if err != nil {
		return env, fmt.Errorf("gateway: build request: %w", err)
	}
	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.opts.UserAgent)
	req.Header.Set(RequestIDHeader, requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.opts.Tokens.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	client := c.writes
	if method == http.MethodGet {
		client = c.reads
	}

	started := time.Now()
	log := c.logger.With(
		zap.String("method", method),
		zap.String("path", target.Path),
		zap.String("request_id", requestID),
	)

	resp, err := client.Do(req)
	if err != nil {
		log.Warn("request failed", zap.Error(err), zap.Duration("elapsed", time.Since(started)))
		return env, transportError(0, err)
	}
	defer resp.Body.Close()

	env.Status = resp.StatusCode
	log = log.With(zap.Int("status", resp.StatusCode), zap.Duration("elapsed", time.Since(started)))

	raw, err := io.ReadAll(io.LimitReader(resp.Body, c.opts.MaxBodyBytes))
	if err != nil {
		log.Warn("read body failed", zap.Error(err))
		return env, transportError(resp.StatusCode, err)
	}

	if len(bytes.TrimSpace(raw)) > 0 {
		if !isJSON(resp.Header.Get("Content-Type")) {
			log.Warn("non-json response", zap.String("content_type", resp.Header.Get("Content-Type")))
			return env, bodyError(resp.StatusCode, fmt.Errorf("unexpected content type %q", resp.Header.Get("Content-Type")))
		}
		if err := json.Unmarshal(raw, &env); err != nil {
			log.Warn("decode envelope failed", zap.Error(err))
			env.Status = resp.StatusCode
			return env, bodyError(resp.StatusCode, fmt.Errorf("decode envelope: %w", err))
		}
		env.Status = resp.StatusCode
	}

	if err := env.Err(); err != nil {
		log.Info("request rejected", zap.String("code", env.Error.Code()), zap.String("message", env.Message))
		return env, err
	}
	log.Debug("request completed")
	return env, nil
}

func isJSON(contentType string) bool {
	ct := strings.ToLower(contentType)
	return strings.Contains(ct, "application/json") || strings.Contains(ct, "+json")
}
