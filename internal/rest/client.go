package rest

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
	"github.com/hashicorp/go-hclog"
)

const (
	defaultTimeout = 30 * time.Second
	// defaultMaxBodyBytes is the largest response body read unless
	// Options.MaxBodyBytes says otherwise.
	defaultMaxBodyBytes = 64 << 20
)

// Client is a JSON-over-HTTP transport rooted at a base URL. It returns
// status codes and raw bodies without interpreting them.
type Client struct {
	httpClient *http.Client
	baseURL    string
	host       string
	token      string
	maxBody    int64
	logger     hclog.Logger
}

// Options configures a Client.
type Options struct {
	// BaseURL is the service root, e.g. https://adam.example.com/api.
	BaseURL string

	// Token, when set, is sent as a bearer token.
	Token string

	Timeout time.Duration
	Logger  hclog.Logger

	// MaxBodyBytes caps a response body; larger bodies fail with
	// *BodyTooLargeError instead of being truncated. Defaults to 64 MiB.
	MaxBodyBytes int64

	// HTTPClient overrides the default client; Timeout is ignored when set.
	HTTPClient *http.Client
}

// NewClient validates opts and returns a ready Client.
func NewClient(opts Options) (*Client, error) {
	if opts.BaseURL == "" {
		return nil, errors.New("base URL cannot be empty")
	}
	u, err := url.Parse(opts.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" || u.Host == "" {
		return nil, fmt.Errorf("base URL must be an absolute http(s) URL: %q", opts.BaseURL)
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = defaultMaxBodyBytes
	}
	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: opts.Timeout}
	}
	logger := opts.Logger
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Client{
		httpClient: hc,
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		host:       u.Host,
		token:      opts.Token,
		maxBody:    opts.MaxBodyBytes,
		logger:     logger.Named("rest"),
	}, nil
}

// BaseURL returns the normalized service root.
func (c *Client) BaseURL() string { return c.baseURL }

// Get fetches path.
func (c *Client) Get(ctx context.Context, path string) (int, []byte, error) {
	return c.do(ctx, http.MethodGet, path, nil)
}

// Post JSON-encodes body and sends it.
func (c *Client) Post(ctx context.Context, path string, body any) (int, []byte, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return 0, nil, fmt.Errorf("marshal request: %w", err)
	}
	return c.do(ctx, http.MethodPost, path, payload)
}

// Delete discards any response body.
func (c *Client) Delete(ctx context.Context, path string) (int, error) {
	code, _, err := c.do(ctx, http.MethodDelete, path, nil)
	return code, err
}

func (c *Client) do(ctx context.Context, method, path string, payload []byte) (int, []byte, error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	httpReq, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return 0, nil, fmt.Errorf("build request: %w", err)
	}
	requestID := uuid.NewString()
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("X-Request-Id", requestID)
	if payload != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		// Cancellation is the caller's doing, not an unreachable host.
		if ctxErr := ctx.Err(); ctxErr != nil {
			return 0, nil, ctxErr
		}
		return 0, nil, &UnreachableError{Host: c.host, Err: err}
	}
	defer resp.Body.Close()

	// Read one byte past the limit so an oversized body is detected, not cut.
	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBody+1))
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("read response: %w", err)
	}
	if int64(len(body)) > c.maxBody {
		return resp.StatusCode, nil, &BodyTooLargeError{Method: method, Path: path, Limit: c.maxBody}
	}
	c.logger.Debug("request complete",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"request_id", requestID,
		"duration", time.Since(start),
	)
	return resp.StatusCode, body, nil
}
