// Package store is a thin REST client for the remote JSON document store.
// Keys live under collections, a GET of an absent key yields a null body,
// and PUT replaces the whole document at a key.
package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/bishalghimire/merotopup-backend/internal/logger"
	"go.uber.org/zap"
)

var (
	// ErrPermissionDenied is terminal: the store rejected credentials, retrying cannot help.
	ErrPermissionDenied = errors.New("store: permission denied")
	// ErrUnavailable means the retry budget is spent; it wraps the last underlying failure.
	ErrUnavailable = errors.New("store: unavailable")
	// ErrConflict reports a failed conditional write. Never retried here; the
	// caller owns the read-modify-write loop.
	ErrConflict = errors.New("store: conditional write conflict")
)

const (
	DefaultTimeout     = 10 * time.Second
	DefaultMaxAttempts = 3
	DefaultBaseDelay   = 400 * time.Millisecond

	etagRequestHeader = "X-Firebase-ETag"
	etagHeader        = "ETag"
	ifMatchHeader     = "if-match"
)

type Client struct {
	baseURL     string
	http        *http.Client
	maxAttempts int
	baseDelay   time.Duration
}

type Options struct {
	Timeout     time.Duration
	MaxAttempts int
	BaseDelay   time.Duration
}

func NewClient(baseURL string, opts Options) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = DefaultMaxAttempts
	}
	if opts.BaseDelay <= 0 {
		opts.BaseDelay = DefaultBaseDelay
	}
	return &Client{
		baseURL:     baseURL,
		http:        &http.Client{Timeout: opts.Timeout},
		maxAttempts: opts.MaxAttempts,
		baseDelay:   opts.BaseDelay,
	}
}

// Get reads the document at path into out. An absent key leaves out untouched.
func (c *Client) Get(ctx context.Context, path string, out any) error {
	_, err := c.do(ctx, http.MethodGet, path, nil, nil, out)
	return err
}

// GetWithETag reads the document at path and returns the store's ETag for it.
// The store issues an ETag even for an absent key, so a conditional first
// write is still possible.
func (c *Client) GetWithETag(ctx context.Context, path string, out any) (string, error) {
	return c.do(ctx, http.MethodGet, path, map[string]string{etagRequestHeader: "true"}, nil, out)
}

// Put replaces the whole document at path.
func (c *Client) Put(ctx context.Context, path string, in any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	_, err = c.do(ctx, http.MethodPut, path, nil, body, nil)
	return err
}

// PutIfMatch replaces the document at path only if its ETag still equals etag.
// A lost race returns ErrConflict without retrying.
func (c *Client) PutIfMatch(ctx context.Context, path, etag string, in any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	_, err = c.do(ctx, http.MethodPut, path, map[string]string{ifMatchHeader: etag}, body, nil)
	return err
}

// Patch merges in into the document at path, leaving other fields alone.
func (c *Client) Patch(ctx context.Context, path string, in any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	_, err = c.do(ctx, http.MethodPatch, path, nil, body, nil)
	return err
}

func (c *Client) do(ctx context.Context, method, path string, headers map[string]string, body []byte, out any) (string, error) {
	url := fmt.Sprintf("%s/%s.json", c.baseURL, path)

	var lastErr error
	for attempt := 0; attempt < c.maxAttempts; attempt++ {
		if attempt > 0 {
			delay := c.baseDelay << (attempt - 1)
			logger.Log.Debug("store retry",
				zap.String("method", method),
				zap.String("path", path),
				zap.Int("attempt", attempt+1),
				zap.Duration("delay", delay),
			)
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return "", fmt.Errorf("%w: %w", ErrUnavailable, ctx.Err())
			}
		}

		var reader io.Reader
		if body != nil {
			reader = bytes.NewReader(body)
		}
		req, err := http.NewRequestWithContext(ctx, method, url, reader)
		if err != nil {
			return "", fmt.Errorf("create request %s %s: %w", method, path, err)
		}
		for k, v := range headers {
			req.Header.Set(k, v)
		}
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := c.http.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("%s %s: %w", method, path, err)
			continue
		}
		respBody, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = fmt.Errorf("read response %s %s: %w", method, path, err)
			continue
		}

		switch {
		case resp.StatusCode == http.StatusUnauthorized, resp.StatusCode == http.StatusForbidden:
			return "", fmt.Errorf("%w: %s %s returned %d", ErrPermissionDenied, method, path, resp.StatusCode)
		case resp.StatusCode == http.StatusPreconditionFailed:
			return "", fmt.Errorf("%w: %s %s", ErrConflict, method, path)
		case resp.StatusCode >= 200 && resp.StatusCode < 300:
			if out != nil && len(respBody) > 0 {
				if err := json.Unmarshal(respBody, out); err != nil {
					return "", fmt.Errorf("decode %s %s: %w", method, path, err)
				}
			}
			return resp.Header.Get(etagHeader), nil
		default:
			lastErr = fmt.Errorf("%s %s: unexpected status %d", method, path, resp.StatusCode)
		}
	}
	return "", fmt.Errorf("%w after %d attempts: %w", ErrUnavailable, c.maxAttempts, lastErr)
}
