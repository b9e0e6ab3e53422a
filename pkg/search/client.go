package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"
	"go.uber.org/zap"

	srvErrors "github.com/kubev2v/index-orchestrator/pkg/errors"
)

const (
	defaultMaxRetries      = 5
	defaultInitialInterval = 100 * time.Millisecond
	defaultMaxInterval     = 5 * time.Second
	defaultTimeout         = 30 * time.Second
)

// Client talks to a search cluster exposing the bulk and refresh endpoints.
type Client struct {
	baseURL         string
	httpClient      *http.Client
	token           string
	maxRetries      uint
	initialInterval time.Duration
	maxInterval     time.Duration
}

type Option func(*Client)

func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) {
		cl.httpClient = c
	}
}

// WithToken sends token as a bearer token on every request.
func WithToken(token string) Option {
	return func(cl *Client) {
		cl.token = token
	}
}

// WithMaxRetries caps the number of attempts of one request. 0 keeps the default.
func WithMaxRetries(n uint) Option {
	return func(cl *Client) {
		if n > 0 {
			cl.maxRetries = n
		}
	}
}

func WithRetryInterval(initial, maxInterval time.Duration) Option {
	return func(cl *Client) {
		cl.initialInterval = initial
		cl.maxInterval = maxInterval
	}
}

func NewClient(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid search cluster url %q", baseURL)
	}

	c := &Client{
		baseURL:         strings.TrimRight(baseURL, "/"),
		httpClient:      &http.Client{Timeout: defaultTimeout},
		maxRetries:      defaultMaxRetries,
		initialInterval: defaultInitialInterval,
		maxInterval:     defaultMaxInterval,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Bulk sends actions to index in one NDJSON request.
// POST /{index}/_bulk
//
// Network errors, 5xx and 429 are retried with exponential backoff; other
// 4xx are final. Items the cluster refused come back as an IndexingError.
// A delete of a missing document is not a failure.
func (c *Client) Bulk(ctx context.Context, index string, actions []BulkAction) error {
	if len(actions) == 0 {
		return nil
	}

	body, err := encodeBulk(index, actions)
	if err != nil {
		return err
	}

	resp, err := retry(ctx, c, func() (*bulkResponse, error) {
		var r bulkResponse
		if err := c.do(ctx, http.MethodPost, "/"+url.PathEscape(index)+"/_bulk", "application/x-ndjson", body, &r); err != nil {
			return nil, err
		}
		return &r, nil
	})
	if err != nil {
		return fmt.Errorf("bulk request to index %q failed: %w", index, err)
	}

	zap.S().Named("search_client").Debugw("bulk request done", "index", index, "actions", len(actions), "took", resp.Took)

	if !resp.Errors {
		return nil
	}

	failed := make(map[string]string)
	for _, item := range resp.Items {
		for action, r := range item {
			if r.Status < 300 {
				continue
			}
			if action == string(ActionDelete) && r.Status == http.StatusNotFound {
				continue
			}
			reason := http.StatusText(r.Status)
			if r.Error != nil {
				reason = r.Error.Type + ": " + r.Error.Reason
			}
			failed[r.ID] = reason
		}
	}
	if len(failed) == 0 {
		return nil
	}
	return srvErrors.NewIndexingError(index, failed)
}

// Refresh makes recent writes to index visible to search.
// POST /{index}/_refresh
func (c *Client) Refresh(ctx context.Context, index string) error {
	_, err := retry(ctx, c, func() (struct{}, error) {
		return struct{}{}, c.do(ctx, http.MethodPost, "/"+url.PathEscape(index)+"/_refresh", "", nil, nil)
	})
	if err != nil {
		return fmt.Errorf("refresh of index %q failed: %w", index, err)
	}
	return nil
}

func retry[T any](ctx context.Context, c *Client, op backoff.Operation[T]) (T, error) {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.initialInterval
	b.MaxInterval = c.maxInterval

	return backoff.Retry(ctx, op,
		backoff.WithBackOff(b),
		backoff.WithMaxTries(c.maxRetries),
		backoff.WithNotify(func(err error, d time.Duration) {
			zap.S().Named("search_client").Debugw("retrying request", "error", err, "backoff", d)
		}),
	)
}

// do runs one attempt. Errors worth retrying are returned as is, the others
// are wrapped with backoff.Permanent.
func (c *Client) do(ctx context.Context, method, path, contentType string, body []byte, out any) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return backoff.Permanent(err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.token != "" {
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.token))
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return backoff.Permanent(ctx.Err())
		}
		return err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		if out == nil {
			_, _ = io.Copy(io.Discard, resp.Body)
			return nil
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return backoff.Permanent(fmt.Errorf("failed to decode response: %w", err))
		}
		return nil
	case resp.StatusCode == http.StatusTooManyRequests:
		if s, err := strconv.Atoi(resp.Header.Get("Retry-After")); err == nil && s > 0 {
			return backoff.RetryAfter(s)
		}
		return fmt.Errorf("search cluster busy: %s", resp.Status)
	case resp.StatusCode >= 500:
		return fmt.Errorf("search cluster error: %s", resp.Status)
	case resp.StatusCode == http.StatusUnauthorized, resp.StatusCode == http.StatusForbidden:
		return backoff.Permanent(srvErrors.NewUnauthorizedError("search cluster"))
	default:
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return backoff.Permanent(fmt.Errorf("search cluster refused request: %s: %s", resp.Status, strings.TrimSpace(string(msg))))
	}
}

func encodeBulk(index string, actions []BulkAction) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for _, a := range actions {
		if a.ID == "" {
			return nil, fmt.Errorf("bulk %s action without id", a.Type)
		}
		meta := map[string]bulkMeta{string(a.Type): {Index: index, ID: a.ID}}
		switch a.Type {
		case ActionIndex:
			if err := enc.Encode(meta); err != nil {
				return nil, err
			}
			if err := enc.Encode(a.Source); err != nil {
				return nil, fmt.Errorf("failed to encode document %q: %w", a.ID, err)
			}
		case ActionDelete:
			if err := enc.Encode(meta); err != nil {
				return nil, err
			}
		default:
			return nil, fmt.Errorf("unknown bulk action %q", a.Type)
		}
	}
	return buf.Bytes(), nil
}
