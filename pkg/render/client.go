package render

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/pagecraft/pkg/doc"
	pcerrors "github.com/matzehuels/pagecraft/pkg/errors"
	"github.com/matzehuels/pagecraft/pkg/httputil"
	"github.com/matzehuels/pagecraft/pkg/observability"
)

// Defaults used when Options leaves a field zero.
const (
	DefaultURL      = "http://localhost:3000/render"
	DefaultTimeout  = 30 * time.Second
	DefaultAttempts = 3
	DefaultBackoff  = time.Second
)

// maxResponse caps the size of a rendered page.
const maxResponse = 32 << 20

// Options configures a Client.
type Options struct {
	URL      string
	Timeout  time.Duration // per request
	Attempts int
	Backoff  time.Duration // first retry delay, doubled after each attempt
	HTTP     *http.Client
	Logger   *log.Logger
}

// Client posts documents to the render service. It is safe for concurrent
// use.
type Client struct {
	url      string
	attempts int
	backoff  time.Duration
	http     *http.Client
	logger   *log.Logger
}

// NewClient creates a client, filling zero options with defaults.
func NewClient(opts Options) *Client {
	c := &Client{
		url:      opts.URL,
		attempts: opts.Attempts,
		backoff:  opts.Backoff,
		http:     opts.HTTP,
		logger:   opts.Logger,
	}
	if c.url == "" {
		c.url = DefaultURL
	}
	if c.attempts <= 0 {
		c.attempts = DefaultAttempts
	}
	if c.backoff <= 0 {
		c.backoff = DefaultBackoff
	}
	if c.http == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		c.http = &http.Client{Timeout: timeout}
	}
	if c.logger == nil {
		c.logger = log.New(io.Discard)
	}
	return c
}

// URL returns the render endpoint.
func (c *Client) URL() string { return c.url }

type request struct {
	Document *doc.Document `json:"document"`
}

// Render sends d to the render service and returns the HTML it produced.
func (c *Client) Render(ctx context.Context, d *doc.Document) ([]byte, error) {
	body, err := json.Marshal(request{Document: d})
	if err != nil {
		return nil, pcerrors.Wrap(pcerrors.ErrCodeInvalidDocument, err, "encode document")
	}
	u, err := url.Parse(c.url)
	if err != nil {
		return nil, pcerrors.Wrap(pcerrors.ErrCodeInvalidInput, err, "render url %q", c.url)
	}

	var html []byte
	attempt := 0
	err = httputil.Retry(ctx, c.attempts, c.backoff, func() error {
		attempt++
		if attempt > 1 {
			c.logger.Debug("retrying render", "attempt", attempt, "url", c.url)
		}
		out, err := c.post(ctx, u, body)
		if err != nil {
			return err
		}
		html = out
		return nil
	})
	if err != nil {
		return nil, classify(ctx, err, c.url)
	}
	return html, nil
}

func (c *Client) post(ctx context.Context, u *url.URL, body []byte) ([]byte, error) {
	hooks := observability.HTTP()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.String(), bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "text/html")

	hooks.OnRequest(ctx, req.Method, u.Host, u.Path)
	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		hooks.OnError(ctx, req.Method, u.Host, u.Path, err)
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, httputil.Retryable(err)
	}
	defer resp.Body.Close()
	hooks.OnResponse(ctx, req.Method, u.Host, u.Path, resp.StatusCode, time.Since(start))

	if err := httputil.CheckStatus(resp); err != nil {
		return nil, err
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponse))
	if err != nil {
		return nil, httputil.Retryable(err)
	}
	return data, nil
}

// classify maps a final render failure onto an error code.
func classify(ctx context.Context, err error, endpoint string) error {
	if errors.Is(err, context.DeadlineExceeded) || ctx.Err() == context.DeadlineExceeded {
		return pcerrors.Wrap(pcerrors.ErrCodeTimeout, err, "render %s", endpoint)
	}
	if errors.Is(err, context.Canceled) {
		return err
	}
	var se *httputil.StatusError
	if errors.As(err, &se) {
		if se.StatusCode == http.StatusTooManyRequests {
			return pcerrors.Wrap(pcerrors.ErrCodeRateLimited,
				&pcerrors.RateLimitedError{RetryAfter: se.RetryAfter, Message: se.Body}, "render %s", endpoint)
		}
		return pcerrors.Wrap(pcerrors.ErrCodeRenderFailed, err, "render service rejected the document")
	}
	if httputil.IsRetryable(err) {
		return pcerrors.Wrap(pcerrors.ErrCodeNetwork, err, "render %s", endpoint)
	}
	return pcerrors.Wrap(pcerrors.ErrCodeRenderFailed, err, "render %s", endpoint)
}
