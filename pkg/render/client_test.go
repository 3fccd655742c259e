package render

import (
	"context"
	"errors"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/matzehuels/pagecraft/pkg/doc"
	pcerrors "github.com/matzehuels/pagecraft/pkg/errors"
)

func testClient(url string) *Client {
	return NewClient(Options{URL: url, Attempts: 3, Backoff: time.Millisecond})
}

func TestRenderPostsDocument(t *testing.T) {
	var got struct {
		Document json.RawMessage `json:"document"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("content type = %s", ct)
		}
		body, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(body, &got); err != nil {
			t.Errorf("request body: %v", err)
		}
		w.Header().Set("Content-Type", "text/html")
		_, _ = io.WriteString(w, "<html>ok</html>")
	}))
	defer srv.Close()

	html, err := testClient(srv.URL).Render(context.Background(), doc.New())
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	if string(html) != "<html>ok</html>" {
		t.Errorf("Render() = %q", html)
	}

	var d doc.Document
	if err := json.Unmarshal(got.Document, &d); err != nil {
		t.Fatalf("posted document does not decode: %v", err)
	}
	if d.Root() == nil {
		t.Error("posted document has no root")
	}
}

func TestRenderRetriesTransientFailures(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			http.Error(w, "busy", http.StatusServiceUnavailable)
			return
		}
		_, _ = io.WriteString(w, "<html/>")
	}))
	defer srv.Close()

	if _, err := testClient(srv.URL).Render(context.Background(), doc.New()); err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	if calls.Load() != 3 {
		t.Errorf("calls = %d, want 3", calls.Load())
	}
}

func TestRenderErrors(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		wantCode  pcerrors.Code
		wantCalls int32
	}{
		{"bad request is permanent", http.StatusBadRequest, pcerrors.ErrCodeRenderFailed, 1},
		{"unprocessable is permanent", http.StatusUnprocessableEntity, pcerrors.ErrCodeRenderFailed, 1},
		{"server error exhausts attempts", http.StatusInternalServerError, pcerrors.ErrCodeRenderFailed, 3},
		{"rate limit exhausts attempts", http.StatusTooManyRequests, pcerrors.ErrCodeRateLimited, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls atomic.Int32
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				calls.Add(1)
				http.Error(w, "nope", tt.status)
			}))
			defer srv.Close()

			_, err := testClient(srv.URL).Render(context.Background(), doc.New())
			if !pcerrors.Is(err, tt.wantCode) {
				t.Errorf("error = %v, want code %s", err, tt.wantCode)
			}
			if calls.Load() != tt.wantCalls {
				t.Errorf("calls = %d, want %d", calls.Load(), tt.wantCalls)
			}
		})
	}
}

func TestRenderUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := testClient(url).Render(context.Background(), doc.New())
	if !pcerrors.Is(err, pcerrors.ErrCodeNetwork) {
		t.Errorf("error = %v, want NETWORK_ERROR", err)
	}
}

func TestNewClientDefaults(t *testing.T) {
	c := NewClient(Options{})
	if c.URL() != DefaultURL || c.attempts != DefaultAttempts || c.backoff != DefaultBackoff {
		t.Errorf("defaults not applied: %+v", c)
	}
	if c.http.Timeout != DefaultTimeout {
		t.Errorf("timeout = %v", c.http.Timeout)
	}
}

func TestRenderRateLimitCarriesRetryAfter(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "45")
		http.Error(w, "slow down", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewClient(Options{URL: srv.URL, Attempts: 1})
	_, err := c.Render(context.Background(), doc.New())
	if !pcerrors.Is(err, pcerrors.ErrCodeRateLimited) {
		t.Fatalf("err = %v, want %s", err, pcerrors.ErrCodeRateLimited)
	}
	var limited *pcerrors.RateLimitedError
	if !errors.As(err, &limited) {
		t.Fatalf("err = %v does not carry a RateLimitedError", err)
	}
	if limited.RetryAfter != 45 || limited.Message != "slow down" {
		t.Errorf("RateLimitedError = %+v", limited)
	}
}
