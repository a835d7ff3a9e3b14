package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"testing"
	"time"

	"golang.org/x/time/rate"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}

type echoResponse struct {
	Query  string `json:"query"`
	Method string `json:"method"`
}

func TestClientGet(t *testing.T) {
	client := NewClient("https://example.com", "token", 2*time.Second)
	client.HTTP = &http.Client{Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
		if r.Header.Get("Authorization") != "Bearer token" {
			t.Fatalf("missing auth header: %q", r.Header.Get("Authorization"))
		}
		resp := echoResponse{Query: r.URL.Query().Encode(), Method: r.Method}
		payload, _ := json.Marshal(resp)
		return &http.Response{
			StatusCode: http.StatusOK,
			Body:       io.NopCloser(bytes.NewReader(payload)),
			Header:     http.Header{"Content-Type": []string{"application/json"}},
		}, nil
	})}

	query := url.Values{}
	query.Set("foo", "bar")
	var out echoResponse
	if _, err := client.Get(context.Background(), "/test", query, &out); err != nil {
		t.Fatalf("get: %v", err)
	}
	if out.Method != http.MethodGet {
		t.Fatalf("expected GET, got %s", out.Method)
	}
	if out.Query != "foo=bar" {
		t.Fatalf("unexpected query: %s", out.Query)
	}
}

func TestClientPostRequestID(t *testing.T) {
	client := NewClient("https://example.com", "token", 2*time.Second)
	client.HTTP = &http.Client{Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
		if r.Header.Get("X-Request-Id") == "" {
			t.Fatalf("missing request id")
		}
		resp := echoResponse{Query: r.URL.Query().Encode(), Method: r.Method}
		payload, _ := json.Marshal(resp)
		return &http.Response{
			StatusCode: http.StatusOK,
			Body:       io.NopCloser(bytes.NewReader(payload)),
			Header:     http.Header{"Content-Type": []string{"application/json"}},
		}, nil
	})}

	var out echoResponse
	if _, err := client.Post(context.Background(), "/test", nil, map[string]any{"ok": true}, &out, true); err != nil {
		t.Fatalf("post: %v", err)
	}
	if out.Method != http.MethodPost {
		t.Fatalf("expected POST, got %s", out.Method)
	}
}

func TestClientRetriesServerErrorsOnGet(t *testing.T) {
	restore := waitForRetry
	waitForRetry = func(context.Context, time.Duration) error { return nil }
	defer func() { waitForRetry = restore }()

	calls := 0
	client := NewClient("https://example.com", "token", 2*time.Second)
	client.HTTP = &http.Client{Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
		calls++
		status := http.StatusOK
		body := `{"query":"","method":"GET"}`
		if calls == 1 {
			status = http.StatusServiceUnavailable
			body = "busy"
		}
		return &http.Response{
			StatusCode: status,
			Body:       io.NopCloser(bytes.NewReader([]byte(body))),
			Header:     http.Header{},
		}, nil
	})}
	var out echoResponse
	if _, err := client.Get(context.Background(), "/test", nil, &out); err != nil {
		t.Fatalf("get: %v", err)
	}
	if calls != 2 {
		t.Fatalf("expected 2 calls, got %d", calls)
	}
}

func TestClientDoesNotRetryUnkeyedPost(t *testing.T) {
	calls := 0
	client := NewClient("https://example.com", "token", 2*time.Second)
	client.HTTP = &http.Client{Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
		calls++
		return &http.Response{
			StatusCode: http.StatusBadGateway,
			Body:       io.NopCloser(bytes.NewReader([]byte("bad gateway"))),
			Header:     http.Header{},
		}, nil
	})}
	_, err := client.Post(context.Background(), "/test", nil, map[string]any{}, nil, false)
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusBadGateway {
		t.Fatalf("expected APIError 502, got %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected a single call, got %d", calls)
	}
}

func TestClientWaitsOnLimiter(t *testing.T) {
	client := NewClient("https://example.com", "token", 2*time.Second)
	client.Limiter = rate.NewLimiter(rate.Limit(0), 0)
	client.HTTP = &http.Client{Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
		t.Fatalf("request should not be sent")
		return nil, nil
	})}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if _, err := client.Get(ctx, "/test", nil, nil); err == nil {
		t.Fatalf("expected limiter error")
	}
}

func TestRetryDelayHonoursRetryAfter(t *testing.T) {
	if got := retryDelay(0, "2"); got != 2*time.Second {
		t.Fatalf("unexpected delay %s", got)
	}
	if got := retryDelay(0, "30"); got != 3*time.Second {
		t.Fatalf("expected cap at 3s, got %s", got)
	}
	if got := retryDelay(5, ""); got != 1200*time.Millisecond {
		t.Fatalf("expected backoff cap, got %s", got)
	}
}
