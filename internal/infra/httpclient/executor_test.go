package httpclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestExecutorTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(100 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	exec := NewExecutor(WithTimeout(20 * time.Millisecond))

	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, server.URL, nil)
	if err != nil {
		t.Fatalf("failed to build request: %v", err)
	}

	resp, err := exec.Do(context.Background(), req)
	if err == nil {
		t.Fatalf("expected timeout error")
	}
	if resp.Duration <= 0 {
		t.Fatalf("expected duration to be set")
	}
}

func TestExecutorBodyLimit(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(strings.Repeat("x", 64)))
	}))
	defer server.Close()

	exec := NewExecutor(WithMaxBodyBytes(16))
	req, _ := http.NewRequestWithContext(context.Background(), http.MethodGet, server.URL, nil)

	resp, err := exec.Do(context.Background(), req)
	if err == nil || !strings.Contains(err.Error(), "exceeds 16 bytes") {
		t.Fatalf("expected body limit error, got %v", err)
	}
	if resp.Status != http.StatusOK {
		t.Fatalf("expected status to be kept, got %d", resp.Status)
	}
}

func TestReadBounded(t *testing.T) {
	b, truncated, err := readBounded(strings.NewReader("abcdef"), 4)
	if err != nil || !truncated || string(b) != "abcd" {
		t.Fatalf("unexpected result %q %v %v", b, truncated, err)
	}

	b, truncated, err = readBounded(strings.NewReader("abc"), 0)
	if err != nil || truncated || string(b) != "abc" {
		t.Fatalf("unexpected unbounded result %q %v %v", b, truncated, err)
	}
}
