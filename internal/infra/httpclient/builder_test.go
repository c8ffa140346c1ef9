package httpclient

import (
	"context"
	"io"
	"net/http"
	"testing"

	"github.com/aalvaropc/munson/internal/domain"
)

func TestBuildRequestJSONAPIHeaders(t *testing.T) {
	req, err := BuildRequest(context.Background(), RequestSpec{
		Method:  http.MethodPost,
		URL:     "http://api.example.com/articles",
		Headers: domain.Headers{"X-Test": "yes"},
		Body:    map[string]any{"data": map[string]any{"type": "articles"}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := req.Header.Get("Accept"); got != MediaType {
		t.Fatalf("expected Accept %s, got %s", MediaType, got)
	}
	if got := req.Header.Get("Content-Type"); got != MediaType {
		t.Fatalf("expected Content-Type %s, got %s", MediaType, got)
	}
	if got := req.Header.Get("X-Test"); got != "yes" {
		t.Fatalf("expected custom header, got %q", got)
	}
	if got := req.Header.Get("User-Agent"); got == "" || got[:7] != "munson/" {
		t.Fatalf("unexpected user agent %q", got)
	}

	body, _ := io.ReadAll(req.Body)
	if string(body) != `{"data":{"type":"articles"}}` {
		t.Fatalf("unexpected body: %s", body)
	}
}

func TestBuildRequestWithoutBody(t *testing.T) {
	req, err := BuildRequest(context.Background(), RequestSpec{Method: http.MethodGet, URL: "http://api.example.com/articles"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ct := req.Header.Get("Content-Type"); ct != "" {
		t.Fatalf("expected no content type, got %s", ct)
	}
}

func TestBuildRequestContentTypeOverride(t *testing.T) {
	req, err := BuildRequest(context.Background(), RequestSpec{
		Method:  http.MethodPatch,
		URL:     "http://api.example.com/articles/1",
		Headers: domain.Headers{"Content-Type": "application/json"},
		Body:    map[string]any{},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ct := req.Header.Get("Content-Type"); ct != "application/json" {
		t.Fatalf("expected caller content type to win, got %s", ct)
	}
}

func TestBuildRequestEmptyURL(t *testing.T) {
	_, err := BuildRequest(context.Background(), RequestSpec{Method: http.MethodGet, URL: "  "})
	if err == nil {
		t.Fatalf("expected error")
	}
	if !domain.IsKind(err, domain.KindInvalidConfig) {
		t.Fatalf("expected invalid_config kind, got %v", err)
	}
}

func TestBuildRequestUnencodableBody(t *testing.T) {
	_, err := BuildRequest(context.Background(), RequestSpec{
		Method: http.MethodPost,
		URL:    "http://api.example.com/articles",
		Body:   map[string]any{"bad": make(chan int)},
	})
	if !domain.IsKind(err, domain.KindInvalidConfig) {
		t.Fatalf("expected invalid_config kind, got %v", err)
	}
}
