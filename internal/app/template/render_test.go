package template

import (
	"testing"

	"github.com/aalvaropc/munson/internal/domain"
)

func TestRenderStringSingleVar(t *testing.T) {
	out, err := RenderString("base_url: {{base_url}}", map[string]string{"base_url": "http://localhost:3000"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "base_url: http://localhost:3000" {
		t.Fatalf("expected replaced string, got %q", out)
	}
}

func TestRenderStringMultipleVars(t *testing.T) {
	out, err := RenderString("{{ key_format }}/{{base_url}}", map[string]string{
		"key_format": "dasherize",
		"base_url":   "http://api",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "dasherize/http://api" {
		t.Fatalf("expected replaced string, got %q", out)
	}
}

func TestRenderStringMissingVar(t *testing.T) {
	_, err := RenderString("key_format: {{key_format}}", map[string]string{})
	if err == nil {
		t.Fatalf("expected error")
	}
	if !domain.IsKind(err, domain.KindInvalidConfig) {
		t.Fatalf("expected invalid_config, got %v", err)
	}
}

func TestRenderStringMalformed(t *testing.T) {
	for _, in := range []string{"base_url: {{base_url", "base_url: {{ }}"} {
		_, err := RenderString(in, map[string]string{"base_url": "x"})
		if !domain.IsKind(err, domain.KindInvalidConfig) {
			t.Fatalf("expected invalid_config for %q, got %v", in, err)
		}
	}
}
