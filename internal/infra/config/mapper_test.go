package config

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/aalvaropc/munson/internal/domain"
)

func intPtr(n int) *int { return &n }

func TestMapConfigDefaults(t *testing.T) {
	cfg, err := MapConfig("munson.yaml", YAMLConfig{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Timeout != 30*time.Second {
		t.Fatalf("expected default timeout, got %v", cfg.Timeout)
	}
	if cfg.Headers == nil {
		t.Fatalf("expected non-nil headers")
	}
	if cfg.Paginator.Strategy != "" || cfg.KeyFormat != "" {
		t.Fatalf("expected no paginator and no key format, got %+v", cfg)
	}
}

func TestMapConfigErrors(t *testing.T) {
	tests := []struct {
		name  string
		in    YAMLConfig
		field string
	}{
		{"relative base url", YAMLConfig{BaseURL: "api.example.com"}, "base_url"},
		{"unknown key format", YAMLConfig{KeyFormat: "snake"}, "key_format"},
		{"bad timeout", YAMLConfig{Timeout: "soon"}, "timeout"},
		{"negative timeout", YAMLConfig{Timeout: "-1s"}, "timeout"},
		{"negative max", YAMLConfig{Paginator: YAMLPaginator{Strategy: "paged", Max: intPtr(-1)}}, "paginator.max"},
		{"negative default", YAMLConfig{Paginator: YAMLPaginator{Strategy: "paged", Default: intPtr(-5)}}, "paginator.default"},
		{"missing type", YAMLConfig{Resources: []YAMLResource{{Path: "x"}}}, "resources[0].type"},
		{"duplicate type", YAMLConfig{Resources: []YAMLResource{{Type: "a"}, {Type: "a"}}}, "resources[1].type"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := MapConfig("munson.yaml", tt.in)
			if err == nil {
				t.Fatalf("expected error")
			}
			if !errors.Is(err, domain.ErrInvalidConfig) {
				t.Fatalf("expected ErrInvalidConfig, got %v", err)
			}
			if !strings.Contains(err.Error(), "field "+tt.field) {
				t.Fatalf("expected field %s in error, got %v", tt.field, err)
			}
		})
	}
}

func TestMapConfigCamelAlias(t *testing.T) {
	cfg, err := MapConfig("munson.yaml", YAMLConfig{KeyFormat: "Camel", Paginator: YAMLPaginator{Strategy: "PAGED"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.KeyFormat != "camelize" || cfg.Paginator.Strategy != "paged" {
		t.Fatalf("unexpected mapping %+v", cfg)
	}
}
