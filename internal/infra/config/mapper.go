package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/aalvaropc/munson/internal/domain"
	"github.com/aalvaropc/munson/internal/keyformat"
	"github.com/aalvaropc/munson/internal/paginator"
)

// MapConfig applies parsed values on top of domain.DefaultConfig and validates them.
func MapConfig(path string, yc YAMLConfig) (domain.Config, error) {
	cfg := domain.DefaultConfig()

	if base := strings.TrimSpace(yc.BaseURL); base != "" {
		u, err := url.Parse(base)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return cfg, invalidField(path, "base_url", fmt.Sprintf("absolute http(s) url required, got %q", base))
		}
		cfg.BaseURL = base
	}

	if kf := strings.TrimSpace(yc.KeyFormat); kf != "" {
		f, err := keyformat.New(kf)
		if err != nil {
			return cfg, invalidField(path, "key_format", fmt.Sprintf("unsupported key format %q (valid: dasherize, camelize)", kf))
		}
		cfg.KeyFormat = f.Strategy()
	}

	if ts := strings.TrimSpace(yc.Timeout); ts != "" {
		d, err := time.ParseDuration(ts)
		if err != nil || d <= 0 {
			return cfg, invalidField(path, "timeout", fmt.Sprintf("positive duration required, got %q", ts))
		}
		cfg.Timeout = d
	}

	for k, v := range yc.Headers {
		if strings.TrimSpace(k) == "" {
			return cfg, invalidField(path, "headers", "header name is empty")
		}
		cfg.Headers[k] = v
	}

	pc := domain.PaginatorConfig{Strategy: strings.ToLower(strings.TrimSpace(yc.Paginator.Strategy))}
	if yc.Paginator.Max != nil {
		if *yc.Paginator.Max < 0 {
			return cfg, invalidField(path, "paginator.max", "must not be negative")
		}
		pc.Max = *yc.Paginator.Max
	}
	if yc.Paginator.Default != nil {
		if *yc.Paginator.Default < 0 {
			return cfg, invalidField(path, "paginator.default", "must not be negative")
		}
		pc.Default = *yc.Paginator.Default
	}
	if _, err := paginator.NewFactory(pc); err != nil {
		return cfg, invalidField(path, "paginator.strategy", fmt.Sprintf("unsupported strategy %q (valid: offset, paged)", pc.Strategy))
	}
	cfg.Paginator = pc

	seen := map[string]bool{}
	for i, r := range yc.Resources {
		field := fmt.Sprintf("resources[%d]", i)
		typ := strings.TrimSpace(r.Type)
		if typ == "" {
			return cfg, invalidField(path, field+".type", "type is required")
		}
		if seen[typ] {
			return cfg, invalidField(path, field+".type", fmt.Sprintf("type %q declared twice", typ))
		}
		seen[typ] = true
		cfg.Resources = append(cfg.Resources, domain.ResourceConfig{
			Type: typ,
			Path: strings.Trim(strings.TrimSpace(r.Path), "/"),
		})
	}

	return cfg, nil
}

func invalidField(path, field, msg string) error {
	return &domain.OpError{
		Op:   "config.map",
		Kind: domain.KindInvalidConfig,
		Path: path,
		Err:  fmt.Errorf("field %s: %s: %w", field, msg, domain.ErrInvalidConfig),
	}
}
