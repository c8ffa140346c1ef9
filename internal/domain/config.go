package domain

import "time"

// Config represents the munson configuration loaded from munson.yaml.
type Config struct {
	BaseURL   string
	KeyFormat string
	Timeout   time.Duration
	Headers   Headers
	Paginator PaginatorConfig
	Resources []ResourceConfig
}

// PaginatorConfig selects the page strategy attached to new queries.
// An empty Strategy means raw page maps are passed through.
type PaginatorConfig struct {
	Strategy string
	Max      int
	Default  int
}

// ResourceConfig overrides the endpoint path of a resource type.
type ResourceConfig struct {
	Type string
	Path string
}

// Headers is a map representation of HTTP headers.
type Headers map[string]string

// DefaultConfig provides sane defaults if munson.yaml is partially missing.
func DefaultConfig() Config {
	return Config{
		Timeout: 30 * time.Second,
		Headers: Headers{},
	}
}

// ResourcePath returns the configured path for a type, or the type itself.
func (c Config) ResourcePath(typ string) string {
	for _, r := range c.Resources {
		if r.Type == typ && r.Path != "" {
			return r.Path
		}
	}
	return typ
}

// WorkspaceSpec describes a workspace to initialize.
type WorkspaceSpec struct {
	Root      string
	BaseURL   string
	KeyFormat string
}
