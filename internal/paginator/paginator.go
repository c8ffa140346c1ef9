// Package paginator turns page options into the `page[...]` query parameters of a
// JSON:API request.
package paginator

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/aalvaropc/munson/internal/domain"
)

// Strategy names accepted by New.
const (
	StrategyOffset = "offset"
	StrategyPaged  = "paged"
)

// DefaultSize is used when neither a requested nor a default size is known.
const DefaultSize = 10

// Paginator accumulates page options for a single query.
type Paginator interface {
	// Set records the recognized options; unknown keys are ignored.
	Set(opts map[string]int)
	// Params returns {"page": {...}} holding only the defined fields.
	Params() domain.Params
}

// Factory builds a fresh paginator for each query.
type Factory func() Paginator

// New returns a paginator for the named strategy. max <= 0 disables clamping and
// def <= 0 falls back to DefaultSize.
func New(strategy string, max, def int) (Paginator, error) {
	if strings.TrimSpace(strategy) == "" {
		return nil, unknown(strategy)
	}
	f, err := NewFactory(domain.PaginatorConfig{Strategy: strategy, Max: max, Default: def})
	if err != nil {
		return nil, err
	}
	return f(), nil
}

// NewFactory validates cfg once and returns a factory. An empty strategy yields a nil
// factory: queries then pass raw page maps through.
func NewFactory(cfg domain.PaginatorConfig) (Factory, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Strategy)) {
	case "":
		return nil, nil
	case StrategyOffset:
		return func() Paginator { return &Offset{Max: cfg.Max, Default: cfg.Default} }, nil
	case StrategyPaged:
		return func() Paginator { return &Paged{Max: cfg.Max, Default: cfg.Default} }, nil
	default:
		return nil, unknown(cfg.Strategy)
	}
}

func unknown(strategy string) error {
	return &domain.OpError{
		Op:   "paginator.new",
		Kind: domain.KindConfiguration,
		Err:  fmt.Errorf("no paginator for %q (valid: offset, paged): %w", strategy, domain.ErrUnknownPaginator),
	}
}

// Offset emits page[limit] and page[offset].
type Offset struct {
	Max     int
	Default int

	limit  *int
	offset *int
}

func (p *Offset) Set(opts map[string]int) {
	if v, ok := opts["limit"]; ok {
		n := clamp(v, p.Max)
		p.limit = &n
	}
	if v, ok := opts["offset"]; ok {
		n := v
		p.offset = &n
	}
}

func (p *Offset) Params() domain.Params {
	page := map[string]string{"limit": strconv.Itoa(size(p.limit, p.Default))}
	if p.offset != nil {
		page["offset"] = strconv.Itoa(*p.offset)
	}
	return domain.Params{"page": page}
}

// Paged emits page[size] and page[number].
type Paged struct {
	Max     int
	Default int

	size   *int
	number *int
}

func (p *Paged) Set(opts map[string]int) {
	if v, ok := opts["number"]; ok {
		n := v
		p.number = &n
	}
	if v, ok := opts["size"]; ok {
		n := clamp(v, p.Max)
		p.size = &n
	}
}

func (p *Paged) Params() domain.Params {
	page := map[string]string{"size": strconv.Itoa(size(p.size, p.Default))}
	if p.number != nil {
		page["number"] = strconv.Itoa(*p.number)
	}
	return domain.Params{"page": page}
}

func clamp(n, max int) int {
	if max > 0 && n > max {
		return max
	}
	return n
}

func size(requested *int, def int) int {
	if requested != nil {
		return *requested
	}
	if def > 0 {
		return def
	}
	return DefaultSize
}
