package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/aalvaropc/munson/internal/client"
	"github.com/aalvaropc/munson/internal/document"
	"github.com/aalvaropc/munson/internal/domain"
	"github.com/aalvaropc/munson/internal/mapper"
	"github.com/aalvaropc/munson/internal/paginator"
	"github.com/aalvaropc/munson/internal/ports"
	"github.com/aalvaropc/munson/internal/registry"
	"github.com/aalvaropc/munson/internal/usecase/extract"
)

// FetchRequest selects what to read. ID and From are mutually exclusive; with
// neither set the collection endpoint is fetched.
type FetchRequest struct {
	Type    string
	ID      string
	From    string
	Single  bool
	Query   QueryOptions
	Extract extract.Rules
}

// FetchResult is a mapped response plus the envelope it came from.
type FetchResult struct {
	Path   string
	Status int
	Single bool
	// Items are the mapped objects as built by the registry.
	Items     []any
	Documents []*document.Document
	Meta      map[string]any
	Links     map[string]any
	Errors    domain.ErrorObjects
	// Body is the internalized payload as generic JSON.
	Body      any
	Extracted map[string]string
	Extracts  []extract.Result
}

type FetchResources struct {
	transport ports.Transport
	cfg       domain.Config
	registry  *registry.Registry
	logger    *slog.Logger
}

type FetchOption func(*FetchResources)

func WithRegistry(r *registry.Registry) FetchOption {
	return func(uc *FetchResources) { uc.registry = r }
}

func WithLogger(l *slog.Logger) FetchOption {
	return func(uc *FetchResources) {
		if l != nil {
			uc.logger = l
		}
	}
}

func NewFetchResources(t ports.Transport, cfg domain.Config, opts ...FetchOption) *FetchResources {
	uc := &FetchResources{
		transport: t,
		cfg:       cfg,
		registry:  registry.New(),
		logger:    slog.New(slog.NewJSONHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

func (uc *FetchResources) client(typ string, rec *recorder) (*client.Client, error) {
	pf, err := paginator.NewFactory(uc.cfg.Paginator)
	if err != nil {
		return nil, err
	}
	return client.New(typ,
		client.WithPath(uc.cfg.ResourcePath(typ)),
		client.WithTransport(rec),
		client.WithRegistry(uc.registry),
		client.WithPaginator(pf),
		client.WithHeaders(uc.cfg.Headers),
		client.WithLogger(uc.logger),
	), nil
}

func (uc *FetchResources) Execute(ctx context.Context, req FetchRequest) (FetchResult, error) {
	if strings.TrimSpace(req.Type) == "" {
		return FetchResult{}, &domain.OpError{
			Op:   "usecase.fetch",
			Kind: domain.KindInvalidConfig,
			Err:  fmt.Errorf("resource type is required: %w", domain.ErrInvalidConfig),
		}
	}
	if req.ID != "" && req.From != "" {
		return FetchResult{}, &domain.OpError{
			Op:   "usecase.fetch",
			Kind: domain.KindInvalidConfig,
			Err:  fmt.Errorf("id and custom endpoint cannot be combined: %w", domain.ErrInvalidConfig),
		}
	}

	rec := &recorder{Transport: uc.transport}
	c, err := uc.client(req.Type, rec)
	if err != nil {
		return FetchResult{}, err
	}
	b, err := req.Query.Apply(c.Query())
	if err != nil {
		return FetchResult{}, err
	}

	uc.logger.Info("fetch.start", "type", req.Type, "id", req.ID, "from", req.From, "query", b.QueryString())

	var (
		mapped any
		single = req.ID != "" || (req.From != "" && req.Single)
	)
	switch {
	case req.ID != "":
		mapped, err = b.Find(ctx, req.ID)
	case req.From != "":
		mapped, err = b.FetchFrom(ctx, req.From, !req.Single)
	default:
		mapped, err = b.Fetch(ctx)
	}

	resp, path, seen := rec.response()
	if err != nil {
		if seen && len(resp.Body.Errors) > 0 && resp.Body.Shape() == domain.ShapeAbsent {
			err = &domain.OpError{
				Op:   "usecase.fetch",
				Kind: domain.KindAPI,
				Path: path,
				Err:  fmt.Errorf("status %d: %w", resp.Status, resp.Body.Errors),
			}
		}
		uc.logger.Error("fetch.failed", "type", req.Type, "path", path, "err", err)
		return FetchResult{}, err
	}

	out := FetchResult{
		Path:   path,
		Status: resp.Status,
		Single: single,
		Meta:   resp.Body.Meta,
		Links:  resp.Body.Links,
		Errors: resp.Body.Errors,
	}
	if c, ok := mapped.(*mapper.Collection); ok {
		out.Items = c.Items
		out.Documents = c.Documents()
	} else {
		out.Items = []any{mapped}
		if d, ok := mapper.DocumentOf(mapped); ok {
			out.Documents = []*document.Document{d}
		}
	}
	if len(out.Documents) != len(out.Items) {
		uc.logger.Warn("fetch.unwrapped_items", "type", req.Type, "items", len(out.Items), "documents", len(out.Documents))
	}

	body, err := genericBody(resp.Body)
	if err != nil {
		return FetchResult{}, &domain.OpError{Op: "usecase.fetch", Kind: domain.KindExecution, Path: path, Err: err}
	}
	out.Body = body
	out.Extracted, out.Extracts = extract.ApplyValue(body, req.Extract)

	uc.logger.Info("fetch.done", "type", req.Type, "path", path, "status", resp.Status, "documents", len(out.Documents))
	return out, nil
}

// genericBody re-decodes the payload into map/slice form for JSONPath and output.
func genericBody(p domain.Payload) (any, error) {
	b, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return nil, err
	}
	return v, nil
}
