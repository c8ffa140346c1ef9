package usecase

import (
	"github.com/aalvaropc/munson/internal/domain"
	"github.com/aalvaropc/munson/internal/paginator"
	"github.com/aalvaropc/munson/internal/query"
)

// BuildQuery renders query options offline, without a transport.
type BuildQuery struct {
	paginator paginator.Factory
}

func NewBuildQuery(cfg domain.PaginatorConfig) (*BuildQuery, error) {
	f, err := paginator.NewFactory(cfg)
	if err != nil {
		return nil, err
	}
	return &BuildQuery{paginator: f}, nil
}

// Execute returns the canonical params and their encoded query string.
func (uc *BuildQuery) Execute(opts QueryOptions) (domain.Params, string, error) {
	var qopts []query.Option
	if uc.paginator != nil {
		qopts = append(qopts, query.WithPaginator(uc.paginator()))
	}
	b, err := opts.Apply(query.New(qopts...))
	if err != nil {
		return nil, "", err
	}
	return b.Params(), b.QueryString(), nil
}
