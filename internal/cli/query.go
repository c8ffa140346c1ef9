package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/aalvaropc/munson/internal/domain"
	"github.com/aalvaropc/munson/internal/usecase"
)

// queryFlags are the builder options shared by query, fetch and related.
type queryFlags struct {
	includes []string
	sort     []string
	filters  []string
	fields   []string
	page     []string
}

func (q *queryFlags) register(fs *pflag.FlagSet) {
	fs.StringSliceVarP(&q.includes, "include", "i", nil, "Relationship paths to side-load (repeatable, comma separated)")
	fs.StringSliceVarP(&q.sort, "sort", "s", nil, "Sort fields: name, -name or name:desc (repeatable)")
	fs.StringArrayVarP(&q.filters, "filter", "f", nil, "Filter as field=v1,v2 (repeatable)")
	fs.StringArrayVar(&q.fields, "fields", nil, "Sparse fieldset as type=a,b (repeatable)")
	fs.StringArrayVarP(&q.page, "page", "p", nil, "Page option as key=value, e.g. size=25 (repeatable)")
}

func (q *queryFlags) options() (usecase.QueryOptions, error) {
	opts := usecase.QueryOptions{Includes: q.includes, Sort: q.sort}

	for _, f := range q.filters {
		d, err := usecase.ParseDirective(f)
		if err != nil {
			return usecase.QueryOptions{}, err
		}
		opts.Filters = append(opts.Filters, d)
	}
	for _, f := range q.fields {
		d, err := usecase.ParseDirective(f)
		if err != nil {
			return usecase.QueryOptions{}, err
		}
		opts.Fields = append(opts.Fields, d)
	}

	if len(q.page) > 0 {
		opts.Page = map[string]int{}
		for _, p := range q.page {
			key, val, ok := strings.Cut(p, "=")
			n, err := strconv.Atoi(strings.TrimSpace(val))
			if !ok || strings.TrimSpace(key) == "" || err != nil {
				return usecase.QueryOptions{}, &domain.OpError{
					Op:   "cli.page",
					Kind: domain.KindInvalidConfig,
					Err:  fmt.Errorf("page option %q must look like key=<integer>: %w", p, domain.ErrInvalidConfig),
				}
			}
			opts.Page[strings.TrimSpace(key)] = n
		}
	}
	return opts, nil
}

func queryCmd() *cobra.Command {
	var q queryFlags
	var strategy string
	var maxSize int
	var defSize int
	var format string

	c := &cobra.Command{
		Use:   "query",
		Short: "Print the canonical query string for the given options (no HTTP)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts, err := q.options()
			if err != nil {
				return err
			}

			uc, err := usecase.NewBuildQuery(domain.PaginatorConfig{Strategy: strategy, Max: maxSize, Default: defSize})
			if err != nil {
				return err
			}

			params, qs, err := uc.Execute(opts)
			if err != nil {
				return err
			}
			return printQuery(cmd.OutOrStdout(), params, qs, format)
		},
	}

	q.register(c.Flags())
	c.Flags().StringVar(&strategy, "paginator", "", "Paginator strategy: offset|paged (empty passes page options through)")
	c.Flags().IntVar(&maxSize, "max", 0, "Largest page size the paginator emits (0 = unbounded)")
	c.Flags().IntVar(&defSize, "default", 0, "Page size when none is requested")
	c.Flags().StringVar(&format, "format", "pretty", "Output format: pretty|json|dump")
	return c
}
