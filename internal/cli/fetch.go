package cli

import (
	"github.com/spf13/cobra"

	"github.com/aalvaropc/munson/internal/usecase"
	"github.com/aalvaropc/munson/internal/usecase/extract"
)

func fetchCmd(g *globalFlags) *cobra.Command {
	var q queryFlags
	var id string
	var from string
	var single bool
	var extracts []string
	var format string

	c := &cobra.Command{
		Use:   "fetch TYPE",
		Short: "Fetch a collection or one resource of TYPE and print the mapped documents",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := q.options()
			if err != nil {
				return err
			}
			rules, err := extract.ParseRules(extracts)
			if err != nil {
				return err
			}

			ws, err := loadWorkspace(g.workspace)
			if err != nil {
				return err
			}

			res, err := ws.fetcher().Execute(cmd.Context(), usecase.FetchRequest{
				Type:    args[0],
				ID:      id,
				From:    from,
				Single:  single,
				Query:   opts,
				Extract: rules,
			})
			if err != nil {
				return err
			}
			return printFetch(cmd.OutOrStdout(), res, format)
		},
	}

	q.register(c.Flags())
	c.Flags().StringVar(&id, "id", "", "Fetch the single resource TYPE/ID")
	c.Flags().StringVar(&from, "from", "", "Fetch a custom endpoint below the TYPE path")
	c.Flags().BoolVar(&single, "single", false, "Map the --from response as a single resource")
	c.Flags().StringArrayVarP(&extracts, "extract", "x", nil, "Extract name=$.jsonpath from the response (repeatable)")
	c.Flags().StringVar(&format, "format", "pretty", "Output format: pretty|json|dump")
	c.MarkFlagsMutuallyExclusive("id", "from")
	return c
}
