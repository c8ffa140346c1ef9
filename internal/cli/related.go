package cli

import (
	"github.com/spf13/cobra"

	"github.com/aalvaropc/munson/internal/usecase"
)

func relatedCmd(g *globalFlags) *cobra.Command {
	var q queryFlags
	var format string

	c := &cobra.Command{
		Use:   "related TYPE ID RELATIONSHIP",
		Short: "Fetch TYPE/ID with RELATIONSHIP side-loaded and print the related documents",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := q.options()
			if err != nil {
				return err
			}

			ws, err := loadWorkspace(g.workspace)
			if err != nil {
				return err
			}

			uc := usecase.NewFetchRelated(ws.fetcher())
			res, err := uc.Execute(cmd.Context(), usecase.RelatedRequest{
				Type:         args[0],
				ID:           args[1],
				Relationship: args[2],
				Query:        opts,
			})
			if err != nil {
				return err
			}
			return printRelated(cmd.OutOrStdout(), res, format)
		},
	}

	q.register(c.Flags())
	c.Flags().StringVar(&format, "format", "pretty", "Output format: pretty|json|dump")
	return c
}
