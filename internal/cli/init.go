package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aalvaropc/munson/internal/domain"
	"github.com/aalvaropc/munson/internal/infra/fsworkspace"
	"github.com/aalvaropc/munson/internal/keyformat"
	"github.com/aalvaropc/munson/internal/usecase"
)

func initCmd(g *globalFlags) *cobra.Command {
	var baseURL string
	var keyFormat string
	var force bool

	c := &cobra.Command{
		Use:   "init",
		Short: "Write a starter munson.yaml into the workspace",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if kf := strings.TrimSpace(keyFormat); kf != "" {
				if _, err := keyformat.New(kf); err != nil {
					return err
				}
			}

			root := strings.TrimSpace(g.workspace)
			if root == "" {
				root = "."
			}
			root, err := filepath.Abs(root)
			if err != nil {
				return fmt.Errorf("invalid workspace path: %w", err)
			}

			uc := usecase.NewInitWorkspace(fsworkspace.NewInitializer())
			spec := domain.WorkspaceSpec{Root: root, BaseURL: baseURL, KeyFormat: keyFormat}
			if err := uc.Execute(spec, force); err != nil {
				return err
			}

			theme := defaultTheme()
			fmt.Fprintln(cmd.OutOrStdout(), theme.OK.Render("Initialized munson workspace in "+root))
			return nil
		},
	}

	c.Flags().StringVar(&baseURL, "base-url", "", "API base URL (default "+fsworkspace.DefaultBaseURL+")")
	c.Flags().StringVar(&keyFormat, "key-format", "", "Key format: dasherize|camelize (empty keeps keys as-is)")
	c.Flags().BoolVar(&force, "force", false, "Overwrite an existing munson.yaml")
	return c
}
