package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/aalvaropc/munson/internal/buildinfo"
	"github.com/aalvaropc/munson/internal/infra/logger"
)

func Execute() {
	cmd := newRootCmd()
	if err := cmd.Execute(); err != nil {
		printError(os.Stderr, err)
		os.Exit(1)
	}
}

type globalFlags struct {
	debug     bool
	workspace string
}

func newRootCmd() *cobra.Command {
	g := &globalFlags{}
	var cleanup func() error

	cmd := &cobra.Command{
		Use:           "munson",
		Short:         "munson is a JSON:API client: build queries, fetch and map resources",
		Version:       buildinfo.String(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			cleanup, _ = logger.Setup(logger.Config{
				Root:  logRoot(g.workspace),
				Debug: g.debug,
			})
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			if cleanup != nil {
				_ = cleanup()
			}
		},
	}
	cmd.SetVersionTemplate("{{.Version}}\n")

	cmd.PersistentFlags().BoolVar(&g.debug, "debug", false, "enable verbose logging to .munson/logs/munson.log")
	cmd.PersistentFlags().StringVarP(&g.workspace, "workspace", "w", "", "Workspace root (optional; autodetected if omitted)")

	cmd.AddCommand(initCmd(g), queryCmd(), fetchCmd(g), relatedCmd(g))
	return cmd
}

// logRoot is the workspace root when one is found, the working directory otherwise.
func logRoot(workspaceFlag string) string {
	if root, err := resolveWorkspaceRoot(workspaceFlag); err == nil {
		return root
	}
	wd, err := os.Getwd()
	if err != nil {
		wd = "."
	}
	wd, _ = filepath.Abs(wd)
	return wd
}

func printError(w io.Writer, err error) {
	theme := defaultTheme()
	fmt.Fprintln(w, theme.Fail.Render("Error: "+userMessage(err)))
	fmt.Fprintln(w, theme.Subtitle.Render(err.Error()))
}
