package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aalvaropc/munson/internal/domain"
	"github.com/aalvaropc/munson/internal/infra/httpclient"
	"github.com/aalvaropc/munson/internal/infra/logger"
	"github.com/aalvaropc/munson/internal/infra/workspacefinder"
	"github.com/aalvaropc/munson/internal/ports"
	"github.com/aalvaropc/munson/internal/usecase"
)

type workspaceCtx struct {
	root      string
	cfg       domain.Config
	transport ports.Transport
}

func loadWorkspace(workspaceFlag string) (*workspaceCtx, error) {
	root, err := resolveWorkspaceRoot(workspaceFlag)
	if err != nil {
		return nil, err
	}

	var loader ports.ConfigLoader = workspacefinder.ConfigLoader{}
	cfg, err := loader.LoadConfig(root)
	if err != nil {
		return nil, err
	}

	conn, err := httpclient.Dial(cfg, logger.L())
	if err != nil {
		return nil, err
	}

	return &workspaceCtx{root: root, cfg: cfg, transport: conn}, nil
}

func (ws *workspaceCtx) fetcher() *usecase.FetchResources {
	return usecase.NewFetchResources(ws.transport, ws.cfg, usecase.WithLogger(logger.L()))
}

func resolveWorkspaceRoot(workspaceFlag string) (string, error) {
	w := strings.TrimSpace(workspaceFlag)
	if w != "" {
		abs, err := filepath.Abs(w)
		if err != nil {
			return "", fmt.Errorf("invalid workspace path: %w", err)
		}
		return abs, nil
	}

	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("get working directory: %w", err)
	}

	var locator ports.WorkspaceLocator = workspacefinder.NewFinder()
	root, err := locator.FindRoot(wd)
	if err != nil {
		return "", fmt.Errorf("workspace not found from %q (tip: run `munson init`): %w", wd, err)
	}
	return root, nil
}
