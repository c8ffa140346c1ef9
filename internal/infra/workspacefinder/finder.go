package workspacefinder

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/aalvaropc/munson/internal/domain"
	"github.com/aalvaropc/munson/internal/infra/config"
	"github.com/aalvaropc/munson/internal/ports"
)

// Finder locates a munson workspace root: the nearest directory, walking up, that
// holds one of ConfigFiles.
type Finder struct {
	ConfigFiles []string
}

var _ ports.WorkspaceLocator = (*Finder)(nil)

func NewFinder() *Finder {
	return &Finder{ConfigFiles: config.FileNames}
}

func (f *Finder) FindRoot(startDir string) (string, error) {
	if startDir == "" {
		return "", &domain.OpError{
			Op:   "workspacefinder.findroot",
			Kind: domain.KindInvalidConfig,
			Err:  errors.New("startDir is empty"),
		}
	}

	abs, err := filepath.Abs(startDir)
	if err != nil {
		return "", &domain.OpError{
			Op:   "workspacefinder.findroot",
			Kind: domain.KindExecution,
			Err:  err,
		}
	}

	// If user passes a file path, use its directory.
	info, statErr := os.Stat(abs)
	if statErr == nil && !info.IsDir() {
		abs = filepath.Dir(abs)
	}

	cur := filepath.Clean(abs)
	for {
		if _, ok := configIn(cur, f.ConfigFiles); ok {
			return cur, nil
		}

		parent := filepath.Dir(cur)
		if parent == cur {
			return "", &domain.OpError{
				Op:   "workspacefinder.findroot",
				Kind: domain.KindNotFound,
				Path: startDir,
				Err:  domain.ErrNotFound,
			}
		}
		cur = parent
	}
}

// configIn returns the first of names present as a regular file in dir.
func configIn(dir string, names []string) (string, bool) {
	for _, name := range names {
		p := filepath.Join(dir, name)
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return p, true
		}
	}
	return "", false
}
