package workspacefinder

import (
	"path/filepath"

	"github.com/aalvaropc/munson/internal/domain"
	"github.com/aalvaropc/munson/internal/infra/config"
	"github.com/aalvaropc/munson/internal/ports"
)

// ConfigLoader reads munson.yaml (or munson.yml) from a workspace root.
type ConfigLoader struct{}

var _ ports.ConfigLoader = ConfigLoader{}

func (ConfigLoader) LoadConfig(root string) (domain.Config, error) {
	return LoadConfig(root)
}

// LoadConfig loads the workspace configuration and applies defaults. A missing file
// is reported against munson.yaml.
func LoadConfig(root string) (domain.Config, error) {
	path, ok := configIn(root, config.FileNames)
	if !ok {
		path = filepath.Join(root, config.FileName)
	}
	return config.LoadConfig(path)
}
