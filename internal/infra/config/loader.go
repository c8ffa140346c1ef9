package config

import (
	"os"

	"github.com/aalvaropc/munson/internal/domain"
	"gopkg.in/yaml.v3"
)

// FileName is the workspace configuration file.
const FileName = "munson.yaml"

// FileNames are the accepted configuration file names, in lookup order.
var FileNames = []string{FileName, "munson.yml"}

// LoadConfig reads and validates a munson.yaml file.
func LoadConfig(path string) (domain.Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return domain.DefaultConfig(), &domain.OpError{
			Op:   "config.load",
			Kind: domain.KindNotFound,
			Path: path,
			Err:  err,
		}
	}

	var dto YAMLFile
	if err := yaml.Unmarshal(b, &dto); err != nil {
		return domain.DefaultConfig(), &domain.OpError{
			Op:   "config.load",
			Kind: domain.KindInvalidConfig,
			Path: path,
			Err:  err,
		}
	}

	return MapConfig(path, dto.Munson)
}
