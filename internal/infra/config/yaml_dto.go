package config

// YAMLFile is the on-disk shape of munson.yaml.
type YAMLFile struct {
	Munson YAMLConfig `yaml:"munson"`
}

type YAMLConfig struct {
	BaseURL   string            `yaml:"base_url"`
	KeyFormat string            `yaml:"key_format"`
	Timeout   string            `yaml:"timeout"`
	Headers   map[string]string `yaml:"headers"`
	Paginator YAMLPaginator     `yaml:"paginator"`
	Resources []YAMLResource    `yaml:"resources"`
}

type YAMLPaginator struct {
	Strategy string `yaml:"strategy"`
	Max      *int   `yaml:"max"`
	Default  *int   `yaml:"default"`
}

type YAMLResource struct {
	Type string `yaml:"type"`
	Path string `yaml:"path"`
}
