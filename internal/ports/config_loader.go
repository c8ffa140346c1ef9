package ports

import "github.com/aalvaropc/munson/internal/domain"

// ConfigLoader loads the client configuration of a workspace.
type ConfigLoader interface {
	LoadConfig(root string) (domain.Config, error)
}
