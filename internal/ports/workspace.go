package ports

import "github.com/aalvaropc/munson/internal/domain"

// WorkspaceInitializer writes a starter munson.yaml into a directory.
type WorkspaceInitializer interface {
	Init(spec domain.WorkspaceSpec, force bool) error
}
