package usecase

import (
	"github.com/aalvaropc/munson/internal/domain"
	"github.com/aalvaropc/munson/internal/ports"
)

type InitWorkspace struct {
	initializer ports.WorkspaceInitializer
}

func NewInitWorkspace(initializer ports.WorkspaceInitializer) *InitWorkspace {
	return &InitWorkspace{initializer: initializer}
}

func (uc *InitWorkspace) Execute(spec domain.WorkspaceSpec, force bool) error {
	return uc.initializer.Init(spec, force)
}
