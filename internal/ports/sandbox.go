package ports

import (
	"context"

	"github.com/aneesh-123/Socrates/internal/domain/execution"
)

// Sandbox runs one compile+execute cycle over a prepared workspace directory
// and returns the raw captured outcome.
type Sandbox interface {
	Run(ctx context.Context, workspaceDir string) (*execution.RawRun, error)
	Close() error
}
