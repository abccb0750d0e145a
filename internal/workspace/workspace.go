package workspace

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/aneesh-123/Socrates/internal/domain/execution"
	"github.com/aneesh-123/Socrates/internal/metrics"
)

// Manager allocates and destroys per-request scratch directories. Directories
// are uuid-named, so concurrent requests never collide.
type Manager struct {
	root   string
	logger zerolog.Logger
}

// NewManager constructs a Manager rooted at the given directory. An empty root
// defaults to a subdirectory of the system temp directory.
func NewManager(root string, logger zerolog.Logger) (*Manager, error) {
	if root == "" {
		root = filepath.Join(os.TempDir(), "socrates-workspaces")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create workspace root: %w", err)
	}
	return &Manager{root: root, logger: logger}, nil
}

// Create allocates a fresh workspace directory and returns its handle.
func (m *Manager) Create() (*Workspace, error) {
	dir := filepath.Join(m.root, "ws-"+uuid.NewString())
	if err := os.Mkdir(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create workspace: %w", err)
	}
	return &Workspace{dir: dir, logger: m.logger}, nil
}

// Workspace is an ephemeral directory owning the source files for exactly one
// execution.
type Workspace struct {
	dir    string
	logger zerolog.Logger
}

// Dir returns the absolute path of the workspace directory.
func (w *Workspace) Dir() string {
	return w.dir
}

// Write stores content under the given name inside the workspace. Paths that
// escape the workspace are rejected.
func (w *Workspace) Write(name, content string) error {
	if name == "" || strings.Contains(name, "..") || strings.ContainsRune(name, os.PathSeparator) {
		return fmt.Errorf("invalid workspace file name %q", name)
	}
	if err := os.WriteFile(filepath.Join(w.dir, name), []byte(content), 0o644); err != nil {
		return fmt.Errorf("write workspace file %s: %w", name, err)
	}
	return nil
}

// Destroy removes the workspace directory. Cleanup is best-effort: failures
// are logged and never propagated to the caller.
func (w *Workspace) Destroy() {
	if err := os.RemoveAll(w.dir); err != nil {
		metrics.CleanupFailures.Inc()
		w.logger.Warn().Err(err).Str("workspace", w.dir).Msg("workspace removal failed")
	}
}

// ValidateSize fails when the encoded length of content exceeds maxBytes. It
// runs before any container is created.
func ValidateSize(content string, maxBytes int) error {
	if len(content) > maxBytes {
		return &execution.CodeTooLargeError{Size: len(content), Limit: maxBytes}
	}
	return nil
}
