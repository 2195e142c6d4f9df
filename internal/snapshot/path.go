package snapshot

import (
	"fmt"
	"os"
	"path/filepath"
)

// DefaultDir returns the default snapshot directory: per-user runtime dir
// when available, a uid-scoped temp dir otherwise.
func DefaultDir() string {
	runtimeDir := os.Getenv("XDG_RUNTIME_DIR")
	if runtimeDir != "" {
		return filepath.Join(runtimeDir, "toggle-term", "state")
	}
	return filepath.Join(os.TempDir(), fmt.Sprintf("toggle-term-%d", os.Getuid()), "state")
}
