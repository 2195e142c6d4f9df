package trigger

import (
	"fmt"
	"os"
	"path/filepath"
)

func DefaultSocketPath() string {
	runtimeDir := os.Getenv("XDG_RUNTIME_DIR")
	if runtimeDir != "" {
		return filepath.Join(runtimeDir, "toggle-term", "trigger.sock")
	}
	return filepath.Join(os.TempDir(), fmt.Sprintf("toggle-term-%d", os.Getuid()), "trigger.sock")
}
