package buildcfg

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/vk/enginebuild/internal/fsutil"
)

// ErrInvalidWorkspaceName is returned when the definition path does not yield
// a usable workspace name.
var ErrInvalidWorkspaceName = errors.New("invalid workspace name")

// WorkspaceName derives the workspace identity from the path of the build
// definition. For a definition file the extension is stripped; a directory
// keeps its full name, dots included. The final path component is kept, so
// for a project directory this is the directory name.
func WorkspaceName(definitionPath string) (string, error) {
	cleaned := filepath.Clean(definitionPath)
	if info, err := os.Stat(cleaned); err == nil && info.Mode().IsRegular() {
		cleaned = strings.TrimSuffix(cleaned, filepath.Ext(cleaned))
	}
	name := filepath.Base(cleaned)
	if !fsutil.IsSafeName(name) {
		return "", fmt.Errorf("%w: %q derived from %q", ErrInvalidWorkspaceName, name, definitionPath)
	}
	return name, nil
}

// ProjectRoot returns the project root for a definition path.
func ProjectRoot(definitionPath string) string {
	return filepath.Clean(definitionPath)
}
