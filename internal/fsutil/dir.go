package fsutil

import (
	"fmt"
	"os"
)

// DirPerm is the permission used for directories created by the orchestrator.
const DirPerm = 0o755

// EnsureDir creates path and any missing parents. It succeeds when the
// directory already exists and fails when path exists but is not a directory.
func EnsureDir(path string) error {
	if path == "" {
		panic("path must not be empty")
	}

	info, err := os.Stat(path)
	switch {
	case err == nil && info.IsDir():
		return nil
	case err == nil:
		return fmt.Errorf("%s exists and is not a directory", path)
	case !os.IsNotExist(err):
		return err
	}

	return os.MkdirAll(path, DirPerm)
}
