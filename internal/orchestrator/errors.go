package orchestrator

import "fmt"

// FilesystemError reports that the output directory could not be prepared.
// The entry file is never submitted when it is returned.
type FilesystemError struct {
	Path string
	Err  error
}

// Error implements the error interface for FilesystemError.
func (e *FilesystemError) Error() string {
	return fmt.Sprintf("failed to create output directory %s: %v", e.Path, e.Err)
}

func (e *FilesystemError) Unwrap() error {
	return e.Err
}
