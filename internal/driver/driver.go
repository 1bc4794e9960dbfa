package driver

import (
	"context"
	"fmt"

	"github.com/vk/enginebuild/internal/buildcfg"
)

// Driver is the compilation service consumed by the orchestrator.
type Driver interface {
	// DefaultImportPaths returns the toolchain's own module directories, in
	// resolution order. Callers receive a copy they may extend.
	DefaultImportPaths() []string

	// CreateWorkspace opens a new, isolated compilation session.
	CreateWorkspace(ctx context.Context, name string) (Workspace, error)

	// SetOptions assigns the build configuration of a workspace.
	SetOptions(ctx context.Context, ws Workspace, cfg buildcfg.Configuration) error

	// AddEntryFile registers the root source file of a workspace and
	// compiles it. It blocks until the compiler finishes.
	AddEntryFile(ctx context.Context, path string, ws Workspace) error
}

// Workspace is a handle to a compilation session owned by a Driver.
type Workspace struct {
	ID   int
	Name string
}

func (w Workspace) String() string {
	return fmt.Sprintf("%s#%d", w.Name, w.ID)
}

// CompilationFailure is returned when the compiler ran and reported failure.
type CompilationFailure struct {
	Workspace Workspace
	ExitCode  int
	Err       error
}

// Error implements the error interface for CompilationFailure.
func (e *CompilationFailure) Error() string {
	return fmt.Sprintf("compilation of workspace %q failed with exit code %d", e.Workspace.Name, e.ExitCode)
}

func (e *CompilationFailure) Unwrap() error {
	return e.Err
}
