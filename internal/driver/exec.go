package driver

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"slices"

	"github.com/vk/enginebuild/internal/buildcfg"
	"github.com/vk/enginebuild/internal/ctxlog"
)

// ModulesDirName is the directory, next to the compiler's bin directory, that
// holds the toolchain's bundled modules.
const ModulesDirName = "modules"

// ExecOptions configures an Exec driver.
type ExecOptions struct {
	// Command is the compiler executable, resolved through PATH.
	Command string
	// Args are passed before the rendered flags, e.g. a "build" subcommand.
	Args []string
	// Dir is the working directory of the compiler process.
	Dir string
	// Env is appended to the current process environment.
	Env []string
	// ImportPaths are added to the toolchain defaults after the bundled
	// modules directory.
	ImportPaths []string

	Stdout io.Writer
	Stderr io.Writer
}

// Exec is a Driver that runs an external compiler process per entry file.
type Exec struct {
	opts    ExecOptions
	bin     string
	imports []string

	options map[int]*buildcfg.Configuration
	nextID  int
}

// NewExec resolves the compiler binary and returns a driver for it.
func NewExec(opts ExecOptions) (*Exec, error) {
	if opts.Command == "" {
		return nil, errors.New("compiler command must not be empty")
	}
	bin, err := exec.LookPath(opts.Command)
	if err != nil {
		return nil, fmt.Errorf("failed to locate compiler %q: %w", opts.Command, err)
	}
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}

	return &Exec{
		opts:    opts,
		bin:     bin,
		imports: toolchainImports(bin, opts.ImportPaths),
		options: make(map[int]*buildcfg.Configuration),
	}, nil
}

// toolchainImports returns <home>/modules, when it exists, followed by extra.
// home is the parent of the directory holding the compiler binary.
func toolchainImports(bin string, extra []string) []string {
	var imports []string
	if resolved, err := filepath.EvalSymlinks(bin); err == nil {
		bin = resolved
	}
	modules := filepath.Join(filepath.Dir(filepath.Dir(bin)), ModulesDirName)
	if info, err := os.Stat(modules); err == nil && info.IsDir() {
		imports = append(imports, modules)
	}
	return append(imports, extra...)
}

// Binary returns the resolved compiler path.
func (e *Exec) Binary() string {
	return e.bin
}

// DefaultImportPaths implements Driver.
func (e *Exec) DefaultImportPaths() []string {
	return slices.Clone(e.imports)
}

// CreateWorkspace implements Driver.
func (e *Exec) CreateWorkspace(ctx context.Context, name string) (Workspace, error) {
	if name == "" {
		return Workspace{}, errors.New("workspace name must not be empty")
	}
	e.nextID++
	ws := Workspace{ID: e.nextID, Name: name}
	e.options[ws.ID] = nil
	ctxlog.FromContext(ctx).Debug("Workspace created.", "workspace", ws.String())
	return ws, nil
}

// SetOptions implements Driver.
func (e *Exec) SetOptions(ctx context.Context, ws Workspace, cfg buildcfg.Configuration) error {
	if _, ok := e.options[ws.ID]; !ok {
		return fmt.Errorf("unknown workspace %s", ws)
	}
	frozen := cfg.Clone()
	e.options[ws.ID] = &frozen
	return nil
}

// AddEntryFile implements Driver. The compiler's output is streamed to the
// configured writers; a non-zero exit is returned as *CompilationFailure.
func (e *Exec) AddEntryFile(ctx context.Context, path string, ws Workspace) error {
	cfg, ok := e.options[ws.ID]
	if !ok {
		return fmt.Errorf("unknown workspace %s", ws)
	}
	if cfg == nil {
		return fmt.Errorf("options not set for workspace %s", ws)
	}

	args := append(slices.Clone(e.opts.Args), Args(path, *cfg)...)
	logger := ctxlog.FromContext(ctx)
	logger.Info("Invoking compiler.", "workspace", ws.Name, "command", e.bin, "args", args)

	cmd := exec.CommandContext(ctx, e.bin, args...)
	cmd.Dir = e.opts.Dir
	cmd.Stdout = e.opts.Stdout
	cmd.Stderr = e.opts.Stderr
	if len(e.opts.Env) > 0 {
		cmd.Env = append(os.Environ(), e.opts.Env...)
	}

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return &CompilationFailure{Workspace: ws, ExitCode: exitErr.ExitCode(), Err: err}
		}
		return fmt.Errorf("failed to run compiler: %w", err)
	}

	logger.Debug("Compiler finished.", "workspace", ws.Name)
	return nil
}
