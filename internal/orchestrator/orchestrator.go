package orchestrator

import (
	"context"
	"errors"

	"github.com/vk/enginebuild/internal/buildcfg"
	"github.com/vk/enginebuild/internal/ctxlog"
	"github.com/vk/enginebuild/internal/driver"
	"github.com/vk/enginebuild/internal/fsutil"
)

const (
	// DefaultEntryFile is compiled when Options.EntryFile is empty.
	DefaultEntryFile = "src/main.jai"
	// DefaultEngineDir hosts all first- and third-party engine modules.
	DefaultEngineDir = "engine"

	// ArgRelease selects the optimizing backend at the highest speed level.
	ArgRelease = "release"
)

// Options fixes everything about a build that is not decided by arguments.
type Options struct {
	// DefinitionPath is the directory holding the build definition. Its
	// final component names the workspace and the executable.
	DefinitionPath string
	// Diagnostics compiles without producing a binary. It overrides any
	// other output decision.
	Diagnostics bool
	EntryFile   string
	EngineDir   string
}

// Result describes a configured build.
type Result struct {
	Workspace   string
	ProjectRoot string
	EntryFile   string
	Config      buildcfg.Configuration
	// UnknownArgs lists the arguments that were ignored with a warning.
	UnknownArgs []string
}

// Orchestrator configures and submits a single build.
type Orchestrator struct {
	opts   Options
	driver driver.Driver
}

// New creates an Orchestrator submitting to d.
func New(opts Options, d driver.Driver) *Orchestrator {
	if d == nil {
		panic("orchestrator: driver must not be nil")
	}
	if opts.EntryFile == "" {
		opts.EntryFile = DefaultEntryFile
	}
	if opts.EngineDir == "" {
		opts.EngineDir = DefaultEngineDir
	}
	return &Orchestrator{opts: opts, driver: d}
}

// Configure derives the build configuration for args without touching the
// file system or the driver's workspaces.
func (o *Orchestrator) Configure(ctx context.Context, args []string) (*Result, error) {
	logger := ctxlog.FromContext(ctx)

	name, err := buildcfg.WorkspaceName(o.opts.DefinitionPath)
	if err != nil {
		return nil, err
	}
	root := buildcfg.ProjectRoot(o.opts.DefinitionPath)
	logger.Debug("Workspace identity derived.", "workspace", name, "project_root", root)

	cfg := buildcfg.Default()
	if o.opts.Diagnostics {
		cfg.OutputType = buildcfg.OutputNone
	}
	cfg.ImportPaths = append(o.driver.DefaultImportPaths(), o.opts.EngineDir)

	var unknown []string
	for _, arg := range args {
		switch arg {
		case ArgRelease:
			cfg.Backend = buildcfg.BackendOptimizing
			cfg.Optimization = buildcfg.OptimizationHigh
		default:
			logger.Warn("Unknown argument: "+arg, "argument", arg)
			unknown = append(unknown, arg)
		}
	}

	cfg.OutputType = buildcfg.OutputExecutable
	if o.opts.Diagnostics {
		cfg.OutputType = buildcfg.OutputNone
	}
	cfg.OutputName = name
	cfg.OutputPath = buildcfg.OutputPathFor(root)

	logger.Debug("Build configuration resolved.",
		"backend", cfg.Backend,
		"optimization", cfg.Optimization,
		"bounds_checking", cfg.BoundsChecking,
		"output_type", cfg.OutputType,
		"import_paths", cfg.ImportPaths,
	)

	return &Result{
		Workspace:   name,
		ProjectRoot: root,
		EntryFile:   o.opts.EntryFile,
		Config:      cfg.Clone(),
		UnknownArgs: unknown,
	}, nil
}

// ConfigureAndBuild configures the build for args, ensures the output
// directory exists and submits the entry file. Errors from the driver are
// returned as they are.
func (o *Orchestrator) ConfigureAndBuild(ctx context.Context, args []string) (*Result, error) {
	res, err := o.Configure(ctx, args)
	if err != nil {
		return nil, err
	}
	return res, o.Build(ctx, res)
}

// Build prepares the output directory of a configured build and submits its
// entry file to the driver.
func (o *Orchestrator) Build(ctx context.Context, res *Result) error {
	ctx, logger := ctxlog.With(ctx, "workspace", res.Workspace)

	if err := fsutil.EnsureDir(res.Config.OutputPath); err != nil {
		return &FilesystemError{Path: res.Config.OutputPath, Err: err}
	}
	logger.Debug("Output directory ready.", "path", res.Config.OutputPath)

	ws, err := o.driver.CreateWorkspace(ctx, res.Workspace)
	if err != nil {
		return err
	}
	if err := o.driver.SetOptions(ctx, ws, res.Config); err != nil {
		return err
	}

	logger.Info("Submitting entry file.",
		"entry_file", res.EntryFile,
		"backend", res.Config.Backend,
		"optimization", res.Config.Optimization,
		"output_type", res.Config.OutputType,
	)
	return o.driver.AddEntryFile(ctx, res.EntryFile, ws)
}

// IsFilesystemError reports whether err is, or wraps, a *FilesystemError.
func IsFilesystemError(err error) bool {
	var fsErr *FilesystemError
	return errors.As(err, &fsErr)
}
