package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/vk/enginebuild/internal/buildcfg"
	"github.com/vk/enginebuild/internal/ctxlog"
	"github.com/vk/enginebuild/internal/driver"
	"github.com/vk/enginebuild/internal/notify"
	"github.com/vk/enginebuild/internal/project"
)

// App encapsulates the build's dependencies, configuration, and lifecycle.
type App struct {
	outW      io.Writer
	logger    *slog.Logger
	config    *Config
	root      string
	project   *project.File
	driver    driver.Driver
	publisher notify.Publisher
}

// Option customizes an App, mainly for tests.
type Option func(*App)

// WithDriver replaces the driver NewApp would select.
func WithDriver(d driver.Driver) Option {
	return func(a *App) { a.driver = d }
}

// WithPublisher replaces the publisher NewApp would dial.
func WithPublisher(p notify.Publisher) Option {
	return func(a *App) { a.publisher = p }
}

// NewApp is the constructor for the application. Results are written to
// outW, logs to logW.
func NewApp(ctx context.Context, outW, logW io.Writer, cfg *Config, opts ...Option) (*App, error) {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, logW)
	ctx = ctxlog.WithLogger(ctx, logger)
	logger.Debug("Logger configured successfully.")

	root, err := filepath.Abs(cfg.ProjectDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve project directory %s: %w", cfg.ProjectDir, err)
	}
	name, err := buildcfg.WorkspaceName(root)
	if err != nil {
		return nil, err
	}

	projectFile := cfg.ProjectFile
	if projectFile == "" {
		projectFile = filepath.Join(root, project.DefaultFileName)
	}
	pf, err := project.Load(ctx, projectFile, project.Vars{Root: root, Name: name, Env: environ()})
	if err != nil {
		return nil, fmt.Errorf("failed to load project file: %w", err)
	}

	a := &App{
		outW:    outW,
		logger:  logger,
		config:  cfg,
		root:    root,
		project: pf,
	}
	for _, opt := range opts {
		opt(a)
	}

	if a.driver == nil {
		if a.driver, err = a.newDriver(logW); err != nil {
			return nil, err
		}
	}
	if a.publisher == nil {
		a.publisher = a.dialPublisher(ctx)
	}

	logger.Debug("Application initialized.", "project_root", root, "project_file", projectFile)
	return a, nil
}

// compiler returns the compiler command: flag, then project file, then default.
func (a *App) compiler() string {
	switch {
	case a.config.Compiler != "":
		return a.config.Compiler
	case a.project.Compiler.Command != "":
		return a.project.Compiler.Command
	default:
		return DefaultCompiler
	}
}

func (a *App) newDriver(logW io.Writer) (driver.Driver, error) {
	c := a.project.Compiler
	if a.config.DryRun || a.config.Explain {
		a.logger.Debug("Using recording driver.", "compiler", a.compiler())
		return driver.NewRecorder(a.compiler(), c.ImportPaths...), nil
	}

	d, err := driver.NewExec(driver.ExecOptions{
		Command:     a.compiler(),
		Args:        c.Args,
		Dir:         a.root,
		Env:         envList(c.Env),
		ImportPaths: c.ImportPaths,
		Stdout:      a.outW,
		Stderr:      logW,
	})
	if err != nil {
		return nil, err
	}
	a.logger.Debug("Using compiler.", "path", d.Binary())
	return d, nil
}

// dialPublisher connects to the notify endpoint, if any. Connection
// failures only disable notifications.
func (a *App) dialPublisher(ctx context.Context) notify.Publisher {
	opts := notify.Options{URL: a.config.NotifyURL}
	if n := a.project.Notify; n != nil {
		opts.Namespace, opts.Event, opts.Timeout = n.Namespace, n.Event, n.Timeout
		if opts.URL == "" {
			opts.URL = n.URL
		}
	}
	if opts.URL == "" || a.config.Explain {
		return notify.Nop{}
	}

	p, err := notify.DialSocketIO(ctx, opts)
	if err != nil {
		a.logger.Warn("Build notifications disabled.", "url", opts.URL, "error", err)
		return notify.Nop{}
	}
	return p
}

func environ() map[string]string {
	env := make(map[string]string)
	for _, kv := range os.Environ() {
		if k, v, ok := strings.Cut(kv, "="); ok && k != "" {
			env[k] = v
		}
	}
	return env
}

func envList(env map[string]string) []string {
	list := make([]string, 0, len(env))
	for k, v := range env {
		list = append(list, k+"="+v)
	}
	sort.Strings(list)
	return list
}
