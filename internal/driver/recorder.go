package driver

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/vk/enginebuild/internal/buildcfg"
	"github.com/vk/enginebuild/internal/ctxlog"
)

// Submission is one entry file handed to a Recorder.
type Submission struct {
	Workspace Workspace
	Config    buildcfg.Configuration
	EntryFile string
}

// Recorder is a Driver that never compiles. It records every submission and
// logs the command line a real compiler would receive.
type Recorder struct {
	// Command is shown in the logged command line.
	Command string
	// Imports is returned by DefaultImportPaths.
	Imports []string
	// FailWith, when set, is returned from AddEntryFile after recording.
	FailWith error

	Submissions []Submission

	options map[int]*buildcfg.Configuration
	nextID  int
}

// NewRecorder creates a Recorder reporting imports as the toolchain defaults.
func NewRecorder(command string, imports ...string) *Recorder {
	return &Recorder{
		Command: command,
		Imports: imports,
		options: make(map[int]*buildcfg.Configuration),
	}
}

// DefaultImportPaths implements Driver.
func (r *Recorder) DefaultImportPaths() []string {
	return slices.Clone(r.Imports)
}

// CreateWorkspace implements Driver.
func (r *Recorder) CreateWorkspace(ctx context.Context, name string) (Workspace, error) {
	if name == "" {
		return Workspace{}, errors.New("workspace name must not be empty")
	}
	if r.options == nil {
		r.options = make(map[int]*buildcfg.Configuration)
	}
	r.nextID++
	ws := Workspace{ID: r.nextID, Name: name}
	r.options[ws.ID] = nil
	ctxlog.FromContext(ctx).Debug("Workspace created.", "workspace", ws.String())
	return ws, nil
}

// SetOptions implements Driver.
func (r *Recorder) SetOptions(ctx context.Context, ws Workspace, cfg buildcfg.Configuration) error {
	if _, ok := r.options[ws.ID]; !ok {
		return fmt.Errorf("unknown workspace %s", ws)
	}
	frozen := cfg.Clone()
	r.options[ws.ID] = &frozen
	return nil
}

// AddEntryFile implements Driver.
func (r *Recorder) AddEntryFile(ctx context.Context, path string, ws Workspace) error {
	cfg, ok := r.options[ws.ID]
	if !ok {
		return fmt.Errorf("unknown workspace %s", ws)
	}
	if cfg == nil {
		return fmt.Errorf("options not set for workspace %s", ws)
	}

	r.Submissions = append(r.Submissions, Submission{Workspace: ws, Config: cfg.Clone(), EntryFile: path})
	ctxlog.FromContext(ctx).Info("Dry run, compiler not invoked.",
		"workspace", ws.Name,
		"command", r.Command,
		"args", Args(path, *cfg),
	)
	return r.FailWith
}
