package app

import "errors"

// DefaultCompiler is used when neither the flags nor the project file name one.
const DefaultCompiler = "jai"

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	// ProjectDir is the directory holding the build definition; its name
	// becomes the workspace and executable name.
	ProjectDir string
	// ProjectFile overrides <ProjectDir>/build.hcl.
	ProjectFile string
	BuildArgs   []string

	Diagnostics bool
	DryRun      bool
	Explain     bool
	Compiler    string
	NotifyURL   string

	LogFormat string
	LogLevel  string
}

// NewConfig validates cfg and returns a copy of it.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.ProjectDir == "" {
		return nil, errors.New("ProjectDir is a required configuration field and cannot be empty")
	}
	return &cfg, nil
}
