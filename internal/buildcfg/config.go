package buildcfg

import (
	"path/filepath"
	"slices"
)

// OutputDirName is the directory, relative to the project root, that receives
// the produced executable.
const OutputDirName = "bin"

// Configuration is the complete option set for one compiler workspace.
type Configuration struct {
	Backend        Backend
	Optimization   Optimization
	BoundsChecking bool
	OutputType     OutputType

	// OutputPath is the directory the artifact is written to. It always ends
	// with a path separator.
	OutputPath string
	OutputName string

	// ImportPaths is searched in order when resolving module references.
	ImportPaths []string
}

// Default returns the debug configuration: native backend, no optimization,
// bounds checking on, executable output.
func Default() *Configuration {
	return &Configuration{
		Backend:        BackendNative,
		Optimization:   OptimizationDebug,
		BoundsChecking: true,
		OutputType:     OutputExecutable,
	}
}

// Clone returns a deep copy of c.
func (c *Configuration) Clone() Configuration {
	out := *c
	out.ImportPaths = slices.Clone(c.ImportPaths)
	return out
}

// OutputFile returns the full path of the artifact, or "" when no artifact is
// produced.
func (c *Configuration) OutputFile() string {
	if c.OutputType == OutputNone || c.OutputName == "" {
		return ""
	}
	return filepath.Join(c.OutputPath, c.OutputName)
}

// OutputPathFor returns the output directory for a project root, with a
// trailing separator.
func OutputPathFor(projectRoot string) string {
	return filepath.Join(projectRoot, OutputDirName) + string(filepath.Separator)
}
