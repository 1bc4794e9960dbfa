package cli

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/vk/enginebuild/internal/app"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Parse processes command-line arguments. It returns a populated Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("enginebuild", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
enginebuild - Configures and runs the compiler workspace for an engine project.

Usage:
  enginebuild [options] [--] [BUILD_ARGS...]

Build arguments:
  release
    Use the optimizing backend with the highest speed optimization.
  Any other argument is reported as unknown and ignored.

Options:
`)
		flagSet.PrintDefaults()
	}

	projectDirFlag := flagSet.String("C", ".", "Project directory holding the build definition.")
	configFlag := flagSet.String("config", "", "Path to the project file (default <project>/build.hcl).")
	checkFlag := flagSet.Bool("check", false, "Compile for diagnostics only, without producing a binary.")
	dryRunFlag := flagSet.Bool("dry-run", false, "Resolve and log the compiler invocation without running it.")
	explainFlag := flagSet.Bool("explain", false, "Print the resolved build plan as a tree and exit.")
	compilerFlag := flagSet.String("compiler", "", "Compiler command, overriding the project file.")
	notifyFlag := flagSet.String("notify", "", "socket.io URL that receives build events.")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.", "build_args", flagSet.Args())

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}
	slog.Debug("CLI parameter validation complete.")

	config, err := app.NewConfig(app.Config{
		ProjectDir:  *projectDirFlag,
		ProjectFile: *configFlag,
		BuildArgs:   flagSet.Args(),
		Diagnostics: *checkFlag,
		DryRun:      *dryRunFlag,
		Explain:     *explainFlag,
		Compiler:    *compilerFlag,
		NotifyURL:   *notifyFlag,
		LogFormat:   logFormat,
		LogLevel:    logLevel,
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}
