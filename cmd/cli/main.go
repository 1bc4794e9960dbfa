package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/vk/enginebuild/internal/app"
	"github.com/vk/enginebuild/internal/cli"
	"github.com/vk/enginebuild/internal/driver"
)

// main is the entrypoint for the enginebuild application.
func main() {
	// Use a minimal logger until the full one is configured.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := run(ctx, os.Stdout, os.Stderr, os.Args[1:])
	stop()
	os.Exit(exitCode(err))
}

// exitCode maps a run error to the process exit status, printing it when
// nobody else has reported it.
func exitCode(err error) int {
	if err == nil {
		return 0
	}

	var exitErr *cli.ExitError
	if errors.As(err, &exitErr) {
		fmt.Fprintln(os.Stderr, exitErr.Message)
		return exitErr.Code
	}

	// The compiler has already reported its own diagnostics.
	var failure *driver.CompilationFailure
	if errors.As(err, &failure) && failure.ExitCode > 0 {
		return failure.ExitCode
	}

	fmt.Fprintln(os.Stderr, err)
	return 1
}

// run encapsulates the main application logic for easier testing and error handling.
func run(ctx context.Context, outW, errW io.Writer, args []string) (err error) {
	appConfig, shouldExit, err := cli.Parse(args, outW)
	if err != nil {
		return err
	}
	if shouldExit {
		return nil
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("build orchestration panicked: %v", r)
		}
	}()

	buildApp, err := app.NewApp(ctx, outW, errW, appConfig)
	if err != nil {
		return err
	}
	return buildApp.Run(ctx)
}
