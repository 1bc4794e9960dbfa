package app

import (
	"context"
	"fmt"
	"time"

	"github.com/vk/enginebuild/internal/ctxlog"
	"github.com/vk/enginebuild/internal/notify"
	"github.com/vk/enginebuild/internal/orchestrator"
)

// Run configures the build from the configured arguments and, unless only
// an explanation was requested, compiles it.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.", "args", a.config.BuildArgs)
	defer func() {
		if err := a.publisher.Close(); err != nil {
			a.logger.Warn("Failed to close notify publisher.", "error", err)
		}
	}()

	orch := orchestrator.New(orchestrator.Options{
		DefinitionPath: a.root,
		Diagnostics:    a.config.Diagnostics || a.project.Diagnostics,
		EntryFile:      a.project.EntryFile,
		EngineDir:      a.project.EngineDir,
	}, a.driver)

	res, err := orch.Configure(ctx, a.config.BuildArgs)
	if err != nil {
		return err
	}

	if a.config.Explain {
		fmt.Fprintln(a.outW, res.Config.Tree(res.Workspace))
		return nil
	}

	a.publish(ctx, notify.NewEvent(notify.KindStarted, res.Workspace, res.Config))
	a.logger.Info("🔨 Building workspace.", "workspace", res.Workspace, "entry_file", res.EntryFile)
	start := time.Now()

	if err := orch.Build(ctx, res); err != nil {
		ev := notify.NewEvent(notify.KindFailed, res.Workspace, res.Config)
		ev.Error = err.Error()
		ev.DurationMS = time.Since(start).Milliseconds()
		a.publish(ctx, ev)
		return err
	}

	ev := notify.NewEvent(notify.KindSucceeded, res.Workspace, res.Config)
	ev.DurationMS = time.Since(start).Milliseconds()
	a.publish(ctx, ev)

	a.logger.Info("🏁 Build finished.", "workspace", res.Workspace, "output", res.Config.OutputFile(), "duration", time.Since(start).Round(time.Millisecond))
	return nil
}

func (a *App) publish(ctx context.Context, ev notify.Event) {
	if err := a.publisher.Publish(ctx, ev); err != nil {
		a.logger.Warn("Failed to publish build event.", "kind", ev.Kind, "error", err)
	}
}
