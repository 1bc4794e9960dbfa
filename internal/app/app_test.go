package app

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/enginebuild/internal/buildcfg"
	"github.com/vk/enginebuild/internal/driver"
	"github.com/vk/enginebuild/internal/notify"
	"github.com/vk/enginebuild/internal/orchestrator"
)

// SafeBuffer is a thread-safe buffer for capturing log output in tests.
type SafeBuffer struct {
	b  bytes.Buffer
	mu sync.Mutex
}

func (b *SafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.Write(p)
}

func (b *SafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}

// recordingPublisher keeps every published event.
type recordingPublisher struct {
	events []notify.Event
	closed bool
}

func (p *recordingPublisher) Publish(_ context.Context, ev notify.Event) error {
	p.events = append(p.events, ev)
	return nil
}

func (p *recordingPublisher) Close() error {
	p.closed = true
	return nil
}

func (p *recordingPublisher) kinds() []notify.Kind {
	var kinds []notify.Kind
	for _, ev := range p.events {
		kinds = append(kinds, ev.Kind)
	}
	return kinds
}

type appHarness struct {
	root      string
	out       *SafeBuffer
	logs      *SafeBuffer
	driver    *driver.Recorder
	publisher *recordingPublisher
}

// setupApp creates a project directory named mygame, optionally with a
// build.hcl, and returns an App using a recording driver.
func setupApp(t *testing.T, projectHCL string, cfg Config) (*App, *appHarness) {
	t.Helper()

	root := filepath.Join(t.TempDir(), "mygame")
	require.NoError(t, os.Mkdir(root, 0o755))
	if projectHCL != "" {
		require.NoError(t, os.WriteFile(filepath.Join(root, "build.hcl"), []byte(projectHCL), 0o644))
	}

	h := &appHarness{
		root:      root,
		out:       &SafeBuffer{},
		logs:      &SafeBuffer{},
		driver:    driver.NewRecorder("jai", "/opt/jai/modules"),
		publisher: &recordingPublisher{},
	}

	cfg.ProjectDir = root
	cfg.LogLevel = "debug"
	cfg.LogFormat = "text"
	appConfig, err := NewConfig(cfg)
	require.NoError(t, err)

	a, err := NewApp(context.Background(), h.out, h.logs, appConfig, WithDriver(h.driver), WithPublisher(h.publisher))
	require.NoError(t, err)

	t.Cleanup(func() {
		if os.Getenv("ENGINEBUILD_TEST_LOGS") == "true" {
			t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), h.logs.String())
		}
	})
	return a, h
}

func TestRun_DefaultBuild(t *testing.T) {
	// --- Arrange ---
	a, h := setupApp(t, "", Config{})

	// --- Act ---
	err := a.Run(context.Background())

	// --- Assert ---
	require.NoError(t, err)
	require.Len(t, h.driver.Submissions, 1)
	sub := h.driver.Submissions[0]
	assert.Equal(t, orchestrator.DefaultEntryFile, sub.EntryFile)
	assert.Equal(t, "mygame", sub.Config.OutputName)
	assert.Equal(t, buildcfg.BackendNative, sub.Config.Backend)
	assert.Equal(t, []string{"/opt/jai/modules", "engine"}, sub.Config.ImportPaths)

	info, err := os.Stat(filepath.Join(h.root, "bin"))
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	assert.Equal(t, []notify.Kind{notify.KindStarted, notify.KindSucceeded}, h.publisher.kinds())
	assert.True(t, h.publisher.closed)
}

func TestRun_ReleaseWithProjectFile(t *testing.T) {
	projectHCL := `
entry_file = "src/game.jai"
engine_dir = "${project.name}_engine"
`
	a, h := setupApp(t, projectHCL, Config{BuildArgs: []string{"release", "verbose"}})

	require.NoError(t, a.Run(context.Background()))

	require.Len(t, h.driver.Submissions, 1)
	sub := h.driver.Submissions[0]
	assert.Equal(t, "src/game.jai", sub.EntryFile)
	assert.Equal(t, buildcfg.BackendOptimizing, sub.Config.Backend)
	assert.Equal(t, buildcfg.OptimizationHigh, sub.Config.Optimization)
	assert.Equal(t, []string{"/opt/jai/modules", "mygame_engine"}, sub.Config.ImportPaths)
	assert.Contains(t, h.logs.String(), `msg="Unknown argument: verbose"`)
}

func TestRun_DiagnosticsFromProjectFile(t *testing.T) {
	a, h := setupApp(t, `diagnostics = true`, Config{BuildArgs: []string{"release"}})

	require.NoError(t, a.Run(context.Background()))

	require.Len(t, h.driver.Submissions, 1)
	assert.Equal(t, buildcfg.OutputNone, h.driver.Submissions[0].Config.OutputType)
}

func TestRun_DiagnosticsFromConfig(t *testing.T) {
	a, h := setupApp(t, "", Config{Diagnostics: true})

	require.NoError(t, a.Run(context.Background()))

	require.Len(t, h.driver.Submissions, 1)
	assert.Equal(t, buildcfg.OutputNone, h.driver.Submissions[0].Config.OutputType)
}

func TestRun_ExplainPrintsPlanOnly(t *testing.T) {
	a, h := setupApp(t, "", Config{Explain: true, BuildArgs: []string{"release"}})

	require.NoError(t, a.Run(context.Background()))

	assert.Empty(t, h.driver.Submissions)
	assert.Empty(t, h.publisher.events)
	assert.Contains(t, h.out.String(), "workspace mygame")
	assert.Contains(t, h.out.String(), "backend: optimizing")

	_, err := os.Stat(filepath.Join(h.root, "bin"))
	assert.True(t, os.IsNotExist(err), "explain must not create the output directory")
}

func TestRun_DriverFailurePublishesFailedEvent(t *testing.T) {
	a, h := setupApp(t, "", Config{})
	failure := &driver.CompilationFailure{ExitCode: 2}
	h.driver.FailWith = failure

	err := a.Run(context.Background())

	assert.Same(t, failure, err)
	assert.Equal(t, []notify.Kind{notify.KindStarted, notify.KindFailed}, h.publisher.kinds())
	assert.Equal(t, failure.Error(), h.publisher.events[1].Error)
}

func TestRun_FilesystemError(t *testing.T) {
	a, h := setupApp(t, "", Config{})
	require.NoError(t, os.WriteFile(filepath.Join(h.root, "bin"), nil, 0o644))

	err := a.Run(context.Background())

	require.Error(t, err)
	assert.True(t, orchestrator.IsFilesystemError(err))
	assert.Empty(t, h.driver.Submissions)
}

func TestNewApp_InvalidProjectFile(t *testing.T) {
	root := filepath.Join(t.TempDir(), "mygame")
	require.NoError(t, os.Mkdir(root, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "build.hcl"), []byte("entry_file = "), 0o644))

	cfg, err := NewConfig(Config{ProjectDir: root})
	require.NoError(t, err)

	_, err = NewApp(context.Background(), &SafeBuffer{}, &SafeBuffer{}, cfg, WithDriver(driver.NewRecorder("jai")))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load project file")
}

func TestNewApp_DryRunSelectsRecorder(t *testing.T) {
	root := filepath.Join(t.TempDir(), "mygame")
	require.NoError(t, os.Mkdir(root, 0o755))

	cfg, err := NewConfig(Config{ProjectDir: root, DryRun: true, Compiler: "enginebuild-no-such-compiler"})
	require.NoError(t, err)

	a, err := NewApp(context.Background(), &SafeBuffer{}, &SafeBuffer{}, cfg)
	require.NoError(t, err)

	rec, ok := a.driver.(*driver.Recorder)
	require.True(t, ok, "dry run must not require a compiler on PATH")
	assert.Equal(t, "enginebuild-no-such-compiler", rec.Command)
	assert.IsType(t, notify.Nop{}, a.publisher)
}

func TestNewApp_MissingCompiler(t *testing.T) {
	root := filepath.Join(t.TempDir(), "mygame")
	require.NoError(t, os.Mkdir(root, 0o755))

	cfg, err := NewConfig(Config{ProjectDir: root, Compiler: "enginebuild-no-such-compiler"})
	require.NoError(t, err)

	_, err = NewApp(context.Background(), &SafeBuffer{}, &SafeBuffer{}, cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to locate compiler")
}

func TestNewConfig_RequiresProjectDir(t *testing.T) {
	_, err := NewConfig(Config{})
	require.Error(t, err)
}

func TestEnvList_Sorted(t *testing.T) {
	assert.Equal(t, []string{"A=1", "B=2"}, envList(map[string]string{"B": "2", "A": "1"}))
}
