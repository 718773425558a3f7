package app

import (
	"testing"

	"github.com/firefly-engineering/firefly-sketch/internal/audit"
	"github.com/firefly-engineering/firefly-sketch/internal/sketch"
	"github.com/firefly-engineering/firefly-sketch/internal/terminal"
	"github.com/firefly-engineering/firefly-sketch/internal/testutil"
)

func TestNew_WithConfig(t *testing.T) {
	env := testutil.NewTestEnv(t)

	app, err := New(WithConfig(env.Config))
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	if app.Config != env.Config {
		t.Error("WithConfig did not set config")
	}
	if app.Audit == nil {
		t.Error("Audit should default to a logger under the events dir")
	}
	if app.Manager == nil {
		t.Fatal("Manager should be created")
	}
	if app.Manager.Surface() != terminal.SurfaceMultiplexer {
		t.Errorf("Surface = %q, want the configured override", app.Manager.Surface())
	}
}

func TestNew_LoadsConfig(t *testing.T) {
	t.Setenv("SKETCH_HOME", t.TempDir())
	t.Setenv("SKETCH_TERMINAL", "ghostty")

	app, err := New()
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	if app.Manager.Surface() != terminal.SurfaceGhostty {
		t.Errorf("Surface = %q, want ghostty", app.Manager.Surface())
	}
}

func TestNew_InvalidTerminal(t *testing.T) {
	env := testutil.NewTestEnv(t)
	env.Config.Terminal = "not-a-terminal"

	if _, err := New(WithConfig(env.Config)); err == nil {
		t.Error("New() should fail for an unknown terminal override")
	}
}

func TestNew_ManagerOptionsAndAudit(t *testing.T) {
	env := testutil.NewTestEnv(t)
	logger := audit.NewLogger(t.TempDir())

	app, err := New(
		WithConfig(env.Config),
		WithAudit(logger),
		WithManagerOptions(
			sketch.WithExecutor(env.Exec),
			sketch.WithLauncher(env.Launcher),
		),
	)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	if app.Audit != logger {
		t.Error("WithAudit did not set logger")
	}

	if _, err := app.Manager.Create("demo", "", testutil.CounterSource()); err != nil {
		t.Fatalf("Create error: %v", err)
	}
	events, err := logger.Events("demo")
	if err != nil || len(events) != 1 {
		t.Errorf("events = %v, %v, want one create event in the injected logger", events, err)
	}
}

func TestNew_WithManager(t *testing.T) {
	env := testutil.NewTestEnv(t)
	m, err := sketch.New(env.Config)
	if err != nil {
		t.Fatal(err)
	}

	app, err := New(WithConfig(env.Config), WithManager(m))
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	if app.Manager != m {
		t.Error("WithManager did not set manager")
	}
}

func TestCurrentAndSetDefault(t *testing.T) {
	original := Default
	defer func() { Default = original }()

	env := testutil.NewTestEnv(t)
	customApp, err := New(WithConfig(env.Config))
	if err != nil {
		t.Fatal(err)
	}
	SetDefault(customApp)

	got, err := Current()
	if err != nil {
		t.Fatalf("Current() error: %v", err)
	}
	if got != customApp {
		t.Error("Current did not return the default set by SetDefault")
	}
}

func TestResetDefault(t *testing.T) {
	original := Default
	defer func() { Default = original }()

	t.Setenv("SKETCH_HOME", t.TempDir())
	t.Setenv("SKETCH_TERMINAL", "tmux")

	env := testutil.NewTestEnv(t)
	customApp, _ := New(WithConfig(env.Config))
	SetDefault(customApp)

	ResetDefault()
	if Default != nil {
		t.Fatal("ResetDefault should clear Default")
	}

	got, err := Current()
	if err != nil {
		t.Fatalf("Current() error: %v", err)
	}
	if got == customApp {
		t.Error("Current should build a fresh app after ResetDefault")
	}
}
