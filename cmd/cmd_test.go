package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/firefly-engineering/firefly-sketch/internal/app"
	"github.com/firefly-engineering/firefly-sketch/internal/errors"
	"github.com/firefly-engineering/firefly-sketch/internal/logging"
	"github.com/firefly-engineering/firefly-sketch/internal/sketch"
	"github.com/firefly-engineering/firefly-sketch/internal/system"
	"github.com/firefly-engineering/firefly-sketch/internal/testutil"
)

// setupTestApp installs an app whose manager builds with a stub toolchain
// and launches through a stub launcher.
func setupTestApp(t *testing.T) *testutil.TestEnv {
	t.Helper()

	env := testutil.NewTestEnv(t)
	a, err := app.New(
		app.WithConfig(env.Config),
		app.WithManagerOptions(
			sketch.WithExecutor(env.Exec),
			sketch.WithSpawner(env.Spawner),
			sketch.WithLauncher(env.Launcher),
		),
	)
	if err != nil {
		t.Fatalf("app.New() error: %v", err)
	}

	app.SetDefault(a)
	t.Cleanup(app.ResetDefault)
	return env
}

func executeCommand(args ...string) (string, string, error) {
	return executeCommandContext(context.Background(), nil, args...)
}

func executeCommandContext(ctx context.Context, stdin *strings.Reader, args ...string) (string, string, error) {
	// Reset flag values before each test
	verbose = false
	jsonOutput = false
	logFile = ""
	metricsAddr = ""
	createDescription = ""
	createFile = ""
	buildOutput = "text"
	runDetach = false
	listOutput = "table"
	pickPlain = false
	eventsLimit = 0
	eventsOutput = "text"
	eventsClear = false
	resetCommandState(rootCmd, ctx)

	cmd := rootCmd
	cmd.SetArgs(args)

	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	if stdin != nil {
		cmd.SetIn(stdin)
	}

	err := cmd.ExecuteContext(ctx)

	// Reset args for next test
	cmd.SetArgs(nil)
	cmd.SetOut(nil)
	cmd.SetErr(nil)
	cmd.SetIn(nil)

	return stdout.String(), stderr.String(), err
}

// resetCommandState clears state cobra keeps on every command between
// executions: a --help set by an earlier run and the inherited context.
func resetCommandState(c *cobra.Command, ctx context.Context) {
	if f := c.Flags().Lookup("help"); f != nil {
		_ = f.Value.Set("false")
		f.Changed = false
	}
	c.SetContext(ctx)
	for _, sub := range c.Commands() {
		resetCommandState(sub, ctx)
	}
}

func writeSource(t *testing.T, src string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "main.rs")
	if err := os.WriteFile(path, []byte(src), 0644); err != nil {
		t.Fatalf("Failed to write source: %v", err)
	}
	return path
}

func createSketch(t *testing.T, name string) {
	t.Helper()
	src := writeSource(t, testutil.CounterSource())
	if _, _, err := executeCommand("create", name, "--file", src, "--description", "a counter"); err != nil {
		t.Fatalf("create %s failed: %v", name, err)
	}
}

func TestRootCommand_Help(t *testing.T) {
	stdout, _, err := executeCommand("--help")
	if err != nil {
		t.Fatalf("Help command failed: %v", err)
	}

	if !strings.Contains(stdout, "sketch-ctl") {
		t.Error("Help output should contain 'sketch-ctl'")
	}
	if !strings.Contains(stdout, "sketch") {
		t.Error("Help output should mention sketches")
	}
	for _, flag := range []string{"--verbose", "--json", "--log-file", "--metrics-addr"} {
		if !strings.Contains(stdout, flag) {
			t.Errorf("Help output should document %s", flag)
		}
	}
}

func TestRootCommand_ListsCommands(t *testing.T) {
	stdout, _, err := executeCommand("help")
	if err != nil {
		t.Fatalf("Help command failed: %v", err)
	}

	if !strings.Contains(stdout, "Available Commands") {
		t.Error("Help output should list available commands")
	}
	for _, name := range []string{"create", "build", "run", "stop", "list", "delete", "pick", "events"} {
		if !strings.Contains(stdout, name) {
			t.Errorf("Help output should list %s", name)
		}
	}
}

func TestRunCommand_Help(t *testing.T) {
	stdout, _, err := executeCommand("run", "--help")
	if err != nil {
		t.Fatalf("Help command failed: %v", err)
	}
	if !strings.Contains(stdout, "--detach") {
		t.Error("Run help should mention --detach flag")
	}
}

func TestRunCommand_AfterHelp(t *testing.T) {
	env := setupTestApp(t)
	createSketch(t, "counter")

	if _, _, err := executeCommand("run", "--help"); err != nil {
		t.Fatalf("Help command failed: %v", err)
	}

	stdout, _, err := executeCommand("run", "counter", "--detach")
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if strings.Contains(stdout, "Usage:") {
		t.Errorf("run after --help should not print usage, got %q", stdout)
	}
	if len(env.Launcher.Launched) != 1 {
		t.Errorf("launched = %v, want one launch", env.Launcher.Launched)
	}
}

func TestCreateCommand_FromFile(t *testing.T) {
	env := setupTestApp(t)
	src := writeSource(t, testutil.CounterSource())

	stdout, _, err := executeCommand("create", "counter", "--file", src, "-d", "a counter")
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if !strings.Contains(stdout, "Created sketch counter") {
		t.Errorf("stdout = %q", stdout)
	}
	data, err := os.ReadFile(filepath.Join(env.SketchDir("counter"), "src", "main.rs"))
	if err != nil {
		t.Fatalf("source not written: %v", err)
	}
	if string(data) != testutil.CounterSource() {
		t.Error("source does not match input file")
	}
}

func TestCreateCommand_FromStdin(t *testing.T) {
	env := setupTestApp(t)

	_, _, err := executeCommandContext(context.Background(), strings.NewReader("fn main() {}\n"), "create", "piped")
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(env.SketchDir("piped"), "src", "main.rs"))
	if err != nil {
		t.Fatalf("source not written: %v", err)
	}
	if string(data) != "fn main() {}\n" {
		t.Errorf("source = %q", data)
	}
}

func TestCreateCommand_InvalidName(t *testing.T) {
	env := setupTestApp(t)

	_, _, err := executeCommandContext(context.Background(), strings.NewReader("fn main() {}"), "create", "../escape")
	if err == nil {
		t.Fatal("create should reject an invalid name")
	}
	if code := errors.GetExitCode(err); code != errors.ExitInvalidName {
		t.Errorf("exit code = %d, want %d", code, errors.ExitInvalidName)
	}
	if _, statErr := os.Stat(env.Config.Paths.BaseDir); !os.IsNotExist(statErr) {
		t.Error("an invalid name must not create the catalog")
	}
}

func TestCreateCommand_MissingFile(t *testing.T) {
	setupTestApp(t)

	_, _, err := executeCommand("create", "demo", "--file", filepath.Join(t.TempDir(), "nope.rs"))
	if err == nil || !strings.Contains(err.Error(), "failed to read source") {
		t.Errorf("err = %v, want read failure", err)
	}
}

func TestBuildCommand(t *testing.T) {
	env := setupTestApp(t)
	createSketch(t, "counter")

	stdout, _, err := executeCommand("build", "counter")
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	if !strings.Contains(stdout, "Built") {
		t.Errorf("stdout = %q", stdout)
	}
	if !env.Exists("counter", "target/release/counter") {
		t.Error("artifact should exist after build")
	}
}

func TestBuildCommand_JSON(t *testing.T) {
	setupTestApp(t)
	createSketch(t, "counter")

	stdout, _, err := executeCommand("build", "counter", "-o", "json")
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}

	start := strings.Index(stdout, "{")
	if start < 0 {
		t.Fatalf("no JSON in output: %q", stdout)
	}
	var res sketch.CompileResult
	if err := json.NewDecoder(strings.NewReader(stdout[start:])).Decode(&res); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if !res.Success {
		t.Error("Success should be true")
	}
}

func TestBuildCommand_Failure(t *testing.T) {
	env := setupTestApp(t)
	createSketch(t, "broken")
	testutil.FailingToolchain(env.Exec, env.Config, "error[E0425]: cannot find value `x`\n")

	_, stderr, err := executeCommand("build", "broken")
	if err == nil {
		t.Fatal("build should fail")
	}
	if code := errors.GetExitCode(err); code != errors.ExitToolchainError {
		t.Errorf("exit code = %d, want %d", code, errors.ExitToolchainError)
	}
	if !strings.Contains(stderr, "E0425") {
		t.Errorf("stderr should carry compiler output, got %q", stderr)
	}
}

func TestBuildCommand_NotFound(t *testing.T) {
	setupTestApp(t)

	_, _, err := executeCommand("build", "ghost")
	if code := errors.GetExitCode(err); code != errors.ExitSketchNotFound {
		t.Errorf("exit code = %d, want %d", code, errors.ExitSketchNotFound)
	}
}

func TestRunCommand_Detach(t *testing.T) {
	env := setupTestApp(t)
	createSketch(t, "counter")

	stdout, _, err := executeCommand("run", "counter", "--detach")
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if !strings.Contains(stdout, "Sketch 'counter' is now running") {
		t.Errorf("stdout = %q", stdout)
	}
	if len(env.Launcher.Launched) != 1 {
		t.Fatalf("launched = %v, want one launch", env.Launcher.Launched)
	}
	if p := env.Launcher.Last(); p == nil || p.Terminated() {
		t.Error("detached sketch should keep running")
	}

	stdout, _, err = executeCommand("list")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if !strings.Contains(stdout, "running") {
		t.Errorf("list should show the sketch running, got %q", stdout)
	}
}

func TestRunCommand_StopsWhenInterrupted(t *testing.T) {
	env := setupTestApp(t)
	createSketch(t, "counter")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	build := env.Exec.Hook
	env.Exec.Hook = func(c system.MockCommand) {
		build(c)
		cancel()
	}

	stdout, _, err := executeCommandContext(ctx, nil, "run", "counter")
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if !strings.Contains(stdout, "Stopped sketch counter") {
		t.Errorf("stdout = %q", stdout)
	}
	if p := env.Launcher.Last(); p == nil || !p.Terminated() {
		t.Error("sketch should be terminated once the context ends")
	}
}

func TestRunCommand_InterruptBeforeRunFinishes(t *testing.T) {
	env := setupTestApp(t)
	createSketch(t, "counter")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	stdout, _, err := executeCommandContext(ctx, nil, "run", "counter", "--detach")
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if !strings.Contains(stdout, "is now running") {
		t.Errorf("build and launch should complete despite the interrupt, got %q", stdout)
	}
	if p := env.Launcher.Last(); p == nil || !p.Terminated() {
		t.Error("an interrupted run should stop the sketch once it is up")
	}
	if !strings.Contains(stdout, "Stopped sketch counter") {
		t.Errorf("stdout = %q", stdout)
	}
}

func TestRunCommand_BuildFailure(t *testing.T) {
	env := setupTestApp(t)
	createSketch(t, "broken")
	testutil.FailingToolchain(env.Exec, env.Config, "error: expected `;`\n")

	_, stderr, err := executeCommand("run", "broken", "--detach")
	if err == nil {
		t.Fatal("run should fail")
	}
	if code := errors.GetExitCode(err); code != errors.ExitToolchainError {
		t.Errorf("exit code = %d, want %d", code, errors.ExitToolchainError)
	}
	if !strings.Contains(stderr, "Compilation failed") {
		t.Errorf("stderr = %q", stderr)
	}
	if len(env.Launcher.Launched) != 0 {
		t.Error("nothing should launch after a failed build")
	}
}

func TestRunCommand_LaunchFailure(t *testing.T) {
	env := setupTestApp(t)
	createSketch(t, "counter")
	env.Launcher.Err = stderrors.New("no terminal")

	_, stderr, err := executeCommand("run", "counter", "--detach")
	if code := errors.GetExitCode(err); code != errors.ExitLaunchError {
		t.Errorf("exit code = %d, want %d", code, errors.ExitLaunchError)
	}
	if !strings.Contains(stderr, "Failed to launch sketch: no terminal") {
		t.Errorf("stderr = %q", stderr)
	}
}

func TestStopCommand(t *testing.T) {
	env := setupTestApp(t)
	createSketch(t, "counter")

	if _, _, err := executeCommand("run", "counter", "--detach"); err != nil {
		t.Fatalf("run failed: %v", err)
	}

	stdout, _, err := executeCommand("stop", "counter")
	if err != nil {
		t.Fatalf("stop failed: %v", err)
	}
	if !strings.Contains(stdout, "Stopped sketch counter") {
		t.Errorf("stdout = %q", stdout)
	}
	if p := env.Launcher.Last(); p == nil || !p.Terminated() {
		t.Fatal("process should be terminated")
	}

	// Stopping again is a no-op.
	if _, _, err := executeCommand("stop", "counter"); err != nil {
		t.Errorf("second stop failed: %v", err)
	}
}

func TestStopCommand_NotRunning(t *testing.T) {
	setupTestApp(t)
	createSketch(t, "counter")

	stdout, _, err := executeCommand("stop", "counter")
	if err != nil {
		t.Fatalf("stop failed: %v", err)
	}
	if !strings.Contains(stdout, "not running in this session") {
		t.Errorf("stdout = %q", stdout)
	}
	if strings.Contains(stdout, "Stopped sketch") {
		t.Errorf("stop of an idle sketch should not claim to stop it, got %q", stdout)
	}
}

func TestListCommand(t *testing.T) {
	setupTestApp(t)

	t.Run("empty", func(t *testing.T) {
		stdout, _, err := executeCommand("list")
		if err != nil {
			t.Fatalf("list failed: %v", err)
		}
		if !strings.Contains(stdout, "No sketches found") {
			t.Errorf("stdout = %q", stdout)
		}
	})

	createSketch(t, "alpha")
	createSketch(t, "beta")
	if _, _, err := executeCommand("build", "beta"); err != nil {
		t.Fatalf("build failed: %v", err)
	}

	t.Run("table", func(t *testing.T) {
		stdout, _, err := executeCommand("list")
		if err != nil {
			t.Fatalf("list failed: %v", err)
		}
		for _, want := range []string{"NAME", "alpha", "created", "beta", "ready", "a counter"} {
			if !strings.Contains(stdout, want) {
				t.Errorf("list output should contain %q, got %q", want, stdout)
			}
		}
	})

	t.Run("json", func(t *testing.T) {
		stdout, _, err := executeCommand("list", "-o", "json")
		if err != nil {
			t.Fatalf("list failed: %v", err)
		}
		var infos []sketch.Info
		if err := json.Unmarshal([]byte(stdout), &infos); err != nil {
			t.Fatalf("invalid JSON %q: %v", stdout, err)
		}
		if len(infos) != 2 || infos[0].Name != "alpha" || infos[1].Status != sketch.StatusReady {
			t.Errorf("infos = %+v", infos)
		}
	})
}

func TestDeleteCommand(t *testing.T) {
	env := setupTestApp(t)
	createSketch(t, "counter")
	if _, _, err := executeCommand("run", "counter", "--detach"); err != nil {
		t.Fatalf("run failed: %v", err)
	}

	stdout, _, err := executeCommand("delete", "counter")
	if err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if !strings.Contains(stdout, "Deleted sketch counter") {
		t.Errorf("stdout = %q", stdout)
	}
	if _, err := os.Stat(env.SketchDir("counter")); !os.IsNotExist(err) {
		t.Error("sketch directory should be gone")
	}
	if p := env.Launcher.Last(); p == nil || !p.Terminated() {
		t.Error("delete should stop the running sketch")
	}

	if _, _, err := executeCommand("delete", "counter"); err != nil {
		t.Errorf("deleting a missing sketch should succeed, got %v", err)
	}
}

func TestPickCommand_Plain(t *testing.T) {
	setupTestApp(t)
	createSketch(t, "counter")

	stdout, _, err := executeCommand("pick", "--plain")
	if err != nil {
		t.Fatalf("pick failed: %v", err)
	}
	if !strings.Contains(stdout, "1. ") || !strings.Contains(stdout, "counter") {
		t.Errorf("stdout = %q", stdout)
	}
}

func TestEventsCommand(t *testing.T) {
	setupTestApp(t)
	createSketch(t, "counter")
	if _, _, err := executeCommand("build", "counter"); err != nil {
		t.Fatalf("build failed: %v", err)
	}

	t.Run("all", func(t *testing.T) {
		stdout, _, err := executeCommand("events", "counter")
		if err != nil {
			t.Fatalf("events failed: %v", err)
		}
		if !strings.Contains(stdout, "create") || !strings.Contains(stdout, "build") {
			t.Errorf("stdout = %q", stdout)
		}
	})

	t.Run("limit jsonl", func(t *testing.T) {
		stdout, _, err := executeCommand("events", "counter", "-n", "1", "-o", "jsonl")
		if err != nil {
			t.Fatalf("events failed: %v", err)
		}
		lines := strings.Split(strings.TrimSpace(stdout), "\n")
		if len(lines) != 1 {
			t.Fatalf("lines = %d, want 1: %q", len(lines), stdout)
		}
		var e struct {
			Type string `json:"type"`
		}
		if err := json.Unmarshal([]byte(lines[0]), &e); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if e.Type != "build" {
			t.Errorf("last event = %q, want build", e.Type)
		}
	})

	t.Run("clear", func(t *testing.T) {
		if _, _, err := executeCommand("events", "counter", "--clear"); err != nil {
			t.Fatalf("events --clear failed: %v", err)
		}
		stdout, _, err := executeCommand("events", "counter")
		if err != nil {
			t.Fatalf("events failed: %v", err)
		}
		if !strings.Contains(stdout, "No events found") {
			t.Errorf("stdout = %q", stdout)
		}
	})

	t.Run("invalid name", func(t *testing.T) {
		_, _, err := executeCommand("events", "../x")
		if code := errors.GetExitCode(err); code != errors.ExitInvalidName {
			t.Errorf("exit code = %d, want %d", code, errors.ExitInvalidName)
		}
	})
}

func TestMetricsAddr(t *testing.T) {
	setupTestApp(t)

	if _, _, err := executeCommand("list", "--metrics-addr", "127.0.0.1:0"); err != nil {
		t.Fatalf("list with metrics failed: %v", err)
	}
	if metricsServer != nil {
		t.Error("metrics server should be shut down after the command")
	}
}

func TestSetupLogging_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sketch.log")
	defer logging.Setup(false, false, nil)

	setupLogging(path)
	logging.Info("written to file", "name", "counter")
	shutdown()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("log file not written: %v", err)
	}
	if !strings.Contains(string(data), "written to file") {
		t.Errorf("log file = %q", data)
	}
}

func TestFirstLine(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Compilation failed:\nerror", "Compilation failed"},
		{"Failed to launch sketch: boom", "Failed to launch sketch: boom"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := firstLine(tt.in); got != tt.want {
			t.Errorf("firstLine(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
