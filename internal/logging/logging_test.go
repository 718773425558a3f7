package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSetup_TextOutput(t *testing.T) {
	var buf bytes.Buffer
	Setup(false, false, &buf)

	Info("sketch created", "name", "demo")

	output := buf.String()
	if !strings.Contains(output, "sketch created") {
		t.Errorf("Expected 'sketch created' in output, got: %s", output)
	}
}

func TestSetup_JSONOutput(t *testing.T) {
	var buf bytes.Buffer
	Setup(false, true, &buf)

	Info("sketch created", "name", "demo")

	output := buf.String()
	// JSON output should contain braces
	if !strings.Contains(output, "{") {
		t.Errorf("Expected JSON output, got: %s", output)
	}
	if !strings.Contains(output, "sketch created") {
		t.Errorf("Expected 'sketch created' in output, got: %s", output)
	}
}

func TestSetup_VerboseMode(t *testing.T) {
	var buf bytes.Buffer
	Setup(true, false, &buf)

	if !Verbose {
		t.Error("Verbose flag should be true after Setup(true, ...)")
	}

	Debug("compiling sketch")

	output := buf.String()
	if !strings.Contains(output, "compiling sketch") {
		t.Errorf("Debug message should appear in verbose mode, got: %s", output)
	}
}

func TestSetup_NonVerboseMode(t *testing.T) {
	var buf bytes.Buffer
	Setup(false, false, &buf)

	if Verbose {
		t.Error("Verbose flag should be false after Setup(false, ...)")
	}

	Debug("compiling sketch")

	output := buf.String()
	if strings.Contains(output, "compiling sketch") {
		t.Errorf("Debug message should NOT appear in non-verbose mode, got: %s", output)
	}
}

func TestLevelHelpers(t *testing.T) {
	tests := []struct {
		name string
		log  func(msg string, args ...any)
		msg  string
	}{
		{"debug", Debug, "placeholder spawned"},
		{"info", Info, "sketch running"},
		{"warn", Warn, "terminate failed"},
		{"error", Error, "launch failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			Setup(true, false, &buf)

			tt.log(tt.msg, "name", "demo")

			output := buf.String()
			if !strings.Contains(output, tt.msg) {
				t.Errorf("Expected %q in output, got: %s", tt.msg, output)
			}
			if !strings.Contains(output, "name=demo") {
				t.Errorf("Expected attribute in output, got: %s", output)
			}
		})
	}
}

func TestWith(t *testing.T) {
	var buf bytes.Buffer
	Setup(false, false, &buf)

	logger := With("component", "launcher")
	if logger == nil {
		t.Error("With() returned nil")
	}

	logger.Info("pane opened")

	output := buf.String()
	if !strings.Contains(output, "pane opened") {
		t.Errorf("Expected 'pane opened' in output, got: %s", output)
	}
	if !strings.Contains(output, "component") {
		t.Errorf("Expected 'component' in output, got: %s", output)
	}
}

func TestSetup_NilWriter(t *testing.T) {
	// Should not panic with nil writer
	Setup(false, false, nil)

	// Logger should still work (writes to stderr)
	if Logger == nil {
		t.Error("Logger should not be nil after Setup with nil writer")
	}
}

func TestRotatingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sketch-ctl.log")

	w := RotatingFile(path)
	defer w.Close()

	Setup(false, false, w)
	Info("rotating test", "key", "value")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile error: %v", err)
	}
	if !strings.Contains(string(data), "rotating test") {
		t.Errorf("Expected 'rotating test' in log file, got: %s", data)
	}
}

func TestUserOutput(t *testing.T) {
	var out, errOut bytes.Buffer
	origOut, origErr := UserOut, UserErr
	UserOut, UserErr = &out, &errOut
	defer func() { UserOut, UserErr = origOut, origErr }()

	UserInfo("info %s", "a")
	UserSuccess("done %d", 1)
	UserWarning("careful")
	UserError("broken: %v", "x")

	if got := out.String(); got != "ℹ info a\n✓ done 1\n" {
		t.Errorf("stdout = %q", got)
	}
	if got := errOut.String(); got != "⚠ careful\n✗ broken: x\n" {
		t.Errorf("stderr = %q", got)
	}
}
