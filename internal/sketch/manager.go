package sketch

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"sort"
	"time"

	"github.com/firefly-engineering/firefly-sketch/internal/audit"
	"github.com/firefly-engineering/firefly-sketch/internal/config"
	"github.com/firefly-engineering/firefly-sketch/internal/errors"
	"github.com/firefly-engineering/firefly-sketch/internal/launch"
	"github.com/firefly-engineering/firefly-sketch/internal/logging"
	"github.com/firefly-engineering/firefly-sketch/internal/metrics"
	"github.com/firefly-engineering/firefly-sketch/internal/system"
	"github.com/firefly-engineering/firefly-sketch/internal/terminal"
)

// Manager drives sketches through create, build, run, stop and delete.
// It is safe for concurrent use.
type Manager struct {
	paths     *config.Paths
	toolchain config.Toolchain
	surface   terminal.Surface
	launcher  launch.Launcher

	fs       system.FileSystem
	exec     system.CommandExecutor
	spawner  system.ProcessSpawner
	audit    *audit.Logger
	getenv   func(string) string
	buildLog func(path string) io.WriteCloser

	running *registry
}

// Option configures a Manager.
type Option func(*Manager)

// WithFS sets the filesystem boundary.
func WithFS(fsys system.FileSystem) Option {
	return func(m *Manager) { m.fs = fsys }
}

// WithExecutor sets the command executor used for builds and terminal scripting.
func WithExecutor(e system.CommandExecutor) Option {
	return func(m *Manager) { m.exec = e }
}

// WithSpawner sets the spawner used for long-lived processes.
func WithSpawner(s system.ProcessSpawner) Option {
	return func(m *Manager) { m.spawner = s }
}

// WithLauncher replaces the launcher chosen from the detected surface.
func WithLauncher(l launch.Launcher) Option {
	return func(m *Manager) { m.launcher = l }
}

// WithAudit records lifecycle events to l.
func WithAudit(l *audit.Logger) Option {
	return func(m *Manager) { m.audit = l }
}

// WithGetenv sets the environment lookup used for surface detection.
func WithGetenv(getenv func(string) string) Option {
	return func(m *Manager) { m.getenv = getenv }
}

// WithBuildLog sets the writer factory for per-sketch build logs.
func WithBuildLog(open func(path string) io.WriteCloser) Option {
	return func(m *Manager) { m.buildLog = open }
}

// New creates a Manager for cfg. The terminal surface is detected once,
// here, unless cfg.Terminal forces one.
func New(cfg *config.Config, opts ...Option) (*Manager, error) {
	m := &Manager{
		paths:     cfg.Paths,
		toolchain: cfg.Toolchain,
		fs:        system.DefaultFS(),
		exec:      system.DefaultExecutor(),
		spawner:   system.DefaultSpawner(),
		buildLog:  logging.RotatingFile,
		running:   newRegistry(),
	}
	for _, opt := range opts {
		opt(m)
	}

	if cfg.Terminal != "" {
		s, err := terminal.ParseSurface(cfg.Terminal)
		if err != nil {
			return nil, errors.ConfigError("invalid terminal override", err)
		}
		m.surface = s
	} else if m.getenv != nil {
		m.surface = terminal.Detect(m.getenv)
	} else {
		m.surface = terminal.DetectFromEnv()
	}

	if m.launcher == nil {
		m.launcher = launch.New(m.surface, launch.Deps{
			Exec:    m.exec,
			Spawner: m.spawner,
			FS:      m.fs,
		})
	}

	logging.Debug("sketch manager ready", "catalog", m.paths.SketchesDir, "surface", m.surface)
	return m, nil
}

// Surface returns the terminal surface sketches are launched on.
func (m *Manager) Surface() terminal.Surface {
	return m.surface
}

// Paths returns the catalog layout.
func (m *Manager) Paths() *config.Paths {
	return m.paths
}

// Create writes a sketch's source, manifest and metadata, replacing any
// sketch of the same name.
func (m *Manager) Create(name, description, source string) (*Info, error) {
	dir, err := m.paths.SketchDir(name)
	if err != nil {
		return nil, err
	}

	srcPath := filepath.Join(dir, config.SourceFile)
	if err := m.fs.MkdirAll(filepath.Dir(srcPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create sketch source directory: %w", err)
	}

	manifest, err := Manifest(name, m.paths.RuntimeDir)
	if err != nil {
		return nil, err
	}
	if err := m.fs.WriteFile(filepath.Join(dir, config.ManifestFile), manifest, 0644); err != nil {
		return nil, fmt.Errorf("failed to write %s: %w", config.ManifestFile, err)
	}

	if err := m.fs.WriteFile(srcPath, []byte(source), 0644); err != nil {
		return nil, fmt.Errorf("failed to write %s: %w", config.SourceFile, err)
	}

	md, err := encodeMetadata(metadata{Description: description, CreatedAt: time.Now().UTC().Truncate(time.Second)})
	if err != nil {
		return nil, err
	}
	if err := m.fs.WriteFile(filepath.Join(dir, config.MetadataFile), md, 0644); err != nil {
		return nil, fmt.Errorf("failed to write %s: %w", config.MetadataFile, err)
	}

	m.record(audit.EventCreate, name, description)
	logging.Debug("sketch created", "name", name, "dir", dir)

	return &Info{
		Name:        name,
		Description: description,
		Status:      StatusCreated,
		Path:        dir,
	}, nil
}

// Run stops any previous run of the sketch, rebuilds it and launches it on
// the detected surface. Build and launch failures are reported through the
// result; errors are reserved for invalid or missing sketches and for a
// toolchain that cannot be started.
func (m *Manager) Run(ctx context.Context, name string) (*RunResult, error) {
	dir, err := m.existingDir(name)
	if err != nil {
		return nil, err
	}

	_ = m.Stop(name)

	compiled, err := m.build(ctx, name, dir)
	if err != nil {
		return nil, err
	}
	if !compiled.Success {
		return &RunResult{
			Success: false,
			Message: CompileFailedPrefix + compiled.Stderr,
		}, nil
	}

	proc, err := m.launcher.Launch(ctx, compiled.BinaryPath)
	if err != nil {
		metrics.IncLaunch(m.surface.String(), false)
		m.record(audit.EventError, name, "launch: "+err.Error())
		return &RunResult{
			Success: false,
			Message: LaunchFailedPrefix + err.Error(),
		}, nil
	}
	metrics.IncLaunch(m.surface.String(), true)

	if stale := m.running.put(name, proc); stale != nil {
		// A concurrent Run registered first; the newer handle wins.
		m.terminate(name, stale)
	}

	m.record(audit.EventRun, name, fmt.Sprintf("pid=%d surface=%s", proc.Pid(), m.surface))
	logging.Info("sketch running", "name", name, "pid", proc.Pid(), "surface", m.surface)

	return &RunResult{
		Success: true,
		Message: fmt.Sprintf("Sketch '%s' is now running", name),
		PID:     proc.Pid(),
	}, nil
}

// Stop terminates the sketch's registered process, if any. Termination
// failures are logged and otherwise ignored.
func (m *Manager) Stop(name string) error {
	if err := config.ValidateSketchName(name); err != nil {
		return err
	}
	proc, ok := m.running.take(name)
	if !ok {
		return nil
	}
	m.terminate(name, proc)
	return nil
}

// StopAll terminates every registered process.
func (m *Manager) StopAll() {
	for name, proc := range m.running.drain() {
		m.terminate(name, proc)
	}
}

// Running returns the names of sketches with a registered process.
func (m *Manager) Running() []string {
	return m.running.names()
}

func (m *Manager) terminate(name string, proc system.Process) {
	pid := proc.Pid()
	if err := proc.Terminate(); err != nil {
		logging.Debug("terminate failed", "name", name, "pid", pid, "error", err)
	}
	metrics.IncStop()
	m.record(audit.EventStop, name, fmt.Sprintf("pid=%d", pid))
}

// List reports every sketch in the catalog, sorted by name.
func (m *Manager) List() ([]Info, error) {
	entries, err := m.fs.ReadDir(m.paths.SketchesDir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read sketch catalog: %w", err)
	}

	pids := m.running.pids()

	var sketches []Info
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		name := entry.Name()
		if config.ValidateSketchName(name) != nil {
			continue
		}
		if info, ok := m.inspect(name, filepath.Join(m.paths.SketchesDir, name), pids); ok {
			sketches = append(sketches, info)
		}
	}

	sort.Slice(sketches, func(i, j int) bool {
		return sketches[i].Name < sketches[j].Name
	})
	return sketches, nil
}

// Get reports a single sketch.
func (m *Manager) Get(name string) (*Info, error) {
	dir, err := m.existingDir(name)
	if err != nil {
		return nil, err
	}
	info, ok := m.inspect(name, dir, m.running.pids())
	if !ok {
		return nil, errors.NotFound(name)
	}
	return &info, nil
}

// Delete stops the sketch and removes its directory. Deleting a sketch
// that does not exist succeeds.
func (m *Manager) Delete(name string) error {
	dir, err := m.paths.SketchDir(name)
	if err != nil {
		return err
	}

	_ = m.Stop(name)

	if !m.fs.Exists(dir) {
		return nil
	}
	if err := m.fs.RemoveAll(dir); err != nil {
		m.record(audit.EventError, name, "delete: "+err.Error())
		return errors.DeletionFailed(name, err)
	}

	m.record(audit.EventDelete, name, "")
	logging.Debug("sketch deleted", "name", name, "dir", dir)
	return nil
}

// existingDir validates name and requires its directory to exist.
func (m *Manager) existingDir(name string) (string, error) {
	dir, err := m.paths.SketchDir(name)
	if err != nil {
		return "", err
	}
	if !m.fs.IsDir(dir) {
		return "", errors.NotFound(name)
	}
	return dir, nil
}

func (m *Manager) inspect(name, dir string, pids map[string]int) (Info, bool) {
	pid, running := pids[name]
	artifact := m.fs.Exists(m.ArtifactPath(name, dir))
	source := m.fs.Exists(filepath.Join(dir, config.SourceFile))

	status, ok := DeriveStatus(running, artifact, source)
	if !ok {
		return Info{}, false
	}

	info := Info{
		Name:   name,
		Status: status,
		Path:   dir,
	}
	if running {
		info.PID = pid
	}
	if data, err := m.fs.ReadFile(filepath.Join(dir, config.MetadataFile)); err == nil {
		if md, err := decodeMetadata(data); err == nil {
			info.Description = md.Description
		} else {
			logging.Debug("ignoring unreadable metadata", "name", name, "error", err)
		}
	}
	return info, true
}

// record appends to the audit trail when one is configured.
func (m *Manager) record(t audit.EventType, name, details string) {
	if m.audit == nil {
		return
	}
	if err := m.audit.LogEvent(t, name, details); err != nil {
		logging.Warn("failed to record event", "type", t, "name", name, "error", err)
	}
}
