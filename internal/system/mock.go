package system

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// MockFS implements FileSystem for testing.
type MockFS struct {
	mu    sync.RWMutex
	files map[string]*mockFile
	dirs  map[string]bool

	// Error injection
	ReadFileErr  error
	WriteFileErr error
	RemoveErr    error
	RemoveAllErr error
	StatErr      error
	MkdirAllErr  error
	ReadDirErr   error
}

type mockFile struct {
	data []byte
	mode fs.FileMode
}

// NewMockFS creates a new MockFS with an empty filesystem.
func NewMockFS() *MockFS {
	return &MockFS{
		files: make(map[string]*mockFile),
		dirs:  make(map[string]bool),
	}
}

// AddFile adds a file to the mock filesystem.
func (m *MockFS) AddFile(path string, data []byte, mode fs.FileMode) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[path] = &mockFile{data: data, mode: mode}
	// Ensure parent directories exist
	dir := filepath.Dir(path)
	for dir != "." && dir != "/" {
		m.dirs[dir] = true
		dir = filepath.Dir(dir)
	}
}

// AddDir adds a directory to the mock filesystem.
func (m *MockFS) AddDir(path string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dirs[path] = true
}

// GetFile returns the contents of a file in the mock filesystem.
func (m *MockFS) GetFile(path string) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	f, ok := m.files[path]
	if !ok {
		return nil, false
	}
	return f.data, true
}

func (m *MockFS) ReadFile(path string) ([]byte, error) {
	if m.ReadFileErr != nil {
		return nil, m.ReadFileErr
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	f, ok := m.files[path]
	if !ok {
		return nil, fs.ErrNotExist
	}
	return f.data, nil
}

func (m *MockFS) WriteFile(path string, data []byte, perm fs.FileMode) error {
	if m.WriteFileErr != nil {
		return m.WriteFileErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[path] = &mockFile{data: data, mode: perm}
	return nil
}

func (m *MockFS) Remove(path string) error {
	if m.RemoveErr != nil {
		return m.RemoveErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.files[path]; ok {
		delete(m.files, path)
		return nil
	}
	if _, ok := m.dirs[path]; ok {
		delete(m.dirs, path)
		return nil
	}
	return fs.ErrNotExist
}

func (m *MockFS) RemoveAll(path string) error {
	if m.RemoveAllErr != nil {
		return m.RemoveAllErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	// Remove all files and dirs with this prefix
	for p := range m.files {
		if p == path || hasPathPrefix(p, path) {
			delete(m.files, p)
		}
	}
	for p := range m.dirs {
		if p == path || hasPathPrefix(p, path) {
			delete(m.dirs, p)
		}
	}
	return nil
}

func (m *MockFS) Stat(path string) (fs.FileInfo, error) {
	if m.StatErr != nil {
		return nil, m.StatErr
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	if f, ok := m.files[path]; ok {
		return &mockFileInfo{name: filepath.Base(path), size: int64(len(f.data)), mode: f.mode}, nil
	}
	if _, ok := m.dirs[path]; ok {
		return &mockFileInfo{name: filepath.Base(path), isDir: true, mode: fs.ModeDir | 0755}, nil
	}
	return nil, fs.ErrNotExist
}

func (m *MockFS) MkdirAll(path string, perm fs.FileMode) error {
	if m.MkdirAllErr != nil {
		return m.MkdirAllErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	// Create all directories in the path
	current := path
	for current != "." && current != "/" {
		m.dirs[current] = true
		current = filepath.Dir(current)
	}
	return nil
}

func (m *MockFS) Exists(path string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, fileOk := m.files[path]
	_, dirOk := m.dirs[path]
	return fileOk || dirOk
}

func (m *MockFS) IsDir(path string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.dirs[path]
	return ok
}

func (m *MockFS) ReadDir(path string) ([]fs.DirEntry, error) {
	if m.ReadDirErr != nil {
		return nil, m.ReadDirErr
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	if _, ok := m.dirs[path]; !ok {
		// Check if it's the root or a path that has children
		hasChildren := false
		for p := range m.files {
			if hasPathPrefix(p, path) {
				hasChildren = true
				break
			}
		}
		if !hasChildren {
			return nil, fs.ErrNotExist
		}
	}

	entries := make(map[string]fs.DirEntry)

	// Find direct children
	for p, f := range m.files {
		if dir := filepath.Dir(p); dir == path {
			name := filepath.Base(p)
			entries[name] = &mockDirEntry{name: name, mode: f.mode}
		}
	}
	for p := range m.dirs {
		if dir := filepath.Dir(p); dir == path {
			name := filepath.Base(p)
			entries[name] = &mockDirEntry{name: name, isDir: true, mode: fs.ModeDir | 0755}
		}
	}

	result := make([]fs.DirEntry, 0, len(entries))
	for _, e := range entries {
		result = append(result, e)
	}
	return result, nil
}

// hasPathPrefix checks if path has the given prefix as a path component.
func hasPathPrefix(path, prefix string) bool {
	if len(path) <= len(prefix) {
		return false
	}
	return path[:len(prefix)] == prefix && path[len(prefix)] == '/'
}

// mockFileInfo implements fs.FileInfo for testing.
type mockFileInfo struct {
	name  string
	size  int64
	mode  fs.FileMode
	isDir bool
}

func (m *mockFileInfo) Name() string       { return m.name }
func (m *mockFileInfo) Size() int64        { return m.size }
func (m *mockFileInfo) Mode() fs.FileMode  { return m.mode }
func (m *mockFileInfo) ModTime() time.Time { return time.Now() }
func (m *mockFileInfo) IsDir() bool        { return m.isDir }
func (m *mockFileInfo) Sys() interface{}   { return nil }

// mockDirEntry implements fs.DirEntry for testing.
type mockDirEntry struct {
	name  string
	mode  fs.FileMode
	isDir bool
}

func (m *mockDirEntry) Name() string               { return m.name }
func (m *mockDirEntry) IsDir() bool                { return m.isDir }
func (m *mockDirEntry) Type() fs.FileMode          { return m.mode.Type() }
func (m *mockDirEntry) Info() (fs.FileInfo, error) { return &mockFileInfo{name: m.name, mode: m.mode, isDir: m.isDir}, nil }

// MockExecutor implements CommandExecutor for testing.
type MockExecutor struct {
	mu sync.Mutex

	// Commands records all executed commands for verification.
	Commands []MockCommand

	// Responses maps command patterns to responses.
	// Key format: "command arg1", falling back to "command".
	Responses map[string]MockResponse

	// DefaultResponse is used when no matching response is found.
	DefaultResponse MockResponse

	// Hook, if set, runs for every command before the response is returned.
	// Tests use it to produce side effects such as build artifacts.
	Hook func(cmd MockCommand)
}

// MockCommand records an executed command.
type MockCommand struct {
	Name  string
	Args  []string
	Dir   string
	Stdin string
}

// String renders the command line for assertions.
func (c MockCommand) String() string {
	return strings.TrimSpace(c.Name + " " + strings.Join(c.Args, " "))
}

// MockResponse defines the response for a command.
type MockResponse struct {
	Output []byte
	Stderr []byte
	Err    error
}

func (r MockResponse) combined() []byte {
	out := make([]byte, 0, len(r.Output)+len(r.Stderr))
	out = append(out, r.Output...)
	return append(out, r.Stderr...)
}

// NewMockExecutor creates a new MockExecutor.
func NewMockExecutor() *MockExecutor {
	return &MockExecutor{
		Commands:  make([]MockCommand, 0),
		Responses: make(map[string]MockResponse),
	}
}

// AddResponse adds a response for a specific command pattern.
func (m *MockExecutor) AddResponse(pattern string, output []byte, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Responses[pattern] = MockResponse{Output: output, Err: err}
}

// SetResponse adds a full response, including stderr, for a command pattern.
func (m *MockExecutor) SetResponse(pattern string, resp MockResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Responses[pattern] = resp
}

func (m *MockExecutor) record(cmd MockCommand) MockResponse {
	m.mu.Lock()
	m.Commands = append(m.Commands, cmd)
	hook := m.Hook

	resp := m.DefaultResponse
	key := cmd.Name
	if len(cmd.Args) > 0 {
		key = cmd.Name + " " + cmd.Args[0]
	}
	if r, ok := m.Responses[key]; ok {
		resp = r
	} else if r, ok := m.Responses[cmd.Name]; ok {
		resp = r
	}
	m.mu.Unlock()

	if hook != nil {
		hook(cmd)
	}
	return resp
}

func (m *MockExecutor) Execute(ctx context.Context, name string, args ...string) ([]byte, error) {
	resp := m.record(MockCommand{Name: name, Args: args})
	return resp.combined(), resp.Err
}

func (m *MockExecutor) ExecuteWithStdin(ctx context.Context, stdin string, name string, args ...string) ([]byte, error) {
	resp := m.record(MockCommand{Name: name, Args: args, Stdin: stdin})
	return resp.combined(), resp.Err
}

func (m *MockExecutor) Run(ctx context.Context, dir string, name string, args ...string) ([]byte, []byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	resp := m.record(MockCommand{Name: name, Args: args, Dir: dir})
	return resp.Output, resp.Stderr, resp.Err
}

// LastCommand returns the most recently executed command.
func (m *MockExecutor) LastCommand() (MockCommand, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Commands) == 0 {
		return MockCommand{}, false
	}
	return m.Commands[len(m.Commands)-1], true
}

// Reset clears all recorded commands.
func (m *MockExecutor) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Commands = make([]MockCommand, 0)
}

// MockExitError is an ExitCoder for simulating a command that ran and failed.
type MockExitError struct {
	Code int
}

func (e *MockExitError) Error() string { return fmt.Sprintf("exit status %d", e.Code) }

func (e *MockExitError) ExitCode() int { return e.Code }

// MockSpawner implements ProcessSpawner for testing.
type MockSpawner struct {
	mu      sync.Mutex
	nextPID int

	// Spawned records every spawn attempt, successful or not.
	Spawned []MockCommand

	// Processes holds the handles returned so far, in spawn order.
	Processes []*MockProcess

	// Failures maps a program name to the error its spawn returns.
	Failures map[string]error
}

// NewMockSpawner creates a MockSpawner whose pids start at 1000.
func NewMockSpawner() *MockSpawner {
	return &MockSpawner{
		nextPID:  1000,
		Failures: make(map[string]error),
	}
}

// Fail makes every spawn of the named program return an error.
func (m *MockSpawner) Fail(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Failures[name] = fmt.Errorf("exec: %q: executable file not found in $PATH", name)
}

func (m *MockSpawner) Spawn(name string, args ...string) (Process, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Spawned = append(m.Spawned, MockCommand{Name: name, Args: args})
	if err, ok := m.Failures[name]; ok {
		return nil, err
	}

	m.nextPID++
	p := &MockProcess{pid: m.nextPID, Command: MockCommand{Name: name, Args: args}}
	m.Processes = append(m.Processes, p)
	return p, nil
}

// Last returns the most recently spawned process.
func (m *MockSpawner) Last() (*MockProcess, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Processes) == 0 {
		return nil, false
	}
	return m.Processes[len(m.Processes)-1], true
}

// MockProcess implements Process for testing.
type MockProcess struct {
	mu         sync.Mutex
	pid        int
	terminated int

	// Command is what the spawner was asked to run.
	Command MockCommand

	// TerminateErr is returned by Terminate if set.
	TerminateErr error
}

// NewMockProcess creates a standalone process handle with the given pid.
func NewMockProcess(pid int) *MockProcess {
	return &MockProcess{pid: pid}
}

func (p *MockProcess) Pid() int {
	return p.pid
}

func (p *MockProcess) Terminate() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.terminated++
	return p.TerminateErr
}

// Terminated reports whether Terminate has been called.
func (p *MockProcess) Terminated() bool {
	return p.TerminateCount() > 0
}

// TerminateCount returns how many times Terminate has been called.
func (p *MockProcess) TerminateCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.terminated
}
