package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/BurntSushi/toml"
	securejoin "github.com/cyphar/filepath-securejoin"
	shellquote "github.com/kballard/go-shellquote"
	"github.com/kelseyhightower/envconfig"

	"github.com/firefly-engineering/firefly-sketch/internal/errors"
)

const (
	DefaultBaseDirName  = ".claude-sketch"
	SketchesDirName     = "sketches"
	EventsDirName       = "events"
	ConfigFileName      = "config.toml"
	RuntimeCrateRelPath = "crates/claude-sketch-runtime"
	RuntimeCrateName    = "claude-sketch-runtime"
	MaxSketchNameLength = 64
)

// Files inside a sketch directory.
const (
	ManifestFile = "Cargo.toml"
	SourceFile   = "src/main.rs"
	MetadataFile = "sketch.toml"
	BuildLogFile = "build.log"
)

var (
	sketchNameChars = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)
)

// ValidateSketchName checks if a sketch name is valid.
// The name becomes a directory name and an executable name, so valid names:
//   - Contain only ASCII letters, digits, underscores, or hyphens
//   - Are between 1 and 64 characters long
func ValidateSketchName(name string) error {
	if name == "" {
		return errors.InvalidName(name, "name cannot be empty")
	}
	if len(name) > MaxSketchNameLength {
		return errors.InvalidName(name, fmt.Sprintf("name cannot exceed %d characters", MaxSketchNameLength))
	}
	if !sketchNameChars.MatchString(name) {
		return errors.InvalidName(name, "name can only contain alphanumeric characters, underscores, and hyphens")
	}
	return nil
}

// Paths holds the configured paths
type Paths struct {
	BaseDir     string
	SketchesDir string
	EventsDir   string
	RuntimeDir  string
}

// NewPaths returns the path layout rooted at baseDir.
func NewPaths(baseDir, runtimeDir string) *Paths {
	return &Paths{
		BaseDir:     baseDir,
		SketchesDir: filepath.Join(baseDir, SketchesDirName),
		EventsDir:   filepath.Join(baseDir, EventsDirName),
		RuntimeDir:  runtimeDir,
	}
}

// SketchDir resolves the directory owned by the named sketch.
// The result is guaranteed to stay inside SketchesDir.
func (p *Paths) SketchDir(name string) (string, error) {
	if err := ValidateSketchName(name); err != nil {
		return "", err
	}
	dir, err := securejoin.SecureJoin(p.SketchesDir, name)
	if err != nil {
		return "", fmt.Errorf("failed to resolve sketch directory: %w", err)
	}
	return dir, nil
}

// Toolchain describes the external build command.
type Toolchain struct {
	Command     string   `toml:"command"`
	Args        []string `toml:"args"`
	ArtifactDir string   `toml:"artifact_dir"`
}

// DefaultToolchain builds with cargo in release mode.
func DefaultToolchain() Toolchain {
	return Toolchain{
		Command:     "cargo",
		Args:        []string{"build", "--release"},
		ArtifactDir: filepath.Join("target", "release"),
	}
}

// Config is the resolved sketch-ctl configuration.
type Config struct {
	Paths     *Paths
	Toolchain Toolchain

	// Terminal forces a terminal surface instead of detecting one.
	Terminal string

	// LogFile, when set, receives the structured log.
	LogFile string
}

// fileConfig is the on-disk shape of config.toml.
type fileConfig struct {
	Toolchain *Toolchain `toml:"toolchain"`
	Terminal  string     `toml:"terminal"`
	LogFile   string     `toml:"log_file"`
}

// envConfig holds the environment overrides.
type envConfig struct {
	PluginRoot string `envconfig:"CLAUDE_PLUGIN_ROOT"`
	Home       string `envconfig:"SKETCH_HOME"`
	Toolchain  string `envconfig:"SKETCH_TOOLCHAIN"`
	Terminal   string `envconfig:"SKETCH_TERMINAL"`
}

// Load resolves configuration for the current working directory.
func Load() (*Config, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, errors.ConfigError("failed to get current working directory", err)
	}
	return LoadFrom(cwd)
}

// LoadFrom resolves configuration with workDir as the project directory.
// Precedence, lowest first: defaults, <base>/config.toml, environment.
func LoadFrom(workDir string) (*Config, error) {
	var env envConfig
	if err := envconfig.Process("", &env); err != nil {
		return nil, errors.ConfigError("failed to read environment", err)
	}

	baseDir := filepath.Join(workDir, DefaultBaseDirName)
	if env.Home != "" {
		baseDir = env.Home
	}

	cfg := &Config{
		Paths:     NewPaths(baseDir, ResolveRuntimeDir(env.PluginRoot, os.Executable)),
		Toolchain: DefaultToolchain(),
	}

	if err := cfg.loadFile(filepath.Join(baseDir, ConfigFileName)); err != nil {
		return nil, err
	}

	if env.Toolchain != "" {
		words, err := shellquote.Split(env.Toolchain)
		if err != nil || len(words) == 0 {
			return nil, errors.ConfigError("invalid SKETCH_TOOLCHAIN", err)
		}
		cfg.Toolchain.Command = words[0]
		cfg.Toolchain.Args = words[1:]
	}
	if env.Terminal != "" {
		cfg.Terminal = env.Terminal
	}

	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return errors.ConfigError("failed to read config file", err)
	}

	var fc fileConfig
	if _, err := toml.Decode(string(data), &fc); err != nil {
		return errors.ConfigError(fmt.Sprintf("failed to parse %s", path), err)
	}

	if fc.Toolchain != nil {
		if fc.Toolchain.Command != "" {
			c.Toolchain.Command = fc.Toolchain.Command
			c.Toolchain.Args = fc.Toolchain.Args
		}
		if fc.Toolchain.ArtifactDir != "" {
			c.Toolchain.ArtifactDir = fc.Toolchain.ArtifactDir
		}
	}
	if fc.Terminal != "" {
		c.Terminal = fc.Terminal
	}
	if fc.LogFile != "" {
		c.LogFile = fc.LogFile
	}
	return nil
}

// ResolveRuntimeDir locates the sketch runtime crate that generated
// manifests depend on: $CLAUDE_PLUGIN_ROOT/crates/claude-sketch-runtime,
// else two levels above the running executable (development layout),
// else the bare crate name.
func ResolveRuntimeDir(pluginRoot string, executable func() (string, error)) string {
	if pluginRoot != "" {
		return filepath.Join(pluginRoot, RuntimeCrateRelPath)
	}
	if executable != nil {
		if exe, err := executable(); err == nil {
			return filepath.Join(filepath.Dir(exe), "..", "..", RuntimeCrateRelPath)
		}
	}
	return RuntimeCrateName
}
