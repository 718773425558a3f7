// Package config provides configuration types and loading for sketch-ctl.
//
// # Layout
//
// Everything lives under a base directory, by default
// <working directory>/.claude-sketch:
//
//	.claude-sketch/
//	    config.toml          optional overrides
//	    events/<name>.jsonl  audit trail per sketch
//	    sketches/<name>/     one directory per sketch
//	        Cargo.toml       generated build manifest
//	        sketch.toml      description metadata
//	        src/main.rs      sketch source
//	        build.log        rotated build output
//
// # Sources
//
// Configuration is resolved from, lowest precedence first:
//
//   - Built-in defaults (cargo build --release, target/release artifacts)
//   - <base>/config.toml
//   - Environment: CLAUDE_PLUGIN_ROOT, SKETCH_HOME, SKETCH_TOOLCHAIN, SKETCH_TERMINAL
//
// Example config.toml:
//
//	terminal = "tmux"
//	log_file = "/tmp/sketch-ctl.log"
//
//	[toolchain]
//	command = "cargo"
//	args = ["build", "--release"]
//	artifact_dir = "target/release"
//
// # Validation
//
// Sketch names are used as path segments and executable names.
// ValidateSketchName rejects anything outside [A-Za-z0-9_-]{1,64}, and
// Paths.SketchDir resolves names with securejoin so the result never
// escapes the catalog.
package config
