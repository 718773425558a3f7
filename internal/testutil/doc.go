// Package testutil provides test fixtures and utilities.
//
// # Fixtures
//
// Sketch sources and a sample config are embedded using go:embed:
//
//	fixtures/counter.rs   a small valid sketch
//	fixtures/broken.rs    a sketch that fails to compile
//	fixtures/config.toml  a config.toml exercising every key
//
// # Test Environments
//
// NewTestEnv builds a throwaway catalog under t.TempDir() with mock
// executor, spawner and launcher. Its toolchain always succeeds and writes
// the artifact the manager looks for:
//
//	env := testutil.NewTestEnv(t)
//	mgr, _ := sketch.New(env.Config,
//	    sketch.WithExecutor(env.Exec),
//	    sketch.WithLauncher(env.Launcher),
//	)
//
// FailingToolchain switches the environment to a toolchain that exits
// non-zero with the given stderr.
package testutil
