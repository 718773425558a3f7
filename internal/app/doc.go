// Package app provides the application context for sketch-ctl.
//
// This package manages application-wide dependencies using the functional
// options pattern, enabling easy testing through dependency injection.
//
// # App Context
//
// The App struct holds core dependencies:
//
//	type App struct {
//	    Config  *config.Config   // Resolved configuration
//	    Audit   *audit.Logger    // Lifecycle event trail
//	    Manager *sketch.Manager  // Sketch lifecycle manager
//	}
//
// # Creating an App
//
// Use New with functional options:
//
//	// Production usage
//	app, err := app.New()
//
//	// Testing with custom dependencies
//	app, err := app.New(
//	    app.WithConfig(testConfig),
//	    app.WithManagerOptions(sketch.WithExecutor(mockExec)),
//	)
//
// Commands use Current, which builds Default on first use. Tests install
// their own instance with SetDefault and drop it with ResetDefault.
//
// # Available Options
//
//	WithConfig(cfg)             // Custom configuration
//	WithAudit(logger)           // Custom audit logger
//	WithManager(manager)        // Prebuilt manager
//	WithManagerOptions(opts...) // Options forwarded to sketch.New
package app
