package cmd

import (
	"encoding/json"
	"io"

	"github.com/firefly-engineering/firefly-sketch/internal/app"
	"github.com/firefly-engineering/firefly-sketch/internal/sketch"
)

// getApp returns the application context, building it on first use.
// A log file named in the config applies when --log-file was not given.
func getApp() (*app.App, error) {
	fresh := app.Default == nil
	a, err := app.Current()
	if err != nil {
		return nil, err
	}
	if fresh && logFile == "" && a.Config.LogFile != "" {
		setupLogging(a.Config.LogFile)
	}
	return a, nil
}

// getManager returns the sketch manager of the application context.
func getManager() (*sketch.Manager, error) {
	a, err := getApp()
	if err != nil {
		return nil, err
	}
	return a.Manager, nil
}

// writeJSON writes v as indented JSON.
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
