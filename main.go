package main

import (
	"os"

	"github.com/firefly-engineering/firefly-sketch/cmd"
	"github.com/firefly-engineering/firefly-sketch/internal/errors"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(errors.GetExitCode(err))
	}
}
