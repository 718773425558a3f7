// Package terminal classifies the host terminal a sketch can be attached to.
package terminal

import (
	"fmt"
	"os"
	"strings"
)

// Surface identifies the terminal environment used to show a sketch.
type Surface string

const (
	SurfaceMultiplexer Surface = "tmux"
	SurfaceITerm2      Surface = "iterm2"
	SurfaceGhostty     Surface = "ghostty"
	SurfaceUnknown     Surface = "unknown"
)

// Surfaces lists every surface in detection priority order.
var Surfaces = []Surface{SurfaceMultiplexer, SurfaceGhostty, SurfaceITerm2, SurfaceUnknown}

func (s Surface) String() string {
	return string(s)
}

// Detect classifies the environment described by getenv.
//
// tmux is checked first because it may itself run inside any GUI terminal,
// and a split inside the multiplexer is what the user expects there.
func Detect(getenv func(string) string) Surface {
	if getenv("TMUX") != "" {
		return SurfaceMultiplexer
	}
	if getenv("GHOSTTY_RESOURCES_DIR") != "" {
		return SurfaceGhostty
	}
	if getenv("TERM_PROGRAM") == "iTerm.app" || getenv("LC_TERMINAL") == "iTerm2" {
		return SurfaceITerm2
	}
	return SurfaceUnknown
}

// DetectFromEnv classifies the current process environment.
func DetectFromEnv() Surface {
	return Detect(os.Getenv)
}

// ParseSurface maps a configuration value onto a Surface.
// Matching is case-insensitive and accepts a few common aliases.
func ParseSurface(s string) (Surface, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "tmux", "multiplexer":
		return SurfaceMultiplexer, nil
	case "iterm2", "iterm", "iterm.app":
		return SurfaceITerm2, nil
	case "ghostty":
		return SurfaceGhostty, nil
	case "unknown", "window", "none":
		return SurfaceUnknown, nil
	}
	return "", fmt.Errorf("unknown terminal surface %q", s)
}
