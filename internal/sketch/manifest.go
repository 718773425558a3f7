package sketch

import (
	"bytes"
	"fmt"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/firefly-engineering/firefly-sketch/internal/config"
)

// Dependency versions pinned in generated manifests.
const (
	RuntimeVersion   = "0.1"
	RatatuiVersion   = "0.29"
	CrosstermVersion = "0.28"
	AnyhowVersion    = "1"
	CrateEdition     = "2024"
	CrateVersion     = "0.1.0"
)

type cargoPackage struct {
	Name    string `toml:"name"`
	Version string `toml:"version"`
	Edition string `toml:"edition"`
}

type pathDependency struct {
	Version string `toml:"version"`
	Path    string `toml:"path"`
}

// cargoManifest is the generated Cargo.toml. The empty workspace table keeps
// the sketch out of any workspace that encloses the catalog.
type cargoManifest struct {
	Package      cargoPackage   `toml:"package"`
	Dependencies map[string]any `toml:"dependencies"`
	Workspace    struct{}       `toml:"workspace"`
}

// Manifest renders the build manifest for a sketch that links the runtime
// crate found at runtimeDir.
func Manifest(name, runtimeDir string) ([]byte, error) {
	m := cargoManifest{
		Package: cargoPackage{
			Name:    name,
			Version: CrateVersion,
			Edition: CrateEdition,
		},
		Dependencies: map[string]any{
			config.RuntimeCrateName: pathDependency{Version: RuntimeVersion, Path: runtimeDir},
			"ratatui":               RatatuiVersion,
			"crossterm":             CrosstermVersion,
			"anyhow":                AnyhowVersion,
		},
	}

	var buf bytes.Buffer
	enc := toml.NewEncoder(&buf)
	enc.Indent = ""
	if err := enc.Encode(m); err != nil {
		return nil, fmt.Errorf("failed to encode manifest: %w", err)
	}
	return buf.Bytes(), nil
}

// metadata is persisted as sketch.toml next to the manifest.
type metadata struct {
	Description string    `toml:"description,omitempty"`
	CreatedAt   time.Time `toml:"created_at"`
}

func encodeMetadata(md metadata) ([]byte, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(md); err != nil {
		return nil, fmt.Errorf("failed to encode metadata: %w", err)
	}
	return buf.Bytes(), nil
}

func decodeMetadata(data []byte) (metadata, error) {
	var md metadata
	if _, err := toml.Decode(string(data), &md); err != nil {
		return metadata{}, fmt.Errorf("failed to decode metadata: %w", err)
	}
	return md, nil
}
