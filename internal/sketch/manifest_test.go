package sketch

import (
	"strings"
	"testing"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManifest(t *testing.T) {
	data, err := Manifest("demo", "/opt/claude-sketch/crates/claude-sketch-runtime")
	require.NoError(t, err)

	var decoded struct {
		Package struct {
			Name    string `toml:"name"`
			Version string `toml:"version"`
			Edition string `toml:"edition"`
		} `toml:"package"`
		Dependencies map[string]any `toml:"dependencies"`
	}
	md, err := toml.Decode(string(data), &decoded)
	require.NoError(t, err)

	assert.Equal(t, "demo", decoded.Package.Name)
	assert.Equal(t, CrateVersion, decoded.Package.Version)
	assert.Equal(t, CrateEdition, decoded.Package.Edition)

	assert.Equal(t, RatatuiVersion, decoded.Dependencies["ratatui"])
	assert.Equal(t, CrosstermVersion, decoded.Dependencies["crossterm"])
	assert.Equal(t, AnyhowVersion, decoded.Dependencies["anyhow"])

	runtimeDep, ok := decoded.Dependencies["claude-sketch-runtime"].(map[string]any)
	require.True(t, ok, "runtime dependency should be a table, got %T", decoded.Dependencies["claude-sketch-runtime"])
	assert.Equal(t, "/opt/claude-sketch/crates/claude-sketch-runtime", runtimeDep["path"])
	assert.Equal(t, RuntimeVersion, runtimeDep["version"])

	assert.True(t, md.IsDefined("workspace"), "manifest must declare an empty [workspace]")
	assert.True(t, strings.Contains(string(data), "[workspace]"))
}

func TestManifestQuotesPaths(t *testing.T) {
	data, err := Manifest("demo", `C:\sketch "runtime"`)
	require.NoError(t, err)

	var decoded struct {
		Dependencies map[string]any `toml:"dependencies"`
	}
	_, err = toml.Decode(string(data), &decoded)
	require.NoError(t, err)

	runtimeDep, ok := decoded.Dependencies["claude-sketch-runtime"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, `C:\sketch "runtime"`, runtimeDep["path"])
}

func TestMetadataRoundTrip(t *testing.T) {
	created := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	data, err := encodeMetadata(metadata{Description: "a counter", CreatedAt: created})
	require.NoError(t, err)

	md, err := decodeMetadata(data)
	require.NoError(t, err)
	assert.Equal(t, "a counter", md.Description)
	assert.True(t, md.CreatedAt.Equal(created))
}

func TestDecodeMetadataInvalid(t *testing.T) {
	_, err := decodeMetadata([]byte("description = "))
	assert.Error(t, err)
}
