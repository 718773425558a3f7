package testutil

import (
	"embed"

	"github.com/BurntSushi/toml"
)

//go:embed fixtures/*
var fixturesFS embed.FS

// LoadFixture loads a fixture file by name.
func LoadFixture(name string) ([]byte, error) {
	return fixturesFS.ReadFile("fixtures/" + name)
}

// CounterSource returns the source of a small, valid counter sketch.
func CounterSource() string {
	data, err := LoadFixture("counter.rs")
	if err != nil {
		panic(err)
	}
	return string(data)
}

// BrokenSource returns sketch source that does not compile.
func BrokenSource() string {
	data, err := LoadFixture("broken.rs")
	if err != nil {
		panic(err)
	}
	return string(data)
}

// ConfigFixture is the decoded form of fixtures/config.toml.
type ConfigFixture struct {
	Terminal  string `toml:"terminal"`
	Toolchain struct {
		Command     string   `toml:"command"`
		Args        []string `toml:"args"`
		ArtifactDir string   `toml:"artifact_dir"`
	} `toml:"toolchain"`
}

// LoadConfigFixture decodes the sample config.toml.
func LoadConfigFixture() (*ConfigFixture, error) {
	data, err := LoadFixture("config.toml")
	if err != nil {
		return nil, err
	}
	var cfg ConfigFixture
	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
