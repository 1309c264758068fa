package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-yaml"
	"github.com/pelletier/go-toml/v2"
	"github.com/stretchr/testify/require"
)

var expectedConfig = Config{
	LineIncrement:      50,
	FilterLines:        false,
	ResetMarkerOnClear: true,
	HiddenPrefixes:     []string{"-->", "<--"},
	HighlightWords:     []string{"alice", "deploy"},
}

func TestInit(t *testing.T) {
	var cfg Config
	require.NoError(t, cfg.Init(), "Config.Init should succeed")
	require.Equal(t, 200, cfg.LineIncrement)
	require.True(t, cfg.FilterLines)
	require.False(t, cfg.ResetMarkerOnClear)
	require.Equal(t, DefaultHiddenPrefixes, cfg.HiddenPrefixes)
	require.NoError(t, cfg.Validate())

	cfg.HiddenPrefixes[0] = "changed"
	require.Equal(t, "-->", DefaultHiddenPrefixes[0], "Init must copy the defaults")
}

func TestReadRC(t *testing.T) {
	txt := `
{
	"LineIncrement": 50,
	"FilterLines": false,
	"ResetMarkerOnClear": true,
	"HiddenPrefixes": ["-->", "<--"],
	"HighlightWords": ["alice", "deploy"]
}
`
	var cfg Config
	require.NoError(t, cfg.Init(), "Config.Init should succeed")
	require.NoError(t, json.Unmarshal([]byte(txt), &cfg), "Unmarshalling config should succeed")
	require.Equal(t, expectedConfig, cfg, "configuration matches expected")
}

const yamlConfig = `
LineIncrement: 50
FilterLines: false
ResetMarkerOnClear: true
HiddenPrefixes:
  - "-->"
  - "<--"
HighlightWords:
  - alice
  - deploy
`

func TestReadRCYAML(t *testing.T) {
	var cfg Config
	require.NoError(t, cfg.Init(), "Config.Init should succeed")
	require.NoError(t, yaml.Unmarshal([]byte(yamlConfig), &cfg), "Unmarshalling YAML config should succeed")
	require.Equal(t, expectedConfig, cfg, "YAML configuration matches expected")
}

const tomlConfig = `
LineIncrement = 50
FilterLines = false
ResetMarkerOnClear = true
HiddenPrefixes = ["-->", "<--"]
HighlightWords = ["alice", "deploy"]
`

func TestReadRCTOML(t *testing.T) {
	var cfg Config
	require.NoError(t, cfg.Init(), "Config.Init should succeed")
	require.NoError(t, toml.Unmarshal([]byte(tomlConfig), &cfg), "Unmarshalling TOML config should succeed")
	require.Equal(t, expectedConfig, cfg, "TOML configuration matches expected")
}

func TestReadFilename(t *testing.T) {
	for _, tc := range []struct {
		name    string
		content string
	}{
		{"config.json", `{"LineIncrement": 50, "FilterLines": false, "ResetMarkerOnClear": true, "HiddenPrefixes": ["-->", "<--"], "HighlightWords": ["alice", "deploy"]}`},
		{"config.yaml", yamlConfig},
		{"config.yml", yamlConfig},
		{"config.toml", tomlConfig},
	} {
		t.Run(tc.name, func(t *testing.T) {
			file := filepath.Join(t.TempDir(), tc.name)
			require.NoError(t, os.WriteFile(file, []byte(tc.content), 0o644))

			var cfg Config
			require.NoError(t, cfg.Init())
			require.NoError(t, cfg.ReadFilename(file))
			require.Equal(t, expectedConfig, cfg)
		})
	}

	t.Run("partial file keeps defaults", func(t *testing.T) {
		file := filepath.Join(t.TempDir(), "config.toml")
		require.NoError(t, os.WriteFile(file, []byte("HighlightWords = [\"bob\"]\n"), 0o644))

		var cfg Config
		require.NoError(t, cfg.Init())
		require.NoError(t, cfg.ReadFilename(file))
		require.Equal(t, 200, cfg.LineIncrement)
		require.True(t, cfg.FilterLines)
		require.Equal(t, []string{"bob"}, cfg.HighlightWords)
	})

	t.Run("missing file", func(t *testing.T) {
		var cfg Config
		require.NoError(t, cfg.Init())
		err := cfg.ReadFilename(filepath.Join(t.TempDir(), "nope.json"))
		require.Error(t, err)
		require.True(t, errors.Is(err, os.ErrNotExist))
	})

	t.Run("broken file", func(t *testing.T) {
		file := filepath.Join(t.TempDir(), "config.json")
		require.NoError(t, os.WriteFile(file, []byte("{"), 0o644))

		var cfg Config
		require.NoError(t, cfg.Init())
		require.Error(t, cfg.ReadFilename(file))
	})

	t.Run("invalid value", func(t *testing.T) {
		file := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(file, []byte("LineIncrement: -1\n"), 0o644))

		var cfg Config
		require.NoError(t, cfg.Init())
		err := cfg.ReadFilename(file)
		require.Error(t, err)
		require.Contains(t, err.Error(), "LineIncrement")
	})
}

func TestValidate(t *testing.T) {
	for _, tc := range []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero increment", func(c *Config) { c.LineIncrement = 0 }},
		{"empty hidden prefix", func(c *Config) { c.HiddenPrefixes = append(c.HiddenPrefixes, "") }},
		{"blank highlight word", func(c *Config) { c.HighlightWords = []string{" "} }},
	} {
		t.Run(tc.name, func(t *testing.T) {
			var cfg Config
			require.NoError(t, cfg.Init())
			tc.mutate(&cfg)
			require.Error(t, cfg.Validate())
		})
	}
}

func TestIsHiddenAndHighlighted(t *testing.T) {
	var cfg Config
	require.NoError(t, cfg.Init())
	cfg.HighlightWords = []string{"Alice"}

	require.True(t, cfg.IsHidden("-->"))
	require.True(t, cfg.IsHidden("--"))
	require.False(t, cfg.IsHidden("bob"))
	require.False(t, cfg.IsHidden(""))

	require.True(t, cfg.IsHighlighted("hey alice, look"))
	require.False(t, cfg.IsHighlighted("hey bob"))

	cfg.HighlightWords = nil
	require.False(t, cfg.IsHighlighted("alice"))
}

func TestLocateRcfile(t *testing.T) {
	dir := t.TempDir()

	homedirFunc = func() (string, error) {
		return dir, nil
	}

	expected := []string{
		filepath.Join(dir, "scrollback"),
		filepath.Join(dir, "1", "scrollback"),
		filepath.Join(dir, "2", "scrollback"),
		filepath.Join(dir, "3", "scrollback"),
		filepath.Join(dir, ".scrollback"),
	}

	i := 0
	locater := LocatorFunc(func(dir string) (string, error) {
		t.Logf("looking for file in %s", dir)
		require.True(t, i <= len(expected)-1, "Got %d directories, only have %d", i+1, len(expected))
		require.Equal(t, expected[i], dir, "Expected %s, got %s", expected[i], dir)
		i++
		return "", errors.New("error: Not found")
	})

	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("XDG_CONFIG_DIRS", strings.Join(
		[]string{
			filepath.Join(dir, "1"),
			filepath.Join(dir, "2"),
			filepath.Join(dir, "3"),
		},
		fmt.Sprintf("%c", filepath.ListSeparator),
	))

	_, err := LocateRcfile(locater)
	require.Error(t, err)
	require.Equal(t, len(expected), i)

	expected[0] = filepath.Join(dir, ".config", "scrollback")
	t.Setenv("XDG_CONFIG_HOME", "")
	i = 0
	_, err = LocateRcfile(locater)
	require.Error(t, err)
	require.Equal(t, len(expected), i)
}

func TestLocateRcfileTOML(t *testing.T) {
	dir := t.TempDir()

	// Create config.toml (but no other config) in the dir
	rcDir := filepath.Join(dir, ".scrollback")
	require.NoError(t, os.MkdirAll(rcDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(rcDir, "config.toml"), []byte(tomlConfig), 0o644))

	homedirFunc = func() (string, error) {
		return dir, nil
	}

	// Clear XDG vars so it falls through to ~/.scrollback/
	t.Setenv("XDG_CONFIG_HOME", "")
	t.Setenv("XDG_CONFIG_DIRS", "")

	file, err := LocateRcfile(DefaultConfigLocator)
	require.NoError(t, err)
	require.Equal(t, filepath.Join(rcDir, "config.toml"), file)
}
