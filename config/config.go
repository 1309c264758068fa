// Package config holds the settings that can be read from the
// scrollback configuration file
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/peco/scrollback/buffer"
	"github.com/peco/scrollback/internal/util"
	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
)

// Config holds all the data that can be configured in the
// external configuration file
type Config struct {
	// LineIncrement is both the initial capacity of a window and
	// the amount it grows by every time more lines are requested
	LineIncrement int `json:"LineIncrement" yaml:"LineIncrement" toml:"LineIncrement"`

	// FilterLines selects the visible view when printing. If false,
	// hidden lines are printed too
	FilterLines bool `json:"FilterLines" yaml:"FilterLines" toml:"FilterLines"`

	// ResetMarkerOnClear makes clearing a window also forget the
	// last seen line
	ResetMarkerOnClear bool `json:"ResetMarkerOnClear" yaml:"ResetMarkerOnClear" toml:"ResetMarkerOnClear"`

	// Lines whose prefix is one of these are hidden from the
	// visible view
	HiddenPrefixes []string `json:"HiddenPrefixes" yaml:"HiddenPrefixes" toml:"HiddenPrefixes"`

	// Lines containing one of these words are highlighted
	HighlightWords []string `json:"HighlightWords" yaml:"HighlightWords" toml:"HighlightWords"`
}

// DefaultHiddenPrefixes are the prefixes of join, part and other
// status lines
var DefaultHiddenPrefixes = []string{"-->", "<--", "--"}

var homedirFunc = util.Homedir

// Init initializes the Config with default values
func (c *Config) Init() error {
	c.LineIncrement = buffer.DefaultLineIncrement
	c.FilterLines = true
	c.ResetMarkerOnClear = false
	c.HiddenPrefixes = append([]string(nil), DefaultHiddenPrefixes...)
	c.HighlightWords = nil
	return nil
}

// Validate checks that the values read from the config file make sense
func (c *Config) Validate() error {
	if c.LineIncrement <= 0 {
		return errors.Errorf("invalid LineIncrement %d: must be positive", c.LineIncrement)
	}
	for _, p := range c.HiddenPrefixes {
		if p == "" {
			return errors.New("invalid HiddenPrefixes: prefixes must not be empty")
		}
	}
	for _, w := range c.HighlightWords {
		if strings.TrimSpace(w) == "" {
			return errors.New("invalid HighlightWords: words must not be blank")
		}
	}
	return nil
}

// IsHidden returns true if lines with the given prefix belong to
// the full view only
func (c *Config) IsHidden(prefix string) bool {
	for _, p := range c.HiddenPrefixes {
		if p == prefix {
			return true
		}
	}
	return false
}

// IsHighlighted returns true if the message mentions one of the
// highlight words. The comparison ignores case
func (c *Config) IsHighlighted(msg string) bool {
	if len(c.HighlightWords) == 0 {
		return false
	}
	lower := strings.ToLower(msg)
	for _, w := range c.HighlightWords {
		if strings.Contains(lower, strings.ToLower(w)) {
			return true
		}
	}
	return false
}

// ReadFilename reads the config from the given file, and
// does the appropriate processing, if any
func (c *Config) ReadFilename(filename string) error {
	f, err := os.Open(filename)
	if err != nil {
		return errors.Wrapf(err, "failed to open file %s", filename)
	}
	defer f.Close()

	switch ext := filepath.Ext(filename); ext {
	case ".yaml", ".yml":
		err = yaml.NewDecoder(f).Decode(c)
		if err != nil {
			return errors.Wrap(err, "failed to decode YAML")
		}
	case ".toml":
		err = toml.NewDecoder(f).Decode(c)
		if err != nil {
			return errors.Wrap(err, "failed to decode TOML")
		}
	default:
		err = json.NewDecoder(f).Decode(c)
		if err != nil {
			return errors.Wrap(err, "failed to decode JSON")
		}
	}

	return c.Validate()
}

// Locator locates a config file in a given directory.
type Locator interface {
	Locate(string) (string, error)
}

// LocatorFunc is a function that implements Locator.
type LocatorFunc func(string) (string, error)

// Locate calls the underlying function.
func (f LocatorFunc) Locate(dir string) (string, error) {
	return f(dir)
}

var configFilenames = []string{"config.json", "config.yaml", "config.yml", "config.toml"}

// DefaultConfigLocator searches for a config file with one of the known
// filenames (config.json, config.yaml, config.yml, config.toml) in the
// given directory.
var DefaultConfigLocator = LocatorFunc(func(dir string) (string, error) {
	for _, basename := range configFilenames {
		file := filepath.Join(dir, basename)
		if _, err := os.Stat(file); err == nil {
			return file, nil
		}
	}
	return "", errors.Errorf("config file not found in %s", dir)
})

// LocateRcfile attempts to find the config file in various locations
func LocateRcfile(locater Locator) (string, error) {
	// http://standards.freedesktop.org/basedir-spec/basedir-spec-latest.html
	//
	// Try in this order:
	//	  $XDG_CONFIG_HOME/scrollback/config.{json,yaml,yml,toml}
	//    $XDG_CONFIG_DIR/scrollback/config.{json,yaml,yml,toml} (where XDG_CONFIG_DIR is listed in $XDG_CONFIG_DIRS)
	//	  ~/.scrollback/config.{json,yaml,yml,toml}

	home, uErr := homedirFunc()

	// Try dir supplied via env var
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		if file, err := locater.Locate(filepath.Join(dir, "scrollback")); err == nil {
			return file, nil
		}
	} else if uErr == nil { // silently ignore failure for homedir()
		// Try the default XDG location if we know the home directory
		if file, err := locater.Locate(filepath.Join(home, ".config", "scrollback")); err == nil {
			return file, nil
		}
	}

	// the basedir standard says ":" is the separator, which does not
	// work on windows; filepath.ListSeparator does
	if dirs := os.Getenv("XDG_CONFIG_DIRS"); dirs != "" {
		for dir := range strings.SplitSeq(dirs, fmt.Sprintf("%c", filepath.ListSeparator)) {
			if file, err := locater.Locate(filepath.Join(dir, "scrollback")); err == nil {
				return file, nil
			}
		}
	}

	if uErr == nil { // silently ignore failure for homedir()
		if file, err := locater.Locate(filepath.Join(home, ".scrollback")); err == nil {
			return file, nil
		}
	}

	return "", errors.New("config file not found")
}
