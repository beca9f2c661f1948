package common

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"
)

// LoggingConfig controls console logging
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// FilesConfig controls which documents are processed and how they are written
type FilesConfig struct {
	Pattern string `yaml:"pattern"`
	Indent  int    `yaml:"indent"`
}

// LayoutConfig holds the directory convention of a patch root,
// both paths relative to the root passed to the migrator.
type LayoutConfig struct {
	Dialogues string `yaml:"dialogues"`
	Migration string `yaml:"migration"`
}

// Config is the optional YAML configuration shared by all commands
type Config struct {
	Logging LoggingConfig `yaml:"logging"`
	Files   FilesConfig   `yaml:"files"`
	Layout  LayoutConfig  `yaml:"layout"`
}

// DefaultConfig returns the configuration used when no file is given
func DefaultConfig() *Config {
	return &Config{
		Logging: LoggingConfig{Level: "info"},
		Files: FilesConfig{
			Pattern: DefaultFilePattern,
			Indent:  4,
		},
		Layout: LayoutConfig{
			Dialogues: "dialogues",
			Migration: filepath.Join("migration", "dialogues"),
		},
	}
}

// LoadConfig reads a YAML configuration file on top of the defaults.
// An empty path returns the defaults.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, FormatError(ErrFailedToReadConfig, err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, FormatError(ErrFailedToParseConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration values
func (c *Config) Validate() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return FormatErrorString(ErrInvalidConfig, "logging.level must be one of debug, info, warn, error, got %q", c.Logging.Level)
	}
	if c.Files.Pattern == "" || !doublestar.ValidatePattern(c.Files.Pattern) {
		return FormatErrorString(ErrInvalidConfig, "files.pattern %q is not a valid pattern", c.Files.Pattern)
	}
	if c.Files.Indent < 0 || c.Files.Indent > 16 {
		return FormatErrorString(ErrInvalidConfig, "files.indent must be between 0 and 16, got %d", c.Files.Indent)
	}
	if c.Layout.Dialogues == "" || c.Layout.Migration == "" {
		return FormatErrorString(ErrInvalidConfig, "layout.dialogues and layout.migration must not be empty")
	}
	if filepath.IsAbs(c.Layout.Dialogues) || filepath.IsAbs(c.Layout.Migration) {
		return FormatErrorString(ErrInvalidConfig, "layout paths must be relative to the patch root")
	}
	return nil
}

// PatchDirs resolves the patch and migration dialogue directories under root
func (c *Config) PatchDirs(root string) (patchDir, migrationDir string) {
	return filepath.Join(root, c.Layout.Dialogues), filepath.Join(root, c.Layout.Migration)
}

// String renders the configuration as YAML
func (c *Config) String() string {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Sprintf("%+v", *c)
	}
	return string(data)
}
