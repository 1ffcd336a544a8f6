// Package config handles shelv's configuration file loading and
// validation: where the note folder lives, which color theme to use,
// and a default OpenAI model name, which nothing outside this package
// reads.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/twop/shelv/internal/theme"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultRootDir is the default directory name for the note folder.
	DefaultRootDir = "notes"
	// ConfigFileName is the name of shelv's configuration file.
	ConfigFileName = "shelv.yaml"
	// DefaultModel is the default value of Config.DefaultModel.
	DefaultModel = "gpt-4o-mini"
)

// Config holds shelv's configuration.
type Config struct {
	// RootDir is the directory name where notes are stored, relative to
	// ProjectRoot (e.g. "notes").
	RootDir string `yaml:"root_dir"`
	// ProjectRoot is the absolute path to the project root (where
	// shelv.yaml was found, or the current directory if it wasn't).
	ProjectRoot string `yaml:"-"`
	// Theme is the name of the color theme to use.
	Theme string `yaml:"theme"`
	// DefaultModel is the `default_model` OpenAI model name. Nothing
	// outside this package reads it; LLM requests do not fall back to it
	// when the settings note has no `ai {}` block.
	DefaultModel string `yaml:"default_model"`
}

// Load searches for shelv.yaml starting from the current working
// directory, walking up the directory tree. If not found, returns
// default configuration.
func Load() (*Config, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get current directory: %w", err)
	}

	return LoadFromPath(cwd)
}

// LoadFromPath searches for shelv.yaml starting from the given path,
// walking up the directory tree. If not found, returns default
// configuration with startPath as ProjectRoot.
func LoadFromPath(startPath string) (*Config, error) {
	absPath, err := filepath.Abs(startPath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve absolute path for %q: %w", startPath, err)
	}

	currentPath := absPath
	for {
		configPath := filepath.Join(currentPath, ConfigFileName)

		if _, err := os.Stat(configPath); err == nil {
			cfg, err := parseConfigFile(configPath)
			if err != nil {
				return nil, err
			}
			cfg.ProjectRoot = currentPath

			if err := cfg.validate(); err != nil {
				return nil, fmt.Errorf("invalid configuration in %s: %w", configPath, err)
			}

			return cfg, nil
		}

		parentPath := filepath.Dir(currentPath)
		if parentPath == currentPath {
			break
		}
		currentPath = parentPath
	}

	return &Config{
		RootDir:      DefaultRootDir,
		ProjectRoot:  absPath,
		Theme:        "default",
		DefaultModel: DefaultModel,
	}, nil
}

func parseConfigFile(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		var yamlErr *yaml.TypeError
		if errors.As(err, &yamlErr) {
			return nil, fmt.Errorf("invalid YAML syntax: %v", yamlErr.Errors)
		}

		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if cfg.RootDir == "" {
		cfg.RootDir = DefaultRootDir
	}
	if cfg.Theme == "" {
		cfg.Theme = "default"
	}
	if cfg.DefaultModel == "" {
		cfg.DefaultModel = DefaultModel
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	if c.RootDir == "" {
		return errors.New("root_dir cannot be empty")
	}

	invalidChars := []string{"/", "\\", "..", "*"}
	var foundInvalid []string

	for _, char := range invalidChars {
		if strings.Contains(c.RootDir, char) {
			foundInvalid = append(foundInvalid, char)
		}
	}

	if len(foundInvalid) > 0 {
		return fmt.Errorf(
			"root_dir must be a simple directory name (found invalid characters: %s)",
			strings.Join(foundInvalid, ", "),
		)
	}

	if strings.HasPrefix(c.RootDir, ".") {
		return errors.New("root_dir cannot start with '.' (hidden directories not allowed)")
	}

	if _, err := theme.Get(c.Theme); err != nil {
		available := theme.Available()

		return fmt.Errorf("invalid theme '%s', available themes: %s", c.Theme, strings.Join(available, ", "))
	}

	return nil
}

// RootPath returns the absolute path to the note folder.
func (c *Config) RootPath() string {
	return filepath.Join(c.ProjectRoot, c.RootDir)
}
