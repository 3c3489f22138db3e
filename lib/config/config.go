// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/bureau-foundation/dbpick/lib/resource"
)

// EnvironmentVariable names the variable [Load] reads the config path
// from.
const EnvironmentVariable = "DBPICK_CONFIG"

// Format is the encoding used to print the final selection.
type Format string

const (
	// FormatText prints one identity key per line.
	FormatText Format = "text"
	// FormatJSON prints a JSON array of identifiers.
	FormatJSON Format = "json"
	// FormatYAML prints a YAML sequence of identifiers.
	FormatYAML Format = "yaml"
	// FormatCBOR writes deterministic CBOR.
	FormatCBOR Format = "cbor"
)

// Formats lists every supported output format.
var Formats = []Format{FormatText, FormatJSON, FormatYAML, FormatCBOR}

// ParseFormat validates a format name.
func ParseFormat(name string) (Format, error) {
	format := Format(name)
	if !slices.Contains(Formats, format) {
		return "", fmt.Errorf("unknown output format %q (want one of %v)", name, Formats)
	}
	return format, nil
}

// Config is the picker configuration.
type Config struct {
	// Identity selects the identity policy: "name" or "domain-name".
	Identity string `yaml:"identity"`

	// Catalog is the default catalog file, used when no --catalog
	// flag is given.
	Catalog string `yaml:"catalog"`

	// ForceSelection forbids emptying the selection.
	ForceSelection bool `yaml:"force_selection"`

	// TopLevelDisplayName labels the root "all" category.
	TopLevelDisplayName string `yaml:"top_level_display_name"`

	// EmptyMessage is shown when the catalog holds no resources.
	EmptyMessage string `yaml:"empty_message"`

	// Output is the default output format.
	Output Format `yaml:"output"`

	// Categories declares the category tree.
	Categories []CategoryConfig `yaml:"categories"`

	// InitialSelection is the selection the picker starts with.
	InitialSelection []resource.Identifier `yaml:"initial_selection"`

	// DelayedSelection names a category whose members become the
	// selection when the catalog first loads, if nothing else was
	// selected by then.
	DelayedSelection string `yaml:"delayed_selection"`
}

// CategoryConfig declares one category.
type CategoryConfig struct {
	Name        string           `yaml:"name"`
	DisplayName string           `yaml:"display_name"`
	ClassName   string           `yaml:"class_name"`
	Match       MatchConfig      `yaml:"match"`
	Children    []CategoryConfig `yaml:"children"`
}

// MatchConfig holds glob patterns over resource attributes. Empty
// patterns are not checked; a matcher with no patterns matches every
// resource.
type MatchConfig struct {
	Name        string `yaml:"name"`
	Domain      string `yaml:"domain"`
	DisplayName string `yaml:"display_name"`
}

// Default returns the default configuration. It describes a flat
// picker keyed by domain and name.
func Default() *Config {
	return &Config{
		Identity:            resource.DomainNameIdentity.Name,
		TopLevelDisplayName: "All",
		EmptyMessage:        "There are no databases",
		Output:              FormatText,
	}
}

// Load loads configuration from the DBPICK_CONFIG environment variable.
//
// There are no fallbacks: if DBPICK_CONFIG is not set, this fails.
func Load() (*Config, error) {
	configPath := os.Getenv(EnvironmentVariable)
	if configPath == "" {
		return nil, fmt.Errorf("%s environment variable not set; "+
			"set it to the path of your dbpick.yaml config file, or use --config flag", EnvironmentVariable)
	}

	return LoadFile(configPath)
}

// LoadFile loads configuration from a specific file path and validates
// it.
//
// The config file is the single source of truth. Environment variables
// do not override config values; the only expansion performed is
// ${HOME} and similar variables in the catalog path.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	if err := cfg.loadFile(path); err != nil {
		return nil, err
	}

	cfg.Catalog = expandVars(cfg.Catalog, map[string]string{"HOME": os.Getenv("HOME")})

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// loadFile reads a single configuration file, merging into the current
// config.
func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config: %w", err)
	}

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(c); err != nil {
		// An empty file leaves the defaults in place.
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("parsing config %s: %w", path, err)
	}
	return nil
}

// varPattern matches ${VAR} and ${VAR:-default}.
var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

func expandVars(s string, vars map[string]string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}

		name := parts[1]
		defaultValue := ""
		if len(parts) >= 3 {
			defaultValue = parts[2]
		}

		if value, ok := vars[name]; ok && value != "" {
			return value
		}
		if value := os.Getenv(name); value != "" {
			return value
		}
		return defaultValue
	})
}

// IdentityPolicy returns the configured identity policy.
func (c *Config) IdentityPolicy() (resource.Identity, error) {
	identity, ok := resource.IdentityByName(c.Identity)
	if !ok {
		return resource.Identity{}, fmt.Errorf("unknown identity %q (want %q or %q)",
			c.Identity, resource.NameIdentity.Name, resource.DomainNameIdentity.Name)
	}
	return identity, nil
}

// Validate checks the configuration for errors. All problems are
// reported together.
func (c *Config) Validate() error {
	var errs []error

	if _, err := c.IdentityPolicy(); err != nil {
		errs = append(errs, err)
	}

	if c.Output != "" {
		if _, err := ParseFormat(string(c.Output)); err != nil {
			errs = append(errs, fmt.Errorf("output: %w", err))
		}
	}

	seen := make(map[string]bool)
	for index, category := range c.Categories {
		errs = append(errs, validateCategory(category, fmt.Sprintf("categories[%d]", index), seen)...)
	}

	if c.DelayedSelection != "" && !seen[c.DelayedSelection] {
		errs = append(errs, fmt.Errorf("delayed_selection: no category named %q", c.DelayedSelection))
	}

	for index, identifier := range c.InitialSelection {
		if identifier.Name == "" {
			errs = append(errs, fmt.Errorf("initial_selection[%d]: name is required", index))
		}
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

func validateCategory(category CategoryConfig, path string, seen map[string]bool) []error {
	var errs []error
	switch {
	case category.Name == "":
		errs = append(errs, fmt.Errorf("%s: name is required", path))
	case category.Name == rootCategoryName:
		errs = append(errs, fmt.Errorf("%s: %q is reserved for the root category", path, rootCategoryName))
	case seen[category.Name]:
		errs = append(errs, fmt.Errorf("%s: duplicate category name %q", path, category.Name))
	}
	seen[category.Name] = true

	if _, err := category.Match.compile(); err != nil {
		errs = append(errs, fmt.Errorf("%s.match: %w", path, err))
	}

	for index, child := range category.Children {
		errs = append(errs, validateCategory(child, fmt.Sprintf("%s.children[%d]", path, index), seen)...)
	}
	return errs
}
