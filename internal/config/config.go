// Package config handles layered YAML configuration with environment overrides.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds all rolodex configuration.
type Config struct {
	Book       Book       `yaml:"book"`
	Validation Validation `yaml:"validation"`
	Display    Display    `yaml:"display"`
}

// Book holds persistence settings.
type Book struct {
	Path string `yaml:"path"`
}

// Validation holds field format settings.
type Validation struct {
	PhoneMinDigits int `yaml:"phone_min_digits"`
}

// Display holds listing settings.
type Display struct {
	DefaultSort string `yaml:"default_sort"` // "name" | "phone" | "email" | "none"
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Book: Book{
			Path: "contacts.json",
		},
		Validation: Validation{
			PhoneMinDigits: 5,
		},
		Display: Display{
			DefaultSort: "none",
		},
	}
}

// Load reads a single YAML config file at path and returns a Config.
// For merging multiple config sources, use LoadLayered instead.
// If the file does not exist, defaults are returned without error.
// If the file contains invalid YAML or unknown fields, an error is returned.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &cfg, nil
		}
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}

	if len(data) == 0 {
		return &cfg, nil
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		// Comment-only YAML files produce EOF with no decoded content.
		if errors.Is(err, io.EOF) {
			return &cfg, nil
		}
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}

	return &cfg, nil
}

// LoadLayered loads config from multiple paths with increasing priority.
// Later paths override earlier ones. Missing files are skipped.
func LoadLayered(paths ...string) (*Config, error) {
	cfg := DefaultConfig()

	for _, path := range paths {
		layer, err := loadLayer(path)
		if err != nil {
			return nil, err
		}
		if layer == nil {
			continue
		}
		cfg.merge(layer)
	}

	return &cfg, nil
}

// Validate checks that config values are usable.
func (c *Config) Validate() error {
	if c.Book.Path == "" {
		return errors.New("config: book.path cannot be empty")
	}
	if c.Validation.PhoneMinDigits <= 0 {
		return fmt.Errorf("config: validation.phone_min_digits must be positive, got %d", c.Validation.PhoneMinDigits)
	}
	switch c.Display.DefaultSort {
	case "", "none", "name", "phone", "email":
		// valid
	default:
		return fmt.Errorf("config: display.default_sort must be one of name, phone, email, none, got %q", c.Display.DefaultSort)
	}
	return nil
}

// ApplyEnv applies environment variable overrides to the config.
// Supported variables: ROLODEX_BOOK_PATH, ROLODEX_PHONE_MIN_DIGITS,
// ROLODEX_DEFAULT_SORT.
func (c *Config) ApplyEnv() error {
	if v := os.Getenv("ROLODEX_BOOK_PATH"); v != "" {
		c.Book.Path = v
	}
	if v := os.Getenv("ROLODEX_PHONE_MIN_DIGITS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config: invalid ROLODEX_PHONE_MIN_DIGITS %q: %w", v, err)
		}
		c.Validation.PhoneMinDigits = n
	}
	if v := os.Getenv("ROLODEX_DEFAULT_SORT"); v != "" {
		c.Display.DefaultSort = v
	}
	return nil
}

// rawConfig mirrors Config but uses pointers to distinguish set vs unset fields.
type rawConfig struct {
	Book       *rawBook       `yaml:"book"`
	Validation *rawValidation `yaml:"validation"`
	Display    *rawDisplay    `yaml:"display"`
}

type rawBook struct {
	Path *string `yaml:"path"`
}

type rawValidation struct {
	PhoneMinDigits *int `yaml:"phone_min_digits"`
}

type rawDisplay struct {
	DefaultSort *string `yaml:"default_sort"`
}

// loadLayer reads a single config file into a rawConfig for selective merging.
// Returns nil if the file does not exist. Rejects unknown fields.
func loadLayer(path string) (*rawConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}

	if len(data) == 0 {
		return nil, nil
	}

	var raw rawConfig
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}

	return &raw, nil
}

// merge applies non-nil fields from a rawConfig layer onto this Config.
func (c *Config) merge(layer *rawConfig) {
	if layer.Book != nil {
		if layer.Book.Path != nil {
			c.Book.Path = *layer.Book.Path
		}
	}
	if layer.Validation != nil {
		if layer.Validation.PhoneMinDigits != nil {
			c.Validation.PhoneMinDigits = *layer.Validation.PhoneMinDigits
		}
	}
	if layer.Display != nil {
		if layer.Display.DefaultSort != nil {
			c.Display.DefaultSort = *layer.Display.DefaultSort
		}
	}
}
