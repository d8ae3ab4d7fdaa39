package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// ErrUnknownFormat is returned for file extensions without a decoder.
var ErrUnknownFormat = errors.New("unknown config format")

// Format names a config encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// FormatForPath picks the encoding from the file extension.
func FormatForPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	}
	return "", fmt.Errorf("%s: %w", path, ErrUnknownFormat)
}

// Load reads a config file on top of Default and validates the result.
func Load(path string) (SimulationConfig, error) {
	format, err := FormatForPath(path)
	if err != nil {
		return SimulationConfig{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return SimulationConfig{}, fmt.Errorf("read config: %w", err)
	}
	cfg, err := Decode(data, format)
	if err != nil {
		return SimulationConfig{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Decode parses data in the given format. Fields absent from data keep their
// default values.
func Decode(data []byte, format Format) (SimulationConfig, error) {
	cfg := Default()
	var err error
	switch format {
	case FormatJSON:
		err = json.Unmarshal(data, &cfg)
	case FormatYAML:
		err = yaml.Unmarshal(data, &cfg)
	case FormatTOML:
		err = toml.Unmarshal(data, &cfg)
	default:
		return SimulationConfig{}, ErrUnknownFormat
	}
	if err != nil {
		return SimulationConfig{}, fmt.Errorf("parse %s config: %w", format, err)
	}
	if err := cfg.Validate(); err != nil {
		return SimulationConfig{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Encode writes cfg in the given format.
func Encode(cfg SimulationConfig, format Format) ([]byte, error) {
	switch format {
	case FormatJSON:
		return json.MarshalIndent(cfg, "", "  ")
	case FormatYAML:
		return yaml.Marshal(cfg)
	case FormatTOML:
		return toml.Marshal(cfg)
	}
	return nil, ErrUnknownFormat
}

// Save writes cfg to path using the encoding implied by its extension.
func Save(path string, cfg SimulationConfig) error {
	format, err := FormatForPath(path)
	if err != nil {
		return err
	}
	data, err := Encode(cfg, format)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
