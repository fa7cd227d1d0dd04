// Package config provides configuration loading and management for simmla.
// It handles loading configuration from YAML or JSON5 files and provides
// default values.
package config

import (
	stdjson "encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	json "github.com/KevinWang15/go-json5"
	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig is returned by Validate for out-of-range settings.
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Config represents the application configuration loaded from YAML or JSON5
type Config struct {
	// Grid parameters of the microlens array
	Grid struct {
		// NumSubgrids is the number of lenslets (subgrids) along one side; must be odd
		NumSubgrids int `yaml:"numSubgrids" json:"numSubgrids"`

		// SubgridSize is the number of samples per lenslet along one side; must be odd
		SubgridSize int `yaml:"subgridSize" json:"subgridSize"`

		// PhysicalSize is the full extent of the array in meters
		PhysicalSize float64 `yaml:"physicalSize" json:"physicalSize"`

		// Wavelength of the field in meters
		Wavelength float64 `yaml:"wavelength" json:"wavelength"`

		// FocalLength of every lenslet in meters
		FocalLength float64 `yaml:"focalLength" json:"focalLength"`

		// Dimension selects a 1D or 2D simulation
		Dimension int `yaml:"dimension" json:"dimension"`
	} `yaml:"grid" json:"grid"`

	// Beam incident on the array
	Beam struct {
		// Kind is one of gaussian, planewave or tophat
		Kind string `yaml:"kind" json:"kind"`

		// Power carried by the beam
		Power float64 `yaml:"power" json:"power"`

		// Width is the Gaussian standard deviation or the top hat radius in meters
		Width float64 `yaml:"width" json:"width"`

		OffsetX float64 `yaml:"offsetX" json:"offsetX"`
		OffsetY float64 `yaml:"offsetY" json:"offsetY"`
	} `yaml:"beam" json:"beam"`

	// Transform parameters for the per-subgrid Fourier transform
	Transform struct {
		// Clip zeroes the 1D transform outside each lenslet's aperture
		Clip bool `yaml:"clip" json:"clip"`

		// Workers is how many subgrids are transformed concurrently
		Workers int `yaml:"workers" json:"workers"`
	} `yaml:"transform" json:"transform"`

	// Propagation of the input field before it reaches the array (1D only)
	Propagation struct {
		// Distance in meters; negative values propagate backwards
		Distance float64 `yaml:"distance" json:"distance"`

		// SuppressEvanescent keeps spatial frequencies beyond 1/wavelength undamped
		SuppressEvanescent bool `yaml:"suppressEvanescent" json:"suppressEvanescent"`
	} `yaml:"propagation" json:"propagation"`

	// Output parameters
	Output struct {
		// Dir receives the CSV and PNG results
		Dir string `yaml:"dir" json:"dir"`

		// QuerySamples is the number of focal-plane samples per side
		QuerySamples int `yaml:"querySamples" json:"querySamples"`

		CSV bool `yaml:"csv" json:"csv"`
		PNG bool `yaml:"png" json:"png"`

		// Verbose controls the level of logging output
		Verbose bool `yaml:"verbose" json:"verbose"`
	} `yaml:"output" json:"output"`
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	cfg := &Config{}

	// Eleven 300 um lenslets sampled with 51 points each
	cfg.Grid.NumSubgrids = 11
	cfg.Grid.SubgridSize = 51
	cfg.Grid.PhysicalSize = 3.3e-3
	cfg.Grid.Wavelength = 0.642e-6
	cfg.Grid.FocalLength = 36.4e-3
	cfg.Grid.Dimension = 1

	cfg.Beam.Kind = "gaussian"
	cfg.Beam.Power = 1
	cfg.Beam.Width = 1e-3

	cfg.Transform.Clip = true
	cfg.Transform.Workers = runtime.NumCPU()

	cfg.Output.Dir = "output"
	cfg.Output.QuerySamples = 1001
	cfg.Output.CSV = true
	cfg.Output.PNG = true
	cfg.Output.Verbose = true

	return cfg
}

// isJSON5 reports whether path names a JSON or JSON5 document
func isJSON5(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".json5":
		return true
	}
	return false
}

// LoadConfig loads configuration from a YAML file, or from a JSON5 file when
// the extension is .json or .json5.
// If the file doesn't exist, it returns the default configuration
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	// Check if config file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return cfg, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	if isJSON5(configPath) {
		err = json.Unmarshal(data, cfg)
	} else {
		err = yaml.Unmarshal(data, cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	return cfg, nil
}

// SaveConfig saves the configuration to a YAML file, or to a plain JSON file
// (which is also valid JSON5) when the extension is .json or .json5
func SaveConfig(cfg *Config, configPath string) error {
	// Create directory if it doesn't exist
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	var (
		data []byte
		err  error
	)
	if isJSON5(configPath) {
		data, err = stdjson.MarshalIndent(cfg, "", "  ")
	} else {
		data, err = yaml.Marshal(cfg)
	}
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}

	return nil
}

// CreateDefaultConfigFile creates a default configuration file at the specified path
func CreateDefaultConfigFile(configPath string) error {
	cfg := DefaultConfig()
	return SaveConfig(cfg, configPath)
}

// Validate checks that every setting is in range. All problems are reported
// together, wrapped around ErrInvalidConfig.
func (c *Config) Validate() error {
	var problems []string
	add := func(format string, args ...any) {
		problems = append(problems, fmt.Sprintf(format, args...))
	}
	positive := func(name string, v float64) {
		if !(v > 0) || math.IsInf(v, 0) {
			add("%s must be positive and finite, got %g", name, v)
		}
	}

	if c.Grid.NumSubgrids <= 0 || c.Grid.NumSubgrids%2 == 0 {
		add("grid.numSubgrids must be odd and positive, got %d", c.Grid.NumSubgrids)
	}
	if c.Grid.SubgridSize <= 0 || c.Grid.SubgridSize%2 == 0 {
		add("grid.subgridSize must be odd and positive, got %d", c.Grid.SubgridSize)
	}
	positive("grid.physicalSize", c.Grid.PhysicalSize)
	positive("grid.wavelength", c.Grid.Wavelength)
	positive("grid.focalLength", c.Grid.FocalLength)
	if c.Grid.Dimension != 1 && c.Grid.Dimension != 2 {
		add("grid.dimension must be 1 or 2, got %d", c.Grid.Dimension)
	}

	switch strings.ToLower(c.Beam.Kind) {
	case "gaussian", "tophat":
		positive("beam.width", c.Beam.Width)
	case "planewave":
	default:
		add("beam.kind must be gaussian, planewave or tophat, got %q", c.Beam.Kind)
	}
	if c.Beam.Power < 0 || math.IsNaN(c.Beam.Power) || math.IsInf(c.Beam.Power, 0) {
		add("beam.power must be non-negative and finite, got %g", c.Beam.Power)
	}

	if c.Transform.Workers < 1 {
		add("transform.workers must be at least 1, got %d", c.Transform.Workers)
	}

	if math.IsNaN(c.Propagation.Distance) || math.IsInf(c.Propagation.Distance, 0) {
		add("propagation.distance must be finite, got %g", c.Propagation.Distance)
	}
	if c.Propagation.Distance != 0 && c.Grid.Dimension == 2 {
		add("propagation.distance is only supported for 1D simulations")
	}

	if c.Output.QuerySamples < 2 {
		add("output.querySamples must be at least 2, got %d", c.Output.QuerySamples)
	}
	if (c.Output.CSV || c.Output.PNG) && c.Output.Dir == "" {
		add("output.dir is required when csv or png output is enabled")
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(problems, "; "))
	}
	return nil
}
