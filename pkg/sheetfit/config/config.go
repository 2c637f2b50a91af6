// Package config loads repair settings from a YAML file.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/ukaji3/sheetfit-go/pkg/sheetfit"
	"github.com/ukaji3/sheetfit-go/pkg/sheetfit/legacy"
	"github.com/ukaji3/sheetfit-go/pkg/sheetfit/models"
	"github.com/ukaji3/sheetfit-go/pkg/sheetfit/probe"
	"github.com/ukaji3/sheetfit-go/pkg/sheetfit/rebuild"
	"gopkg.in/yaml.v3"
)

// Config is the sheetfit.yml file. Sections left out keep their defaults.
type Config struct {
	Thresholds  probe.Thresholds `yaml:"thresholds"`
	Probe       probe.Limits     `yaml:"probe"`
	Floor       rebuild.Floor    `yaml:"floor"`
	ColumnWidth float64          `yaml:"column_width"`
	Palettes    []models.Palette `yaml:"palettes,omitempty"`
	// LegacyCharset is the text encoding assumed for old .xls strings.
	LegacyCharset string `yaml:"legacy_charset,omitempty"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Thresholds:  probe.DefaultThresholds(),
		Probe:       probe.DefaultLimits(),
		Floor:       rebuild.DefaultFloor(),
		ColumnWidth: rebuild.DefaultColumnWidth,
	}
}

// Load reads and validates the config file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML over the defaults and validates the result.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate rejects non-positive limits and malformed palettes.
func (c *Config) Validate() error {
	positive := []struct {
		name  string
		value int
	}{
		{"thresholds.ratio", c.Thresholds.Ratio},
		{"thresholds.min_rows", c.Thresholds.MinRows},
		{"thresholds.min_cols", c.Thresholds.MinCols},
		{"probe.full_scan_rows", c.Probe.FullScanRows},
		{"probe.forward_rows", c.Probe.ForwardRows},
		{"probe.reverse_rows", c.Probe.ReverseRows},
		{"probe.max_cols", c.Probe.MaxCols},
		{"floor.rows", c.Floor.Rows},
		{"floor.cols", c.Floor.Cols},
	}
	for _, p := range positive {
		if p.value <= 0 {
			return fmt.Errorf("%s must be > 0, got %d", p.name, p.value)
		}
	}
	if c.Probe.ForwardRows > c.Probe.FullScanRows {
		return fmt.Errorf("probe.forward_rows (%d) must not exceed probe.full_scan_rows (%d)", c.Probe.ForwardRows, c.Probe.FullScanRows)
	}
	if c.ColumnWidth <= 0 || c.ColumnWidth > 255 {
		return fmt.Errorf("column_width must be in (0, 255], got %g", c.ColumnWidth)
	}

	seen := make(map[string]bool)
	for i, p := range c.Palettes {
		if p.Name == "" {
			return fmt.Errorf("palettes[%d]: name is required", i)
		}
		if seen[p.Name] {
			return fmt.Errorf("duplicate palette name '%s'", p.Name)
		}
		seen[p.Name] = true
		colors := map[string]string{
			"tab_color":       p.TabColor,
			"header_fill":     p.HeaderFill,
			"header_font":     p.HeaderFont,
			"sub_header_fill": p.SubHeaderFill,
			"sub_header_font": p.SubHeaderFont,
		}
		for field, value := range colors {
			if !isRGB(value) {
				return fmt.Errorf("palette '%s': %s must be a 6-digit hex color, got %q", p.Name, field, value)
			}
		}
	}
	return nil
}

// Apply copies the settings into opts.
func (c *Config) Apply(opts *sheetfit.Options) {
	opts.Thresholds = c.Thresholds
	opts.Limits = c.Probe
	opts.Floor = c.Floor
	opts.ColumnWidth = c.ColumnWidth
	if len(c.Palettes) > 0 {
		opts.Palettes = c.Palettes
	}
	if c.LegacyCharset != "" {
		opts.Converter = legacy.XLSConverter{Charset: c.LegacyCharset}
	}
}

func isRGB(s string) bool {
	if len(s) != 6 {
		return false
	}
	return strings.Trim(strings.ToUpper(s), "0123456789ABCDEF") == ""
}
