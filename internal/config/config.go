// Package config loads the YAML configuration driving the lucent CLI.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds all lucent configuration.
type Config struct {
	// Attribution method settings
	Attribution AttributionConfig `yaml:"attribution"`

	// Rendering settings
	Render RenderConfig `yaml:"render"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`
}

// AttributionConfig selects and tunes the attribution method.
type AttributionConfig struct {
	Method  string  `yaml:"method"`  // lrp, ig, gradient
	Epsilon float64 `yaml:"epsilon"` // lrp stabilizer
	Steps   int     `yaml:"steps"`   // ig path resolution
}

// RenderConfig configures the HTML and word-cloud renderers.
type RenderConfig struct {
	FontSize     string  `yaml:"font_size"`
	OutputFile   string  `yaml:"output_file"` // html path without extension
	PosColormap  string  `yaml:"pos_colormap"`
	NegColormap  string  `yaml:"neg_colormap"`
	HighlightOOV bool    `yaml:"highlight_oov"`
	PosColor     string  `yaml:"pos_color"` // word-cloud positive bucket
	NegColor     string  `yaml:"neg_color"` // word-cloud negative bucket
	Threshold    float64 `yaml:"threshold"` // word-cloud bucket split
	WordCloud    bool    `yaml:"word_cloud"`
	MaskFile     string  `yaml:"mask_file"`
}

// LoggingConfig configures the zap logger.
type LoggingConfig struct {
	Level       string `yaml:"level"`       // debug, info, warn, error
	Development bool   `yaml:"development"` // console encoder, debug defaults
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	return &Config{
		Attribution: AttributionConfig{
			Method:  "lrp",
			Epsilon: 1e-4,
			Steps:   100,
		},
		Render: RenderConfig{
			FontSize:    "12pt",
			OutputFile:  "rendered",
			PosColormap: "Reds",
			NegColormap: "Blues",
			PosColor:    "blue",
			NegColor:    "red",
			Threshold:   0.1,
			WordCloud:   true,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load reads configuration from a YAML file, falling back to defaults when
// the file does not exist.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return cfg, nil
}

// Save writes the configuration to a YAML file.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// Validate checks the configuration for values the attribution and render
// layers would reject.
func (c *Config) Validate() error {
	switch c.Attribution.Method {
	case "lrp", "ig", "gradient":
	default:
		return fmt.Errorf("unknown attribution method %q", c.Attribution.Method)
	}
	if c.Attribution.Method == "lrp" && c.Attribution.Epsilon <= 0 {
		return fmt.Errorf("lrp epsilon must be > 0, got %g", c.Attribution.Epsilon)
	}
	if c.Attribution.Method == "ig" && c.Attribution.Steps < 1 {
		return fmt.Errorf("ig steps must be >= 1, got %d", c.Attribution.Steps)
	}
	switch c.Logging.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level %q", c.Logging.Level)
	}
	return nil
}
