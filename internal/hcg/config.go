package hcg

import (
	"fmt"
	"os"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"

	"github.com/c-daly/logos-sub004/internal/hcg/graph"
)

// Config is the top-level configuration for the hybrid causal graph layer.
type Config struct {
	// Graph configures the underlying graph database connection.
	Graph graph.GraphClientConfig `yaml:"graph" json:"graph" mapstructure:"graph"`

	// Traversal configures the causal traversal engine.
	Traversal TraversalConfig `yaml:"traversal" json:"traversal" mapstructure:"traversal"`
}

// TraversalConfig configures the causal traversal engine.
type TraversalConfig struct {
	// DefaultMaxDepth is the depth bound applied when a traversal call
	// does not supply one.
	DefaultMaxDepth int `yaml:"default_max_depth" json:"default_max_depth" mapstructure:"default_max_depth"`
}

// DefaultConfig returns a Config with sensible defaults for local
// development.
func DefaultConfig() Config {
	return Config{
		Graph:     graph.DefaultConfig(),
		Traversal: TraversalConfig{DefaultMaxDepth: 16},
	}
}

// ApplyDefaults fills in zero-valued fields with defaults.
func (c *TraversalConfig) ApplyDefaults() {
	if c.DefaultMaxDepth <= 0 {
		c.DefaultMaxDepth = 16
	}
}

// Validate checks the traversal configuration.
func (c *TraversalConfig) Validate() error {
	if c.DefaultMaxDepth < 0 {
		return fmt.Errorf("default_max_depth cannot be negative")
	}
	return nil
}

// ApplyDefaults fills in zero-valued fields with defaults.
func (c *Config) ApplyDefaults() {
	if c.Graph.URI == "" {
		c.Graph = graph.DefaultConfig()
	}
	c.Traversal.ApplyDefaults()
}

// Validate checks the full configuration.
func (c *Config) Validate() error {
	if err := c.Graph.Validate(); err != nil {
		return err
	}
	return c.Traversal.Validate()
}

// LoadConfig reads a YAML configuration file, applies defaults, and
// validates the result. Duration fields accept Go duration strings ("200ms",
// "10s").
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config file: %w", err)
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return Config{}, fmt.Errorf("failed to parse config file: %w", err)
	}

	var config Config
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:     &config,
		TagName:    "mapstructure",
		DecodeHook: mapstructure.StringToTimeDurationHookFunc(),
	})
	if err != nil {
		return Config{}, fmt.Errorf("failed to create config decoder: %w", err)
	}
	if err := decoder.Decode(raw); err != nil {
		return Config{}, fmt.Errorf("failed to decode config: %w", err)
	}

	config.ApplyDefaults()
	if err := config.Validate(); err != nil {
		return Config{}, err
	}
	return config, nil
}
