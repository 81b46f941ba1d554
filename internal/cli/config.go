package cli

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config holds CLI configuration
type Config struct {
	ServerURL string `env:"DUELSMP_SERVER" envDefault:"http://localhost:8080"`
	Output    string `env:"DUELSMP_OUTPUT" envDefault:"text"`
}

// DefaultConfig returns a Config populated from the environment
func DefaultConfig() *Config {
	c := &Config{}
	if err := env.Parse(c); err != nil {
		// Only malformed values fail, and both fields are plain strings
		return &Config{ServerURL: "http://localhost:8080", Output: "text"}
	}
	return c
}

// Validate checks flag values after parsing
func (c *Config) Validate() error {
	if c.ServerURL == "" {
		return fmt.Errorf("--server must not be empty")
	}
	if c.Output != "text" && c.Output != "json" {
		return fmt.Errorf("--output must be text or json, got %q", c.Output)
	}
	return nil
}
