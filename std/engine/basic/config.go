package basic

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/named-data/ndnc/std/log"
	"github.com/named-data/ndnc/std/ndn"
	"github.com/named-data/ndnc/std/table"
)

// Config represents the configuration of the engine.
type Config struct {
	// Logging level
	LogLevel string `json:"log_level" toml:"log_level"`
	// Lifetime of Interests that do not carry one (in milliseconds)
	InterestLifetimeMs uint64 `json:"interest_lifetime_ms" toml:"interest_lifetime_ms"`
	// Pending Interest table
	Pit table.Config `json:"pit" toml:"pit"`
	// Interest handler table
	Fib table.Config `json:"fib" toml:"fib"`
}

func DefaultConfig() *Config {
	return &Config{
		LogLevel:           "INFO",
		InterestLifetimeMs: uint64(DefaultInterestLife / time.Millisecond),
	}
}

// ParseConfig reads a YAML configuration on top of the defaults.
// Unknown keys are rejected. An empty document yields the defaults.
func ParseConfig(r io.Reader) (*Config, error) {
	c := DefaultConfig()
	dec := yaml.NewDecoder(r, yaml.Strict())
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("unable to parse engine configuration: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) Validate() error {
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	if c.InterestLifetimeMs == 0 {
		return ndn.ErrInvalidValue{Item: "interest_lifetime_ms", Value: c.InterestLifetimeMs}
	}
	if c.Pit.HighWater < 0 {
		return ndn.ErrInvalidValue{Item: "pit.high_water", Value: c.Pit.HighWater}
	}
	if c.Fib.HighWater < 0 {
		return ndn.ErrInvalidValue{Item: "fib.high_water", Value: c.Fib.HighWater}
	}
	return nil
}

// InterestLifetime is the default Interest lifetime as a duration.
func (c *Config) InterestLifetime() time.Duration {
	return time.Duration(c.InterestLifetimeMs) * time.Millisecond
}
