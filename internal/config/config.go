// Package config loads client configuration from a YAML file with
// environment-variable overrides.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the marketplace client configuration.
type Config struct {
	RPCEndpoint     string
	ProgramID       string
	Commitment      string
	KeypairPath     string
	RefreshInterval time.Duration
	MetricsListen   string
}

// fileConfig is the YAML shape. Durations are strings ("5s", "1m") because
// yaml.v3 has no native time.Duration decoding.
type fileConfig struct {
	RPCEndpoint     string `yaml:"rpc_endpoint"`
	ProgramID       string `yaml:"program_id"`
	Commitment      string `yaml:"commitment"`
	KeypairPath     string `yaml:"keypair_path"`
	RefreshInterval string `yaml:"refresh_interval"`
	MetricsListen   string `yaml:"metrics_listen"`
}

// Default returns the devnet defaults.
func Default() Config {
	return Config{
		RPCEndpoint:     "https://api.devnet.solana.com",
		ProgramID:       "341BQ4r4HykJSTSr9XKWeR2fDt9d5WCSUCn4VS4q7iyg",
		Commitment:      "confirmed",
		RefreshInterval: 5 * time.Second,
	}
}

// Load reads the config file at path (a missing file falls back to the
// defaults), then applies environment overrides.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return Config{}, fmt.Errorf("read config %s: %w", path, err)
			}
		} else {
			var fc fileConfig
			if err := yaml.Unmarshal(data, &fc); err != nil {
				return Config{}, fmt.Errorf("parse config %s: %w", path, err)
			}
			if err := cfg.applyFile(fc); err != nil {
				return Config{}, fmt.Errorf("config %s: %w", path, err)
			}
		}
	}

	if err := cfg.loadFromEnv(); err != nil {
		return Config{}, err
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyFile(fc fileConfig) error {
	if fc.RPCEndpoint != "" {
		c.RPCEndpoint = fc.RPCEndpoint
	}
	if fc.ProgramID != "" {
		c.ProgramID = fc.ProgramID
	}
	if fc.Commitment != "" {
		c.Commitment = fc.Commitment
	}
	if fc.KeypairPath != "" {
		c.KeypairPath = fc.KeypairPath
	}
	if fc.MetricsListen != "" {
		c.MetricsListen = fc.MetricsListen
	}
	if fc.RefreshInterval != "" {
		d, err := time.ParseDuration(fc.RefreshInterval)
		if err != nil {
			return fmt.Errorf("parse refresh_interval %q: %w", fc.RefreshInterval, err)
		}
		c.RefreshInterval = d
	}
	return nil
}

func (c *Config) loadFromEnv() error {
	if v := os.Getenv("DEXHIRE_RPC_ENDPOINT"); v != "" {
		c.RPCEndpoint = v
	}
	if v := os.Getenv("DEXHIRE_PROGRAM_ID"); v != "" {
		c.ProgramID = v
	}
	if v := os.Getenv("DEXHIRE_COMMITMENT"); v != "" {
		c.Commitment = v
	}
	if v := os.Getenv("DEXHIRE_KEYPAIR_PATH"); v != "" {
		c.KeypairPath = v
	}
	if v := os.Getenv("DEXHIRE_METRICS_LISTEN"); v != "" {
		c.MetricsListen = v
	}
	if v := os.Getenv("DEXHIRE_REFRESH_INTERVAL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("parse DEXHIRE_REFRESH_INTERVAL %q: %w", v, err)
		}
		c.RefreshInterval = d
	}
	return nil
}

func (c *Config) validate() error {
	if c.RPCEndpoint == "" {
		return fmt.Errorf("rpc_endpoint is required")
	}
	if c.ProgramID == "" {
		return fmt.Errorf("program_id is required")
	}
	if c.RefreshInterval < time.Second {
		return fmt.Errorf("refresh_interval %s is below 1s", c.RefreshInterval)
	}
	return nil
}
