// Package config loads stackteams settings from file and environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	configFileName = "config.yaml"
	configDirName  = "stackteams"
)

// duration wraps time.Duration for YAML unmarshaling.
type duration struct {
	d time.Duration
}

func (d *duration) unmarshalText(s string) error {
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	d.d = parsed
	return nil
}

func (d *duration) UnmarshalYAML(value *yaml.Node) error {
	return d.unmarshalText(value.Value)
}

func (d *duration) Duration() time.Duration {
	return d.d
}

// Config for stackteams. Pointer fields; nil = unset.
//
// APIKey, Team and BaseURL are not required at load time: requests made
// without them fail at call time with an API error instead.
type Config struct {
	APIKey   *string   `yaml:"api_key"`
	Team     *string   `yaml:"team"`
	BaseURL  *string   `yaml:"base_url"`
	Timeout  *duration `yaml:"timeout"`
	PageSize *int      `yaml:"pagesize"`
	Filter   *string   `yaml:"filter"`
}

// LoadFrom loads config from path. Missing files return zero Config, nil.
// A .env file in the working directory is read first, if present.
func LoadFrom(path string) (Config, error) {
	_ = godotenv.Load()

	var cfg Config

	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	} else if len(data) > 0 {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config file: %w", err)
		}
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return Config{}, err
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func Load() (Config, error) {
	return LoadFrom(defaultConfigPath())
}

func (c *Config) applyEnvOverrides() error {
	if v, ok := os.LookupEnv("API_KEY"); ok {
		c.APIKey = &v
	}
	if v, ok := os.LookupEnv("TEAM"); ok {
		c.Team = &v
	}
	if v, ok := os.LookupEnv("BASE_URL"); ok {
		c.BaseURL = &v
	}
	if v, ok := os.LookupEnv("STACKTEAMS_TIMEOUT"); ok {
		d := &duration{}
		if err := d.unmarshalText(v); err != nil {
			return fmt.Errorf("parse STACKTEAMS_TIMEOUT: %w", err)
		}
		c.Timeout = d
	}
	if v, ok := os.LookupEnv("STACKTEAMS_PAGESIZE"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("parse STACKTEAMS_PAGESIZE: %w", err)
		}
		c.PageSize = &n
	}
	if v, ok := os.LookupEnv("STACKTEAMS_FILTER"); ok {
		c.Filter = &v
	}
	return nil
}

func (c *Config) validate() error {
	if c.Timeout != nil && c.Timeout.Duration() <= 0 {
		return fmt.Errorf("timeout must be positive, got %v", c.Timeout.Duration())
	}
	if c.Timeout != nil && c.Timeout.Duration() > 2*time.Minute {
		return fmt.Errorf("timeout must not exceed 2m, got %v", c.Timeout.Duration())
	}
	if c.PageSize != nil && *c.PageSize <= 0 {
		return fmt.Errorf("pagesize must be positive, got %d", *c.PageSize)
	}
	if c.PageSize != nil && *c.PageSize > 100 {
		return fmt.Errorf("pagesize must not exceed 100, got %d", *c.PageSize)
	}
	return nil
}

func defaultConfigPath() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, configDirName, configFileName)
}
