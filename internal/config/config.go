// Package config loads the server configuration from a YAML file with
// environment overrides.
package config

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Config holds the runtime settings of the server process. Azure
// credentials live in the database, not here.
type Config struct {
	Addr      string `yaml:"addr"       mapstructure:"addr"`
	DBPath    string `yaml:"db_path"    mapstructure:"db_path"`
	StaticDir string `yaml:"static_dir" mapstructure:"static_dir"`
}

// DefaultPath is where the server looks for its config file when no
// path is given.
const DefaultPath = "azurebridge.yaml"

// Load reads config from the YAML file and applies env var overrides.
// A missing file is fine; defaults and env vars still apply.
func Load(configPath string) (Config, error) {
	v := viper.New()

	if configPath == "" {
		configPath = DefaultPath
	}

	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	v.SetDefault("addr", ":8080")
	v.SetDefault("db_path", "data/azurebridge.db")
	v.SetDefault("static_dir", "web/dist")

	v.BindEnv("addr", "AZB_ADDR")
	v.BindEnv("db_path", "AZB_DB_PATH")
	v.BindEnv("static_dir", "AZB_STATIC_DIR")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			if !os.IsNotExist(err) {
				return Config{}, fmt.Errorf("reading config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}

	return cfg, nil
}

// Validate checks that required fields are present.
func (c Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("listen address is required (set addr in config file or AZB_ADDR env var)")
	}
	if c.DBPath == "" {
		return fmt.Errorf("database path is required (set db_path in config file or AZB_DB_PATH env var)")
	}
	return nil
}

// Save writes the config to the given path (or the default path if
// empty).
func Save(cfg Config, configPath string) error {
	if configPath == "" {
		configPath = DefaultPath
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0o600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}
