// Package engineconfig loads engine-wide tunables for the board engine.
// None of it is gameplay-visible. Config holds a log level, a render-cache
// size and a waiter-queue hint; a Board is built with Default(), so values
// read by Load and the environment overrides do not reach it, and nothing
// in this module applies LogLevel to a logger.
package engineconfig

import (
	"io/ioutil"
	"os"
	"strconv"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config is the engine-wide tunable set, loaded from YAML.
type Config struct {
	LogLevel        string `yaml:"log-level"`
	RenderCacheSize int    `yaml:"render-cache-size"`
	WaiterQueueHint int    `yaml:"waiter-queue-hint"`
}

// Default returns the engine's built-in defaults.
func Default() *Config {
	return &Config{
		LogLevel:        "info",
		RenderCacheSize: 256,
		WaiterQueueHint: 4,
	}
}

// Load reads a YAML config file, falling back to defaults for any field
// left unset, then applies environment overrides (see Environment).
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		raw, err := ioutil.ReadFile(path)
		if err != nil {
			return nil, errors.Wrapf(err, "unable to read engine config %s", path)
		}
		if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, errors.Wrapf(err, "unable to parse engine config %s", path)
		}
	}
	Environment.applyOverrides(cfg)
	return cfg, nil
}

// engineEnvironment mirrors the teacher's GameServerEnvironment helper:
// named env vars with typed, panic-on-bad-value accessors.
type engineEnvironment struct {
	LogLevel        string
	RenderCacheSize string
}

// Environment is a helper object for accessing environment variable
// overrides for the engine config.
var Environment = &engineEnvironment{
	LogLevel:        "BOARD_LOG_LEVEL",
	RenderCacheSize: "BOARD_RENDER_CACHE_SIZE",
}

func (e *engineEnvironment) applyOverrides(cfg *Config) {
	if v := os.Getenv(e.LogLevel); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv(e.RenderCacheSize); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			panic("invalid " + e.RenderCacheSize + ": " + v)
		}
		cfg.RenderCacheSize = n
	}
}
