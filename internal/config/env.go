package config

import (
	"fmt"
	"os"
	"strings"
)

// Environment variable names.
const (
	EnvConfigPath = "SKETCH_MCP_CONFIG"
	EnvModelURL   = "SKETCH_MODEL_URL"
	EnvLogLevel   = "SKETCH_MCP_LOG_LEVEL"
)

// Environment is the process-level configuration read from the environment.
type Environment struct {
	ConfigPath string
	ModelURL   string
	LogLevel   string
}

// LoadEnvironment reads the environment variables, applying defaults.
func LoadEnvironment() *Environment {
	return &Environment{
		ConfigPath: getEnv(EnvConfigPath, ""),
		ModelURL:   getEnv(EnvModelURL, ""),
		LogLevel:   strings.ToLower(getEnv(EnvLogLevel, "info")),
	}
}

// Debug reports whether debug logging was requested.
func (e *Environment) Debug() bool {
	return e.LogLevel == "debug"
}

// Resolve builds the effective tuning configuration: stock defaults, then
// the file at path (or ConfigPath when path is empty), then the model URL
// from the environment.
func (e *Environment) Resolve(path string) (*TuningConfig, error) {
	cfg := DefaultTuningConfig()

	if path == "" {
		path = e.ConfigPath
	}
	if path != "" {
		fileCfg, err := LoadTuningConfig(path)
		if err != nil {
			return nil, err
		}
		cfg = cfg.Merge(fileCfg)
	}

	if e.ModelURL != "" {
		cfg = cfg.Merge(&TuningConfig{ModelURL: ptrString(e.ModelURL)})
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("invalid %s: %w", EnvModelURL, err)
		}
	}

	return cfg, nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
