// Package config loads the application configuration from an optional
// config.yaml. Every field has a default; a missing file just means
// defaults, so the binary runs with nothing but the model artifact next to
// it.
package config

import (
	"os"

	"gopkg.in/yaml.v2"

	"github.com/JosMR1003/aplicacion-flotacion/internal/model"
	"github.com/JosMR1003/aplicacion-flotacion/pkg/errors"
)

// Config is the full application configuration.
type Config struct {
	Server struct {
		Port           int     `yaml:"port"`
		TimeoutSeconds int     `yaml:"timeout_seconds"`
		RateLimit      float64 `yaml:"rate_limit"`
		RateBurst      int     `yaml:"rate_burst"`
	} `yaml:"server"`
	Model struct {
		Path string `yaml:"path"`
	} `yaml:"model"`
	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`
}

// Default returns the configuration used when no file overrides it.
func Default() Config {
	var cfg Config
	cfg.Server.Port = 8000
	cfg.Server.TimeoutSeconds = 30
	cfg.Server.RateLimit = 10
	cfg.Server.RateBurst = 20
	cfg.Model.Path = model.DefaultArtifactPath
	cfg.Log.Level = "info"
	return cfg
}

// Load reads the configuration file at path. A missing file yields the
// defaults without error; a present but unparsable file is an error.
// Fields absent from the file keep their default values.
func Load(path string) (Config, error) {
	cfg := Default()

	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, errors.Wrapf(err, "open config %q", path)
	}
	defer file.Close()

	if err := yaml.NewDecoder(file).Decode(&cfg); err != nil {
		return cfg, errors.Wrapf(err, "parse config %q", path)
	}
	if cfg.Server.Port <= 0 {
		cfg.Server.Port = Default().Server.Port
	}
	if cfg.Model.Path == "" {
		cfg.Model.Path = model.DefaultArtifactPath
	}
	return cfg, nil
}
