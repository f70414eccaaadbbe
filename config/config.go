package config

import (
	"os"
	"path/filepath"
	"regexp"

	"github.com/grovetools/chime/errors"
	"github.com/grovetools/chime/pkg/paths"
	"gopkg.in/yaml.v3"
)

var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

// Load reads and parses a Chime configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.ConfigNotFound(path)
		}
		return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "failed to read config file").
			WithDetail("path", path)
	}

	return LoadFromBytes(data)
}

// LoadDefault loads the configuration from the default location
// (CHIME_CONFIG, else <config dir>/chime.yml). A missing file is not an
// error: the hub runs fine on built-in defaults.
func LoadDefault() (*Config, error) {
	path := paths.ConfigFile()
	if path == "" {
		return Default(), nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Default(), nil
	}
	return Load(path)
}

// Default returns a configuration with every section at its default value.
func Default() *Config {
	cfg := &Config{}
	cfg.SetDefaults()
	return cfg
}

// LoadFromBytes parses configuration from a byte slice.
func LoadFromBytes(data []byte) (*Config, error) {
	// Expand environment variables
	expanded := expandEnvVars(string(data))

	var config Config
	if err := yaml.Unmarshal([]byte(expanded), &config); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "failed to parse YAML configuration")
	}

	// Set defaults before validation so absent sections validate cleanly
	config.SetDefaults()

	// Validate against the generated schema
	validator, err := NewSchemaValidator()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "failed to create validator")
	}
	if err := validator.Validate(&config); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeConfigValidation, "schema validation failed")
	}

	// Additional semantic validation
	if err := config.Validate(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "semantic validation failed")
	}

	return &config, nil
}

// Save writes the configuration to the given path, creating the parent
// directory if needed. Used by the settings API to persist channel toggles.
func Save(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrap(err, errors.ErrCodeConfigInvalid, "failed to create config directory").
			WithDetail("path", path)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeConfigInvalid, "failed to marshal configuration")
	}

	// Write via a temp file so a crash mid-write never truncates chime.yml
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return errors.Wrap(err, errors.ErrCodeConfigInvalid, "failed to write configuration").
			WithDetail("path", tmp)
	}
	if err := os.Rename(tmp, path); err != nil {
		return errors.Wrap(err, errors.ErrCodeConfigInvalid, "failed to replace configuration").
			WithDetail("path", path)
	}
	return nil
}

// expandEnvVars replaces ${VAR} references with environment values.
// Unset variables expand to the empty string.
func expandEnvVars(content string) string {
	return envVarRegex.ReplaceAllStringFunc(content, func(match string) string {
		name := envVarRegex.FindStringSubmatch(match)[1]
		return os.Getenv(name)
	})
}
