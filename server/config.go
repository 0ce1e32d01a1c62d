package server

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"github.com/vitalvas/iris/httpwire"
)

// EnvPrefix is the prefix of the environment variables read by LoadConfig.
const EnvPrefix = "IRIS"

// ErrInvalidConfig is returned when a configuration value is out of range.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds the server settings.
type Config struct {
	Address        string        `yaml:"address" envconfig:"ADDRESS" default:":8080"`
	Workers        int           `yaml:"workers" envconfig:"WORKERS" default:"64"`
	ReadTimeout    time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT" default:"15s"`
	MaxHeaderBytes int           `yaml:"max_header_bytes" envconfig:"MAX_HEADER_BYTES" default:"1048576"`
	MaxBodyBytes   int64         `yaml:"max_body_bytes" envconfig:"MAX_BODY_BYTES" default:"10485760"`
	Logging        LoggingConfig `yaml:"logging" envconfig:"LOGGING"`
}

// LoggingConfig holds the logger settings.
type LoggingConfig struct {
	Level  string `yaml:"level" envconfig:"LEVEL" default:"info"`
	Format string `yaml:"format" envconfig:"FORMAT" default:"json"`
}

// LoadConfig builds the configuration from defaults and IRIS_* environment
// variables, then applies the YAML file at path when path is not empty.
// Values set in the file take precedence.
func LoadConfig(path string) (Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to process environment: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// DefaultConfig returns the configuration made of default values only.
func DefaultConfig() Config {
	return Config{
		Address:        ":8080",
		Workers:        64,
		ReadTimeout:    15 * time.Second,
		MaxHeaderBytes: 1 << 20,
		MaxBodyBytes:   10 << 20,
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Validate checks that the values are usable.
func (c Config) Validate() error {
	switch {
	case c.Address == "":
		return fmt.Errorf("%w: address is required", ErrInvalidConfig)
	case c.Workers <= 0:
		return fmt.Errorf("%w: workers must be greater than zero", ErrInvalidConfig)
	case c.ReadTimeout < 0:
		return fmt.Errorf("%w: read timeout must not be negative", ErrInvalidConfig)
	case c.MaxHeaderBytes <= 0:
		return fmt.Errorf("%w: max header bytes must be greater than zero", ErrInvalidConfig)
	case c.MaxBodyBytes <= 0:
		return fmt.Errorf("%w: max body bytes must be greater than zero", ErrInvalidConfig)
	}

	if _, err := parseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if _, err := handlerFor(c.Logging.Format); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	return nil
}

// Limits returns the request limits enforced while reading a connection.
func (c Config) Limits() httpwire.Limits {
	return httpwire.Limits{
		MaxHeaderBytes: c.MaxHeaderBytes,
		MaxBodyBytes:   c.MaxBodyBytes,
	}
}
