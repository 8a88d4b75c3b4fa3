package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

const (
	EnvKey             = "USERJAM_KEY"
	EnvEndpoint        = "USERJAM_ENDPOINT"
	EnvTimeout         = "USERJAM_TIMEOUT"
	EnvUserID          = "USERJAM_USER_ID"
	EnvEnableTelemetry = "USERJAM_ENABLE_TELEMETRY"
)

var ConfigFile = "config.yaml"

// DotEnvFile is read from the working directory if present. Variables that are
// already set in the environment win.
var DotEnvFile = ".env"

type Config struct {
	// Key is the tracking key sent as bearer token
	Key string `yaml:"key,omitempty"`

	// Endpoint overrides the report URL
	Endpoint string `yaml:"endpoint,omitempty"`

	// Timeout is the per request timeout
	Timeout time.Duration `yaml:"timeout,omitempty"`

	// UserID is used by the CLI when no user id is given and for CLI telemetry
	UserID string `yaml:"userId,omitempty"`

	// EnableTelemetry opts in to reporting CLI usage as cli_command events
	EnableTelemetry bool `yaml:"enableTelemetry,omitempty"`
}

// LoadConfig reads the config file at configPath, or the default location if
// empty, and applies the .env file and the environment on top. A missing file
// is not an error.
func LoadConfig(configPath string) (*Config, error) {
	config, err := LoadConfigFile(configPath)
	if err != nil {
		return nil, err
	}

	err = loadDotEnv(DotEnvFile)
	if err != nil {
		return nil, err
	}

	err = config.applyEnv()
	if err != nil {
		return nil, err
	}

	return config, nil
}

// LoadConfigFile reads only the config file, without environment overrides.
func LoadConfigFile(configPath string) (*Config, error) {
	if configPath == "" {
		var err error
		configPath, err = GetConfigPath()
		if err != nil {
			return nil, err
		}
	}

	config := &Config{}
	configBytes, err := os.ReadFile(configPath)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, errors.Wrap(err, "read config")
		}

		return config, nil
	}

	err = yaml.Unmarshal(configBytes, config)
	if err != nil {
		return nil, errors.Wrapf(err, "parse config %s", configPath)
	}

	return config, nil
}

// SaveConfig writes the config to configPath, or the default location if empty.
func SaveConfig(configPath string, config *Config) error {
	if configPath == "" {
		var err error
		configPath, err = GetConfigPath()
		if err != nil {
			return err
		}
	}

	out, err := yaml.Marshal(config)
	if err != nil {
		return err
	}

	err = os.MkdirAll(filepath.Dir(configPath), 0700)
	if err != nil {
		return errors.Wrap(err, "create config dir")
	}

	fileLock := flock.New(configPath + ".lock")
	err = fileLock.Lock()
	if err != nil {
		return errors.Wrap(err, "acquire config lock")
	}
	defer fileLock.Unlock()

	err = os.WriteFile(configPath, out, 0600)
	if err != nil {
		return errors.Wrap(err, "write config")
	}

	return nil
}

func loadDotEnv(file string) error {
	if file == "" {
		return nil
	}

	err := godotenv.Load(file)
	if err != nil && !os.IsNotExist(errors.Cause(err)) {
		return errors.Wrapf(err, "load %s", file)
	}

	return nil
}

func (c *Config) applyEnv() error {
	if key := strings.TrimSpace(os.Getenv(EnvKey)); key != "" {
		c.Key = key
	}
	if endpoint := strings.TrimSpace(os.Getenv(EnvEndpoint)); endpoint != "" {
		c.Endpoint = endpoint
	}
	if userID := strings.TrimSpace(os.Getenv(EnvUserID)); userID != "" {
		c.UserID = userID
	}
	if timeout := strings.TrimSpace(os.Getenv(EnvTimeout)); timeout != "" {
		parsed, err := time.ParseDuration(timeout)
		if err != nil {
			return errors.Wrapf(err, "parse %s", EnvTimeout)
		}
		c.Timeout = parsed
	}
	if enable := strings.TrimSpace(os.Getenv(EnvEnableTelemetry)); enable != "" {
		parsed, err := strconv.ParseBool(enable)
		if err != nil {
			return errors.Wrapf(err, "parse %s", EnvEnableTelemetry)
		}
		c.EnableTelemetry = parsed
	}

	return nil
}
