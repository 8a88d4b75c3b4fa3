package config

import (
	"os"
	"path/filepath"

	homedir "github.com/mitchellh/go-homedir"
)

// Override userjam home
const USERJAM_HOME = "USERJAM_HOME"

// Override config path
const USERJAM_CONFIG = "USERJAM_CONFIG"

func GetConfigDir() (string, error) {
	homeDir := os.Getenv(USERJAM_HOME)
	if homeDir != "" {
		return homeDir, nil
	}

	homeDir, err := homedir.Dir()
	if err != nil {
		return "", err
	}

	configDir := filepath.Join(homeDir, ".userjam")
	return configDir, nil
}

func GetConfigPath() (string, error) {
	configOrigin := os.Getenv(USERJAM_CONFIG)
	if configOrigin == "" {
		configDir, err := GetConfigDir()
		if err != nil {
			return "", err
		}

		return filepath.Join(configDir, ConfigFile), nil
	}

	return configOrigin, nil
}
