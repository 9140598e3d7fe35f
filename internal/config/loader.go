package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"lineage/pkg/logging"

	"gopkg.in/yaml.v3"
)

const (
	userConfigDir  = ".config/lineage"
	configFileName = "config.yaml"
)

func GetDefaultConfigPathOrPanic() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		panic(fmt.Errorf("could not determine user config directory: %w", err))
	}

	return filepath.Join(homeDir, userConfigDir)
}

// GetDefaultConfig returns the default configuration.
func GetDefaultConfig() Config {
	return Config{
		Server: Server{
			Host:    "localhost",
			Port:    8090,
			Name:    "lineage MCP Server",
			Version: "1.0.0",
		},
		OAuth: OAuth{
			DataDir:            filepath.Join(GetDefaultConfigPathOrPanic(), "oauth"),
			ExpirationInterval: "1h",
		},
	}
}

// LoadConfig loads configuration from a single specified directory. The
// directory should contain config.yaml; a missing file yields defaults.
func LoadConfig(configPath string) (Config, error) {
	configFilePath := filepath.Join(configPath, configFileName)
	config := GetDefaultConfig()

	data, err := os.ReadFile(configFilePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logging.Info("ConfigLoader", "No config.yaml found at %s, using defaults", configFilePath)
			return config, nil
		}
		logging.Info("ConfigLoader", "Error loading config.yaml from %s: %s", configFilePath, err)
		return Config{}, err
	}
	err = yaml.Unmarshal(data, &config)
	if err != nil {
		// config malformed
		return Config{}, fmt.Errorf("error loading config from %s: %w", configFilePath, err)
	}
	logging.Info("ConfigLoader", "Loaded configuration from %s", configFilePath)
	return config, nil
}
