package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// For mocking in tests
var osUserHomeDir = os.UserHomeDir
var osGetwd = os.Getwd

const (
	userConfigDir    = ".config/tstbuild"
	projectConfigDir = ".tstbuild"
	configFileName   = "config.yaml"
)

// LoadConfig loads the tstbuild configuration by layering default, user, and project settings.
func LoadConfig() (TstbuildConfig, error) {
	// 1. Start with the default configuration
	config := GetDefaultConfig()

	// 2. User-specific configuration
	userConfigPath, err := getUserConfigPath()
	if err != nil {
		// User config is optional
		fmt.Fprintf(os.Stderr, "Warning: Could not determine user config path: %v\n", err)
	} else {
		config, err = mergeFromFile(config, userConfigPath)
		if err != nil {
			return TstbuildConfig{}, fmt.Errorf("error loading user config from %s: %w", userConfigPath, err)
		}
	}

	// 3. Project-specific configuration
	projectConfigPath, err := getProjectConfigPath()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Could not determine project config path: %v\n", err)
	} else {
		config, err = mergeFromFile(config, projectConfigPath)
		if err != nil {
			return TstbuildConfig{}, fmt.Errorf("error loading project config from %s: %w", projectConfigPath, err)
		}
	}

	if err := validateConfig(config); err != nil {
		return TstbuildConfig{}, err
	}
	return config, nil
}

var getUserConfigPath = func() (string, error) {
	dir, err := GetUserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFileName), nil
}

var getProjectConfigPath = func() (string, error) {
	wd, err := osGetwd()
	if err != nil {
		return "", err
	}
	return filepath.Join(wd, projectConfigDir, configFileName), nil
}

func mergeFromFile(base TstbuildConfig, path string) (TstbuildConfig, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return base, nil
	}
	overlay, err := loadConfigFromFile(path)
	if err != nil {
		return TstbuildConfig{}, err
	}
	return mergeConfigs(base, overlay), nil
}

// loadConfigFromFile loads a TstbuildConfig from a YAML file.
func loadConfigFromFile(filePath string) (TstbuildConfig, error) {
	var config TstbuildConfig
	data, err := os.ReadFile(filePath)
	if err != nil {
		return TstbuildConfig{}, err
	}
	err = yaml.Unmarshal(data, &config)
	if err != nil {
		return TstbuildConfig{}, err
	}
	return config, nil
}

// mergeConfigs merges 'overlay' config into 'base' config.
func mergeConfigs(base, overlay TstbuildConfig) TstbuildConfig {
	merged := base

	if overlay.CatalogPath != "" {
		merged.CatalogPath = overlay.CatalogPath
	}
	if overlay.LogLevel != "" {
		merged.LogLevel = overlay.LogLevel
	}

	if overlay.Editor.HistoryFile != "" {
		merged.Editor.HistoryFile = overlay.Editor.HistoryFile
	}
	if overlay.Editor.Prompt != "" {
		merged.Editor.Prompt = overlay.Editor.Prompt
	}

	if overlay.Output.Format != "" {
		merged.Output.Format = overlay.Output.Format
	}
	// Only if explicitly set in overlay
	if overlay.Output.Color != nil {
		merged.Output.Color = overlay.Output.Color
	}

	return merged
}

func validateConfig(config TstbuildConfig) error {
	switch config.Output.Format {
	case OutputFormatTable, OutputFormatJSON, OutputFormatYAML:
	default:
		return fmt.Errorf("unsupported output format %q (supported: table, json, yaml)", config.Output.Format)
	}
	return nil
}

// GetUserConfigDir returns the user configuration directory path
func GetUserConfigDir() (string, error) {
	homeDir, err := osUserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, userConfigDir), nil
}
