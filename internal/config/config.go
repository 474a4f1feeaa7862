package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultAPIURL is used when no server is configured.
const DefaultAPIURL = "https://api.matrixlogger.io"

// Config represents the application configuration
type Config struct {
	APIURL       string `yaml:"api_url,omitempty"`
	Organization string `yaml:"organization,omitempty"` // slug of the default organization
}

// GetConfigDir returns the config directory path (~/.mxl)
func GetConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".mxl"
	}
	return filepath.Join(home, ".mxl")
}

// GetConfigPath returns the config file path (~/.mxl/config.yaml)
func GetConfigPath() string {
	return filepath.Join(GetConfigDir(), "config.yaml")
}

// LoadConfig loads the configuration from ~/.mxl/config.yaml
func LoadConfig() (*Config, error) {
	return loadConfigFrom(GetConfigPath())
}

func loadConfigFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Return empty config if file doesn't exist
			return &Config{}, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return &cfg, nil
}

// SaveConfig saves the configuration to ~/.mxl/config.yaml
func SaveConfig(cfg *Config) error {
	return saveConfigTo(GetConfigPath(), cfg)
}

func saveConfigTo(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// SetOrganization updates the default organization slug in the config
func SetOrganization(slug string) error {
	cfg, err := LoadConfig()
	if err != nil {
		cfg = &Config{}
	}

	cfg.Organization = slug
	return SaveConfig(cfg)
}

// GetSavedOrganization returns the saved organization slug from config
func GetSavedOrganization() string {
	cfg, err := LoadConfig()
	if err != nil {
		return ""
	}
	return cfg.Organization
}
