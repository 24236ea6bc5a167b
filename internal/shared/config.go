package shared

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Upload   UploadConfig   `toml:"upload"`
	Database DatabaseConfig `toml:"database"`
	Server   ServerConfig   `toml:"server"`
	UI       UIConfig       `toml:"ui"`
}

// UploadConfig contains defaults for upload sessions.
type UploadConfig struct {
	Endpoint string `toml:"endpoint"`  // default form action URL
	PageURL  string `toml:"page_url"`  // URL the submission originates from; falls back to Endpoint
	Field    string `toml:"field"`     // form field name files are attached to
	MinBytes int64  `toml:"min_bytes"` // eligibility size threshold override; 0 keeps the built-in 5 MiB
}

// DatabaseConfig contains session history database settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// ServerConfig contains settings for the dev receiver server.
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// UIConfig contains presenter settings.
type UIConfig struct {
	Plain bool `toml:"plain"` // line-based output instead of the TUI modal
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return &config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	// Check if file already exists
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s: %w", path, err)
	}

	// Write the embedded example config to the file
	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
