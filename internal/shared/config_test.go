package shared

import (
	"os"
	"path/filepath"
	"testing"
)

func TestConfig(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		config := DefaultConfig()

		if config.Database.Path != "./uplink.db" {
			t.Errorf("expected database path ./uplink.db, got %s", config.Database.Path)
		}

		if config.Server.Port != 3000 {
			t.Errorf("expected server port 3000, got %d", config.Server.Port)
		}

		if config.Upload.Endpoint != "http://127.0.0.1:3000/upload" {
			t.Errorf("expected upload endpoint http://127.0.0.1:3000/upload, got %s", config.Upload.Endpoint)
		}

		if config.Upload.Field != "images" {
			t.Errorf("expected upload field images, got %s", config.Upload.Field)
		}

		if config.Upload.MinBytes != 0 {
			t.Errorf("expected min_bytes 0 (built-in threshold), got %d", config.Upload.MinBytes)
		}
	})

	t.Run("CreateConfigFile", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		if err := CreateConfigFile(configPath); err != nil {
			t.Fatalf("failed to create config file: %v", err)
		}

		if _, err := os.Stat(configPath); err != nil {
			t.Fatalf("config file should exist: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load created config: %v", err)
		}

		defaultConfig := DefaultConfig()
		if config.Database.Path != defaultConfig.Database.Path {
			t.Errorf("created config database path doesn't match default")
		}

		if err := CreateConfigFile(configPath); err == nil {
			t.Error("creating config file again should fail")
		}
	})

	t.Run("LoadConfig", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		testConfig := `[upload]
endpoint = "https://calendars.example.com/2026/images/upload/"
page_url = "https://calendars.example.com/2026/images/upload/"
field = "photos"
min_bytes = 1048576

[database]
path = "/custom/path.db"
max_open_conns = 20
max_idle_conns = 10

[server]
host = "0.0.0.0"
port = 8080

[ui]
plain = true
`
		if err := os.WriteFile(configPath, []byte(testConfig), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}

		if config.Upload.Endpoint != "https://calendars.example.com/2026/images/upload/" {
			t.Errorf("unexpected upload endpoint: %s", config.Upload.Endpoint)
		}
		if config.Upload.Field != "photos" {
			t.Errorf("unexpected upload field: %s", config.Upload.Field)
		}
		if config.Upload.MinBytes != 1048576 {
			t.Errorf("unexpected min_bytes: %d", config.Upload.MinBytes)
		}
		if config.Database.Path != "/custom/path.db" {
			t.Errorf("unexpected database path: %s", config.Database.Path)
		}
		if config.Server.Port != 8080 {
			t.Errorf("unexpected server port: %d", config.Server.Port)
		}
		if !config.UI.Plain {
			t.Error("expected ui.plain to be true")
		}
	})

	t.Run("LoadConfigMissingFile", func(t *testing.T) {
		if _, err := LoadConfig("/nonexistent/config.toml"); err == nil {
			t.Error("loading a missing config file should fail")
		}
	})

	t.Run("LoadConfigMalformed", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")
		if err := os.WriteFile(configPath, []byte("[upload\nendpoint = "), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}
		if _, err := LoadConfig(configPath); err == nil {
			t.Error("loading a malformed config file should fail")
		}
	})
}
