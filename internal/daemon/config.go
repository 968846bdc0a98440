// Package daemon manages the NutriBot daemon lifecycle and configuration.
package daemon

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Config holds all daemon configuration.
type Config struct {
	Server  ServerConfig  `toml:"server"`
	Storage StorageConfig `toml:"storage"`
	AI      AIConfig      `toml:"ai"`
	Images  ImagesConfig  `toml:"images"`
	Logging LoggingConfig `toml:"logging"`
}

// ServerConfig controls the HTTP API server.
type ServerConfig struct {
	Host        string   `toml:"host"`
	Port        int      `toml:"port"`
	CORSOrigins []string `toml:"cors_origins"`
	Metrics     bool     `toml:"metrics"`
}

// StorageConfig controls where the sqlite database lives.
type StorageConfig struct {
	Dir string `toml:"dir"`
}

// AIConfig controls the meal analyzer backend.
// The API key is never written to the config file; it comes from the
// NUTRIBOT_AI_KEY environment variable (or a .env file next to the config).
type AIConfig struct {
	BaseURL string `toml:"base_url"`
	Model   string `toml:"model"`
	APIKey  string `toml:"-"`
}

// ImagesConfig controls meal photo uploads to S3-compatible storage.
// Credentials come from NUTRIBOT_S3_ACCESS_KEY / NUTRIBOT_S3_SECRET_KEY.
type ImagesConfig struct {
	Enabled   bool   `toml:"enabled"`
	Endpoint  string `toml:"endpoint"`
	Region    string `toml:"region"`
	Bucket    string `toml:"bucket"`
	CDNBase   string `toml:"cdn_base"`
	AccessKey string `toml:"-"`
	SecretKey string `toml:"-"`
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// DefaultConfig returns a sensible default configuration.
func DefaultConfig() Config {
	home := nutribotHome()
	return Config{
		Server: ServerConfig{
			Host:        "127.0.0.1",
			Port:        8910,
			CORSOrigins: []string{"*"},
			Metrics:     true,
		},
		Storage: StorageConfig{
			Dir: home,
		},
		AI: AIConfig{
			BaseURL: "https://openrouter.ai/api/v1",
			Model:   "google/gemini-2.5-flash",
		},
		Images: ImagesConfig{
			Region: "auto",
		},
		Logging: LoggingConfig{
			Level: "info",
			File:  filepath.Join(home, "nutribot.log"),
		},
	}
}

// LoadConfig reads config from ~/.nutribot/config.toml, falling back to
// defaults, then layers secrets from the environment. A .env file in the
// config directory is loaded first so local setups need no shell exports.
func LoadConfig() (Config, error) {
	cfg := DefaultConfig()
	home := nutribotHome()
	path := filepath.Join(home, "config.toml")

	// Best effort; a missing .env is the normal case.
	_ = godotenv.Load(filepath.Join(home, ".env"))

	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config: %w", err)
		}
	}

	cfg.AI.APIKey = os.Getenv("NUTRIBOT_AI_KEY")
	if v := os.Getenv("NUTRIBOT_AI_URL"); v != "" {
		cfg.AI.BaseURL = v
	}
	if v := os.Getenv("NUTRIBOT_AI_MODEL"); v != "" {
		cfg.AI.Model = v
	}
	cfg.Images.AccessKey = os.Getenv("NUTRIBOT_S3_ACCESS_KEY")
	cfg.Images.SecretKey = os.Getenv("NUTRIBOT_S3_SECRET_KEY")

	return cfg, nil
}

// SaveConfig writes the config to ~/.nutribot/config.toml.
func SaveConfig(cfg Config) error {
	path := filepath.Join(nutribotHome(), "config.toml")
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(cfg)
}

// nutribotHome returns the NutriBot data directory.
func nutribotHome() string {
	if env := os.Getenv("NUTRIBOT_HOME"); env != "" {
		return env
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".nutribot")
}

// Home is exported for use by other packages.
func Home() string {
	return nutribotHome()
}
