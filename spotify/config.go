//
// Date: 2026-10-12
// Author: Spicer Matthews <spicer@cloudmanic.com>
// Copyright (c) 2025 Cloudmanic Labs, LLC. All rights reserved.
//
// Description: Client configuration loading, environment overrides and persistence.
//

package spotify

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DefaultPort       = 8888
	DefaultRateLimit  = 10.0
	DefaultConfigDir  = "spt-play"
	DefaultConfigFile = "client.yml"
	DefaultTokenFile  = ".spotify_token_cache.json"
)

// ErrMissingCredentials is returned when no client id or secret could be found.
var ErrMissingCredentials = errors.New("missing Spotify client credentials")

// ClientConfig holds the per-user settings needed to talk to Spotify.
type ClientConfig struct {
	ClientID     string  `yaml:"client_id"`
	ClientSecret string  `yaml:"client_secret"`
	DeviceID     string  `yaml:"device_id,omitempty"`
	Port         int     `yaml:"port,omitempty"`
	RateLimit    float64 `yaml:"rate_limit,omitempty"`
	Market       string  `yaml:"market,omitempty"`

	// Populated from the environment or derived, never written to disk.
	RedirectURI    string `yaml:"-"`
	TokenFile      string `yaml:"-"`
	APIAccessToken string `yaml:"-"`

	path string
}

// DefaultConfigPath returns the location of client.yml under the user config dir.
func DefaultConfigPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to find config directory: %w", err)
	}
	return filepath.Join(dir, DefaultConfigDir, DefaultConfigFile), nil
}

// LoadClientConfig reads the YAML config at path (a missing file is fine),
// then applies .env and environment overrides and fills in defaults.
func LoadClientConfig(path string) (*ClientConfig, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	cfg := &ClientConfig{path: path}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()

	if cfg.ClientID == "" || cfg.ClientSecret == "" {
		return nil, fmt.Errorf("%w: set client_id and client_secret in %s or SPOTIFY_CLIENT_ID and SPOTIFY_CLIENT_SECRET", ErrMissingCredentials, path)
	}

	return cfg, nil
}

// applyEnv overrides file values with any environment variables that are set.
func (c *ClientConfig) applyEnv() error {
	if v := os.Getenv("SPOTIFY_CLIENT_ID"); v != "" {
		c.ClientID = v
	}
	if v := os.Getenv("SPOTIFY_CLIENT_SECRET"); v != "" {
		c.ClientSecret = v
	}
	if v := os.Getenv("SPOTIFY_DEVICE_ID"); v != "" {
		c.DeviceID = v
	}
	if v := os.Getenv("SPOTIFY_REDIRECT_URI"); v != "" {
		c.RedirectURI = v
	}
	if v := os.Getenv("SPOTIFY_TOKEN_FILE"); v != "" {
		c.TokenFile = v
	}
	if v := os.Getenv("API_ACCESS_TOKEN"); v != "" {
		c.APIAccessToken = v
	}
	if v := os.Getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid PORT %q: %w", v, err)
		}
		c.Port = port
	}
	return nil
}

func (c *ClientConfig) applyDefaults() {
	if c.Port == 0 {
		c.Port = DefaultPort
	}
	if c.RateLimit <= 0 {
		c.RateLimit = DefaultRateLimit
	}
	if c.RedirectURI == "" {
		c.RedirectURI = fmt.Sprintf("http://127.0.0.1:%d/callback", c.Port)
	}
	if c.TokenFile == "" {
		c.TokenFile = filepath.Join(filepath.Dir(c.path), DefaultTokenFile)
	}
}

// Path returns the file the config was loaded from.
func (c *ClientConfig) Path() string {
	return c.path
}

// SetDeviceID records the selected device and writes the config back to disk.
func (c *ClientConfig) SetDeviceID(id string) error {
	c.DeviceID = id
	return c.Save()
}

// Save writes the config to its path, creating the directory if needed.
func (c *ClientConfig) Save() error {
	if err := os.MkdirAll(filepath.Dir(c.path), 0o700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := os.WriteFile(c.path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}
