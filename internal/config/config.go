// Package config handles the configuration directory, store selection and
// environment overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	// AppName is the application directory name.
	AppName = "gtodo"

	// OAuthClientFile is the OAuth client credentials filename.
	OAuthClientFile = "oauth_client.json"

	// TokenFile is the stored OAuth token filename.
	TokenFile = "token.json"

	// DefaultSlot is the slot name used when none is configured.
	DefaultSlot = "todos"
)

// Store kinds.
const (
	StoreFile   = "file"
	StoreMySQL  = "mysql"
	StoreGoogle = "google"
)

// Environment variables read by New.
const (
	EnvStore    = "GTODO_STORE"
	EnvSlot     = "GTODO_SLOT"
	EnvMySQLDSN = "GTODO_MYSQL_DSN"
)

// Config holds configuration paths and settings.
type Config struct {
	// Dir is the configuration directory path.
	Dir string

	// Store selects the slot backend: file, mysql or google.
	Store string

	// Slot names the persisted list. For the file store it is the file
	// name, for google the task list title.
	Slot string

	// MySQLDSN is the data source name for the mysql store.
	MySQLDSN string

	// Debug enables debug logging.
	Debug bool

	// Quiet suppresses informational output.
	Quiet bool
}

// New creates a Config with defaults, then applies environment overrides.
// If configDir is empty, uses XDG_CONFIG_HOME/gtodo or $HOME/.config/gtodo.
func New(configDir string) (*Config, error) {
	dir := configDir
	if dir == "" {
		dir = DefaultConfigDir()
	}
	cfg := &Config{
		Dir:   dir,
		Store: StoreFile,
		Slot:  DefaultSlot,
	}

	if store := os.Getenv(EnvStore); store != "" {
		cfg.Store = store
	}
	if slot := os.Getenv(EnvSlot); slot != "" {
		cfg.Slot = slot
	}
	cfg.MySQLDSN = os.Getenv(EnvMySQLDSN)

	return cfg, nil
}

// Override applies non-empty flag values on top of the current settings.
func (c *Config) Override(store, slot string) {
	if store != "" {
		c.Store = store
	}
	if slot != "" {
		c.Slot = slot
	}
}

// Validate checks the store selection.
func (c *Config) Validate() error {
	c.Store = strings.ToLower(strings.TrimSpace(c.Store))
	switch c.Store {
	case StoreFile, StoreGoogle:
	case StoreMySQL:
		if c.MySQLDSN == "" {
			return fmt.Errorf("%s is required for the mysql store", EnvMySQLDSN)
		}
	default:
		return fmt.Errorf("unknown store: %s", c.Store)
	}
	if strings.TrimSpace(c.Slot) == "" {
		return fmt.Errorf("slot name required")
	}
	if c.Store == StoreFile && strings.ContainsAny(c.Slot, `/\`) {
		return fmt.Errorf("invalid slot name: %s", c.Slot)
	}
	return nil
}

// DefaultConfigDir returns the default configuration directory.
// Uses XDG_CONFIG_HOME if set, otherwise $HOME/.config.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return AppName
	}
	return filepath.Join(home, ".config", AppName)
}

// OAuthClientPath returns the path to the OAuth client credentials file.
func (c *Config) OAuthClientPath() string {
	return filepath.Join(c.Dir, OAuthClientFile)
}

// TokenPath returns the path to the stored OAuth token file.
func (c *Config) TokenPath() string {
	return filepath.Join(c.Dir, TokenFile)
}

// EnsureDir creates the config directory if it doesn't exist.
func (c *Config) EnsureDir() error {
	return os.MkdirAll(c.Dir, 0700)
}

// HasOAuthClient checks if the OAuth client credentials file exists.
func (c *Config) HasOAuthClient() bool {
	_, err := os.Stat(c.OAuthClientPath())
	return err == nil
}

// HasToken checks if the token file exists.
func (c *Config) HasToken() bool {
	_, err := os.Stat(c.TokenPath())
	return err == nil
}

// RemoveToken deletes the token file.
func (c *Config) RemoveToken() error {
	return os.Remove(c.TokenPath())
}
