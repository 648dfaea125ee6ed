package storage

import (
	"errors"
	"fmt"
)

// Provider constants for supported storage backends.
const (
	ProviderLocal = "local"
)

// Default configuration values.
const (
	DefaultProvider = ProviderLocal
)

// Config holds the configuration of one storage root.
type Config struct {
	// Provider selects the storage backend. Only "local" is built in.
	Provider string `mapstructure:"provider" json:"provider"`

	// BasePath is the root directory for local storage.
	BasePath string `mapstructure:"base_path" json:"base_path"`
}

// ApplyDefaults fills in zero-valued fields with sensible defaults.
func (c *Config) ApplyDefaults() {
	if c.Provider == "" {
		c.Provider = DefaultProvider
	}
}

// Validate checks that the configuration is valid for the selected provider.
func (c *Config) Validate() error {
	switch c.Provider {
	case ProviderLocal:
		if c.BasePath == "" {
			return errors.New("storage: base_path is required for local provider")
		}
	default:
		return fmt.Errorf("storage: unsupported provider %q", c.Provider)
	}
	return nil
}
