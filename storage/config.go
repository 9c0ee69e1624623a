package storage

import (
	"fmt"
)

// Config of the storage encoder.
type Config struct {
	// KeyScheme is the hash slot keys are derived with, "sha256" or "keccak256".
	KeyScheme string
	// KeyCacheSize is the number of derived keys kept around, 0 disables caching.
	KeyCacheSize int
	// Strict turns constants that don't match their type into errors
	// instead of skipping them.
	Strict bool
}

// DefaultConfig returns the default encoder configuration.
func DefaultConfig() Config {
	return Config{
		KeyScheme:    SchemeSHA256,
		KeyCacheSize: 4096,
	}
}

// Validate checks the config for errors.
func (c Config) Validate() error {
	if _, err := SchemeByName(c.KeyScheme); err != nil {
		return err
	}
	if c.KeyCacheSize < 0 {
		return fmt.Errorf("negative key cache size %d", c.KeyCacheSize)
	}
	return nil
}
