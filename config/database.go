package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// DatabaseConfig holds the SQLite database configuration.
type DatabaseConfig struct {
	Path string `json:"path"`
}

// GetDSN returns the data source name for the database, including the
// connection parameters the store relies on.
func (c *DatabaseConfig) GetDSN() string {
	return c.Path + "?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000"
}

// GetDefaultDatabaseConfig returns database configuration derived from the environment.
func GetDefaultDatabaseConfig() *DatabaseConfig {
	return &DatabaseConfig{Path: GetDBPath()}
}

// ValidateConfig validates the database configuration
func (c *DatabaseConfig) ValidateConfig() error {
	if c.Path == "" {
		return fmt.Errorf("SQLite path cannot be empty")
	}
	return nil
}

// EnsureDirectoryExists ensures the directory for SQLite database exists
func (c *DatabaseConfig) EnsureDirectoryExists() error {
	return os.MkdirAll(filepath.Dir(c.Path), 0o755)
}
