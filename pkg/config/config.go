// Package config loads analyzer configuration from a YAML file with
// environment variable overrides.
package config

import (
	"fmt"

	"github.com/ilyakaznacheev/cleanenv"

	"github.com/relgraph/relgraph/pkg/adapters/datasource"
	"github.com/relgraph/relgraph/pkg/apperrors"
)

// Config is the top-level application configuration.
type Config struct {
	Env       string `yaml:"env" env:"APP_ENV" env-default:"production"`
	OutputDir string `yaml:"output_dir" env:"OUTPUT_DIR" env-default:"output"`
	Visualize bool   `yaml:"visualize" env:"VISUALIZE"`

	// Databases maps a short name (used with the -db flag) to connection
	// settings.
	Databases map[string]DatabaseConfig `yaml:"databases"`

	// PasswordOverride is never read from YAML. When set it replaces the
	// password of whichever database is selected.
	PasswordOverride string `yaml:"-" env:"DB_PASSWORD"`
}

// DatabaseConfig holds connection settings for one configured database.
type DatabaseConfig struct {
	Type     string `yaml:"type"`
	Host     string `yaml:"host" env-default:"localhost"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
	SSLMode  string `yaml:"ssl_mode"`
}

// Connection converts the settings into an adapter connection config.
func (d DatabaseConfig) Connection() datasource.ConnectionConfig {
	return datasource.ConnectionConfig{
		Host:     d.Host,
		Port:     d.Port,
		User:     d.User,
		Password: d.Password,
		Database: d.Database,
		SSLMode:  d.SSLMode,
	}
}

// Load reads the configuration file and applies environment overrides.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	return &cfg, nil
}

// Database returns the named database configuration with the password
// override applied.
func (c *Config) Database(name string) (DatabaseConfig, error) {
	db, ok := c.Databases[name]
	if !ok {
		return DatabaseConfig{}, fmt.Errorf("database %q: %w", name, apperrors.ErrUnknownDatabase)
	}
	if c.PasswordOverride != "" {
		db.Password = c.PasswordOverride
	}
	return db, nil
}
