package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/fbsql/fbsql/internal/db"
)

// DefaultAlias is the database entry used when no alias is given.
const DefaultAlias = "default"

// Config represents the application configuration
type Config struct {
	LogLevel  string                    `yaml:"log_level,omitempty"`
	Databases map[string]DatabaseConfig `yaml:"databases"`
}

// DatabaseConfig represents the settings of one database alias.
type DatabaseConfig struct {
	Engine   string            `yaml:"engine"`             // firebird, sqlite
	Name     string            `yaml:"name"`               // database file path or alias
	Host     string            `yaml:"host,omitempty"`     // server host
	Port     int               `yaml:"port,omitempty"`     // server port
	User     string            `yaml:"user,omitempty"`
	Password string            `yaml:"password,omitempty"`
	Options  map[string]string `yaml:"options,omitempty"` // extra driver options
}

// Settings converts the entry into the connection settings record the
// engine registry dispatches on.
func (dc DatabaseConfig) Settings() *db.Config {
	return &db.Config{
		Engine:   dc.Engine,
		Name:     dc.Name,
		Host:     dc.Host,
		Port:     dc.Port,
		User:     dc.User,
		Password: dc.Password,
		Options:  dc.Options,
	}
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	return &Config{
		Databases: map[string]DatabaseConfig{
			DefaultAlias: {
				Engine: "firebird",
				Name:   "/var/lib/firebird/data/app.fdb",
				Host:   "localhost",
				User:   "SYSDBA",
			},
		},
	}
}

// Database looks up an alias, falling back to the default entry.
func (c *Config) Database(alias string) (DatabaseConfig, error) {
	if alias == "" {
		alias = DefaultAlias
	}
	dc, ok := c.Databases[alias]
	if !ok {
		return DatabaseConfig{}, fmt.Errorf("no database entry %q in configuration: %w", alias, db.ErrMisconfigured)
	}
	return dc, nil
}

// Load loads configuration from file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return &config, nil
}

// Save saves configuration to file
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// GetConfigPath returns the default config file path
func GetConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".fbsql/config.yaml"
	}
	return filepath.Join(home, ".fbsql", "config.yaml")
}

// Exists checks if config file exists
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
