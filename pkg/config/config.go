package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	apperrors "github.com/riyarao-9-12/collaborative-drawing/pkg/errors"
)

// DefaultPalette is the fixed color palette users are assigned from.
// Colors repeat once the registry grows past the palette length.
var DefaultPalette = []string{
	"#e6194b", "#3cb44b", "#4363d8", "#f58231",
	"#911eb4", "#46f0f0", "#f032e6", "#008080",
}

// ServerConfig represents server configuration
type ServerConfig struct {
	Address   string         `yaml:"address"`
	StaticDir string         `yaml:"static_dir"`
	Session   SessionConfig  `yaml:"session"`
	Database  DatabaseConfig `yaml:"database"`
	Logging   LoggingConfig  `yaml:"logging"`
}

// SessionConfig represents shared-session settings
type SessionConfig struct {
	// Palette overrides the default user color palette when non-empty
	Palette []string `yaml:"palette"`
	// MaxHistory caps the history log when > 0. The source design keeps the
	// log unbounded; 0 (the default) preserves that behavior.
	MaxHistory int `yaml:"max_history"`
}

// DatabaseConfig represents the session archive settings
type DatabaseConfig struct {
	Type string `yaml:"type"` // none | sqlite | mysql
	Path string `yaml:"path"` // sqlite file path, or mysql DSN
}

// LoggingConfig represents logging settings
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// DefaultConfig returns default configuration
func DefaultConfig() *ServerConfig {
	return &ServerConfig{
		Address:   ":3000",
		StaticDir: "./public",
		Session: SessionConfig{
			Palette:    nil, // falls back to DefaultPalette
			MaxHistory: 0,
		},
		Database: DatabaseConfig{
			Type: "none",
			Path: "./session_archive.db",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// LoadConfig loads configuration from file and environment variables
func LoadConfig(configPath string) (*ServerConfig, error) {
	config := DefaultConfig()

	// Load from file if provided
	if configPath != "" {
		if err := loadFromFile(configPath, config); err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	}

	// Override with environment variables
	applyEnvOverrides(config)

	// Validate configuration
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrInvalidConfig, err)
	}

	return config, nil
}

// loadFromFile loads configuration from a YAML file
func loadFromFile(path string, config *ServerConfig) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	return yaml.Unmarshal(data, config)
}

// applyEnvOverrides applies environment variable overrides
func applyEnvOverrides(config *ServerConfig) {
	if addr := os.Getenv("BOARD_ADDR"); addr != "" {
		config.Address = addr
	}

	if port := os.Getenv("PORT"); port != "" {
		config.Address = ":" + port
	}

	if dir := os.Getenv("BOARD_STATIC_DIR"); dir != "" {
		config.StaticDir = dir
	}

	if dbType := os.Getenv("DB_TYPE"); dbType != "" {
		config.Database.Type = dbType
	}

	if dbPath := os.Getenv("DB_PATH"); dbPath != "" {
		config.Database.Path = dbPath
	}

	if logLevel := os.Getenv("LOG_LEVEL"); logLevel != "" {
		config.Logging.Level = logLevel
	}

	if logFormat := os.Getenv("LOG_FORMAT"); logFormat != "" {
		config.Logging.Format = logFormat
	}

	if maxHistory := os.Getenv("BOARD_MAX_HISTORY"); maxHistory != "" {
		if val, err := strconv.Atoi(maxHistory); err == nil {
			config.Session.MaxHistory = val
		}
	}
}

// Validate validates the configuration
func (c *ServerConfig) Validate() error {
	if c.Address == "" {
		return fmt.Errorf("server address cannot be empty")
	}

	switch c.Database.Type {
	case "none", "sqlite", "mysql":
	default:
		return fmt.Errorf("unsupported database type: %s", c.Database.Type)
	}

	if c.Database.Type != "none" && c.Database.Path == "" {
		return fmt.Errorf("database path cannot be empty for type %s", c.Database.Type)
	}

	if c.Session.MaxHistory < 0 {
		return fmt.Errorf("session max_history cannot be negative")
	}

	for _, color := range c.Session.Palette {
		if color == "" {
			return fmt.Errorf("session palette cannot contain empty colors")
		}
	}

	if !isValidLogLevel(c.Logging.Level) {
		return fmt.Errorf("invalid log level: %s", c.Logging.Level)
	}

	return nil
}

// Palette returns the configured palette, or the default one
func (c *ServerConfig) Palette() []string {
	if len(c.Session.Palette) > 0 {
		return c.Session.Palette
	}
	return DefaultPalette
}

// isValidLogLevel checks if the log level is valid
func isValidLogLevel(level string) bool {
	valid := []string{"debug", "info", "warn", "error"}
	level = strings.ToLower(level)
	for _, v := range valid {
		if level == v {
			return true
		}
	}
	return false
}

// String returns a string representation of the configuration (for logging)
func (c *ServerConfig) String() string {
	return fmt.Sprintf("Config{Address: %s, StaticDir: %s, DB: %s, LogLevel: %s}",
		c.Address, c.StaticDir, c.Database.Type, c.Logging.Level)
}
