package schematic

import (
	"time"
)

// Config consolidates settings for validation, generation and apply.
type Config struct {
	Naming    NamingConfig    `json:"naming" yaml:"naming"`
	Generator GeneratorConfig `json:"generator" yaml:"generator"`
	Apply     ApplyConfig     `json:"apply" yaml:"apply"`
	Database  DatabaseConfig  `json:"database" yaml:"database"`
	Logging   LoggingConfig   `json:"logging" yaml:"logging"`
}

// NamingConfig controls the identifier naming convention check.
type NamingConfig struct {
	// Convention is a label for reports ("lower_snake_case" by default).
	Convention string `json:"convention" yaml:"convention"`
	// Pattern is the regular expression identifiers must match.
	Pattern string `json:"pattern" yaml:"pattern"`
}

// GeneratorConfig controls DDL text production.
type GeneratorConfig struct {
	// StatementSeparator is placed between emitted statements.
	StatementSeparator string `json:"statementSeparator" yaml:"statement_separator"`
}

// ApplyConfig controls DDL execution against a live database.
type ApplyConfig struct {
	// ApplyLogTable, when non-empty, receives one row per apply run.
	ApplyLogTable    string        `json:"applyLogTable" yaml:"apply_log_table"`
	StatementTimeout time.Duration `json:"statementTimeout" yaml:"statement_timeout"`
}

// DatabaseConfig contains database connection settings for the CLI.
type DatabaseConfig struct {
	Host           string        `json:"host" yaml:"host"`
	Port           int           `json:"port" yaml:"port"`
	Database       string        `json:"database" yaml:"database"`
	Username       string        `json:"username" yaml:"username"`
	Password       string        `json:"password" yaml:"password"`
	SSLMode        string        `json:"sslMode" yaml:"ssl_mode"`
	MaxConnections int           `json:"maxConnections" yaml:"max_connections"`
	Timeout        time.Duration `json:"timeout" yaml:"timeout"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level  string `json:"level" yaml:"level"`
	Format string `json:"format" yaml:"format"`
}

// DefaultNamingPattern is the lower_snake_case identifier pattern.
const DefaultNamingPattern = `^[a-z][a-z0-9_]*$`

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	return &Config{
		Naming: NamingConfig{
			Convention: "lower_snake_case",
			Pattern:    DefaultNamingPattern,
		},
		Generator: GeneratorConfig{
			StatementSeparator: ";\n\n",
		},
		Apply: ApplyConfig{
			ApplyLogTable:    "ddl_apply_log",
			StatementTimeout: 30 * time.Second,
		},
		Database: DatabaseConfig{
			Host:           "localhost",
			Port:           5432,
			Database:       "schematic",
			Username:       "postgres",
			SSLMode:        "disable",
			MaxConnections: 10,
			Timeout:        30 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Naming.Pattern == "" {
		return &ConfigError{Field: "naming.pattern", Message: "must not be empty"}
	}
	if c.Generator.StatementSeparator == "" {
		return &ConfigError{Field: "generator.statementSeparator", Message: "must not be empty"}
	}
	if c.Database.Port <= 0 || c.Database.Port > 65535 {
		return &ConfigError{Field: "database.port", Message: "must be a valid TCP port"}
	}
	if c.Database.MaxConnections <= 0 {
		return &ConfigError{Field: "database.maxConnections", Message: "must be greater than 0"}
	}
	return nil
}

// ConfigError represents a configuration validation error
type ConfigError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *ConfigError) Error() string {
	return "config validation error for field '" + e.Field + "': " + e.Message
}
