package schematic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "lower_snake_case", cfg.Naming.Convention)
	assert.Equal(t, DefaultNamingPattern, cfg.Naming.Pattern)
	assert.Equal(t, ";\n\n", cfg.Generator.StatementSeparator)
	assert.Equal(t, "ddl_apply_log", cfg.Apply.ApplyLogTable)
	assert.Equal(t, 5432, cfg.Database.Port)
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"empty naming pattern", func(c *Config) { c.Naming.Pattern = "" }, "naming.pattern"},
		{"empty separator", func(c *Config) { c.Generator.StatementSeparator = "" }, "generator.statementSeparator"},
		{"port zero", func(c *Config) { c.Database.Port = 0 }, "database.port"},
		{"port too large", func(c *Config) { c.Database.Port = 70000 }, "database.port"},
		{"no connections", func(c *Config) { c.Database.MaxConnections = 0 }, "database.maxConnections"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			require.Error(t, err)

			var ce *ConfigError
			require.ErrorAs(t, err, &ce)
			assert.Equal(t, tt.field, ce.Field)
		})
	}
}

func TestConfigErrorMessage(t *testing.T) {
	err := &ConfigError{Field: "database.port", Message: "must be a valid TCP port"}
	assert.Equal(t, "config validation error for field 'database.port': must be a valid TCP port", err.Error())
}
