package config

import (
	"testing"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/stretchr/testify/assert"
)

func TestValidateConfig(t *testing.T) {
	valid := Config{
		ServerPort:    8280,
		JWTSecret:     "0123456789abcdef",
		StatsCacheTTL: 300,
	}

	tests := []struct {
		name        string
		mutate      func(c *Config)
		expectError bool
	}{
		{name: "valid config", mutate: func(c *Config) {}},
		{name: "zero port", mutate: func(c *Config) { c.ServerPort = 0 }, expectError: true},
		{name: "negative port", mutate: func(c *Config) { c.ServerPort = -1 }, expectError: true},
		{name: "missing jwt secret", mutate: func(c *Config) { c.JWTSecret = "" }, expectError: true},
		{name: "short jwt secret", mutate: func(c *Config) { c.JWTSecret = "short" }, expectError: true},
		{name: "negative cache ttl", mutate: func(c *Config) { c.StatsCacheTTL = -1 }, expectError: true},
		{name: "disabled stats cache", mutate: func(c *Config) { c.StatsCacheTTL = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := valid
			tt.mutate(&config)

			err := validateConfig(config, logger.New("config_test"))
			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
