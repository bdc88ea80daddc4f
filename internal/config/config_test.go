package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func validConfig() Config {
	return Config{
		ServerPort:     "8080",
		Env:            "production",
		JWTSecret:      "secret",
		MeterRadius:    1000,
		SnapshotSource: SnapshotSourceFile,
		SnapshotPath:   "./cache.json",
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "zero radius", mutate: func(c *Config) { c.MeterRadius = 0 }, wantErr: true},
		{name: "negative radius", mutate: func(c *Config) { c.MeterRadius = -5 }, wantErr: true},
		{name: "unknown source", mutate: func(c *Config) { c.SnapshotSource = "s3" }, wantErr: true},
		{name: "file source without path", mutate: func(c *Config) { c.SnapshotPath = "" }, wantErr: true},
		{name: "redis source without path", mutate: func(c *Config) {
			c.SnapshotSource = SnapshotSourceRedis
			c.SnapshotPath = ""
		}},
		{name: "missing secret in production", mutate: func(c *Config) { c.JWTSecret = "" }, wantErr: true},
		{name: "missing secret in development", mutate: func(c *Config) {
			c.JWTSecret = ""
			c.Env = "development"
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("METER_RADIUS", "250")
	t.Setenv("SNAPSHOT_SOURCE", "memory")
	t.Setenv("ENV", "development")

	cfg, err := Load()

	assert.NoError(t, err)
	assert.Equal(t, 250.0, cfg.MeterRadius)
	assert.Equal(t, SnapshotSourceMemory, cfg.SnapshotSource)
	assert.Equal(t, "8080", cfg.ServerPort)
}
