package config

import (
	"fmt"

	"github.com/spf13/viper"
)

const (
	SnapshotSourceFile   = "file"
	SnapshotSourceRedis  = "redis"
	SnapshotSourceMemory = "memory"
)

type Config struct {
	DBUrl          string  `mapstructure:"DB_URL"`
	RedisAddr      string  `mapstructure:"REDIS_ADDR"`
	RedisPassword  string  `mapstructure:"REDIS_PASSWORD"`
	ServerPort     string  `mapstructure:"SERVER_PORT"`
	Env            string  `mapstructure:"ENV"`
	JWTSecret      string  `mapstructure:"JWT_SECRET"`
	MeterRadius    float64 `mapstructure:"METER_RADIUS"`
	IncludeSelf    bool    `mapstructure:"NEARBY_INCLUDE_SELF"`
	SnapshotSource string  `mapstructure:"SNAPSHOT_SOURCE"`
	SnapshotPath   string  `mapstructure:"SNAPSHOT_PATH"`
	SnapshotKey    string  `mapstructure:"SNAPSHOT_KEY"`
}

func Load() (Config, error) {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	viper.SetDefault("DB_URL", "")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("JWT_SECRET", "")
	viper.SetDefault("METER_RADIUS", 1000)
	viper.SetDefault("NEARBY_INCLUDE_SELF", false)
	viper.SetDefault("SNAPSHOT_SOURCE", SnapshotSourceFile)
	viper.SetDefault("SNAPSHOT_PATH", "./cache.json")
	viper.SetDefault("SNAPSHOT_KEY", "connected_users")

	if err := viper.ReadInConfig(); err != nil {
		// .env is optional, the environment alone is enough
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return cfg, err
	}

	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	if c.MeterRadius <= 0 {
		return fmt.Errorf("METER_RADIUS must be positive, got %v", c.MeterRadius)
	}
	switch c.SnapshotSource {
	case SnapshotSourceFile, SnapshotSourceRedis, SnapshotSourceMemory:
	default:
		return fmt.Errorf("unknown SNAPSHOT_SOURCE %q", c.SnapshotSource)
	}
	if c.SnapshotSource == SnapshotSourceFile && c.SnapshotPath == "" {
		return fmt.Errorf("SNAPSHOT_PATH is required for the file snapshot source")
	}
	if c.JWTSecret == "" && c.Env != "development" {
		return fmt.Errorf("JWT_SECRET is required outside development")
	}
	return nil
}
