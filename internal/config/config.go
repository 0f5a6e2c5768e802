package config

import (
	"errors"

	"github.com/spf13/viper"
)

// Config holds all runtime configuration loaded from environment variables.
type Config struct {
	// Server
	Port int    `mapstructure:"PORT"`
	Env  string `mapstructure:"APP_ENV"` // development | production

	// Database. Empty in development falls back to a local SQLite file,
	// mirroring the deployment story of the original plant installs.
	DatabaseURL string `mapstructure:"DATABASE_URL"`
	SQLitePath  string `mapstructure:"SQLITE_PATH"`

	// Redis — access snapshots and saved filters
	RedisURL string `mapstructure:"REDIS_URL"`

	// Auth
	JWTSecret          string `mapstructure:"JWT_SECRET"`
	JWTExpirationHours int    `mapstructure:"JWT_EXPIRATION_HOURS"`

	// Authorization snapshots are cached this many seconds before being
	// re-derived from the database.
	AccessCacheTTL int `mapstructure:"ACCESS_CACHE_TTL_SECONDS"`

	// Plant clock
	Timezone string `mapstructure:"PLANT_TIMEZONE"`
}

// Load reads configuration from environment variables (and optional .env file).
// In production mode the database URL and the token secret are mandatory; the
// process must not come up half-configured on a real deployment.
func Load() (*Config, error) {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AutomaticEnv()

	// Sensible defaults for development
	viper.SetDefault("PORT", 8000)
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("SQLITE_PATH", "instance/produccion.db")
	viper.SetDefault("REDIS_URL", "redis://localhost:6379/0")
	viper.SetDefault("JWT_EXPIRATION_HOURS", 12)
	viper.SetDefault("ACCESS_CACHE_TTL_SECONDS", 300)
	viper.SetDefault("PLANT_TIMEZONE", "America/Mexico_City")
	viper.SetDefault("JWT_SECRET", "dev-secret-cambiar")

	// Optional .env file for local development — does not fail if missing
	_ = viper.ReadInConfig()

	cfg := &Config{}
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, err
	}

	if cfg.Env == "production" {
		if cfg.DatabaseURL == "" {
			return nil, errors.New("DATABASE_URL es obligatoria en producción")
		}
		if cfg.JWTSecret == "" || cfg.JWTSecret == "dev-secret-cambiar" {
			return nil, errors.New("JWT_SECRET es obligatoria en producción")
		}
	}
	return cfg, nil
}
