// FilePath: internal/config/config.go
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
	"github.com/tilthub/brewmonitor/internal/database"
)

// Config holds all configuration for the service
type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Monitoring MonitoringConfig
	Seed       SeedConfig
}

type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	Host            string        `mapstructure:"host"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	AllowedOrigins  []string      `mapstructure:"allowed_origins"`
}

type DatabaseConfig struct {
	// Driver selects the backing store: "postgres" or "sqlite".
	Driver   string                  `mapstructure:"driver"`
	Postgres database.PostgresConfig `mapstructure:"postgres"`
	SQLite   SQLiteConfig            `mapstructure:"sqlite"`
}

type SQLiteConfig struct {
	Path string `mapstructure:"path"`
}

type MonitoringConfig struct {
	LogLevel string `mapstructure:"log_level"`
}

type SeedConfig struct {
	AdminPassword string `mapstructure:"admin_password"`
}

// Load initializes configuration from environment variables and config file
func Load() (*Config, error) {
	viper.SetEnvPrefix("BREWMON")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "__"))
	viper.AutomaticEnv()

	// Set defaults
	setDefaults()

	// Load config file if exists
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./config")
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("config validation error: %w", err)
	}

	return &config, nil
}

func setDefaults() {
	// Server defaults
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.read_timeout", "15s")
	viper.SetDefault("server.write_timeout", "15s")
	viper.SetDefault("server.shutdown_timeout", "30s")
	viper.SetDefault("server.allowed_origins", []string{"*"})

	// Database defaults mirror the historical single-file deployment
	viper.SetDefault("database.driver", "sqlite")
	viper.SetDefault("database.sqlite.path", "/var/run/brewmonitor/database.db")
	viper.SetDefault("database.postgres.host", "")
	viper.SetDefault("database.postgres.port", 5432)
	viper.SetDefault("database.postgres.user", "brewmonitor")
	viper.SetDefault("database.postgres.password", "")
	viper.SetDefault("database.postgres.dbname", "")
	viper.SetDefault("database.postgres.sslmode", "disable")

	// Seed defaults
	viper.SetDefault("seed.admin_password", "")

	// Monitoring defaults
	viper.SetDefault("monitoring.log_level", "info")
}

func validateConfig(config *Config) error {
	switch config.Database.Driver {
	case "sqlite":
		if config.Database.SQLite.Path == "" {
			return fmt.Errorf("sqlite path is required")
		}
	case "postgres":
		if config.Database.Postgres.Host == "" {
			return fmt.Errorf("postgres host is required")
		}
		if config.Database.Postgres.DBName == "" {
			return fmt.Errorf("postgres dbname is required")
		}
	default:
		return fmt.Errorf("unknown database driver %q", config.Database.Driver)
	}
	return nil
}

// OpenDB opens the store selected by the configuration.
func OpenDB(cfg *Config) (database.DB, error) {
	if cfg.Database.Driver == "postgres" {
		return database.NewPostgresDB(cfg.Database.Postgres)
	}
	return database.NewSQLiteDB(cfg.Database.SQLite.Path)
}
