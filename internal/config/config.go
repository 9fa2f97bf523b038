// Package config loads settings from an optional YAML file, environment
// variables and built-in defaults, in that order of preference.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config is the root configuration structure. Every field maps to a key in
// the YAML file and can be overridden by the matching environment variable.
type Config struct {
	// Driver selects the storage engine: mysql, sqlite or postgres.
	Driver string `yaml:"driver" env:"STUDENTDB_DRIVER" env-default:"mysql"`

	// Host, Port, User and Password pin an explicit server login. When
	// none of them is set, the well-known local logins are tried instead.
	Host     string `yaml:"host" env:"STUDENTDB_HOST"`
	Port     int    `yaml:"port" env:"STUDENTDB_PORT"`
	User     string `yaml:"user" env:"STUDENTDB_USER"`
	Password string `yaml:"password" env:"STUDENTDB_PASSWORD"`

	// Database is the database name, or the file path for sqlite.
	Database string `yaml:"database" env:"STUDENTDB_DATABASE" env-default:"student_db"`

	// ConnectTimeout bounds each connection attempt.
	ConnectTimeout time.Duration `yaml:"connect_timeout" env:"STUDENTDB_CONNECT_TIMEOUT" env-default:"5s"`

	Log Log `yaml:"log"`
}

// Log configures the rotating log file.
type Log struct {
	File       string `yaml:"file" env:"STUDENTDB_LOG_FILE" env-default:"studentdb.log"`
	Level      string `yaml:"level" env:"STUDENTDB_LOG_LEVEL" env-default:"info"`
	MaxSizeMB  int    `yaml:"max_size_mb" env:"STUDENTDB_LOG_MAX_SIZE_MB" env-default:"10"`
	MaxBackups int    `yaml:"max_backups" env:"STUDENTDB_LOG_MAX_BACKUPS" env-default:"3"`
	MaxAgeDays int    `yaml:"max_age_days" env:"STUDENTDB_LOG_MAX_AGE_DAYS" env-default:"30"`
	Compress   bool   `yaml:"compress" env:"STUDENTDB_LOG_COMPRESS" env-default:"true"`
}

// Load reads configuration from path when one is given, otherwise from the
// environment alone. Missing values fall back to their defaults.
func Load(path string) (*Config, error) {
	var cfg Config
	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("config file %s: %w", path, err)
		}
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
		return &cfg, nil
	}

	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("failed to read config from environment: %w", err)
	}
	return &cfg, nil
}
