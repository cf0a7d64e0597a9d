// Package config loads server configuration from an optional YAML file and
// STAMM_* environment variables, with defaults that work out of the box.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/jhennig/stamm/internal/db"
)

// Config is the resolved server configuration.
type Config struct {
	// ListenAddr is the host:port the HTTP API binds to.
	ListenAddr string
	// DatabasePath is the SQLite file location.
	DatabasePath string
	// LogSQL enables gorm query logging.
	LogSQL bool
	// GinMode is "release", "debug" or "test".
	GinMode string
}

func defaultConfig() (*Config, error) {
	dbPath, err := db.DefaultPath()
	if err != nil {
		return nil, err
	}
	return &Config{
		ListenAddr:   ":8080",
		DatabasePath: dbPath,
		LogSQL:       false,
		GinMode:      "release",
	}, nil
}

// Load reads configuration from the given file (empty means no file) and the
// environment. Missing keys fall back to defaults; a missing file is only an
// error when it was named explicitly.
func Load(file string) (*Config, error) {
	cfg, err := defaultConfig()
	if err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix("STAMM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("listen_addr", cfg.ListenAddr)
	v.SetDefault("database_path", cfg.DatabasePath)
	v.SetDefault("log_sql", cfg.LogSQL)
	v.SetDefault("gin_mode", cfg.GinMode)

	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	cfg.ListenAddr = v.GetString("listen_addr")
	cfg.DatabasePath = v.GetString("database_path")
	cfg.LogSQL = v.GetBool("log_sql")
	cfg.GinMode = v.GetString("gin_mode")

	return cfg, nil
}
