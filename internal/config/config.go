// Package config loads tamashi settings from a YAML file and TAMASHI_ env vars.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Log         LogConfig         `mapstructure:"log"`
	Server      ServerConfig      `mapstructure:"server"`
	Catalog     CatalogConfig     `mapstructure:"catalog"`
	Store       StoreConfig       `mapstructure:"store"`
	Preferences PreferencesConfig `mapstructure:"preferences"`
	Persona     PersonaConfig     `mapstructure:"persona"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// ServerConfig holds HTTP settings.
type ServerConfig struct {
	Addr    string `mapstructure:"addr"`
	Metrics bool   `mapstructure:"metrics"`
	// SessionIdle is how long an unwatched session stays in memory after its
	// last use. Zero keeps sessions until they are deleted.
	SessionIdle time.Duration `mapstructure:"session_idle"`
}

// CatalogConfig points at the tutorial definitions. An empty path means the
// built-in tutorials.
type CatalogConfig struct {
	Path string `mapstructure:"path"`
}

// StoreConfig selects the session snapshot backend.
type StoreConfig struct {
	Backend string      `mapstructure:"backend"`
	File    FileConfig  `mapstructure:"file"`
	Redis   RedisConfig `mapstructure:"redis"`
}

// FileConfig holds the directory of the file backend. Empty means the user
// config dir.
type FileConfig struct {
	Dir string `mapstructure:"dir"`
}

// RedisConfig holds redis connection settings.
type RedisConfig struct {
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	TTL      time.Duration `mapstructure:"ttl"`
	Lock     bool          `mapstructure:"lock"`
}

// PreferencesConfig selects where the persona choice is kept.
type PreferencesConfig struct {
	Backend string `mapstructure:"backend"`
	AppName string `mapstructure:"app_name"`
}

// PersonaConfig overrides the default guide.
type PersonaConfig struct {
	Name  string `mapstructure:"name"`
	Asset string `mapstructure:"asset"`
}

// Backends.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendRedis  = "redis"
	BackendGdata  = "gdata"
)

// Load reads configuration from file and env. Env var overrides use prefix
// TAMASHI_, with dots replaced by underscores (TAMASHI_SERVER_ADDR).
//
// The file is path when set, else $TAMASHI_CONFIG, else
// ~/.config/tamashi/config.yaml if present.
func Load(path string) (Config, error) {
	v := viper.New()

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.metrics", true)
	v.SetDefault("server.session_idle", 30*time.Minute)
	v.SetDefault("catalog.path", "")
	v.SetDefault("store.backend", BackendFile)
	v.SetDefault("store.file.dir", "")
	v.SetDefault("store.redis.addr", "localhost:6379")
	v.SetDefault("store.redis.password", "")
	v.SetDefault("store.redis.db", 0)
	v.SetDefault("store.redis.ttl", 24*time.Hour)
	v.SetDefault("store.redis.lock", true)
	v.SetDefault("preferences.backend", BackendGdata)
	v.SetDefault("preferences.app_name", "tamashi")
	v.SetDefault("persona.name", "")
	v.SetDefault("persona.asset", "")

	v.SetConfigType("yaml")

	if path == "" {
		path = os.Getenv("TAMASHI_CONFIG")
	}
	explicit := path != ""
	if explicit {
		v.SetConfigFile(path)
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "tamashi"))
		}
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("TAMASHI")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		// A missing default file is fine; a missing or broken explicit one is not.
		var notFound viper.ConfigFileNotFoundError
		if explicit || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate checks enumerated settings.
func (c Config) Validate() error {
	switch c.Store.Backend {
	case BackendMemory, BackendFile, BackendRedis:
	default:
		return fmt.Errorf("store.backend: unknown backend %q", c.Store.Backend)
	}
	switch c.Preferences.Backend {
	case BackendMemory, BackendRedis, BackendGdata:
	default:
		return fmt.Errorf("preferences.backend: unknown backend %q", c.Preferences.Backend)
	}
	return nil
}
