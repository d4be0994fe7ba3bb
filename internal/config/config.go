// Package config loads medibook settings from defaults, an optional
// medibook.yaml, MEDIBOOK_* environment variables and command flags.
package config

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable, e.g. MEDIBOOK_BACKEND_URL.
const EnvPrefix = "MEDIBOOK"

// Store kinds accepted by Service.Store.
const (
	StoreMemory   = "memory"
	StoreRedis    = "redis"
	StorePostgres = "postgres"
	StoreFile     = "file"
)

// Config holds all configuration values.
type Config struct {
	Log          LogConfig      `mapstructure:"log"`
	Backend      BackendConfig  `mapstructure:"backend"`
	Server       ServerConfig   `mapstructure:"server"`
	MCP          MCPConfig      `mapstructure:"mcp"`
	Service      ServiceConfig  `mapstructure:"service"`
	Redis        RedisConfig    `mapstructure:"redis"`
	Postgres     PostgresConfig `mapstructure:"postgres"`
	File         FileConfig     `mapstructure:"file"`
	MaxInputSize int            `mapstructure:"max_input_size"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// BackendConfig is how the conversation reaches the scheduling service.
type BackendConfig struct {
	URL     string        `mapstructure:"url"`
	Secret  string        `mapstructure:"secret"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// ServerConfig is the chat HTTP API.
type ServerConfig struct {
	Addr    string `mapstructure:"addr"`
	Metrics bool   `mapstructure:"metrics"`
}

type MCPConfig struct {
	Transport string `mapstructure:"transport"`
	Port      int    `mapstructure:"port"`
}

// ServiceConfig is the reference scheduling service.
type ServiceConfig struct {
	Addr      string        `mapstructure:"addr"`
	Store     string        `mapstructure:"store"`
	Secret    string        `mapstructure:"secret"`
	Metrics   bool          `mapstructure:"metrics"`
	LockTTL   time.Duration `mapstructure:"lock_ttl"`
	OpenTime  string        `mapstructure:"open"`
	CloseTime string        `mapstructure:"close"`
	// EncryptionKey is a base64 AES-256 key sealing patient details at rest.
	// FallbackKeys are older keys still accepted for reading.
	EncryptionKey string   `mapstructure:"encryption_key"`
	FallbackKeys  []string `mapstructure:"fallback_keys"`
}

// Keys decodes the encryption keys. It returns a nil active key when
// encryption is off.
func (c ServiceConfig) Keys() (active []byte, fallback [][]byte, err error) {
	if c.EncryptionKey == "" {
		return nil, nil, nil
	}
	if active, err = decodeKey("service.encryption_key", c.EncryptionKey); err != nil {
		return nil, nil, err
	}
	for i, k := range c.FallbackKeys {
		if k == "" {
			continue
		}
		key, err := decodeKey(fmt.Sprintf("service.fallback_keys[%d]", i), k)
		if err != nil {
			return nil, nil, err
		}
		fallback = append(fallback, key)
	}
	return active, fallback, nil
}

func decodeKey(name, s string) ([]byte, error) {
	key, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("config: %s is not valid base64: %w", name, err)
	}
	if len(key) != 32 {
		return nil, fmt.Errorf("config: %s must decode to 32 bytes, got %d", name, len(key))
	}
	return key, nil
}

type RedisConfig struct {
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	Prefix   string        `mapstructure:"prefix"`
	TTL      time.Duration `mapstructure:"ttl"`
	// Lock enables the distributed slot lock, for several service replicas.
	Lock bool `mapstructure:"lock"`
}

type PostgresConfig struct {
	DSN string `mapstructure:"dsn"`
}

type FileConfig struct {
	Dir string `mapstructure:"dir"`
}

// SetDefaults registers every key with its default. Keys without a default
// are invisible to AutomaticEnv, so each one is listed here.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("backend.url", "http://localhost:8081")
	v.SetDefault("backend.secret", "")
	v.SetDefault("backend.timeout", "30s")

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.metrics", true)

	v.SetDefault("mcp.transport", "stdio")
	v.SetDefault("mcp.port", 8090)

	v.SetDefault("service.addr", ":8081")
	v.SetDefault("service.store", StoreMemory)
	v.SetDefault("service.secret", "")
	v.SetDefault("service.metrics", true)
	v.SetDefault("service.lock_ttl", "30s")
	v.SetDefault("service.open", "09:00")
	v.SetDefault("service.close", "17:00")
	v.SetDefault("service.encryption_key", "")
	v.SetDefault("service.fallback_keys", []string{})

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.prefix", "medibook:")
	v.SetDefault("redis.ttl", "0s")
	v.SetDefault("redis.lock", false)

	v.SetDefault("postgres.dsn", "")
	v.SetDefault("file.dir", ".medibook/bookings")

	v.SetDefault("max_input_size", 2048)
}

// New returns a viper instance with defaults, env binding and config file search paths.
// An explicit file overrides the search for medibook.yaml in . and ./config.
func New(file string) *viper.Viper {
	v := viper.New()
	SetDefaults(v)

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("medibook")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads the config file, if any, and decodes v into a Config.
// A missing medibook.yaml is not an error; a missing explicit file is.
func Load(v *viper.Viper) (Config, error) {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	hook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	))
	if err := v.Unmarshal(&cfg, hook); err != nil {
		return Config{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects settings that cannot work together.
func (c Config) Validate() error {
	switch c.Service.Store {
	case StoreMemory, StoreRedis, StoreFile:
	case StorePostgres:
		if c.Postgres.DSN == "" {
			return errors.New("config: postgres store requires postgres.dsn")
		}
	default:
		return fmt.Errorf("config: unknown service.store %q (memory, redis, postgres, file)", c.Service.Store)
	}
	switch c.MCP.Transport {
	case "stdio", "sse":
	default:
		return fmt.Errorf("config: unknown mcp.transport %q (stdio, sse)", c.MCP.Transport)
	}
	if _, _, err := c.Service.Keys(); err != nil {
		return err
	}
	if c.MaxInputSize <= 0 {
		return fmt.Errorf("config: max_input_size must be positive, got %d", c.MaxInputSize)
	}
	return nil
}
