// Package config loads the bloom command configuration from YAML or JSON.
package config

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultPath is the file the CLI reads when --config is not given.
const DefaultPath = "bloom.yaml"

// Store drivers.
const (
	DriverMemory = "memory"
	DriverRedis  = "redis"
	DriverFile   = "file"
)

// Config is the root of bloom.yaml.
type Config struct {
	Log    LogConfig    `yaml:"log" json:"log"`
	Server ServerConfig `yaml:"server" json:"server"`
	Routes RoutesConfig `yaml:"routes" json:"routes"`
	Store  StoreConfig  `yaml:"store" json:"store"`
}

type LogConfig struct {
	Level  string `yaml:"level" json:"level"`
	Format string `yaml:"format" json:"format"` // text | json
}

type ServerConfig struct {
	Addr    string `yaml:"addr" json:"addr"`
	Metrics bool   `yaml:"metrics" json:"metrics"`
}

type RoutesConfig struct {
	Strict bool   `yaml:"strict" json:"strict"`
	Entry  string `yaml:"entry" json:"entry"`
}

type StoreConfig struct {
	Driver     string           `yaml:"driver" json:"driver"`
	Redis      RedisConfig      `yaml:"redis" json:"redis"`
	File       FileConfig       `yaml:"file" json:"file"`
	Encryption EncryptionConfig `yaml:"encryption" json:"encryption"`
	// Mask lists regular expressions; matching value keys are masked at rest.
	Mask []string `yaml:"mask" json:"mask"`
}

type FileConfig struct {
	Dir string `yaml:"dir" json:"dir"`
}

// EncryptionConfig holds base64-encoded AES-256 keys.
type EncryptionConfig struct {
	Key          string   `yaml:"key" json:"key"`
	FallbackKeys []string `yaml:"fallback_keys" json:"fallback_keys"`
}

// Enabled reports whether snapshots are sealed at rest.
func (e EncryptionConfig) Enabled() bool { return e.Key != "" }

// Keys decodes the active and fallback keys.
func (e EncryptionConfig) Keys() (active []byte, fallbacks [][]byte, err error) {
	active, err = base64.StdEncoding.DecodeString(e.Key)
	if err != nil {
		return nil, nil, fmt.Errorf("store.encryption.key: %w", err)
	}
	if len(active) != 32 {
		return nil, nil, fmt.Errorf("store.encryption.key must decode to 32 bytes, got %d", len(active))
	}
	for i, k := range e.FallbackKeys {
		b, err := base64.StdEncoding.DecodeString(k)
		if err != nil {
			return nil, nil, fmt.Errorf("store.encryption.fallback_keys[%d]: %w", i, err)
		}
		fallbacks = append(fallbacks, b)
	}
	return active, fallbacks, nil
}

type RedisConfig struct {
	Addr     string        `yaml:"addr" json:"addr"`
	Password string        `yaml:"password" json:"password"`
	DB       int           `yaml:"db" json:"db"`
	Prefix   string        `yaml:"prefix" json:"prefix"`
	TTL      time.Duration `yaml:"ttl" json:"ttl"`
	LockTTL  time.Duration `yaml:"lock_ttl" json:"lock_ttl"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Log:    LogConfig{Level: "info", Format: "text"},
		Server: ServerConfig{Addr: ":8080", Metrics: true},
		Routes: RoutesConfig{Entry: "/edit-profile"},
		Store: StoreConfig{
			Driver: DriverMemory,
			Redis: RedisConfig{
				Addr:    "localhost:6379",
				Prefix:  "bloom:session:",
				LockTTL: 30 * time.Second,
			},
			File: FileConfig{Dir: ".bloom/sessions"},
		},
	}
}

// Load reads path over the defaults. A missing file is not an error unless
// required is set; fields absent from the file keep their default values.
func Load(path string, required bool) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !required {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}

	if strings.ToLower(filepath.Ext(path)) == ".json" {
		if err := json.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	} else {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	}

	return cfg, cfg.Validate()
}

// Validate rejects values the CLI cannot act on.
func (c Config) Validate() error {
	switch c.Store.Driver {
	case DriverMemory, DriverRedis, DriverFile:
	default:
		return fmt.Errorf("unknown store driver %q (want %s, %s or %s)", c.Store.Driver, DriverMemory, DriverRedis, DriverFile)
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("unknown log format %q", c.Log.Format)
	}
	if c.Store.Redis.TTL < 0 {
		return fmt.Errorf("store.redis.ttl must not be negative")
	}
	if c.Store.Encryption.Enabled() {
		if _, _, err := c.Store.Encryption.Keys(); err != nil {
			return err
		}
	}
	return nil
}
