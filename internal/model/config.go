package model

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
)

// Config holds the complete profilemap configuration
type Config struct {
	HTTP         HTTPConfig         `mapstructure:"http" yaml:"http"`
	Network      NetworkConfig      `mapstructure:"network" yaml:"network"`
	RateLimiting RateLimitingConfig `mapstructure:"rate_limiting" yaml:"rate_limiting"`
	Cache        CacheConfig        `mapstructure:"cache" yaml:"cache"`
	Concurrency  ConcurrencyConfig  `mapstructure:"concurrency" yaml:"concurrency"`
	Mapping      MappingConfig      `mapstructure:"mapping" yaml:"mapping"`
	Noise        NoiseConfig        `mapstructure:"noise" yaml:"noise"`
	Sink         SinkConfig         `mapstructure:"sink" yaml:"sink"`
	Server       ServerConfig       `mapstructure:"server" yaml:"server"`
	Log          LogConfig          `mapstructure:"log" yaml:"log"`
}

// HTTPConfig configures outbound requests
type HTTPConfig struct {
	Timeout      time.Duration `mapstructure:"timeout" yaml:"timeout" validate:"gt=0"`
	UserAgent    string        `mapstructure:"user_agent" yaml:"user_agent" validate:"required"`
	MaxBodyBytes int64         `mapstructure:"max_body_bytes" yaml:"max_body_bytes" validate:"gt=0"`
	InsecureTLS  bool          `mapstructure:"insecure_tls" yaml:"insecure_tls"`
	HTTPProxy    string        `mapstructure:"http_proxy" yaml:"http_proxy" validate:"omitempty,url"`
	HTTPSProxy   string        `mapstructure:"https_proxy" yaml:"https_proxy" validate:"omitempty,url"`
	NoProxy      string        `mapstructure:"no_proxy" yaml:"no_proxy"`
}

// NetworkConfig gates the credentialed endpoint stages.
// Both the generic network probe and adapter REST stages are off unless Enabled.
type NetworkConfig struct {
	Enabled        bool          `mapstructure:"enabled" yaml:"enabled"`
	RespectRobots  bool          `mapstructure:"respect_robots" yaml:"respect_robots"`
	RequestTimeout time.Duration `mapstructure:"request_timeout" yaml:"request_timeout" validate:"gt=0"`
}

// RateLimitingConfig configures per-domain pacing of endpoint requests
type RateLimitingConfig struct {
	RequestsPerSecond float64 `mapstructure:"requests_per_second" yaml:"requests_per_second" validate:"gt=0"`
	BurstSize         int     `mapstructure:"burst_size" yaml:"burst_size" validate:"gte=0"`
}

// CacheConfig configures the endpoint response cache
type CacheConfig struct {
	Enabled   bool          `mapstructure:"enabled" yaml:"enabled"`
	MemoryTTL time.Duration `mapstructure:"memory_ttl" yaml:"memory_ttl"`
	Disk      bool          `mapstructure:"disk" yaml:"disk"`
	Dir       string        `mapstructure:"dir" yaml:"dir"`
	DiskTTL   time.Duration `mapstructure:"disk_ttl" yaml:"disk_ttl"`
}

// ConcurrencyConfig configures batch processing
type ConcurrencyConfig struct {
	Workers int `mapstructure:"workers" yaml:"workers" validate:"gte=1"`
}

// MappingConfig configures schema projection
type MappingConfig struct {
	MaxDepth    int    `mapstructure:"max_depth" yaml:"max_depth" validate:"gte=1,lte=10"`
	WalkerDepth int    `mapstructure:"walker_depth" yaml:"walker_depth" validate:"gte=1,lte=10"`
	FieldsFile  string `mapstructure:"fields_file" yaml:"fields_file"`
	Version     string `mapstructure:"version" yaml:"version"`
}

// NoiseRule suppresses values that contain any of the listed fragments.
// An empty Domain applies to every site.
type NoiseRule struct {
	Domain   string   `mapstructure:"domain" yaml:"domain"`
	Field    string   `mapstructure:"field" yaml:"field" validate:"required"`
	Contains []string `mapstructure:"contains" yaml:"contains" validate:"required,min=1"`
}

// NoiseConfig holds extra deny rules layered over the built-in ones
type NoiseConfig struct {
	Rules []NoiseRule `mapstructure:"rules" yaml:"rules" validate:"dive"`
}

// SinkConfig selects where extraction results are written
type SinkConfig struct {
	Kind  string          `mapstructure:"kind" yaml:"kind" validate:"oneof=none file mongo kafka"`
	File  FileSinkConfig  `mapstructure:"file" yaml:"file"`
	Mongo MongoSinkConfig `mapstructure:"mongo" yaml:"mongo"`
	Kafka KafkaSinkConfig `mapstructure:"kafka" yaml:"kafka"`
}

// FileSinkConfig writes JSON lines to a file
type FileSinkConfig struct {
	Path string `mapstructure:"path" yaml:"path"`
}

// MongoSinkConfig stores one document per source domain
type MongoSinkConfig struct {
	URI        string `mapstructure:"uri" yaml:"uri"`
	Database   string `mapstructure:"database" yaml:"database"`
	Collection string `mapstructure:"collection" yaml:"collection"`
}

// KafkaSinkConfig publishes results keyed by source domain
type KafkaSinkConfig struct {
	Brokers []string `mapstructure:"brokers" yaml:"brokers"`
	Topic   string   `mapstructure:"topic" yaml:"topic"`
}

// ServerConfig configures the HTTP API
type ServerConfig struct {
	Addr           string        `mapstructure:"addr" yaml:"addr" validate:"required"`
	RequestTimeout time.Duration `mapstructure:"request_timeout" yaml:"request_timeout" validate:"gt=0"`
}

// LogConfig configures logging
type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level" validate:"oneof=trace debug info warn error"`
	Format string `mapstructure:"format" yaml:"format" validate:"oneof=auto json console"`
}

// DefaultConfig returns the built-in defaults
func DefaultConfig() *Config {
	cacheDir := ".profilemap-cache"
	if home, err := os.UserHomeDir(); err == nil {
		cacheDir = filepath.Join(home, ".profilemap", "cache")
	}

	return &Config{
		HTTP: HTTPConfig{
			Timeout:      30 * time.Second,
			UserAgent:    "profilemap/0.1 (+https://github.com/ppiankov/profilemap)",
			MaxBodyBytes: 2_000_000,
		},
		Network: NetworkConfig{
			Enabled:        false,
			RespectRobots:  true,
			RequestTimeout: 4 * time.Second,
		},
		RateLimiting: RateLimitingConfig{
			RequestsPerSecond: 2,
			BurstSize:         5,
		},
		Cache: CacheConfig{
			Enabled:   true,
			MemoryTTL: 5 * time.Minute,
			Disk:      false,
			Dir:       cacheDir,
			DiskTTL:   time.Hour,
		},
		Concurrency: ConcurrencyConfig{
			Workers: 4,
		},
		Mapping: MappingConfig{
			MaxDepth:    3,
			WalkerDepth: 3,
			Version:     "0.1.0",
		},
		Sink: SinkConfig{
			Kind: "none",
			File: FileSinkConfig{Path: "profiles.jsonl"},
			Mongo: MongoSinkConfig{
				URI:        "mongodb://localhost:27017",
				Database:   "profilemap",
				Collection: "profiles",
			},
			Kafka: KafkaSinkConfig{
				Brokers: []string{"localhost:9092"},
				Topic:   "profiles",
			},
		},
		Server: ServerConfig{
			Addr:           ":8080",
			RequestTimeout: 30 * time.Second,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "auto",
		},
	}
}

var configValidator = validator.New()

// Validate checks the configuration for invalid values
func (c *Config) Validate() error {
	if err := configValidator.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
