package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// ErrInvalid is returned when a configuration fails validation.
var ErrInvalid = errors.New("invalid configuration")

// Store kinds.
const (
	StoreNone   = "none"
	StoreMemory = "memory"
	StoreFile   = "file"
	StoreRedis  = "redis"
	StoreSQLite = "sqlite"
)

// SearchConfig describes the enumeration to search.
type SearchConfig struct {
	States   []string `mapstructure:"states"`
	Alphabet []string `mapstructure:"alphabet"`
	Blank    string   `mapstructure:"blank"`
	Finals   []string `mapstructure:"finals"`
	Start    string   `mapstructure:"start"`
	Initial  string   `mapstructure:"initial"`
	MaxSteps int      `mapstructure:"max_steps"`
	Workers  int      `mapstructure:"workers"`
	Offset   uint64   `mapstructure:"offset"`
	Limit    uint64   `mapstructure:"limit"`
}

// RedisConfig configures the Redis result store.
type RedisConfig struct {
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	Prefix   string        `mapstructure:"prefix"`
	TTL      time.Duration `mapstructure:"ttl"`
}

// StoreConfig selects where search records go.
type StoreConfig struct {
	Kind     string      `mapstructure:"kind"`
	Path     string      `mapstructure:"path"`
	Database string      `mapstructure:"database"`
	Redis    RedisConfig `mapstructure:"redis"`
}

// HTTPConfig configures the results API.
type HTTPConfig struct {
	Addr string `mapstructure:"addr"`
}

// Config holds the runtime configuration of the CLI and server.
type Config struct {
	LogLevel string       `mapstructure:"log_level"`
	LogFile  string       `mapstructure:"log_file"`
	Search   SearchConfig `mapstructure:"search"`
	Store    StoreConfig  `mapstructure:"store"`
	HTTP     HTTPConfig   `mapstructure:"http"`
}

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads a YAML or JSON config file (by extension), applies defaults, and validates.
// An empty path yields the defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	var raw map[string]any
	if strings.ToLower(filepath.Ext(path)) == ".json" {
		err = json.Unmarshal(data, &raw)
	} else {
		err = yaml.Unmarshal(data, &raw)
	}
	if err != nil {
		return nil, fmt.Errorf("parse config %s: %w", filepath.Base(path), err)
	}

	var cfg Config
	if err := decode(raw, &cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func decode(input map[string]any, out *Config) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		Result:           out,
	})
	if err != nil {
		return err
	}
	return decoder.Decode(input)
}

func (c *Config) applyDefaults() {
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}

	s := &c.Search
	if len(s.States) == 0 {
		s.States = []string{"A", "B", "HALT"}
	}
	if len(s.Alphabet) == 0 {
		s.Alphabet = []string{"0", "1"}
	}
	if s.Blank == "" {
		s.Blank = s.Alphabet[0]
	}
	if len(s.Finals) == 0 && len(s.States) > 1 {
		s.Finals = []string{s.States[len(s.States)-1]}
	}
	if s.Start == "" {
		s.Start = s.States[0]
	}
	if s.Initial == "" {
		s.Initial = s.Blank
	}
	if s.MaxSteps == 0 {
		s.MaxSteps = 100
	}

	if c.Store.Kind == "" {
		c.Store.Kind = StoreNone
	}
	if c.Store.Path == "" {
		c.Store.Path = filepath.Join(".busybeaver", "runs")
	}
	if c.Store.Database == "" {
		c.Store.Database = filepath.Join(".busybeaver", "results.db")
	}
	if c.Store.Redis.Addr == "" {
		c.Store.Redis.Addr = "localhost:6379"
	}
	if c.Store.Redis.Prefix == "" {
		c.Store.Redis.Prefix = "busybeaver:"
	}

	if c.HTTP.Addr == "" {
		c.HTTP.Addr = ":8080"
	}
}

// Validate reports every problem at once.
func (c *Config) Validate() error {
	var problems []string

	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		problems = append(problems, fmt.Sprintf("log_level %q is not one of debug, info, warn, error", c.LogLevel))
	}

	if c.Search.MaxSteps < 0 {
		problems = append(problems, "search.max_steps must not be negative")
	}
	if c.Search.Workers < 0 {
		problems = append(problems, "search.workers must not be negative")
	}

	switch c.Store.Kind {
	case StoreNone, StoreMemory, StoreFile, StoreRedis, StoreSQLite:
	default:
		problems = append(problems, fmt.Sprintf("store.kind %q is not one of none, memory, file, redis, sqlite", c.Store.Kind))
	}
	if c.Store.Redis.TTL < 0 {
		problems = append(problems, "store.redis.ttl must not be negative")
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(problems, "; "))
	}
	return nil
}
