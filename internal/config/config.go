// Package config loads the tagwire CLI configuration.
//
// The file is YAML. Flags given on the command line override file values;
// anything set in neither place keeps the value from Default.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the full CLI configuration.
type Config struct {
	Namespace string `yaml:"namespace"`
	// Key is the name the demo command stores its sequence under.
	Key string `yaml:"key"`
	// Provider is one of bigcache, ristretto, redis.
	Provider string `yaml:"provider"`
	// Codec is one of tagged, cbor, msgpack, json, protobuf.
	Codec string        `yaml:"codec"`
	TTL   time.Duration `yaml:"ttl"`
	// MaxDecode caps the payload size handed to the codec; 0 disables the cap.
	MaxDecode int `yaml:"max_decode"`

	Log       LogConfig       `yaml:"log"`
	Redis     RedisConfig     `yaml:"redis"`
	Ristretto RistrettoConfig `yaml:"ristretto"`
	Bigcache  BigcacheConfig  `yaml:"bigcache"`
}

type LogConfig struct {
	// Backend is zap, logrus or slog.
	Backend string `yaml:"backend"`
	// Level is one of debug, info, warn, error.
	Level string `yaml:"level"`
	// Format is console or json.
	Format string `yaml:"format"`
}

type RedisConfig struct {
	Addr string `yaml:"addr"`
	DB   int    `yaml:"db"`
	// SharedGens keeps generations in redis too, so several processes agree.
	SharedGens bool `yaml:"shared_gens"`
}

type RistrettoConfig struct {
	NumCounters int64 `yaml:"num_counters"`
	MaxCost     int64 `yaml:"max_cost"`
	BufferItems int64 `yaml:"buffer_items"`
}

type BigcacheConfig struct {
	Shards             int           `yaml:"shards"`
	LifeWindow         time.Duration `yaml:"life_window"`
	CleanWindow        time.Duration `yaml:"clean_window"`
	MaxEntriesInWindow int           `yaml:"max_entries_in_window"`
	MaxEntrySize       int           `yaml:"max_entry_size"`
	HardMaxCacheSizeMB int           `yaml:"hard_max_cache_size_mb"`
}

var (
	Providers = []string{"bigcache", "ristretto", "redis"}
	Codecs    = []string{"tagged", "cbor", "msgpack", "json", "protobuf"}
	backends  = []string{"zap", "logrus", "slog"}
	levels    = []string{"debug", "info", "warn", "error"}
	formats   = []string{"console", "json"}
)

// Default returns a working in-process configuration.
func Default() *Config {
	return &Config{
		Namespace: "demo",
		Key:       "listofoptions",
		Provider:  "bigcache",
		Codec:     "tagged",
		TTL:       10 * time.Minute,
		MaxDecode: 1 << 20,
		Log: LogConfig{
			Backend: "zap",
			Level:   "info",
			Format:  "console",
		},
		Redis: RedisConfig{
			Addr: "localhost:6379",
		},
		Ristretto: RistrettoConfig{
			NumCounters: 1e5,
			MaxCost:     64 << 20,
			BufferItems: 64,
		},
		Bigcache: BigcacheConfig{
			Shards:             64,
			LifeWindow:         10 * time.Minute,
			CleanWindow:        time.Minute,
			MaxEntriesInWindow: 1000,
			MaxEntrySize:       512,
		},
	}
}

// LoadFile reads path over Default. Unknown fields are an error; an empty
// file yields Default.
func LoadFile(path string) (*Config, error) {
	cfg := Default()
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	// an empty file is a valid config: all defaults
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate reports every problem at once.
func (c *Config) Validate() error {
	var errs []error
	if c.Namespace == "" {
		errs = append(errs, errors.New("namespace is required"))
	}
	if c.Key == "" {
		errs = append(errs, errors.New("key is required"))
	}
	if !oneOf(c.Provider, Providers) {
		errs = append(errs, fmt.Errorf("provider %q: want one of %v", c.Provider, Providers))
	}
	if !oneOf(c.Codec, Codecs) {
		errs = append(errs, fmt.Errorf("codec %q: want one of %v", c.Codec, Codecs))
	}
	if c.TTL < 0 {
		errs = append(errs, fmt.Errorf("ttl %v is negative", c.TTL))
	}
	if c.MaxDecode < 0 {
		errs = append(errs, fmt.Errorf("max_decode %d is negative", c.MaxDecode))
	}
	if !oneOf(c.Log.Backend, backends) {
		errs = append(errs, fmt.Errorf("log.backend %q: want one of %v", c.Log.Backend, backends))
	}
	if !oneOf(c.Log.Level, levels) {
		errs = append(errs, fmt.Errorf("log.level %q: want one of %v", c.Log.Level, levels))
	}
	if !oneOf(c.Log.Format, formats) {
		errs = append(errs, fmt.Errorf("log.format %q: want one of %v", c.Log.Format, formats))
	}
	if (c.Provider == "redis" || c.Redis.SharedGens) && c.Redis.Addr == "" {
		errs = append(errs, errors.New("redis.addr is required"))
	}
	if c.Provider == "ristretto" && (c.Ristretto.NumCounters <= 0 || c.Ristretto.MaxCost <= 0 || c.Ristretto.BufferItems <= 0) {
		errs = append(errs, errors.New("ristretto: num_counters, max_cost and buffer_items must be > 0"))
	}
	if c.Provider == "bigcache" && c.Bigcache.Shards&(c.Bigcache.Shards-1) != 0 {
		errs = append(errs, fmt.Errorf("bigcache.shards %d must be a power of two", c.Bigcache.Shards))
	}
	return errors.Join(errs...)
}

func oneOf(v string, set []string) bool {
	for _, s := range set {
		if v == s {
			return true
		}
	}
	return false
}
