// Package config loads service and CLI settings from TOML.
//
// Settings come from three layers, later ones winning: [Default], a TOML
// file read by [Load], and ALBUMPOSTER_* environment variables applied by
// [Config.ApplyEnv]. Command-line flags are applied by the CLI on top.
//
//	[server]
//	addr = ":8080"
//
//	[cache]
//	backend = "redis"
//	redis_url = "redis://localhost:6379/0"
//	poster_ttl = "30m"
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/albumposter/pkg/cache"
	"github.com/matzehuels/albumposter/pkg/poster/sink"
)

// DefaultPath is read by Load when no path is given.
const DefaultPath = "albumposter.toml"

// Config is the complete configuration.
type Config struct {
	Server ServerConfig `toml:"server"`
	Fonts  FontsConfig  `toml:"fonts"`
	Render RenderConfig `toml:"render"`
	Cache  CacheConfig  `toml:"cache"`
	Fetch  FetchConfig  `toml:"fetch"`
}

// ServerConfig configures the HTTP service.
type ServerConfig struct {
	Addr           string   `toml:"addr"`
	ReadTimeout    Duration `toml:"read_timeout"`
	WriteTimeout   Duration `toml:"write_timeout"`
	AllowedOrigins []string `toml:"allowed_origins"`
	MaxBodyBytes   int64    `toml:"max_body_bytes"`
}

// FontsConfig says where the font weights come from. With neither Dir nor
// BaseURL set, the embedded Go fonts are used.
type FontsConfig struct {
	Dir       string `toml:"dir"`
	BaseURL   string `toml:"base_url"`
	Extension string `toml:"extension"`
}

// RenderConfig bounds canvas sizes and sets output defaults.
type RenderConfig struct {
	MaxWidth      int    `toml:"max_width"`
	MaxResolution int    `toml:"max_resolution"`
	JPEGQuality   int    `toml:"jpeg_quality"`
	DefaultFormat string `toml:"default_format"`
}

// CacheConfig selects the cache backend and entry lifetimes.
type CacheConfig struct {
	Backend         string   `toml:"backend"`
	Dir             string   `toml:"dir"`
	RedisURL        string   `toml:"redis_url"`
	MongoURI        string   `toml:"mongo_uri"`
	MongoDatabase   string   `toml:"mongo_database"`
	MongoCollection string   `toml:"mongo_collection"`
	KeyPrefix       string   `toml:"key_prefix"`
	ArtworkTTL      Duration `toml:"artwork_ttl"`
	PosterTTL       Duration `toml:"poster_ttl"`
}

// Options converts c to cache.Options.
func (c CacheConfig) Options() cache.Options {
	return cache.Options{
		Backend:         c.Backend,
		Dir:             c.Dir,
		RedisURL:        c.RedisURL,
		MongoURI:        c.MongoURI,
		MongoDatabase:   c.MongoDatabase,
		MongoCollection: c.MongoCollection,
	}
}

// FetchConfig configures artwork and font downloads.
type FetchConfig struct {
	Timeout   Duration `toml:"timeout"`
	Attempts  int      `toml:"attempts"`
	UserAgent string   `toml:"user_agent"`
}

// Duration is a time.Duration written as a Go duration string ("15s").
type Duration time.Duration

// D returns d as a time.Duration.
func (d Duration) D() time.Duration { return time.Duration(d) }

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Addr:           ":8080",
			ReadTimeout:    Duration(15 * time.Second),
			WriteTimeout:   Duration(60 * time.Second),
			AllowedOrigins: []string{"*"},
			MaxBodyBytes:   1 << 20,
		},
		Fonts: FontsConfig{Extension: "otf"},
		Render: RenderConfig{
			MaxWidth:      1440,
			MaxResolution: 4096,
			JPEGQuality:   100,
			DefaultFormat: string(sink.FormatJPEG),
		},
		Cache: CacheConfig{
			Backend:    cache.BackendFile,
			ArtworkTTL: Duration(24 * time.Hour),
			PosterTTL:  Duration(time.Hour),
		},
		Fetch: FetchConfig{
			Timeout:   Duration(10 * time.Second),
			Attempts:  3,
			UserAgent: "albumposter",
		},
	}
}

// Load returns the defaults overlaid with the TOML file at path. With an
// empty path, DefaultPath is tried and a missing file is not an error.
// Unknown keys are rejected.
func Load(path string) (Config, error) {
	cfg := Default()
	explicit := path != ""
	if !explicit {
		path = DefaultPath
	}

	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return Default(), nil
		}
		return Config{}, fmt.Errorf("load config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, fmt.Errorf("load config %s: unknown keys %s", path, strings.Join(keys, ", "))
	}
	return cfg, nil
}

// Environment variables read by ApplyEnv.
const (
	EnvAddr         = "ALBUMPOSTER_ADDR"
	EnvCacheBackend = "ALBUMPOSTER_CACHE_BACKEND"
	EnvRedisURL     = "ALBUMPOSTER_REDIS_URL"
	EnvMongoURI     = "ALBUMPOSTER_MONGO_URI"
	EnvFontDir      = "ALBUMPOSTER_FONT_DIR"
	EnvFontURL      = "ALBUMPOSTER_FONT_URL"
	EnvJPEGQuality  = "ALBUMPOSTER_JPEG_QUALITY"
)

// ApplyEnv overlays the ALBUMPOSTER_* variables that are set and non-empty.
func (c *Config) ApplyEnv() error {
	strs := []struct {
		name string
		dst  *string
	}{
		{EnvAddr, &c.Server.Addr},
		{EnvCacheBackend, &c.Cache.Backend},
		{EnvRedisURL, &c.Cache.RedisURL},
		{EnvMongoURI, &c.Cache.MongoURI},
		{EnvFontDir, &c.Fonts.Dir},
		{EnvFontURL, &c.Fonts.BaseURL},
	}
	for _, s := range strs {
		if v := os.Getenv(s.name); v != "" {
			*s.dst = v
		}
	}
	if v := os.Getenv(EnvJPEGQuality); v != "" {
		q, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvJPEGQuality, err)
		}
		c.Render.JPEGQuality = q
	}
	return nil
}

// Validate reports the first setting that cannot work.
func (c Config) Validate() error {
	switch {
	case c.Server.Addr == "":
		return errors.New("server.addr is empty")
	case c.Server.MaxBodyBytes <= 0:
		return errors.New("server.max_body_bytes must be positive")
	case c.Server.ReadTimeout <= 0 || c.Server.WriteTimeout <= 0:
		return errors.New("server timeouts must be positive")
	case c.Render.MaxWidth <= 0:
		return errors.New("render.max_width must be positive")
	case c.Render.MaxResolution <= 0:
		return errors.New("render.max_resolution must be positive")
	case c.Render.JPEGQuality < 1 || c.Render.JPEGQuality > 100:
		return fmt.Errorf("render.jpeg_quality %d is outside 1..100", c.Render.JPEGQuality)
	case c.Fetch.Attempts <= 0:
		return errors.New("fetch.attempts must be positive")
	case c.Fetch.Timeout <= 0:
		return errors.New("fetch.timeout must be positive")
	case c.Cache.ArtworkTTL < 0 || c.Cache.PosterTTL < 0:
		return errors.New("cache ttls must not be negative")
	}
	if _, err := sink.ParseFormat(c.Render.DefaultFormat); err != nil {
		return fmt.Errorf("render.default_format: %w", err)
	}
	if !slices.Contains(cache.Backends, c.Cache.Backend) {
		return fmt.Errorf("cache.backend %q is not one of %s", c.Cache.Backend, strings.Join(cache.Backends, ", "))
	}
	switch {
	case c.Cache.Backend == cache.BackendRedis && c.Cache.RedisURL == "":
		return errors.New("cache.redis_url is required for the redis backend")
	case c.Cache.Backend == cache.BackendMongo && c.Cache.MongoURI == "":
		return errors.New("cache.mongo_uri is required for the mongo backend")
	}
	return nil
}
