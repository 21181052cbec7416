// Package config reads the geco configuration file.
//
// The file is TOML and lives at $XDG_CONFIG_HOME/geco/config.toml unless a
// path is given explicitly:
//
//	[backend]
//	source  = "remote"              # remote | mongo
//	url     = "http://localhost:8000/gmgfam"
//	timeout = "30s"
//	retries = 3
//
//	[cache]
//	backend = "file"                # none | file | memory | redis
//	ttl     = "24h"
//
//	[mongo]
//	uri        = "mongodb://localhost:27017"
//	database   = "geco"
//	collection = "contexts"
//
//	[server]
//	addr         = ":8080"
//	cors_origins = ["http://localhost:5173"]
//
//	[render]
//	width = 1400
//	style = "simple"
//
// Missing values take the defaults of [Default]; command-line flags
// override the file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/geco/pkg/cache"
	gerrors "github.com/matzehuels/geco/pkg/errors"
)

// Source names.
const (
	SourceRemote = "remote"
	SourceMongo  = "mongo"
)

// Config is the whole configuration file.
type Config struct {
	Backend BackendConfig `toml:"backend"`
	Cache   CacheConfig   `toml:"cache"`
	Mongo   MongoConfig   `toml:"mongo"`
	Server  ServerConfig  `toml:"server"`
	Render  RenderConfig  `toml:"render"`

	// Path is the file the configuration was read from, if any.
	Path string `toml:"-"`
}

// BackendConfig selects where queried datasets come from.
type BackendConfig struct {
	Source  string        `toml:"source"`
	URL     string        `toml:"url"`
	Timeout time.Duration `toml:"timeout"`
	Retries int           `toml:"retries"`
}

// CacheConfig configures the response and artifact cache.
type CacheConfig struct {
	Backend       string        `toml:"backend"`
	Dir           string        `toml:"dir"`
	Size          int           `toml:"size"`
	TTL           time.Duration `toml:"ttl"`
	RedisAddr     string        `toml:"redis_addr"`
	RedisPassword string        `toml:"redis_password"`
	RedisDB       int           `toml:"redis_db"`
}

// MongoConfig configures the MongoDB dataset source.
type MongoConfig struct {
	URI        string        `toml:"uri"`
	Database   string        `toml:"database"`
	Collection string        `toml:"collection"`
	Trees      string        `toml:"trees"`
	Labels     string        `toml:"labels"`
	Timeout    time.Duration `toml:"timeout"`
}

// ServerConfig configures geco serve.
type ServerConfig struct {
	Addr         string        `toml:"addr"`
	CORSOrigins  []string      `toml:"cors_origins"`
	ReadTimeout  time.Duration `toml:"read_timeout"`
	WriteTimeout time.Duration `toml:"write_timeout"`
}

// RenderConfig holds drawing defaults.
type RenderConfig struct {
	Width  int    `toml:"width"`
	Colors string `toml:"colors"`
	Seed   uint64 `toml:"seed"`
	Style  string `toml:"style"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Backend: BackendConfig{
			Source:  SourceRemote,
			URL:     "http://localhost:8000/gmgfam",
			Timeout: 30 * time.Second,
			Retries: 3,
		},
		Cache: CacheConfig{
			Backend: cache.BackendFile,
			Dir:     defaultCacheDir(),
			Size:    cache.DefaultMemorySize,
			TTL:     24 * time.Hour,
		},
		Mongo: MongoConfig{
			Database:   "geco",
			Collection: "contexts",
			Timeout:    10 * time.Second,
		},
		Server: ServerConfig{
			Addr:         ":8080",
			CORSOrigins:  []string{"*"},
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 2 * time.Minute,
		},
		Render: RenderConfig{
			Width: 1400,
			Style: "simple",
		},
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/geco/config.toml, or "" when no
// configuration directory is known.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "geco", "config.toml")
}

// Load reads the file at path. With an empty path the default location is
// tried and a missing file yields [Default]; an explicit path must exist.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}
	if path == "" {
		return Default(), nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) && !explicit {
		return Default(), nil
	}

	cfg := &Config{}
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	if err := checkUndecoded(md); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	cfg.Path = path
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes a configuration from TOML text.
func Parse(text string) (*Config, error) {
	cfg := &Config{}
	md, err := toml.Decode(text, cfg)
	if err != nil {
		return nil, err
	}
	if err := checkUndecoded(md); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return cfg, cfg.Validate()
}

func checkUndecoded(md toml.MetaData) error {
	undecoded := md.Undecoded()
	if len(undecoded) == 0 {
		return nil
	}
	keys := make([]string, len(undecoded))
	for i, k := range undecoded {
		keys[i] = k.String()
	}
	sort.Strings(keys)
	return fmt.Errorf("unknown keys: %s", strings.Join(keys, ", "))
}

func (c *Config) applyDefaults() {
	d := Default()
	if c.Backend.Source == "" {
		c.Backend.Source = d.Backend.Source
	}
	if c.Backend.URL == "" {
		c.Backend.URL = d.Backend.URL
	}
	if c.Backend.Timeout == 0 {
		c.Backend.Timeout = d.Backend.Timeout
	}
	if c.Backend.Retries == 0 {
		c.Backend.Retries = d.Backend.Retries
	}
	if c.Cache.Backend == "" {
		c.Cache.Backend = d.Cache.Backend
	}
	if c.Cache.Dir == "" {
		c.Cache.Dir = d.Cache.Dir
	}
	if c.Cache.Size == 0 {
		c.Cache.Size = d.Cache.Size
	}
	if c.Cache.TTL == 0 {
		c.Cache.TTL = d.Cache.TTL
	}
	if c.Mongo.Database == "" {
		c.Mongo.Database = d.Mongo.Database
	}
	if c.Mongo.Collection == "" {
		c.Mongo.Collection = d.Mongo.Collection
	}
	if c.Mongo.Timeout == 0 {
		c.Mongo.Timeout = d.Mongo.Timeout
	}
	if c.Server.Addr == "" {
		c.Server.Addr = d.Server.Addr
	}
	if len(c.Server.CORSOrigins) == 0 {
		c.Server.CORSOrigins = d.Server.CORSOrigins
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = d.Server.ReadTimeout
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = d.Server.WriteTimeout
	}
	if c.Render.Width == 0 {
		c.Render.Width = d.Render.Width
	}
	if c.Render.Style == "" {
		c.Render.Style = d.Render.Style
	}
}

// Validate checks enumerated values and ranges.
func (c *Config) Validate() error {
	switch c.Backend.Source {
	case SourceRemote, SourceMongo:
	default:
		return fmt.Errorf("backend.source: unknown source %q", c.Backend.Source)
	}
	if c.Backend.Source == SourceRemote {
		if err := gerrors.ValidateURL(c.Backend.URL); err != nil {
			return fmt.Errorf("backend.url: %w", err)
		}
	}
	if c.Backend.Source == SourceMongo && c.Mongo.URI == "" {
		return fmt.Errorf("mongo.uri is required with backend.source = %q", SourceMongo)
	}
	switch c.Cache.Backend {
	case cache.BackendNone, cache.BackendFile, cache.BackendMemory, cache.BackendRedis:
	default:
		return fmt.Errorf("cache.backend: unknown backend %q", c.Cache.Backend)
	}
	if c.Cache.Backend == cache.BackendRedis && c.Cache.RedisAddr == "" {
		return fmt.Errorf("cache.redis_addr is required with the redis backend")
	}
	if c.Backend.Retries < 0 || c.Cache.Size < 0 || c.Render.Width < 0 {
		return fmt.Errorf("retries, cache size and width must not be negative")
	}
	return nil
}

// CacheOptions converts the cache section for [cache.Open].
func (c *Config) CacheOptions() cache.Config {
	return cache.Config{
		Backend:       c.Cache.Backend,
		Dir:           c.Cache.Dir,
		Size:          c.Cache.Size,
		RedisAddr:     c.Cache.RedisAddr,
		RedisPassword: c.Cache.RedisPassword,
		RedisDB:       c.Cache.RedisDB,
	}
}

func defaultCacheDir() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "geco")
	}
	return filepath.Join(dir, "geco")
}
