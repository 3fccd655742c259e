// Package config loads the pagecraft configuration file.
//
// The file is TOML. [Load] starts from [Default], overlays the file if it
// exists, then applies environment overrides:
//
//	PAGECRAFT_RENDER_URL     render.url
//	PAGECRAFT_CACHE_BACKEND  cache.backend
//	PAGECRAFT_REDIS_ADDR     cache.redis_addr
//	PAGECRAFT_MONGO_URI      cache.mongo_uri
//
// A missing file is not an error; an unreadable or malformed one is.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/pagecraft/pkg/cache"
	"github.com/matzehuels/pagecraft/pkg/errors"
	"github.com/matzehuels/pagecraft/pkg/render"
)

// AppName names the configuration and cache directories.
const AppName = "pagecraft"

// Config is the full configuration.
type Config struct {
	Render RenderConfig `toml:"render"`
	Cache  CacheConfig  `toml:"cache"`
	Server ServerConfig `toml:"server"`
}

// RenderConfig configures the render service client.
type RenderConfig struct {
	URL      string        `toml:"url"`
	Timeout  time.Duration `toml:"timeout"`
	Attempts int           `toml:"attempts"`
	Backoff  time.Duration `toml:"backoff"`
}

// CacheConfig selects the cache backend for rendered pages.
type CacheConfig struct {
	Backend       string        `toml:"backend"`
	Dir           string        `toml:"dir"`
	TTL           time.Duration `toml:"ttl"`
	RedisAddr     string        `toml:"redis_addr"`
	MongoURI      string        `toml:"mongo_uri"`
	MongoDatabase string        `toml:"mongo_database"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Render: RenderConfig{
			URL:      render.DefaultURL,
			Timeout:  render.DefaultTimeout,
			Attempts: render.DefaultAttempts,
			Backoff:  render.DefaultBackoff,
		},
		Cache: CacheConfig{
			Backend:       string(cache.BackendFile),
			TTL:           24 * time.Hour,
			RedisAddr:     "localhost:6379",
			MongoURI:      "mongodb://localhost:27017",
			MongoDatabase: AppName,
		},
		Server: ServerConfig{Addr: ":8080"},
	}
}

// Load reads the configuration at path. An empty path means [Path].
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		p, err := Path()
		if err == nil {
			path = p
		}
	}
	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil && !os.IsNotExist(err) {
			return Config{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "read config %s", path)
		}
	}
	cfg.applyEnv(os.Getenv)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Decode parses TOML text on top of the defaults. It does not read the
// environment.
func Decode(text string) (Config, error) {
	cfg := Default()
	if _, err := toml.Decode(text, &cfg); err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse config")
	}
	return cfg, cfg.Validate()
}

func (c *Config) applyEnv(getenv func(string) string) {
	set := func(dst *string, key string) {
		if v := getenv(key); v != "" {
			*dst = v
		}
	}
	set(&c.Render.URL, "PAGECRAFT_RENDER_URL")
	set(&c.Cache.Backend, "PAGECRAFT_CACHE_BACKEND")
	set(&c.Cache.RedisAddr, "PAGECRAFT_REDIS_ADDR")
	set(&c.Cache.MongoURI, "PAGECRAFT_MONGO_URI")
}

// Validate checks the values a file or the environment can get wrong.
func (c Config) Validate() error {
	if err := errors.ValidateURL(c.Render.URL); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "render.url")
	}
	if c.Render.Attempts < 1 {
		return errors.New(errors.ErrCodeInvalidInput, "render.attempts must be at least 1, got %d", c.Render.Attempts)
	}
	if c.Render.Timeout < 0 || c.Render.Backoff < 0 || c.Cache.TTL < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "durations must not be negative")
	}
	if !slices.Contains(cache.Backends, cache.Backend(c.Cache.Backend)) {
		return errors.New(errors.ErrCodeInvalidInput, "cache.backend must be one of %v, got %q", cache.Backends, c.Cache.Backend)
	}
	return nil
}

// CacheOptions converts the cache section into backend options. An empty
// directory resolves to [CacheDir].
func (c Config) CacheOptions() (cache.Options, error) {
	opts := cache.Options{
		Backend:       cache.Backend(c.Cache.Backend),
		Dir:           c.Cache.Dir,
		RedisAddr:     c.Cache.RedisAddr,
		MongoURI:      c.Cache.MongoURI,
		MongoDatabase: c.Cache.MongoDatabase,
	}
	if opts.Backend == cache.BackendFile && opts.Dir == "" {
		dir, err := CacheDir()
		if err != nil {
			return cache.Options{}, fmt.Errorf("resolve cache dir: %w", err)
		}
		opts.Dir = dir
	}
	return opts, nil
}

// RenderOptions converts the render section into client options.
func (c Config) RenderOptions() render.Options {
	return render.Options{
		URL:      c.Render.URL,
		Timeout:  c.Render.Timeout,
		Attempts: c.Render.Attempts,
		Backoff:  c.Render.Backoff,
	}
}

// Path returns the default config file location
// ($XDG_CONFIG_HOME/pagecraft/config.toml or ~/.config/pagecraft/config.toml).
func Path() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, AppName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", AppName, "config.toml"), nil
}

// CacheDir returns the cache directory using XDG standard (~/.cache/pagecraft/).
func CacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, AppName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", AppName), nil
}
