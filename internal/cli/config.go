package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/gogpu/psdcomp"
)

// Config holds defaults read from the TOML config file.
//
//	[render]
//	format = "png"
//	quality = 0.92
//	background = "#ffffff"
//	blend_modes = true
//	max_size = 0
//
//	[cache]
//	size = 50
//	pool_per_size = 4
//
//	[server]
//	addr = ":8080"
//	read_timeout = "10s"
//	write_timeout = "30s"
type Config struct {
	Render RenderConfig `toml:"render"`
	Cache  CacheConfig  `toml:"cache"`
	Server ServerConfig `toml:"server"`
}

// RenderConfig controls output encoding and compositing defaults.
type RenderConfig struct {
	Format     string   `toml:"format"`
	Quality    *float64 `toml:"quality"`
	Background string   `toml:"background"`
	BlendModes *bool    `toml:"blend_modes"`
	MaxSize    int      `toml:"max_size"`
}

// CacheConfig sizes the compositor cache and scratch pool.
type CacheConfig struct {
	Size        int `toml:"size"`
	PoolPerSize int `toml:"pool_per_size"`
}

// ServerConfig controls the preview server.
type ServerConfig struct {
	Addr         string        `toml:"addr"`
	ReadTimeout  time.Duration `toml:"read_timeout"`
	WriteTimeout time.Duration `toml:"write_timeout"`
}

func (c *Config) defaults() {
	if c.Render.Format == "" {
		c.Render.Format = string(psdcomp.FormatPNG)
	}
	if c.Render.Quality == nil {
		q := psdcomp.DefaultQuality
		c.Render.Quality = &q
	}
	if c.Render.BlendModes == nil {
		enabled := true
		c.Render.BlendModes = &enabled
	}
	if c.Cache.Size <= 0 {
		c.Cache.Size = 50
	}
	if c.Cache.PoolPerSize <= 0 {
		c.Cache.PoolPerSize = 4
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Server.ReadTimeout <= 0 {
		c.Server.ReadTimeout = 10 * time.Second
	}
	if c.Server.WriteTimeout <= 0 {
		c.Server.WriteTimeout = 30 * time.Second
	}
}

// loadConfig reads path, or returns defaults when path is empty.
// Unknown keys are rejected so typos do not go unnoticed.
func loadConfig(path string) (*Config, error) {
	cfg := &Config{}
	if path != "" {
		md, err := toml.DecodeFile(path, cfg)
		if err != nil {
			return nil, fmt.Errorf("config: %w", err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			keys := make([]string, len(undecoded))
			for i, k := range undecoded {
				keys[i] = k.String()
			}
			return nil, fmt.Errorf("config: unknown keys: %s", strings.Join(keys, ", "))
		}
		if q := cfg.Render.Quality; q != nil && !(*q >= 0 && *q <= 1) {
			return nil, fmt.Errorf("config: render.quality %v outside [0, 1]", *q)
		}
	}
	cfg.defaults()
	return cfg, nil
}

// newCompositor builds a compositor sized by cfg.
func (c *Config) newCompositor() *psdcomp.Compositor {
	return psdcomp.NewCompositor(
		psdcomp.WithCacheSize(c.Cache.Size),
		psdcomp.WithPool(c.Cache.PoolPerSize),
	)
}

func withConfig(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, configKey, cfg)
}

// configFromContext returns the config attached to ctx, or defaults.
func configFromContext(ctx context.Context) *Config {
	if cfg, ok := ctx.Value(configKey).(*Config); ok {
		return cfg
	}
	cfg := &Config{}
	cfg.defaults()
	return cfg
}
