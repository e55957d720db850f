// Package config loads the cfgview configuration file.
//
// The file is TOML, at $XDG_CONFIG_HOME/cfgview/config.toml by default. Every key is
// optional; missing keys keep their defaults.
//
//	[canvas]
//	width = 1200
//	height = 800
//
//	[layout]
//	charge_strength = -600
//	tick_interval = "16ms"
//
//	[server]
//	addr = ":8080"
//	store = "redis"
//	redis_addr = "localhost:6379"
package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/cfgview/pkg/errors"
	"github.com/matzehuels/cfgview/pkg/layout"
	"github.com/matzehuels/cfgview/pkg/session/store"
)

// Config holds cfgview configuration.
type Config struct {
	Canvas CanvasConfig `toml:"canvas"`
	Layout LayoutConfig `toml:"layout"`
	Viewer ViewerConfig `toml:"viewer"`
	Server ServerConfig `toml:"server"`
	Cache  CacheConfig  `toml:"cache"`
}

// CanvasConfig is the drawing area the layout centers on.
type CanvasConfig struct {
	Width  float64 `toml:"width"`
	Height float64 `toml:"height"`
}

// LayoutConfig tunes the force simulation.
type LayoutConfig struct {
	LinkDistance       float64  `toml:"link_distance"`
	DetailLinkDistance float64  `toml:"detail_link_distance"`
	LinkStrength       float64  `toml:"link_strength"`
	ChargeStrength     float64  `toml:"charge_strength"`
	NodeRadius         float64  `toml:"node_radius"`
	DetailRadius       float64  `toml:"detail_radius"`
	CollideStrength    float64  `toml:"collide_strength"`
	AlphaMin           float64  `toml:"alpha_min"`
	AlphaDecay         float64  `toml:"alpha_decay"`
	VelocityDecay      float64  `toml:"velocity_decay"`
	DragAlphaTarget    float64  `toml:"drag_alpha_target"`
	TickInterval       Duration `toml:"tick_interval"`
	MaxStepsPerFrame   int      `toml:"max_steps_per_frame"`
}

// ViewerConfig controls the details panel and the initial detail setting.
type ViewerConfig struct {
	ShowDetails bool `toml:"show_details"`
	Preview     int  `toml:"preview"`
}

// ServerConfig controls the HTTP API.
type ServerConfig struct {
	Addr       string   `toml:"addr"`
	SessionTTL Duration `toml:"session_ttl"`
	Store      string   `toml:"store"` // "memory", "file", "redis", "mongo"
	StoreDir   string   `toml:"store_dir"`

	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`

	MongoURI        string `toml:"mongo_uri"`
	MongoDatabase   string `toml:"mongo_database"`
	MongoCollection string `toml:"mongo_collection"`
}

// CacheConfig controls the render cache.
type CacheConfig struct {
	Enabled   bool     `toml:"enabled"`
	Dir       string   `toml:"dir"`
	TTL       Duration `toml:"ttl"`
	Namespace string   `toml:"namespace"`
}

// Duration is a time.Duration written as a string ("16ms", "24h") in TOML.
type Duration struct{ time.Duration }

func (d Duration) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// Default returns the default configuration.
func Default() *Config {
	o := layout.DefaultOptions()
	return &Config{
		Canvas: CanvasConfig{Width: o.Width, Height: o.Height},
		Layout: LayoutConfig{
			LinkDistance:       o.LinkDistance,
			DetailLinkDistance: o.DetailLinkDistance,
			LinkStrength:       o.LinkStrength,
			ChargeStrength:     o.ChargeStrength,
			NodeRadius:         o.NodeRadius,
			DetailRadius:       o.DetailRadius,
			CollideStrength:    o.CollideStrength,
			AlphaMin:           o.AlphaMin,
			AlphaDecay:         o.AlphaDecay,
			VelocityDecay:      o.VelocityDecay,
			DragAlphaTarget:    o.DragAlphaTarget,
			TickInterval:       Duration{o.TickInterval},
			MaxStepsPerFrame:   o.MaxStepsPerFrame,
		},
		Viewer: ViewerConfig{Preview: 5},
		Server: ServerConfig{
			Addr:       ":8080",
			SessionTTL: Duration{24 * time.Hour},
			Store:      store.BackendMemory,
		},
		Cache: CacheConfig{
			Enabled: true,
			Dir:     CacheDir(),
			TTL:     Duration{7 * 24 * time.Hour},
		},
	}
}

// ConfigDir returns the cfgview config directory path.
func ConfigDir() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "cfgview")
}

// CacheDir returns the default render cache directory.
func CacheDir() string {
	dir := os.Getenv("XDG_CACHE_HOME")
	if dir == "" {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".cache")
	}
	return filepath.Join(dir, "cfgview")
}

// Path returns the default config file path.
func Path() string { return filepath.Join(ConfigDir(), "config.toml") }

// Load reads the config file at path, or the default path when path is empty. A
// missing file yields the defaults; a malformed one is an INVALID_CONFIG error.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		path = Path()
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config")
	}
	md, err := toml.Decode(string(data), cfg)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", filepath.Base(path))
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown config keys: %s", strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes cfg to path, or the default path when path is empty.
func Save(cfg *Config, path string) error {
	if path == "" {
		path = Path()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "create config dir")
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "create config")
	}
	defer f.Close()
	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "write config")
	}
	return nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	switch {
	case c.Canvas.Width <= 0 || c.Canvas.Height <= 0:
		return errors.New(errors.ErrCodeInvalidConfig, "canvas size must be positive")
	case c.Layout.AlphaMin <= 0 || c.Layout.AlphaMin >= 1:
		return errors.New(errors.ErrCodeInvalidConfig, "layout.alpha_min must be in (0, 1)")
	case c.Layout.AlphaDecay <= 0 || c.Layout.AlphaDecay >= 1:
		return errors.New(errors.ErrCodeInvalidConfig, "layout.alpha_decay must be in (0, 1)")
	case c.Layout.VelocityDecay < 0 || c.Layout.VelocityDecay > 1:
		return errors.New(errors.ErrCodeInvalidConfig, "layout.velocity_decay must be in [0, 1]")
	case c.Layout.MaxStepsPerFrame < 1:
		return errors.New(errors.ErrCodeInvalidConfig, "layout.max_steps_per_frame must be at least 1")
	}
	return nil
}

// LayoutOptions converts the canvas and layout sections to engine options.
func (c *Config) LayoutOptions() layout.Options {
	o := layout.DefaultOptions()
	o.Width, o.Height = c.Canvas.Width, c.Canvas.Height
	l := c.Layout
	o.LinkDistance = l.LinkDistance
	o.DetailLinkDistance = l.DetailLinkDistance
	o.LinkStrength = l.LinkStrength
	o.ChargeStrength = l.ChargeStrength
	o.NodeRadius = l.NodeRadius
	o.DetailRadius = l.DetailRadius
	o.CollideStrength = l.CollideStrength
	o.AlphaMin = l.AlphaMin
	o.AlphaDecay = l.AlphaDecay
	o.VelocityDecay = l.VelocityDecay
	o.DragAlphaTarget = l.DragAlphaTarget
	o.TickInterval = l.TickInterval.Duration
	o.MaxStepsPerFrame = l.MaxStepsPerFrame
	return o
}

// StoreConfig converts the server section to session store settings.
func (c *Config) StoreConfig() store.Config {
	s := c.Server
	return store.Config{
		Backend:         s.Store,
		FileDir:         s.StoreDir,
		RedisAddr:       s.RedisAddr,
		RedisPassword:   s.RedisPassword,
		RedisDB:         s.RedisDB,
		MongoURI:        s.MongoURI,
		MongoDatabase:   s.MongoDatabase,
		MongoCollection: s.MongoCollection,
	}
}
