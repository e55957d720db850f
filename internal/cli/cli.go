// Package cli implements the cfgview command-line interface.
package cli

import (
	"io"
	"os"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/cfgview/pkg/cache"
	"github.com/matzehuels/cfgview/pkg/config"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "cfgview"

	// defaultMaxFrames bounds headless settling.
	defaultMaxFrames = 2000
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	Out    io.Writer

	configPath string
	cfg        *config.Config
}

// New creates a new CLI instance logging to w. Command output goes to stdout.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Out:    os.Stdout,
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// loadConfig returns the loaded configuration, loading it on first use.
func (c *CLI) loadConfig() (*config.Config, error) {
	if c.cfg != nil {
		return c.cfg, nil
	}
	path := c.configPath
	if path == "" {
		path = config.Path()
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	c.Logger.Debug("config loaded", "path", path)
	c.cfg = cfg
	return cfg, nil
}

// =============================================================================
// Cache Factory
// =============================================================================

// newCache opens the render cache configured in cfg, or a null cache when caching
// is off. A cache directory that cannot be created degrades to the null cache.
func (c *CLI) newCache(conf *config.Config, noCache bool) (cache.Cache, cache.Keyer) {
	keyer := cache.NewDefaultKeyer()
	if conf.Cache.Namespace != "" {
		keyer = cache.NewScopedKeyer(keyer, conf.Cache.Namespace+":")
	}
	if noCache || !conf.Cache.Enabled {
		return cache.NewNullCache(), keyer
	}
	fc, err := cache.NewFileCache(conf.Cache.Dir)
	if err != nil {
		c.Logger.Warn("render cache disabled", "dir", conf.Cache.Dir, "err", err)
		return cache.NewNullCache(), keyer
	}
	return fc, keyer
}
