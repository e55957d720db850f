package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/cfgview/pkg/observability"
)

// newLogger creates a new logger with timestamp formatting.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress tracks the start time of an operation and logs completion with elapsed duration.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg along with the elapsed time since progress was created.
// Example output: "Layout settled (1.234s)"
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

// =============================================================================
// Logging Hooks
// =============================================================================

// logHooks reports build, layout and cache events as debug log lines.
type logHooks struct {
	logger *log.Logger
}

// RegisterHooks routes observability events to the CLI logger. main calls it in
// verbose mode.
func (c *CLI) RegisterHooks() {
	h := logHooks{logger: c.Logger}
	observability.SetBuildHooks(h)
	observability.SetLayoutHooks(h)
	observability.SetCacheHooks(h)
}

func (h logHooks) OnBuildStart(_ context.Context, source string) {
	h.logger.Debug("building graph", "source", source)
}

func (h logHooks) OnBuildComplete(_ context.Context, source string, nodes, edges int, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("graph build failed", "source", source, "err", err)
		return
	}
	h.logger.Debug("graph built", "source", source, "nodes", nodes, "edges", edges, "took", d)
}

func (h logHooks) OnLayoutStart(nodes, edges int) {
	h.logger.Debug("layout run started", "nodes", nodes, "edges", edges)
}

func (h logHooks) OnLayoutSettled(ticks int, elapsed time.Duration) {
	h.logger.Debug("layout run settled", "ticks", ticks, "elapsed", elapsed)
}

func (h logHooks) OnLayoutStopped(ticks int) {
	h.logger.Debug("layout run stopped", "ticks", ticks)
}

func (h logHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h logHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h logHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "bytes", size)
}
