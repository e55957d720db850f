package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/matzehuels/cfgview/pkg/cfg"
	"github.com/matzehuels/cfgview/pkg/config"
	pkgio "github.com/matzehuels/cfgview/pkg/io"
	"github.com/matzehuels/cfgview/pkg/layout"
	"github.com/matzehuels/cfgview/pkg/session"
)

// samplePrefix selects a built-in sample instead of a file, as in "sample:conditional".
const samplePrefix = "sample:"

// readInput returns the raw JSON named by arg: a file path, "-" for stdin, or
// "sample:<name>".
func readInput(arg string) ([]byte, error) {
	switch {
	case arg == "-":
		return pkgio.ReadAll(os.Stdin)
	case strings.HasPrefix(arg, samplePrefix):
		return cfg.SampleJSON(strings.TrimPrefix(arg, samplePrefix))
	}
	f, err := os.Open(arg)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", arg, err)
	}
	defer f.Close()
	return pkgio.ReadAll(f)
}

// loadGraph reads and builds the graph named by arg.
func loadGraph(arg string) (*cfg.Graph, error) {
	data, err := readInput(arg)
	if err != nil {
		return nil, err
	}
	in, err := pkgio.ParseInput(data)
	if err != nil {
		return nil, err
	}
	return cfg.Build(in)
}

// sessionOptions are the session settings derived from the configuration.
func (c *CLI) sessionOptions(conf *config.Config, showDetails bool) []session.Option {
	return []session.Option{
		session.WithLogger(c.Logger),
		session.WithShowDetails(showDetails),
		session.WithPreview(conf.Viewer.Preview),
		session.WithLayoutOptions(layout.WithOptions(conf.LayoutOptions())),
	}
}

// openSession loads arg into a new headless session.
func (c *CLI) openSession(ctx context.Context, arg string, showDetails bool, extra ...session.Option) (*session.Session, error) {
	conf, err := c.loadConfig()
	if err != nil {
		return nil, err
	}
	data, err := readInput(arg)
	if err != nil {
		return nil, err
	}
	sess := session.New(append(c.sessionOptions(conf, showDetails), extra...)...)
	if err := sess.LoadBytes(ctx, arg, data); err != nil {
		sess.Close()
		return nil, fmt.Errorf("load %s: %w", arg, err)
	}
	return sess, nil
}
