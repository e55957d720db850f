package cli

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/cfgview/pkg/cache"
	"github.com/matzehuels/cfgview/pkg/errors"
	"github.com/matzehuels/cfgview/pkg/layout"
	"github.com/matzehuels/cfgview/pkg/render"
	"github.com/matzehuels/cfgview/pkg/render/nodelink"
	"github.com/matzehuels/cfgview/pkg/render/svg"
	"github.com/matzehuels/cfgview/pkg/session"
)

const (
	rendererSVG      = "svg"      // direct SVG of the settled frame
	rendererNodelink = "nodelink" // Graphviz drawing pinned to the settled frame
	defaultPadding   = 40
	defaultScale     = 2
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	layoutOpts
	output     string   // output file (single renderer/format) or base path
	renderers  []string // "svg", "nodelink"
	formats    []render.Format
	selectNode int     // node to mark, or -1
	relayout   bool    // let Graphviz place nodes instead of pinning them
	fullLabels bool    // nodelink: untruncated labels
	tooltips   bool    // svg: hover tooltips
	padding    float64 // svg: padding around the fitted drawing
	scale      float64 // png scale
	noCache    bool
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var renderersStr, formatsStr string
	opts := renderOpts{selectNode: -1, padding: defaultPadding, scale: defaultScale}

	cmd := &cobra.Command{
		Use:   "render <input.json>",
		Short: "Render the settled layout to SVG, PDF, PNG, DOT or JSON",
		Long: `Render the settled layout to SVG, PDF, PNG, DOT or JSON.

The svg renderer draws the frame directly: role-colored boxes, START/END badges,
arrows per edge kind and T/F labels on branches. The nodelink renderer exports
the frame to Graphviz with every node pinned at its simulated position (or laid
out by Graphviz with --relayout). PDF and PNG require librsvg. json writes the
frame together with the node attributes.

Results are cached locally for faster subsequent runs.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeSingleInput,
		RunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if opts.renderers, err = parseRenderers(renderersStr); err != nil {
				return err
			}
			if opts.formats, err = parseFormats(formatsStr); err != nil {
				return err
			}
			return c.runRender(cmd.Context(), args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single renderer/format) or base path (multiple)")
	cmd.Flags().StringVarP(&renderersStr, "type", "t", "", "renderer(s): svg (default), nodelink (comma-separated)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), pdf, png, dot, json (comma-separated)")
	cmd.Flags().IntVar(&opts.selectNode, "select", opts.selectNode, "highlight this node")
	cmd.Flags().BoolVar(&opts.relayout, "relayout", false, "let Graphviz place nodes (nodelink)")
	cmd.Flags().BoolVar(&opts.fullLabels, "full-labels", false, "do not truncate labels (nodelink)")
	cmd.Flags().BoolVar(&opts.tooltips, "tooltips", true, "embed hover tooltips (svg)")
	cmd.Flags().Float64Var(&opts.padding, "padding", opts.padding, "padding around the drawing (svg)")
	cmd.Flags().Float64Var(&opts.scale, "scale", opts.scale, "PNG scale factor")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	opts.register(cmd)
	_ = cmd.RegisterFlagCompletionFunc("format", completeFormats)

	return cmd
}

// parseRenderers parses the --type flag. If empty, defaults to ["svg"].
func parseRenderers(s string) ([]string, error) {
	if s == "" {
		return []string{rendererSVG}, nil
	}
	parts := strings.Split(s, ",")
	for i, p := range parts {
		p = strings.TrimSpace(p)
		if p != rendererSVG && p != rendererNodelink {
			return nil, errors.Validation("type", "unknown renderer %q (want svg or nodelink)", p)
		}
		parts[i] = p
	}
	return parts, nil
}

// parseFormats parses the --format flag. If empty, defaults to [svg].
func parseFormats(s string) ([]render.Format, error) {
	if s == "" {
		return []render.Format{render.FormatSVG}, nil
	}
	var out []render.Format
	for _, p := range strings.Split(s, ",") {
		f, err := render.ParseFormat(p)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, nil
}

// basePath derives the base output path from the output flag and the input
// argument, stripping a known format extension.
func basePath(output, input string) string {
	if output != "" {
		ext := filepath.Ext(output)
		if _, err := render.ParseFormat(strings.TrimPrefix(ext, ".")); err == nil {
			return strings.TrimSuffix(output, ext)
		}
		return output
	}
	switch {
	case input == "-":
		return "cfg"
	case strings.HasPrefix(input, samplePrefix):
		return strings.TrimPrefix(input, samplePrefix)
	}
	return strings.TrimSuffix(input, filepath.Ext(input))
}

// outputPath names the file for one renderer/format pair.
func outputPath(base string, renderer string, f render.Format, multipleRenderers bool) string {
	if multipleRenderers {
		return base + "_" + renderer + f.Ext()
	}
	return base + f.Ext()
}

// errSkipFormat marks a renderer/format combination that does not exist.
var errSkipFormat = stderrors.New("skip unsupported format")

func (c *CLI) runRender(ctx context.Context, input string, opts *renderOpts) error {
	conf, err := c.loadConfig()
	if err != nil {
		return err
	}
	sess, err := c.openSession(ctx, input, opts.details)
	if err != nil {
		return err
	}
	defer sess.Close()

	if opts.selectNode >= 0 {
		if _, err := sess.Click(opts.selectNode); err != nil {
			return err
		}
	}

	spinner := newSpinnerWithContext(ctx, "Settling layout...")
	spinner.Start()
	snap, err := opts.settle(sess)
	spinner.Stop()
	if err != nil {
		return err
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}

	artifacts, keyer := c.newCache(conf, opts.noCache)
	defer artifacts.Close()
	raw, err := sess.RawInput()
	if err != nil {
		return err
	}
	inputHash := cache.Hash(raw)

	base := basePath(opts.output, input)
	single := len(opts.renderers) == 1 && len(opts.formats) == 1
	written, hits := 0, 0
	for _, renderer := range opts.renderers {
		for _, f := range opts.formats {
			key := keyer.ArtifactKey(inputHash, c.artifactKey(sess, snap, renderer, f, opts))
			data, hit, err := cache.Fetch(ctx, artifacts, "artifact", key, conf.Cache.TTL.Duration, func() ([]byte, error) {
				return renderArtifact(ctx, sess, snap, renderer, f, opts)
			})
			if stderrors.Is(err, errSkipFormat) {
				c.Logger.Debugf("Skipping %s/%s (unsupported combination)", renderer, f)
				continue
			}
			if err != nil {
				return fmt.Errorf("%s/%s: %w", renderer, f, err)
			}

			path := outputPath(base, renderer, f, len(opts.renderers) > 1)
			if single && opts.output != "" {
				path = opts.output
			}
			if err := os.WriteFile(path, data, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", path, err)
			}
			c.Logger.Debugf("Generated %s: %d bytes", path, len(data))
			if written == 0 {
				c.printSuccess("Rendered %s", render.Title(sess.Graph().Name()))
			}
			c.printFile(path)
			written++
			if hit {
				hits++
			}
		}
	}
	if written == 0 {
		return errors.New(errors.ErrCodeUnsupported, "no renderer supports the requested formats")
	}
	c.printStats(len(snap.Nodes), len(snap.Edges), hits == written)
	return nil
}

// artifactKey collects every option that changes the rendered bytes.
func (c *CLI) artifactKey(sess *session.Session, snap layout.Snapshot, renderer string, f render.Format, opts *renderOpts) cache.ArtifactKeyOpts {
	k := cache.ArtifactKeyOpts{
		Renderer:    renderer,
		Format:      string(f),
		ShowDetails: sess.ShowDetails(),
		Ticks:       snap.Tick,
		Scale:       opts.scale,
		Layout: cache.HashValue(struct {
			Nodes      []layout.NodePosition
			Padding    float64
			Relayout   bool
			FullLabels bool
			Tooltips   bool
		}{snap.Nodes, opts.padding, opts.relayout, opts.fullLabels, opts.tooltips}),
	}
	if id, ok := sess.Marked(); ok {
		k.Marked = &id
	}
	return k
}

// scene is the json output: the frame plus what is needed to draw it.
type scene struct {
	Name        string                    `json:"name"`
	ShowDetails bool                      `json:"showDetails"`
	Frame       layout.Snapshot           `json:"frame"`
	Attributes  map[int]render.Attributes `json:"attributes"`
	Selected    *int                      `json:"selected,omitempty"`
}

// renderArtifact dispatches to the renderer. It returns errSkipFormat for
// combinations that do not exist (svg/dot, nodelink/json).
func renderArtifact(ctx context.Context, sess *session.Session, snap layout.Snapshot, renderer string, f render.Format, opts *renderOpts) ([]byte, error) {
	var marked *int
	if id, ok := sess.Marked(); ok {
		marked = &id
	}
	switch renderer {
	case rendererNodelink:
		if f == render.FormatJSON {
			return nil, errSkipFormat
		}
		nl := nodelink.Options{Relayout: opts.relayout, FullLabels: opts.fullLabels, Marked: marked}
		return nodelink.Render(ctx, sess.Graph(), snap, nl, f, opts.scale)
	case rendererSVG:
		switch f {
		case render.FormatDOT:
			return nil, errSkipFormat
		case render.FormatJSON:
			var buf strings.Builder
			if err := writeJSON(&buf, scene{
				Name:        sess.Graph().Name(),
				ShowDetails: sess.ShowDetails(),
				Frame:       snap,
				Attributes:  sess.Attributes(),
				Selected:    marked,
			}); err != nil {
				return nil, err
			}
			return []byte(buf.String()), nil
		}
		svgOpts := []svg.Option{svg.WithTitle(render.Title(sess.Graph().Name())), svg.WithFit(opts.padding)}
		if marked != nil {
			svgOpts = append(svgOpts, svg.WithMarked(*marked))
		}
		if opts.tooltips {
			svgOpts = append(svgOpts, svg.WithTooltips(tooltips(sess)))
		}
		return render.Convert(ctx, svg.Render(snap, sess.Attributes(), svgOpts...), f, opts.scale)
	default:
		return nil, fmt.Errorf("unknown renderer: %s", renderer)
	}
}

// tooltips builds the hover text of every visible node.
func tooltips(sess *session.Session) map[int]string {
	tips := make(map[int]string)
	for _, id := range sess.View().NodeIDs() {
		if tip, err := sess.Hover(id); err == nil {
			tips[id] = tip.String()
		}
	}
	sess.Unhover()
	return tips
}
