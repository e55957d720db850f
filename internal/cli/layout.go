package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/cfgview/pkg/errors"
	"github.com/matzehuels/cfgview/pkg/layout"
	"github.com/matzehuels/cfgview/pkg/session"
)

// layoutOpts holds the flags shared by layout and render.
type layoutOpts struct {
	details   bool
	maxFrames int
	frameDT   time.Duration
	drags     []string // "id=x,y"
}

func (o *layoutOpts) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&o.details, "details", false, "show detail nodes")
	cmd.Flags().IntVar(&o.maxFrames, "max-frames", defaultMaxFrames, "frames to run before giving up on settling")
	cmd.Flags().DurationVar(&o.frameDT, "frame", 16*time.Millisecond, "simulated time per frame")
	cmd.Flags().StringArrayVar(&o.drags, "drag", nil, "drag node id to x,y before settling, as id=x,y (repeatable)")
}

// dragTarget is a parsed --drag flag.
type dragTarget struct {
	id int
	p  layout.Point
}

func parseDrag(s string) (dragTarget, error) {
	id, at, ok := strings.Cut(s, "=")
	if !ok {
		return dragTarget{}, errors.Validation("drag", "want id=x,y, got %q", s)
	}
	xs, ys, ok := strings.Cut(at, ",")
	if !ok {
		return dragTarget{}, errors.Validation("drag", "want id=x,y, got %q", s)
	}
	n, err := strconv.Atoi(strings.TrimSpace(id))
	if err != nil {
		return dragTarget{}, errors.Validation("drag", "invalid node id %q", id)
	}
	x, errX := strconv.ParseFloat(strings.TrimSpace(xs), 64)
	y, errY := strconv.ParseFloat(strings.TrimSpace(ys), 64)
	if errX != nil || errY != nil {
		return dragTarget{}, errors.Validation("drag", "invalid position %q", at)
	}
	return dragTarget{id: n, p: layout.Point{X: x, Y: y}}, nil
}

// dragFrames is how long a scripted drag holds the node before releasing it.
const dragFrames = 30

// settle runs the session to rest, replaying scripted drags first. Each drag holds
// the node at its target for a few frames and then releases it.
func (o *layoutOpts) settle(sess *session.Session) (layout.Snapshot, error) {
	for _, s := range o.drags {
		d, err := parseDrag(s)
		if err != nil {
			return layout.Snapshot{}, err
		}
		if err := sess.DragStart(d.id, d.p); err != nil {
			return layout.Snapshot{}, err
		}
		for i := 0; i < dragFrames; i++ {
			sess.Advance(o.frameDT)
		}
		if err := sess.DragEnd(d.id); err != nil {
			return layout.Snapshot{}, err
		}
	}
	return sess.Settle(o.frameDT, o.maxFrames), nil
}

// layoutCommand creates the layout command.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output string
		opts   layoutOpts
	)
	cmd := &cobra.Command{
		Use:   "layout <input.json>",
		Short: "Run the force layout headless and print the settled frame",
		Long: `Run the force layout headless and print the settled frame as JSON.

The layout advances a simulated clock until the graph comes to rest (or
--max-frames pass). Node positions, edge segments and branch labels are
written to stdout or to --output. Use --drag to move nodes before settling
the same way a pointer drag would.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeSingleInput,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLayout(cmd.Context(), args[0], output, &opts)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	opts.register(cmd)
	return cmd
}

func (c *CLI) runLayout(ctx context.Context, input, output string, opts *layoutOpts) error {
	sess, err := c.openSession(ctx, input, opts.details)
	if err != nil {
		return err
	}
	defer sess.Close()

	prog := newProgress(c.Logger)
	snap, err := opts.settle(sess)
	if err != nil {
		return err
	}
	if !snap.Settled {
		c.Logger.Warn("layout did not settle", "frames", opts.maxFrames, "alpha", snap.Alpha)
	}
	prog.done(fmt.Sprintf("Layout ran %d ticks", snap.Tick))

	if output == "" {
		return writeJSON(c.Out, snap)
	}
	f, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("create %s: %w", output, err)
	}
	defer f.Close()
	if err := writeJSON(f, snap); err != nil {
		return fmt.Errorf("write %s: %w", output, err)
	}

	c.printSuccess("Layout complete")
	c.printFile(output)
	c.printStats(len(snap.Nodes), len(snap.Edges), false)
	c.printNewline()
	c.printNextStep("Render", appName+" render "+input)
	return nil
}
