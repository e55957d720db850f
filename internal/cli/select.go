package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/cfgview/pkg/errors"
	"github.com/matzehuels/cfgview/pkg/selection"
)

// selectCommand creates the select command, which prints the details panel of a node.
func (c *CLI) selectCommand() *cobra.Command {
	var (
		preview int
		all     bool
		asJSON  bool
		tooltip bool
	)
	cmd := &cobra.Command{
		Use:   "select <input.json> <node-id>",
		Short: "Show the abstract state of a node",
		Long: `Show the abstract state of a node: its role, the expressions it evaluates and
the heap, type and value sections of its description. Entries whose key contains
one of the expressions are highlighted. Heap and type sections show --preview
entries and collapse the rest unless --all is given.`,
		Args:              cobra.ExactArgs(2),
		ValidArgsFunction: completeSelect,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[1])
			if err != nil {
				return errors.Validation("node", "invalid node id %q", args[1])
			}
			conf, err := c.loadConfig()
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("preview") {
				preview = conf.Viewer.Preview
			}
			g, err := loadGraph(args[0])
			if err != nil {
				return err
			}

			svc := selection.New(nil, selection.WithPreview(preview), selection.WithLogger(c.Logger))
			svc.Load(g)
			if tooltip {
				tip, err := svc.Hover(id)
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(c.Out, tip)
				}
				fmt.Fprintln(c.Out, tip.String())
				return nil
			}
			v, err := svc.Select(id)
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(c.Out, v)
			}
			fmt.Fprint(c.Out, formatView(v, all))
			return nil
		},
	}
	cmd.Flags().IntVar(&preview, "preview", selection.DefaultPreview, "heap and type entries shown before collapsing (0 shows all)")
	cmd.Flags().BoolVar(&all, "all", false, "list collapsed entries too")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the view as JSON")
	cmd.Flags().BoolVar(&tooltip, "tooltip", false, "print the hover tooltip instead of the details panel")
	return cmd
}

// formatView renders a details panel as styled text.
func formatView(v *selection.View, all bool) string {
	var b strings.Builder
	b.WriteString(StyleTitle.Render(fmt.Sprintf("Node %d", v.NodeID)))
	b.WriteString(" ")
	b.WriteString(roleStyle(v.Role).Render(v.RoleLabel))
	b.WriteString("\n")
	b.WriteString(StyleValue.Render(v.Text))
	b.WriteString("\n")
	if !v.HasDescription {
		b.WriteString(StyleDim.Render("no abstract state recorded for this node"))
		b.WriteString("\n")
		return b.String()
	}
	if len(v.Expressions) > 0 {
		b.WriteString(StyleDim.Render("Expressions: "))
		b.WriteString(StyleHighlight.Render(strings.Join(v.Expressions, ", ")))
		b.WriteString("\n")
	}
	for _, s := range v.Sections {
		b.WriteString("\n")
		title := s.Title
		if h := s.Highlights(); h > 0 {
			title += StyleDim.Render(fmt.Sprintf(" (%d highlighted)", h))
		}
		b.WriteString(StyleNumber.Render(title))
		b.WriteString("\n")
		entries := s.Visible()
		if all {
			entries = s.Entries
		}
		for _, e := range entries {
			line := fmt.Sprintf("  %s: %s", e.Key, e.Display)
			if e.Highlighted {
				b.WriteString(StyleHighlight.Render(line))
			} else {
				b.WriteString(line)
			}
			b.WriteString("\n")
		}
		if !all && s.Overflow > 0 {
			b.WriteString(StyleDim.Render(fmt.Sprintf("  ... and %d more", s.Overflow)))
			b.WriteString("\n")
		}
	}
	return b.String()
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
