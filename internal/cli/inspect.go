package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/cfgview/pkg/cfg"
	"github.com/matzehuels/cfgview/pkg/render"
)

const inspectTextLimit = 40

// graphSummary is the JSON output of inspect.
type graphSummary struct {
	Name  string              `json:"name"`
	Nodes int                 `json:"nodes"`
	Edges map[string]int      `json:"edges"`
	Roles map[cfg.Role]int    `json:"roles"`
	List  []nodeSummary       `json:"list"`
	Attrs []render.Attributes `json:"attributes,omitempty"`
}

type nodeSummary struct {
	ID          int      `json:"id"`
	Role        cfg.Role `json:"role"`
	Text        string   `json:"text"`
	In          int      `json:"in"`
	Out         int      `json:"out"`
	SubNodes    []int    `json:"subNodes,omitempty"`
	Expressions []string `json:"expressions,omitempty"`
}

// inspectCommand creates the inspect command.
func (c *CLI) inspectCommand() *cobra.Command {
	var (
		details bool
		asJSON  bool
	)
	cmd := &cobra.Command{
		Use:   "inspect <input.json>",
		Short: "Summarize a control-flow graph",
		Long: `Summarize a control-flow graph: node roles, edge kinds and one row per node
with its degree, sub-nodes and described expressions. Detail nodes are listed
with --details.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeSingleInput,
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := loadGraph(args[0])
			if err != nil {
				return err
			}
			s := summarizeGraph(g, details)
			if asJSON {
				return writeJSON(c.Out, s)
			}
			c.printSummary(s)
			return nil
		},
	}
	cmd.Flags().BoolVar(&details, "details", false, "list detail nodes too")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the summary as JSON")
	return cmd
}

func summarizeGraph(g *cfg.Graph, details bool) graphSummary {
	s := graphSummary{
		Name:  g.Name(),
		Nodes: g.NodeCount(),
		Edges: make(map[string]int),
		Roles: g.RoleCounts(),
	}
	for _, e := range g.Edges() {
		s.Edges[e.Kind.String()]++
	}
	v := g.View(details)
	for _, n := range v.Nodes() {
		ns := nodeSummary{
			ID:       n.ID,
			Role:     n.Role,
			Text:     n.Text,
			In:       g.InDegree(n.ID),
			Out:      g.OutDegree(n.ID),
			SubNodes: n.SubNodes,
		}
		if n.Description != nil {
			ns.Expressions = n.Description.Expressions
		}
		s.List = append(s.List, ns)
		s.Attrs = append(s.Attrs, render.NodeAttributes(n))
	}
	return s
}

func (c *CLI) printSummary(s graphSummary) {
	fmt.Fprintln(c.Out, StyleTitle.Render(s.Name))
	c.printKeyValue("nodes", strconv.Itoa(s.Nodes))
	roles := make([]string, 0, 4)
	for _, r := range []cfg.Role{cfg.RoleStart, cfg.RoleMain, cfg.RoleEnd, cfg.RoleDetail} {
		if n := s.Roles[r]; n > 0 {
			roles = append(roles, roleStyle(r).Render(fmt.Sprintf("%d %s", n, r)))
		}
	}
	c.printKeyValue("roles", strings.Join(roles, ", "))
	kinds := make([]string, 0, 4)
	for _, k := range []string{cfg.KindSequential, cfg.KindTrue, cfg.KindFalse, cfg.KindDetail} {
		if n := s.Edges[k]; n > 0 {
			kinds = append(kinds, fmt.Sprintf("%d %s", n, k))
		}
	}
	c.printKeyValue("edges", strings.Join(kinds, ", "))
	c.printNewline()

	rows := make([][]string, 0, len(s.List))
	for _, n := range s.List {
		text, _ := render.Truncate(n.Text, inspectTextLimit)
		rows = append(rows, []string{
			strconv.Itoa(n.ID),
			n.Role.String(),
			text,
			strconv.Itoa(n.In),
			strconv.Itoa(n.Out),
			joinInts(n.SubNodes),
			strings.Join(n.Expressions, ", "),
		})
	}
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("ID", "Role", "Text", "In", "Out", "Sub", "Expressions").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if col == 1 && row < len(s.List) {
				return roleStyle(s.List[row].Role)
			}
			return lipgloss.NewStyle()
		})
	fmt.Fprintln(c.Out, t.Render())
}

func joinInts(ids []int) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}
	return strings.Join(parts, ",")
}
