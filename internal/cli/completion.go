package cli

import (
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/cfgview/pkg/cfg"
	"github.com/matzehuels/cfgview/pkg/render"
)

// Shell completion uses cobra's built-in "completion" command; the functions here
// teach it about cfgview's arguments.

// completeInput completes an input argument: JSON files plus "sample:<name>".
func completeInput(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if strings.HasPrefix(toComplete, "s") {
		var out []string
		for _, name := range cfg.SampleNames() {
			if c := samplePrefix + name; strings.HasPrefix(c, toComplete) {
				out = append(out, c)
			}
		}
		if len(out) > 0 {
			return out, cobra.ShellCompDirectiveNoFileComp
		}
	}
	return []string{"json"}, cobra.ShellCompDirectiveFilterFileExt
}

// completeSingleInput completes the first argument only.
func completeSingleInput(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return completeInput(cmd, args, toComplete)
}

// completeSelect completes "select <input> <node-id>": node ids come from the
// already typed input, described by their truncated text.
func completeSelect(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	switch len(args) {
	case 0:
		return completeInput(cmd, args, toComplete)
	case 1:
		g, err := loadGraph(args[0])
		if err != nil {
			return nil, cobra.ShellCompDirectiveError
		}
		var out []string
		for _, n := range g.Nodes() {
			id := strconv.Itoa(n.ID)
			if !strings.HasPrefix(id, toComplete) {
				continue
			}
			text, _ := render.Truncate(n.Text, 30)
			out = append(out, id+"\t"+n.Role.String()+": "+text)
		}
		return out, cobra.ShellCompDirectiveNoFileComp
	default:
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
}

// completeFormats completes comma-separated --format values.
func completeFormats(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	prefix := ""
	if i := strings.LastIndex(toComplete, ","); i >= 0 {
		prefix = toComplete[:i+1]
	}
	var out []string
	for _, f := range []render.Format{render.FormatSVG, render.FormatPDF, render.FormatPNG, render.FormatDOT, render.FormatJSON} {
		out = append(out, prefix+string(f))
	}
	return out, cobra.ShellCompDirectiveNoFileComp | cobra.ShellCompDirectiveNoSpace
}
