package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/cfgview/pkg/errors"
)

// validateCommand creates the validate command.
func (c *CLI) validateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <input.json>...",
		Short: "Check that inputs build into control-flow graphs",
		Long: `Check that inputs build into control-flow graphs.

Every input is decoded and built; failures name the offending field, for example
"edges[2].destId: edge references unknown node id 9". Use "-" for stdin and
"sample:<name>" for a built-in sample.`,
		Args:              cobra.MinimumNArgs(1),
		ValidArgsFunction: completeInput,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runValidate(args)
		},
	}
}

func (c *CLI) runValidate(args []string) error {
	failed := 0
	for _, arg := range args {
		g, err := loadGraph(arg)
		if err != nil {
			failed++
			c.printError("%s", arg)
			c.printDetail("%s", errors.UserMessage(err))
			c.Logger.Debug("validation failed", "input", arg, "code", errors.GetCode(err), "field", errors.GetField(err))
			continue
		}
		c.printSuccess("%s", arg)
		c.printStats(g.NodeCount(), g.EdgeCount(), false)
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d inputs invalid", failed, len(args))
	}
	return nil
}
