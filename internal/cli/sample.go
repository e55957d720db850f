package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/cfgview/pkg/cfg"
)

// sampleCommand creates the sample command.
func (c *CLI) sampleCommand() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "sample [name]",
		Short: "List or print the built-in sample graphs",
		Long: `List or print the built-in sample graphs.

Without a name the available samples are listed. With a name the sample's JSON
is written to stdout or --output. Every command that takes an input also accepts
"sample:<name>" directly.`,
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: cfg.SampleNames(),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				for _, name := range cfg.SampleNames() {
					in, err := cfg.Sample(name)
					if err != nil {
						return err
					}
					fmt.Fprintf(c.Out, "%s  %s\n", StyleNumber.Render(fmt.Sprintf("%-12s", name)), StyleDim.Render(in.Name))
				}
				return nil
			}
			data, err := cfg.SampleJSON(args[0])
			if err != nil {
				return err
			}
			if output == "" {
				_, err := c.Out.Write(data)
				return err
			}
			if err := os.WriteFile(output, data, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}
			c.printSuccess("Wrote sample %s", args[0])
			c.printFile(output)
			c.printNewline()
			c.printNextStep("Explore it", appName+" view "+output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	return cmd
}
