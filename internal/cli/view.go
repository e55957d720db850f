package cli

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

// viewCommand creates the interactive viewer command.
func (c *CLI) viewCommand() *cobra.Command {
	var details bool
	cmd := &cobra.Command{
		Use:   "view <input.json>",
		Short: "Explore a control-flow graph interactively",
		Long: `Explore a control-flow graph interactively in the terminal.

The layout animates live. Tab walks the nodes and shows their tooltip, enter
opens the details panel of the node under the cursor, arrow keys drag it and
space releases it, d toggles detail nodes.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeSingleInput,
		RunE: func(cmd *cobra.Command, args []string) error {
			conf, err := c.loadConfig()
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("details") {
				details = conf.Viewer.ShowDetails
			}
			sess, err := c.openSession(cmd.Context(), args[0], details)
			if err != nil {
				return err
			}
			defer sess.Close()

			p := tea.NewProgram(NewViewerModel(sess), tea.WithAltScreen(), tea.WithContext(cmd.Context()))
			_, err = p.Run()
			return err
		},
	}
	cmd.Flags().BoolVar(&details, "details", false, "start with detail nodes shown")
	return cmd
}
