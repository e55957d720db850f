package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/cfgview/pkg/buildinfo"
)

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "cfgview explores control-flow graphs with a live force layout",
		Long: `cfgview loads control-flow graphs exported by a static analyzer, lays them out
with a force-directed simulation and lets you inspect the abstract state attached
to each node.`,
		Version:      buildinfo.Get().Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default: "+appName+"/config.toml under $XDG_CONFIG_HOME)")

	root.AddCommand(c.validateCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.selectCommand())
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.viewCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.sampleCommand())
	root.AddCommand(c.cacheCommand())

	return root
}
