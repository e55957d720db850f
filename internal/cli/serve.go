package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/cfgview/pkg/server"
	"github.com/matzehuels/cfgview/pkg/session/store"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr       string
		backend    string
		sweepEvery time.Duration
		noCache    bool
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve viewer sessions over an HTTP API",
		Long: `Serve viewer sessions over an HTTP API.

Clients create a session by posting input JSON to /api/v1/sessions and then
step its layout, drag nodes, toggle details and select nodes through the
session's routes. Session inputs are kept in the configured store (memory,
file, redis or mongo) so a restarted server rebuilds them on first use.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			conf, err := c.loadConfig()
			if err != nil {
				return err
			}
			if addr != "" {
				conf.Server.Addr = addr
			}
			if backend != "" {
				conf.Server.Store = backend
			}
			return c.runServe(cmd.Context(), sweepEvery, noCache)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().StringVar(&backend, "store", "", "session store: memory, file, redis or mongo")
	cmd.Flags().DurationVar(&sweepEvery, "sweep", time.Minute, "interval between idle-session sweeps")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the render cache")
	return cmd
}

func (c *CLI) runServe(ctx context.Context, sweepEvery time.Duration, noCache bool) error {
	conf, err := c.loadConfig()
	if err != nil {
		return err
	}
	sc := conf.StoreConfig()
	st, err := store.OpenWithRetry(ctx, sc)
	if err != nil {
		return fmt.Errorf("open %s session store: %w", sc.Backend, err)
	}
	defer st.Close()
	c.Logger.Info("session store ready", "backend", sc.Backend)

	artifacts, keyer := c.newCache(conf, noCache)
	defer artifacts.Close()

	srv := server.New(st,
		server.WithLogger(c.Logger),
		server.WithTTL(conf.Server.SessionTTL.Duration),
		server.WithSessionOptions(c.sessionOptions(conf, conf.Viewer.ShowDetails)...),
		server.WithCache(artifacts, keyer, conf.Cache.TTL.Duration),
	)
	c.printInfo("Serving on %s", conf.Server.Addr)
	return srv.ListenAndServe(ctx, conf.Server.Addr, sweepEvery)
}
