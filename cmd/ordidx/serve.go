package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/huynhanx03/go-orderedindex/pkg/cli"
	"github.com/huynhanx03/go-orderedindex/pkg/server"
)

func newServeCmd(a *app) *cobra.Command {
	var (
		seed int
		host string
		port int
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve a fresh index over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := a.cfg.Server
			if cmd.Flags().Changed("host") {
				cfg.Host = host
			}
			if cmd.Flags().Changed("port") {
				cfg.Port = port
			}

			idx, err := a.newIndex()
			if err != nil {
				return err
			}
			if seed > 0 {
				cli.Seed(idx, seed)
				a.log.Info("index seeded", zap.Int("requested", seed), zap.Int("live", idx.Len()))
			}

			return server.New(cfg, idx, a.log.Named("server")).Run(cmd.Context())
		},
	}
	cmd.Flags().IntVar(&seed, "seed", 0, "insert n random entries before serving")
	cmd.Flags().StringVar(&host, "host", "", "override server.host")
	cmd.Flags().IntVar(&port, "port", 0, "override server.port")
	return cmd
}
