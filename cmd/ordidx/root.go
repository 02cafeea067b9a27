package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/huynhanx03/go-orderedindex/pkg/index"
	"github.com/huynhanx03/go-orderedindex/pkg/logger"
	"github.com/huynhanx03/go-orderedindex/pkg/settings"
)

type app struct {
	configPath string
	logLevel   string
	order      int

	cfg settings.Config
	log *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:          "ordidx",
		Short:        "In-memory ordered index backed by a B-Tree",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			if a.log != nil {
				_ = a.log.Sync()
			}
		},
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&a.configPath, "config", "c", "", "path to a YAML config file")
	flags.StringVar(&a.logLevel, "log-level", "", "override logger.log_level")
	flags.IntVar(&a.order, "order", 0, "override index.order")

	root.AddCommand(newReplCmd(a), newServeCmd(a), newBenchCmd(a))
	return root
}

func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := settings.Load(a.configPath)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("log-level") {
		cfg.Logger.LogLevel = a.logLevel
	}
	if cmd.Flags().Changed("order") {
		cfg.Index.Order = a.order
	}
	if err := settings.Validate(cfg); err != nil {
		return err
	}

	log, err := logger.NewLogger(cfg.Logger)
	if err != nil {
		return err
	}
	a.cfg, a.log = cfg, log
	return nil
}

func (a *app) newIndex() (*index.Index[string, string], error) {
	return index.New[string, string](a.cfg.Index, a.log.Named("index"))
}
