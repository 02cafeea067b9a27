package main

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/huynhanx03/go-orderedindex/pkg/cli"
)

func newReplCmd(a *app) *cobra.Command {
	var seed int
	cmd := &cobra.Command{
		Use:   "repl",
		Short: "Start an interactive shell over a fresh index",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			idx, err := a.newIndex()
			if err != nil {
				return err
			}
			if seed > 0 {
				cli.Seed(idx, seed)
			}
			shell := cli.NewCli(cmd.InOrStdin(), cmd.OutOrStdout(), idx, cli.Options{
				Prompt: true,
				Color:  !color.NoColor,
			})
			return shell.Start()
		},
	}
	cmd.Flags().IntVar(&seed, "seed", 0, "insert n random entries before starting")
	return cmd
}
