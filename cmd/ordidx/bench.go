package main

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/huynhanx03/go-orderedindex/pkg/bench"
)

func newBenchCmd(a *app) *cobra.Command {
	var (
		orders   []int
		elements int
		queries  int
		seed     uint64
		asJSON   bool
	)
	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Time inserts and lookups per order against a reference B-Tree",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := a.cfg.Bench
			flags := cmd.Flags()
			if flags.Changed("orders") {
				cfg.Orders = orders
			}
			if flags.Changed("elements") {
				cfg.Elements = elements
			}
			if flags.Changed("queries") {
				cfg.NumQueries = queries
			}
			if flags.Changed("seed") {
				cfg.Seed = seed
			}

			report, err := bench.Run(cmd.Context(), cfg, a.log.Named("bench"))
			if err != nil {
				return err
			}
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(report)
			}
			bench.Print(cmd.OutOrStdout(), report)
			return nil
		},
	}
	cmd.Flags().IntSliceVar(&orders, "orders", nil, "override bench.orders")
	cmd.Flags().IntVar(&elements, "elements", 0, "override bench.elements")
	cmd.Flags().IntVar(&queries, "queries", 0, "override bench.num_queries")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "override bench.seed")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the report as JSON")
	return cmd
}
