package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"tokotopup/internal/clock"
	"tokotopup/internal/repositories"
	"tokotopup/internal/services"
)

func ordersCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "orders",
		Short: "Inspect locally stored orders",
	}
	cmd.AddCommand(ordersListCmd(opts))
	cmd.AddCommand(ordersPruneCmd(opts))
	return cmd
}

func openDeposits(opts *options) (*services.DepositService, error) {
	cfg := opts.config()
	repo, err := repositories.OpenOrderRepository(cfg.OrderStore, cfg.OrdersFile, cfg.DatabaseDSN)
	if err != nil {
		return nil, err
	}
	return services.NewDepositService(nil, repo, nil, clock.NewSystem(), services.DepositConfig{OrderTTL: cfg.OrderTTL}), nil
}

func ordersListCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored orders",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			deposits, err := openDeposits(opts)
			if err != nil {
				return err
			}
			orders, err := deposits.ListOrders()
			if err != nil {
				return err
			}
			if len(orders) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No orders.")
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tREFF\tNOMINAL\tMETHOD\tSTATUS\tEXPIRES")
			for _, o := range orders {
				expires := "-"
				if !o.ExpiredAt.IsZero() {
					expires = o.ExpiredAt.Format(time.RFC3339)
				}
				fmt.Fprintf(w, "%s\t%s\t%.0f\t%s\t%s\t%s\n", o.ID, o.ReffID, o.Nominal, o.Method, o.Status, expires)
			}
			return w.Flush()
		},
	}
}

func ordersPruneCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "prune",
		Short: "Remove pending orders past their expiry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			deposits, err := openDeposits(opts)
			if err != nil {
				return err
			}
			removed, err := deposits.PruneExpired()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d expired orders.\n", removed)
			return nil
		},
	}
}
