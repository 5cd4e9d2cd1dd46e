// Command topupctl inspects and maintains a tokotopup deployment.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"tokotopup/internal/config"
)

var Version = "dev"

func main() {
	if err := newRootCmd(config.Load).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newRootCmd builds the command tree. load supplies the configuration the
// subcommands start from; flags override it.
func newRootCmd(load func() config.Config) *cobra.Command {
	opts := &options{load: load}

	rootCmd := &cobra.Command{
		Use:           "topupctl",
		Short:         "topupctl - operator tool for the top-up storefront",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&opts.store, "store", "", "Order store (file, sqlite, postgres)")
	rootCmd.PersistentFlags().StringVar(&opts.ordersFile, "orders-file", "", "Orders file for the file store")
	rootCmd.PersistentFlags().StringVar(&opts.dsn, "dsn", "", "Database DSN for the sql stores")

	rootCmd.AddCommand(ordersCmd(opts))
	rootCmd.AddCommand(catalogCmd(opts))
	rootCmd.AddCommand(hashPasswordCmd())

	return rootCmd
}

type options struct {
	load       func() config.Config
	store      string
	ordersFile string
	dsn        string
}

func (o *options) config() config.Config {
	cfg := o.load()
	if o.store != "" {
		cfg.OrderStore = o.store
	}
	if o.ordersFile != "" {
		cfg.OrdersFile = o.ordersFile
	}
	if o.dsn != "" {
		cfg.DatabaseDSN = o.dsn
	}
	return cfg
}
