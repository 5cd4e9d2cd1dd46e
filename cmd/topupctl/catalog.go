package main

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"tokotopup/internal/atlantic"
	"tokotopup/internal/catalog"
	"tokotopup/internal/services"
)

func catalogCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Query the supplier price list as the storefront shows it",
	}
	cmd.AddCommand(catalogCategoriesCmd(opts))
	cmd.AddCommand(catalogProductsCmd(opts))
	return cmd
}

func newCatalog(opts *options) *services.CatalogService {
	cfg := opts.config()
	client := atlantic.NewClient(atlantic.Config{
		BaseURL: cfg.AtlanticBase,
		APIKey:  cfg.AtlanticKey,
		Timeout: cfg.UpstreamTimeout,
	})
	return services.NewCatalogService(client, nil, services.CatalogConfig{
		PriceListType: cfg.PriceListType,
		ProfitPercent: cfg.ProfitPercent,
	})
}

func catalogCategoriesCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List categories in display order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			meta := newCatalog(opts).Meta(context.Background())

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "SLUG\tNAME\tCOUNT")
			for _, c := range meta.Categories {
				fmt.Fprintf(w, "%s\t%s\t%d\n", c.Slug, c.Name, c.Count)
			}
			return w.Flush()
		},
	}
}

func catalogProductsCmd(opts *options) *cobra.Command {
	var provider, category string

	cmd := &cobra.Command{
		Use:   "products",
		Short: "List products, cheapest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			products := newCatalog(opts).Products(context.Background(), provider, category)

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "CODE\tNAME\tPROVIDER\tPRICE")
			for _, p := range products {
				fmt.Fprintf(w, "%s\t%s\t%s\t%.0f\n",
					catalog.String(p["code"]),
					catalog.String(catalog.First(p, "layanan", "name")),
					catalog.String(p["provider"]),
					catalog.ItemPrice(p),
				)
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVarP(&provider, "provider", "p", "", "Provider slug or name")
	cmd.Flags().StringVarP(&category, "category", "c", "", "Category slug or name")

	return cmd
}
