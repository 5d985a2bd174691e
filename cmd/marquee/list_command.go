package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"marquee/internal/catalog"
)

func newListCommand(ctx *commandContext) *cobra.Command {
	var (
		seen     bool
		wishlist bool
		sortBy   string
		order    string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List cataloged shows",
		RunE: func(cmd *cobra.Command, args []string) error {
			if seen && wishlist {
				return fmt.Errorf("--seen and --wishlist are mutually exclusive")
			}

			app, cleanup, err := ctx.openCatalog()
			if err != nil {
				return err
			}
			defer cleanup()

			filters := catalog.Filters{SortBy: sortBy, SortOrder: order}
			if seen {
				filters.SeenStatus = catalog.StatusSeen
			}
			if wishlist {
				filters.SeenStatus = catalog.StatusWishlist
			}

			entries, err := app.manager.SearchShows(cmd.Context(), filters)
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No shows cataloged")
				return nil
			}

			headers, rows, aligns := showTableRows(entries)
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(cmd.OutOrStdout(), headers, rows, aligns))
			return nil
		},
	}

	cmd.Flags().BoolVar(&seen, "seen", false, "Only shows already attended")
	cmd.Flags().BoolVar(&wishlist, "wishlist", false, "Only wishlist shows")
	cmd.Flags().StringVar(&sortBy, "sort-by", "", "Sort by: name, theater, rating, or date")
	cmd.Flags().StringVar(&order, "order", "", "Sort order: asc or desc")
	return cmd
}
