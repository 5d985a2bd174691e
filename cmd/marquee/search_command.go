package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"marquee/internal/catalog"
)

func newSearchCommand(ctx *commandContext) *cobra.Command {
	var (
		name         string
		theater      string
		status       string
		genre        string
		category     string
		userCategory string
		ratingMin    int
		ratingMax    int
		sortBy       string
		order        string
	)

	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search the catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, cleanup, err := ctx.openCatalog()
			if err != nil {
				return err
			}
			defer cleanup()

			filters := catalog.Filters{
				ShowName:     name,
				TheaterName:  theater,
				SeenStatus:   catalog.Status(status),
				Genre:        genre,
				Category:     category,
				UserCategory: userCategory,
				RatingMin:    ratingMin,
				RatingMax:    ratingMax,
				SortBy:       sortBy,
				SortOrder:    order,
			}

			entries, err := app.manager.SearchShows(cmd.Context(), filters)
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No matching shows")
				return nil
			}

			headers, rows, aligns := showTableRows(entries)
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(cmd.OutOrStdout(), headers, rows, aligns))
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Substring match on show name")
	cmd.Flags().StringVar(&theater, "theater", "", "Substring match on theater name")
	cmd.Flags().StringVar(&status, "status", "", "Filter by status: seen or wishlist")
	cmd.Flags().StringVar(&genre, "genre", "", "Substring match on genre")
	cmd.Flags().StringVar(&category, "category", "", "Substring match on provider categories")
	cmd.Flags().StringVar(&userCategory, "user-category", "", "Substring match on personal categories")
	cmd.Flags().IntVar(&ratingMin, "rating-min", 0, "Minimum rating")
	cmd.Flags().IntVar(&ratingMax, "rating-max", 0, "Maximum rating")
	cmd.Flags().StringVar(&sortBy, "sort-by", "", "Sort by: name, theater, rating, or date")
	cmd.Flags().StringVar(&order, "order", "", "Sort order: asc or desc")
	return cmd
}
