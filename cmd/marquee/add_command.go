package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"marquee/internal/catalog"
	"marquee/internal/shows"
)

func newAddCommand(ctx *commandContext) *cobra.Command {
	var (
		name       string
		theater    string
		wishlist   bool
		date       string
		rating     int
		notes      string
		enrichFlag bool
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a show to the catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			if name == "" {
				return fmt.Errorf("--name is required")
			}
			if date != "" {
				if _, err := time.Parse("2006-01-02", date); err != nil {
					return fmt.Errorf("--date must be YYYY-MM-DD: %w", err)
				}
			}
			if rating != 0 && (rating < 1 || rating > 10) {
				return fmt.Errorf("--rating must be between 1 and 10")
			}

			app, cleanup, err := ctx.openApp()
			if err != nil {
				return err
			}
			defer cleanup()

			status := catalog.StatusSeen
			if wishlist {
				status = catalog.StatusWishlist
			}

			var opts []shows.AddOption
			if cmd.Flags().Changed("enrich") {
				opts = append(opts, shows.WithAutoEnrich(enrichFlag))
			}

			id, outcome, err := app.manager.AddShow(cmd.Context(), catalog.NewShow{
				ShowName:      name,
				TheaterName:   theater,
				SeenStatus:    status,
				DateAttended:  date,
				Rating:        rating,
				PersonalNotes: notes,
			}, opts...)
			if err != nil {
				return err
			}

			switch outcome {
			case shows.OutcomeDuplicate:
				fmt.Fprintf(cmd.OutOrStdout(), "Already cataloged as #%d\n", id)
			default:
				fmt.Fprintf(cmd.OutOrStdout(), "Added #%d: %s\n", id, name)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Show name (required)")
	cmd.Flags().StringVar(&theater, "theater", "", "Theater name")
	cmd.Flags().BoolVar(&wishlist, "wishlist", false, "Add to the wishlist instead of the seen list")
	cmd.Flags().StringVar(&date, "date", "", "Date attended (YYYY-MM-DD)")
	cmd.Flags().IntVar(&rating, "rating", 0, "Personal rating (1-10)")
	cmd.Flags().StringVar(&notes, "notes", "", "Personal notes")
	cmd.Flags().BoolVar(&enrichFlag, "enrich", true, "Enrich the show after adding (overrides the config default)")
	return cmd
}
